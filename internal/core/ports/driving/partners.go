package driving

import "github.com/custodia-labs/edisort/internal/core/domain"

// PartnerService exposes the active trading partner table.
type PartnerService interface {
	// Profiles returns the active profiles in table order.
	Profiles() []domain.PartnerProfile

	// Check loads and validates a partner file without activating it.
	// Returns the number of profiles it defines.
	Check(path string) (int, error)
}
