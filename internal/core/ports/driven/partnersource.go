package driven

import "github.com/custodia-labs/edisort/internal/core/domain"

// PartnerSource loads trading partner profiles.
// The order of the returned profiles is the table order.
type PartnerSource interface {
	Load() ([]domain.PartnerProfile, error)
}
