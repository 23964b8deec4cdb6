package services

import (
	"fmt"

	"github.com/custodia-labs/edisort/internal/core/domain"
	"github.com/custodia-labs/edisort/internal/core/ports/driven"
	"github.com/custodia-labs/edisort/internal/core/ports/driving"
	"github.com/custodia-labs/edisort/internal/partners"
)

// Ensure PartnerService implements the interface.
var _ driving.PartnerService = (*PartnerService)(nil)

// PartnerSourceFactory opens a partner file.
type PartnerSourceFactory func(path string) driven.PartnerSource

// PartnerService exposes the active partner table.
type PartnerService struct {
	table *partners.Table
	open  PartnerSourceFactory
}

// NewPartnerService creates a partner service over the active table.
// open is used by Check to read candidate partner files.
func NewPartnerService(table *partners.Table, open PartnerSourceFactory) *PartnerService {
	return &PartnerService{
		table: table,
		open:  open,
	}
}

// LoadTable builds the partner table from source, or from the built-in
// defaults when source is nil. Duplicate sender ids abort the load.
func LoadTable(source driven.PartnerSource) (*partners.Table, error) {
	if source == nil {
		return partners.DefaultTable()
	}
	profiles, err := source.Load()
	if err != nil {
		return nil, fmt.Errorf("load partners: %w", err)
	}
	return partners.NewTable(profiles)
}

// Profiles returns the active profiles in table order.
// Returns nil when no table could be loaded.
func (s *PartnerService) Profiles() []domain.PartnerProfile {
	if s.table == nil {
		return nil
	}
	return s.table.Profiles()
}

// Check loads and validates a partner file without activating it.
func (s *PartnerService) Check(path string) (int, error) {
	if s.open == nil {
		return 0, fmt.Errorf("%w: no partner file reader configured", domain.ErrInvalidInput)
	}
	table, err := LoadTable(s.open(path))
	if err != nil {
		return 0, err
	}
	return table.Len(), nil
}
