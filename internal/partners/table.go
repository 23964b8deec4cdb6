package partners

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/edisort/internal/core/domain"
)

// Table maps interchange sender ids to partner profiles.
// It is immutable after construction and safe to share between goroutines.
type Table struct {
	profiles []domain.PartnerProfile
	bySender map[string]int
}

// NewTable builds a table from profiles, keeping their order.
// It fails with domain.ErrDuplicateSenderID when two profiles share a sender
// id, and with domain.ErrInvalidPartner when a profile is incomplete.
func NewTable(profiles []domain.PartnerProfile) (*Table, error) {
	t := &Table{
		profiles: make([]domain.PartnerProfile, 0, len(profiles)),
		bySender: make(map[string]int, len(profiles)),
	}

	for _, p := range profiles {
		p.SenderID = strings.TrimSpace(p.SenderID)
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if prev, ok := t.bySender[p.SenderID]; ok {
			return nil, fmt.Errorf("%w: %s claimed by %s and %s",
				domain.ErrDuplicateSenderID, p.SenderID,
				t.profiles[prev].DisplayName(), p.DisplayName())
		}
		t.bySender[p.SenderID] = len(t.profiles)
		t.profiles = append(t.profiles, clone(p))
	}

	return t, nil
}

// Lookup returns the profile registered for senderID.
func (t *Table) Lookup(senderID string) (domain.PartnerProfile, bool) {
	idx, ok := t.bySender[senderID]
	if !ok {
		return domain.PartnerProfile{}, false
	}
	return clone(t.profiles[idx]), true
}

// Profiles returns a copy of all profiles in table order.
func (t *Table) Profiles() []domain.PartnerProfile {
	out := make([]domain.PartnerProfile, len(t.profiles))
	for i, p := range t.profiles {
		out[i] = clone(p)
	}
	return out
}

// Len returns the number of profiles.
func (t *Table) Len() int {
	return len(t.profiles)
}

// clone deep-copies the disambiguation rule so callers cannot mutate the table.
func clone(p domain.PartnerProfile) domain.PartnerProfile {
	if p.Disambiguation == nil {
		return p
	}
	rule := *p.Disambiguation
	rule.Types = append([]string(nil), rule.Types...)
	rule.Codes = append([]domain.CodeMapping(nil), rule.Codes...)
	p.Disambiguation = &rule
	return p
}
