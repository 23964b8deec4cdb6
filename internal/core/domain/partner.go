package domain

import (
	"fmt"
	"slices"
	"strings"
)

// MissingCode is embedded in the filename when a partner's disambiguation
// value is absent or unmapped. The file is still moved; the code flags it
// for manual triage.
const MissingCode = "MISSING"

// PartnerProfile describes one trading partner.
type PartnerProfile struct {
	// SenderID is the interchange sender identifier. Unique per table.
	SenderID string

	// Name is a human-readable partner name.
	Name string

	// Dialect is the envelope standard the partner sends.
	Dialect Dialect

	// Prefix is the canonical filename prefix (e.g. "HUSQ").
	Prefix string

	// Disambiguation is optional; nil means files are named without a code.
	Disambiguation *DisambiguationRule
}

// Validate checks that the profile is usable in a rule table.
func (p PartnerProfile) Validate() error {
	if strings.TrimSpace(p.SenderID) == "" {
		return fmt.Errorf("%w: empty sender id", ErrInvalidPartner)
	}
	if strings.TrimSpace(p.Prefix) == "" {
		return fmt.Errorf("%w: %s: empty prefix", ErrInvalidPartner, p.SenderID)
	}
	if p.Dialect != DialectX12 && p.Dialect != DialectEDIFACT {
		return fmt.Errorf("%w: %s: unknown dialect", ErrInvalidPartner, p.SenderID)
	}
	if p.Disambiguation != nil {
		if err := p.Disambiguation.Validate(); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidPartner, p.SenderID, err)
		}
	}
	return nil
}

// DisplayName returns the name, falling back to the prefix.
func (p PartnerProfile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Prefix
}

// CodeMapping maps one raw secondary value to a short filename code.
type CodeMapping struct {
	Value string
	Code  string
}

// DisambiguationRule tells the disambiguator where a partner carries its
// ship-from value and how to shorten it.
type DisambiguationRule struct {
	// Locator is the element value that marks the secondary attribute
	// (e.g. the "SF" qualifier of an N1 or NAD segment).
	Locator string

	// Offset is the element distance from the locator to the value.
	// Usually 1 (name follows qualifier); 3 when the partner sends an
	// identification code after the name and code qualifier.
	Offset int

	// Types lists the message types the rule applies to.
	Types []string

	// Codes maps raw values to codes, in priority order.
	Codes []CodeMapping
}

// Validate checks the rule is usable.
func (r *DisambiguationRule) Validate() error {
	if strings.TrimSpace(r.Locator) == "" {
		return fmt.Errorf("disambiguation locator is empty")
	}
	if r.Offset < 1 {
		return fmt.Errorf("disambiguation offset must be positive, got %d", r.Offset)
	}
	if len(r.Types) == 0 {
		return fmt.Errorf("disambiguation has no message types")
	}
	for _, m := range r.Codes {
		if strings.TrimSpace(m.Code) == "" {
			return fmt.Errorf("disambiguation value %q has an empty code", m.Value)
		}
	}
	return nil
}

// AppliesTo reports whether the rule is invoked for the message type.
func (r *DisambiguationRule) AppliesTo(messageType string) bool {
	if r == nil {
		return false
	}
	return slices.Contains(r.Types, messageType)
}

// CodeFor returns the code mapped to value. The first mapping wins.
func (r *DisambiguationRule) CodeFor(value string) (string, bool) {
	for _, m := range r.Codes {
		if m.Value == value {
			return m.Code, true
		}
	}
	return "", false
}
