package partners

import (
	"github.com/custodia-labs/edisort/internal/core/domain"
	"github.com/custodia-labs/edisort/internal/interchange"
)

// Disambiguate returns the short code for the secondary value that rule
// locates in segments.
//
// Segments are scanned in order for an element (the tag excluded) equal to
// rule.Locator; the value is the element rule.Offset positions after it,
// reduced to its first component for EDIFACT. When the locator repeats, the
// last occurrence that carries a value wins. A missing locator, a missing value or a value
// with no mapping all yield domain.MissingCode: the file is still named and
// moved, and the code flags it for triage.
func Disambiguate(segments []domain.Segment, env domain.Envelope, rule *domain.DisambiguationRule) string {
	value, ok := Locate(segments, env, rule)
	if !ok {
		return domain.MissingCode
	}
	if code, ok := rule.CodeFor(value); ok {
		return code
	}
	return domain.MissingCode
}

// Locate returns the raw secondary value rule points at.
func Locate(segments []domain.Segment, env domain.Envelope, rule *domain.DisambiguationRule) (string, bool) {
	if rule == nil {
		return "", false
	}
	var found string
	for _, seg := range segments {
		for pos := 1; pos < len(seg); pos++ {
			if seg[pos] != rule.Locator {
				continue
			}
			value, ok := seg.Element(pos + rule.Offset)
			if !ok {
				continue
			}
			if env.Dialect == domain.DialectEDIFACT {
				value = interchange.Component(value, env.Delimiters, 0)
			}
			if value != "" {
				found = value
			}
		}
	}
	return found, found != ""
}
