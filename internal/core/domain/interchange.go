package domain

import "strings"

// RawInterchange is the content of one staged file plus its transport filename.
// It is created when a file is read and discarded after classification.
type RawInterchange struct {
	// Filename is the original transport filename (base name, no directory).
	Filename string

	// Content is the raw file bytes.
	Content []byte
}

// Segment is an ordered sequence of trimmed elements.
// Element 0 is the segment tag (e.g. "ISA", "ST", "UNB").
type Segment []string

// Tag returns the segment identifier.
func (s Segment) Tag() string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

// Element returns the element at index i, counting the tag as index 0.
func (s Segment) Element(i int) (string, bool) {
	if i < 0 || i >= len(s) {
		return "", false
	}
	return s[i], true
}

// Dialect identifies the EDI envelope standard of an interchange.
type Dialect int

const (
	// DialectUnknown is the zero value; never produced by detection.
	DialectUnknown Dialect = iota

	// DialectX12 is ANSI ASC X12 (ISA/IEA envelope).
	DialectX12

	// DialectEDIFACT is UN/EDIFACT (UNB/UNZ envelope).
	DialectEDIFACT
)

// String returns the lower-case dialect name used in configuration.
func (d Dialect) String() string {
	switch d {
	case DialectX12:
		return "x12"
	case DialectEDIFACT:
		return "edifact"
	default:
		return "unknown"
	}
}

// ParseDialect parses a configuration dialect name. Case-insensitive.
func ParseDialect(s string) (Dialect, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x12":
		return DialectX12, true
	case "edifact":
		return DialectEDIFACT, true
	default:
		return DialectUnknown, false
	}
}

// Delimiters are the separator characters of one interchange.
type Delimiters struct {
	// Segment terminates a segment.
	Segment rune

	// Element separates elements within a segment.
	Element rune

	// Component separates sub-elements within an element.
	Component rune

	// Release escapes the next character. Zero when the dialect has none.
	Release rune
}

// X12Delimiters returns the conventional X12 delimiters.
func X12Delimiters() Delimiters {
	return Delimiters{Segment: '~', Element: '*', Component: ':'}
}

// EDIFACTDelimiters returns the UN/EDIFACT level A/B default delimiters.
func EDIFACTDelimiters() Delimiters {
	return Delimiters{Segment: '\'', Element: '+', Component: ':', Release: '?'}
}

// Envelope describes the detected dialect of an interchange and where its
// interchange header sits in the segment list.
type Envelope struct {
	Dialect    Dialect
	Delimiters Delimiters

	// HeaderIndex is the position of the interchange header segment.
	// EDIFACT puts it at 1 when a UNA service string advice comes first.
	HeaderIndex int

	// ServiceStringAdvice reports whether an EDIFACT UNA segment is present.
	ServiceStringAdvice bool
}
