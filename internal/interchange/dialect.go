package interchange

import (
	"bytes"
	"fmt"

	"github.com/custodia-labs/edisort/internal/core/domain"
)

// Header tags recognised at the start of an interchange.
const (
	x12HeaderTag     = "ISA"
	edifactAdviceTag = "UNA"
	edifactHeaderTag = "UNB"
)

// isaElementCount is the number of elements in an ISA segment, tag included.
// The component separator is the single character that forms ISA16 and the
// segment terminator follows it directly.
const isaElementCount = 17

// isaLength is the width of a well-formed ISA segment, terminator included.
// Every ISA element is fixed width, so the terminator sits at byte 105.
const isaLength = 106

// Byte positions of the service characters inside an EDIFACT UNA segment.
const (
	unaComponentPos = iota + 3
	unaElementPos
	unaDecimalPos
	unaReleasePos
	unaReservedPos
	unaSegmentPos
)

// Detect inspects the leading segment tag and returns the interchange's
// dialect, delimiters and header position.
//
// ISA selects X12; its delimiters are read from the ISA segment itself and
// fall back to `*`, `~` and `:` when the ISA is truncated. UNB selects
// EDIFACT with default delimiters. UNA selects EDIFACT with the delimiters it
// declares and moves the UNB header to position 1. Anything else fails with
// domain.ErrUnrecognizedDialect.
func Detect(content []byte) (domain.Envelope, error) {
	text := trimLeading(content)
	if len(text) < len(x12HeaderTag) {
		return domain.Envelope{}, fmt.Errorf("%w: content too short", domain.ErrUnrecognizedDialect)
	}

	switch tag := string(text[:3]); tag {
	case x12HeaderTag:
		return domain.Envelope{
			Dialect:    domain.DialectX12,
			Delimiters: isaDelimiters(text),
		}, nil
	case edifactAdviceTag:
		if len(text) < serviceStringAdviceLen {
			return domain.Envelope{}, fmt.Errorf("%w: truncated UNA segment", domain.ErrUnrecognizedDialect)
		}
		return domain.Envelope{
			Dialect:             domain.DialectEDIFACT,
			Delimiters:          unaDelimiters(text),
			HeaderIndex:         1,
			ServiceStringAdvice: true,
		}, nil
	case edifactHeaderTag:
		return domain.Envelope{
			Dialect:    domain.DialectEDIFACT,
			Delimiters: domain.EDIFACTDelimiters(),
		}, nil
	default:
		return domain.Envelope{}, fmt.Errorf("%w: leading tag %q", domain.ErrUnrecognizedDialect, printable(tag))
	}
}

// isaDelimiters reads the delimiters from an ISA segment. The element
// separator is the byte after "ISA"; the component separator is ISA16 and
// the segment terminator is the byte after it. Only the first isaLength bytes
// are considered, and a default terminator ends the search early, so a short
// ISA keeps the default delimiters instead of borrowing bytes from the body.
func isaDelimiters(text []byte) domain.Delimiters {
	d := domain.X12Delimiters()
	if len(text) <= len(x12HeaderTag) || isAlphanumeric(text[3]) {
		return d
	}
	d.Element = rune(text[3])

	header := text[:min(len(text), isaLength)]
	seen := 0
	for i, b := range header {
		if rune(b) == domain.X12Delimiters().Segment && d.Element != rune(b) {
			break
		}
		if rune(b) != d.Element {
			continue
		}
		seen++
		if seen == isaElementCount-1 {
			if i+2 < len(header) && !isAlphanumeric(header[i+2]) && rune(header[i+2]) != d.Element {
				d.Component = rune(header[i+1])
				d.Segment = rune(header[i+2])
			}
			break
		}
	}
	return d
}

// unaDelimiters reads the delimiters declared by a UNA segment. A space in
// the release position means the interchange has no release character.
func unaDelimiters(text []byte) domain.Delimiters {
	d := domain.Delimiters{
		Component: rune(text[unaComponentPos]),
		Element:   rune(text[unaElementPos]),
		Release:   rune(text[unaReleasePos]),
		Segment:   rune(text[unaSegmentPos]),
	}
	if d.Release == ' ' {
		d.Release = 0
	}
	return d
}

func isAlphanumeric(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

// printable replaces control bytes so binary files log cleanly.
func printable(s string) string {
	return string(bytes.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return '.'
		}
		return r
	}, []byte(s)))
}
