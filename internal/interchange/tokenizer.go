package interchange

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/custodia-labs/edisort/internal/core/domain"
)

// utf8BOM is stripped from the start of content before tokenizing.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// serviceStringAdviceLen is the fixed length of an EDIFACT UNA segment,
// including its own terminator: "UNA" plus six service characters.
const serviceStringAdviceLen = 9

// Tokenize splits content into segments and elements using d.
//
// Elements are whitespace-trimmed and empty segments are dropped, which
// covers the empty tail after the final terminator and line breaks between
// segments. When d has a release character, released segment terminators and
// element separators become literal data. A released component separator or
// release character keeps its release character, because components are only
// split later by Component. A leading EDIFACT UNA segment is kept verbatim as
// Segment{"UNA", "<five service characters>"} since it declares the delimiters
// it would otherwise be split on.
func Tokenize(content []byte, d domain.Delimiters) ([]domain.Segment, error) {
	text := trimLeading(content)
	if len(text) == 0 {
		return nil, fmt.Errorf("%w: empty content", domain.ErrMalformedInterchange)
	}

	var segments []domain.Segment
	if hasServiceStringAdvice(text) {
		segments = append(segments, domain.Segment{
			edifactAdviceTag,
			string(text[len(edifactAdviceTag) : serviceStringAdviceLen-1]),
		})
		text = text[serviceStringAdviceLen:]
	}

	var (
		elements   []string
		current    strings.Builder
		terminated bool
		released   bool
	)

	flushSegment := func() {
		elements = append(elements, strings.TrimSpace(current.String()))
		current.Reset()
		if !emptySegment(elements) {
			segments = append(segments, domain.Segment(elements))
		}
		elements = nil
	}

	for _, r := range string(text) {
		switch {
		case released:
			if r == d.Release || r == d.Component {
				current.WriteRune(d.Release)
			}
			current.WriteRune(r)
			released = false
		case d.Release != 0 && r == d.Release:
			released = true
		case r == d.Segment:
			terminated = true
			flushSegment()
		case r == d.Element:
			elements = append(elements, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	if released {
		current.WriteRune(d.Release)
	}

	if !terminated && len(segments) == 0 {
		return nil, fmt.Errorf("%w: no segment terminator %q found", domain.ErrMalformedInterchange, d.Segment)
	}

	// Content after the last terminator is kept when it is not blank.
	flushSegment()

	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: no segments", domain.ErrMalformedInterchange)
	}
	return segments, nil
}

// Component returns the i-th sub-element of elem. A component separator
// preceded by the release character is data, not a boundary, and the release
// character is dropped from the returned value.
func Component(elem string, d domain.Delimiters, i int) string {
	if d.Component == 0 {
		if i == 0 {
			return elem
		}
		return ""
	}

	var (
		parts    []string
		current  strings.Builder
		released bool
	)
	for _, r := range elem {
		switch {
		case released:
			current.WriteRune(r)
			released = false
		case d.Release != 0 && r == d.Release:
			released = true
		case r == d.Component:
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	if released {
		current.WriteRune(d.Release)
	}
	parts = append(parts, current.String())

	if i < 0 || i >= len(parts) {
		return ""
	}
	return strings.TrimSpace(parts[i])
}

func emptySegment(elements []string) bool {
	for _, e := range elements {
		if e != "" {
			return false
		}
	}
	return true
}

func hasServiceStringAdvice(text []byte) bool {
	return len(text) >= serviceStringAdviceLen && bytes.HasPrefix(text, []byte(edifactAdviceTag))
}

// trimLeading drops a UTF-8 BOM and leading whitespace.
func trimLeading(content []byte) []byte {
	content = bytes.TrimPrefix(content, utf8BOM)
	return bytes.TrimLeft(content, " \t\r\n")
}
