package interchange

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/custodia-labs/edisort/internal/core/domain"
)

// isaHeader builds a fixed-width ISA segment for sender.
func isaHeader(sender string) string {
	return fmt.Sprintf(
		"ISA*00*          *00*          *ZZ*%-15s*ZZ*%-15s*201006*1015*U*00401*000000123*0*P*>~",
		sender, "THOMSONPLAS",
	)
}

// x12Interchange wraps body segments (without terminators) in an X12 envelope.
func x12Interchange(sender, transactionSet string, body ...string) []byte {
	var b strings.Builder
	b.WriteString(isaHeader(sender))
	b.WriteString("\nGS*PO*HUSQ*THOM*20201006*1015*123*X*004010~")
	b.WriteString("\nST*" + transactionSet + "*0001~")
	for _, seg := range body {
		b.WriteString("\n" + seg + "~")
	}
	b.WriteString("\nSE*" + fmt.Sprint(len(body)+2) + "*0001~")
	b.WriteString("\nGE*1*123~")
	b.WriteString("\nIEA*1*000000123~\n")
	return []byte(b.String())
}

// edifactInterchange builds a UNB-first EDIFACT interchange. When advice is
// true a UNA service string advice is prepended.
func edifactInterchange(advice bool, sender, messageType string, body ...string) []byte {
	var b strings.Builder
	if advice {
		b.WriteString("UNA:+.? '")
	}
	b.WriteString("UNB+UNOA:2+" + sender + ":ZZ+THOMSON:ZZ+201006:1015+42'")
	b.WriteString("UNH+1+" + messageType + ":D:96A:UN:A01051'")
	for _, seg := range body {
		b.WriteString(seg + "'")
	}
	b.WriteString("UNT+" + fmt.Sprint(len(body)+2) + "+1'")
	b.WriteString("UNZ+1+42'")
	return []byte(b.String())
}

// join re-assembles segments with d, releasing segment terminators and
// element separators inside element data when d has a release character.
// Tokenize(join(s, d), d) reproduces s.
func join(segments []domain.Segment, d domain.Delimiters) []byte {
	var buf bytes.Buffer
	for _, seg := range segments {
		if seg.Tag() == edifactAdviceTag && len(seg) == 2 {
			buf.WriteString(edifactAdviceTag)
			buf.WriteString(seg[1])
			buf.WriteRune(d.Segment)
			continue
		}
		for i, elem := range seg {
			if i > 0 {
				buf.WriteRune(d.Element)
			}
			for _, r := range elem {
				if d.Release != 0 && (r == d.Segment || r == d.Element) {
					buf.WriteRune(d.Release)
				}
				buf.WriteRune(r)
			}
		}
		buf.WriteRune(d.Segment)
	}
	return buf.Bytes()
}
