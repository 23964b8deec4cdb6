package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/edisort/internal/partners"
)

const transportName = "1027-20201006101520-2e7441af.edi"

// x12File builds an X12 interchange from sender with one transaction set.
func x12File(sender, transactionSet string, body ...string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "ISA*00*          *00*          *ZZ*%-15s*ZZ*%-15s*201006*1015*U*00401*000000123*0*P*>~\n", sender, "THOMSONPLAS")
	b.WriteString("GS*PO*SENDER*THOM*20201006*1015*123*X*004010~\n")
	b.WriteString("ST*" + transactionSet + "*0001~\n")
	for _, seg := range body {
		b.WriteString(seg + "~\n")
	}
	fmt.Fprintf(&b, "SE*%d*0001~\nGE*1*123~\nIEA*1*000000123~\n", len(body)+2)
	return []byte(b.String())
}

// edifactFile builds a UNA-prefixed EDIFACT interchange.
func edifactFile(sender, messageType string, body ...string) []byte {
	var b strings.Builder
	b.WriteString("UNA:+.? '")
	b.WriteString("UNB+UNOA:2+" + sender + ":ZZ+THOMSON:ZZ+201006:1015+42'")
	b.WriteString("UNH+1+" + messageType + ":D:96A:UN:A01051'")
	for _, seg := range body {
		b.WriteString(seg + "'")
	}
	fmt.Fprintf(&b, "UNT+%d+1'UNZ+1+42'", len(body)+2)
	return []byte(b.String())
}

func defaultTable(t *testing.T) *partners.Table {
	t.Helper()
	table, err := partners.DefaultTable()
	require.NoError(t, err)
	return table
}
