package interchange

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/edisort/internal/core/domain"
)

func TestTokenize_X12(t *testing.T) {
	content := []byte("ISA*00*X  ~GS*PO*A~ST*850*0001~N1*SF*THOMSON PLASTICS  ~SE*3*0001~")

	segs, err := Tokenize(content, domain.X12Delimiters())

	require.NoError(t, err)
	require.Len(t, segs, 5)
	assert.Equal(t, domain.Segment{"ISA", "00", "X"}, segs[0])
	assert.Equal(t, "ST", segs[2].Tag())
	assert.Equal(t, domain.Segment{"N1", "SF", "THOMSON PLASTICS"}, segs[3])
}

func TestTokenize_DropsEmptyTrailingSegment(t *testing.T) {
	segs, err := Tokenize([]byte("ST*850~SE*1~\r\n"), domain.X12Delimiters())

	require.NoError(t, err)
	assert.Len(t, segs, 2)
}

func TestTokenize_SkipsBlankLinesAndBOM(t *testing.T) {
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("\n\nST*850~\n~\n  ~SE*1~")...)

	segs, err := Tokenize(content, domain.X12Delimiters())

	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.Equal(t, "ST", segs[0].Tag())
	assert.Equal(t, "SE", segs[1].Tag())
}

func TestTokenize_KeepsUnterminatedTail(t *testing.T) {
	segs, err := Tokenize([]byte("ST*850~SE*1*0001"), domain.X12Delimiters())

	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.Equal(t, domain.Segment{"SE", "1", "0001"}, segs[1])
}

func TestTokenize_PreservesEmptyElements(t *testing.T) {
	segs, err := Tokenize([]byte("BEG*00*SA*PO1**20201006~"), domain.X12Delimiters())

	require.NoError(t, err)
	assert.Equal(t, domain.Segment{"BEG", "00", "SA", "PO1", "", "20201006"}, segs[0])
}

func TestTokenize_Failures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty", content: ""},
		{name: "whitespace only", content: " \r\n\t "},
		{name: "no terminator", content: "ISA*00*          *00"},
		{name: "only terminators", content: "~~~"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize([]byte(tt.content), domain.X12Delimiters())

			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrMalformedInterchange))
		})
	}
}

func TestTokenize_EDIFACTReleaseCharacter(t *testing.T) {
	content := []byte("UNB+UNOA:2+SENDER:ZZ'FTX+AAI+++WHAT?'S UP?+DOWN??'")

	segs, err := Tokenize(content, domain.EDIFACTDelimiters())

	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.Equal(t, domain.Segment{"FTX", "AAI", "", "", "WHAT'S UP+DOWN??"}, segs[1])
}

func TestTokenize_ReleasedComponentSeparatorStaysEscaped(t *testing.T) {
	content := []byte("UNB+UNOA:2+US080765057?:X:ZZ+A??:B'")

	segs, err := Tokenize(content, domain.EDIFACTDelimiters())

	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(t, "US080765057?:X:ZZ", segs[0][2])
	assert.Equal(t, "A??:B", segs[0][3])
}

func TestTokenize_ServiceStringAdvice(t *testing.T) {
	content := []byte("UNA:+.? 'UNB+UNOA:2+SENDER:ZZ'")

	segs, err := Tokenize(content, domain.EDIFACTDelimiters())

	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.Equal(t, domain.Segment{"UNA", ":+.? "}, segs[0])
	assert.Equal(t, "UNB", segs[1].Tag())
}

func TestTokenize_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		delims  domain.Delimiters
	}{
		{
			name:    "x12 purchase order",
			content: x12Interchange("HUSQORNGBRG", "850", "BEG*00*SA*PO1**20201006", "N1*SF*THOMSON PLASTICS"),
			delims:  domain.X12Delimiters(),
		},
		{
			name:    "edifact without advice",
			content: edifactInterchange(false, "US080765057LBM", "DESADV", "BGM+351+DN1+9"),
			delims:  domain.EDIFACTDelimiters(),
		},
		{
			name:    "edifact with advice and released data",
			content: edifactInterchange(true, "US080765057LBM", "DESADV", "FTX+AAI+++WHAT?'S UP?+DOWN??"),
			delims:  domain.EDIFACTDelimiters(),
		},
		{
			name:    "edifact with released component separators",
			content: edifactInterchange(false, "US080765057?:X", "DESADV", "FTX+AAI+++A??:B?:C"),
			delims:  domain.EDIFACTDelimiters(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, err := Tokenize(tt.content, tt.delims)
			require.NoError(t, err)

			second, err := Tokenize(join(first, tt.delims), tt.delims)
			require.NoError(t, err)

			assert.Equal(t, first, second)
		})
	}
}

func TestComponent(t *testing.T) {
	d := domain.EDIFACTDelimiters()

	assert.Equal(t, "DESADV", Component("DESADV:D:96A:UN", d, 0))
	assert.Equal(t, "96A", Component("DESADV:D:96A:UN", d, 2))
	assert.Equal(t, "", Component("DESADV:D", d, 5))
	assert.Equal(t, "SENDER", Component("SENDER", d, 0))
	assert.Equal(t, "X", Component("X", domain.Delimiters{}, 0))
	assert.Equal(t, "", Component("X", domain.Delimiters{}, 1))
}

func TestComponent_ReleasedSeparators(t *testing.T) {
	d := domain.EDIFACTDelimiters()

	assert.Equal(t, "US080765057:X", Component("US080765057?:X:ZZ", d, 0))
	assert.Equal(t, "ZZ", Component("US080765057?:X:ZZ", d, 1))
	assert.Equal(t, "A?", Component("A??:B", d, 0))
	assert.Equal(t, "B", Component("A??:B", d, 1))
	assert.Equal(t, "TRAILING?", Component("TRAILING?", d, 0))
}
