package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcome_RoundTrip(t *testing.T) {
	for _, o := range []Outcome{OutcomeUnmatched, OutcomeMatched, OutcomeMalformed} {
		assert.Equal(t, o, ParseOutcome(o.String()))
	}
	assert.Equal(t, OutcomeUnmatched, ParseOutcome("garbage"))
}

func TestClassificationResult_Reason(t *testing.T) {
	matched := ClassificationResult{Outcome: OutcomeMatched, NewFilename: "HUSQ-THM-850-1-a.edi"}
	assert.True(t, matched.Matched())
	assert.Empty(t, matched.Reason())

	unmatched := ClassificationResult{
		Outcome: OutcomeUnmatched,
		Err:     fmt.Errorf("%w: NOBODY", ErrUnknownSender),
	}
	assert.False(t, unmatched.Matched())
	assert.Contains(t, unmatched.Reason(), "NOBODY")
}
