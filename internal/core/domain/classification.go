package domain

// FilenameTokens are the parts of a transport filename
// `<marker>-<date>-<sequence>.<ext>`.
type FilenameTokens struct {
	Marker    string
	Date      string
	Sequence  string
	Extension string
}

// Transport describes the upstream delivery mechanism's filename envelope.
type Transport struct {
	// Marker is the fixed first dash component (e.g. "1027" for ECGrid).
	Marker string

	// Extension is the expected extension including the dot. Empty accepts any.
	Extension string
}

// DefaultTransport returns the ECGrid mailbox naming: 1027-<date>-<seq>.
// Any extension is accepted and carried into the canonical name.
func DefaultTransport() Transport {
	return Transport{Marker: "1027"}
}

// Outcome is the terminal state of classifying one file.
type Outcome int

const (
	// OutcomeUnmatched means no partner claims the file. Not an error.
	OutcomeUnmatched Outcome = iota

	// OutcomeMatched means a partner claimed the file and a name was composed.
	OutcomeMatched

	// OutcomeMalformed means the file could not be classified at all.
	OutcomeMalformed
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeMatched:
		return "matched"
	case OutcomeMalformed:
		return "malformed"
	default:
		return "unmatched"
	}
}

// ParseOutcome is the inverse of Outcome.String.
func ParseOutcome(s string) Outcome {
	switch s {
	case "matched":
		return OutcomeMatched
	case "malformed":
		return OutcomeMalformed
	default:
		return OutcomeUnmatched
	}
}

// ClassificationResult is the product of classifying one file.
type ClassificationResult struct {
	Outcome Outcome

	// Filename is the original transport filename.
	Filename string

	// NewFilename is the composed canonical name. Set only when matched.
	NewFilename string

	// Partner is the matching profile. Set only when matched.
	Partner *PartnerProfile

	Dialect     Dialect
	SenderID    string
	MessageType string

	// DisambiguationCode is the code embedded in the name, possibly
	// MissingCode. Empty when no rule applied.
	DisambiguationCode string

	// Err explains unmatched and malformed outcomes. It wraps one of the
	// domain sentinel errors.
	Err error
}

// Matched reports whether a partner claimed the file.
func (r ClassificationResult) Matched() bool {
	return r.Outcome == OutcomeMatched
}

// Reason returns the failure explanation, or "" when matched.
func (r ClassificationResult) Reason() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
