package driving

import "github.com/custodia-labs/edisort/internal/core/domain"

// Classifier decides the partner, message type and canonical name of one
// interchange. Implementations are pure and safe for concurrent use.
type Classifier interface {
	Classify(raw domain.RawInterchange) domain.ClassificationResult
}

// Inspector exposes the tokenized form of an interchange for debugging.
type Inspector interface {
	// Inspect detects the dialect and tokenizes the content.
	Inspect(raw domain.RawInterchange) (domain.Envelope, []domain.Segment, error)
}
