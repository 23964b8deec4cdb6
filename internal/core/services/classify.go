package services

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/edisort/internal/core/domain"
	"github.com/custodia-labs/edisort/internal/core/ports/driving"
	"github.com/custodia-labs/edisort/internal/filename"
	"github.com/custodia-labs/edisort/internal/interchange"
	"github.com/custodia-labs/edisort/internal/partners"
)

// Ensure ClassificationService implements the interfaces.
var (
	_ driving.Classifier = (*ClassificationService)(nil)
	_ driving.Inspector  = (*ClassificationService)(nil)
)

// ClassificationService turns one raw interchange into a classification.
// It holds only immutable state and is safe for concurrent use.
type ClassificationService struct {
	table     *partners.Table
	transport domain.Transport
}

// NewClassificationService creates a classifier over a partner table.
func NewClassificationService(table *partners.Table, transport domain.Transport) *ClassificationService {
	return &ClassificationService{
		table:     table,
		transport: transport,
	}
}

// Classify runs the classification steps in order and stops at the first
// that fails. Filename and lookup failures make the file unmatched; every
// failure to read the envelope makes it malformed.
func (s *ClassificationService) Classify(raw domain.RawInterchange) domain.ClassificationResult {
	result := domain.ClassificationResult{Filename: raw.Filename}

	// 1. Transport filename
	tokens, err := filename.Parse(raw.Filename, s.transport)
	if err != nil {
		return unmatched(result, err)
	}

	// 2. Dialect and segments
	env, segments, err := s.Inspect(raw)
	if err != nil {
		return malformed(result, err)
	}
	result.Dialect = env.Dialect

	// 3. Sender
	senderID, err := interchange.SenderID(segments, env)
	if err != nil {
		return malformed(result, err)
	}
	result.SenderID = senderID

	// 4. Partner
	profile, ok := s.table.Lookup(senderID)
	if !ok {
		return unmatched(result, fmt.Errorf("%w: %q", domain.ErrUnknownSender, senderID))
	}
	if profile.Dialect != env.Dialect {
		return malformed(result, fmt.Errorf("%w: %s is registered as %s, file is %s",
			domain.ErrDialectMismatch, profile.Prefix, profile.Dialect, env.Dialect))
	}

	// 5. Message type
	messageType, err := interchange.MessageType(segments, env)
	if err != nil {
		return malformed(result, err)
	}
	result.MessageType = messageType

	// 6. Ship-from
	if profile.Disambiguation.AppliesTo(messageType) {
		result.DisambiguationCode = partners.Disambiguate(segments, env, profile.Disambiguation)
	}

	// 7. Canonical name
	result.Outcome = domain.OutcomeMatched
	result.Partner = &profile
	result.NewFilename = filename.Compose(profile.Prefix, result.DisambiguationCode, messageType, tokens)
	return result
}

// Inspect detects the dialect and tokenizes the content.
func (s *ClassificationService) Inspect(raw domain.RawInterchange) (domain.Envelope, []domain.Segment, error) {
	env, err := interchange.Detect(raw.Content)
	if err != nil {
		return domain.Envelope{}, nil, err
	}
	segments, err := interchange.Tokenize(raw.Content, env.Delimiters)
	if err != nil {
		return domain.Envelope{}, nil, err
	}
	return env, segments, nil
}

func unmatched(r domain.ClassificationResult, err error) domain.ClassificationResult {
	r.Outcome = domain.OutcomeUnmatched
	r.Err = err
	return r
}

func malformed(r domain.ClassificationResult, err error) domain.ClassificationResult {
	r.Outcome = domain.OutcomeMalformed
	if !errors.Is(err, domain.ErrMalformedInterchange) {
		err = fmt.Errorf("%w: %w", domain.ErrMalformedInterchange, err)
	}
	r.Err = err
	return r
}
