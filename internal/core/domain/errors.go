package domain

import "errors"

// Domain errors represent classification and configuration failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Unmatched reasons. These are not failures: the caller moves the
	// file unchanged as a catch-all.

	// ErrNotApplicable indicates the transport filename does not follow the
	// expected `<marker>-<date>-<sequence>.<ext>` grammar.
	ErrNotApplicable = errors.New("filename not applicable to transport")

	// ErrUnknownSender indicates no partner is registered for the sender id.
	ErrUnknownSender = errors.New("no partner registered for sender id")

	// Interchange Errors.

	// ErrMalformedInterchange indicates content that cannot be tokenized or
	// lacks a required envelope element. Surfaced for manual inspection.
	ErrMalformedInterchange = errors.New("malformed interchange")

	// ErrSegmentNotFound indicates an expected segment tag or element offset
	// is absent.
	ErrSegmentNotFound = errors.New("segment not found")

	// ErrUnrecognizedDialect indicates the first segment is neither an X12
	// nor an EDIFACT interchange header.
	ErrUnrecognizedDialect = errors.New("unrecognized dialect")

	// ErrDialectMismatch indicates a registered partner sent an interchange
	// in a dialect other than the one its profile declares.
	ErrDialectMismatch = errors.New("dialect does not match partner profile")

	// Configuration Errors.

	// ErrDuplicateSenderID indicates two partner profiles share a sender id.
	ErrDuplicateSenderID = errors.New("duplicate sender id")

	// ErrInvalidPartner indicates a partner profile is incomplete or its
	// disambiguation rule is unusable.
	ErrInvalidPartner = errors.New("invalid partner profile")

	// Move Errors.

	// ErrDestinationExists indicates the move target already exists.
	// Files are never overwritten.
	ErrDestinationExists = errors.New("destination already exists")

	// ErrSourceNotRemoved indicates the file reached its destination but the
	// staged copy could not be deleted. The move itself succeeded.
	ErrSourceNotRemoved = errors.New("source not removed after move")

	// ErrJournalDisabled indicates a journal operation while no journal
	// store is configured.
	ErrJournalDisabled = errors.New("journal is disabled")
)
