// Package domain defines the core business entities for edisort.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawInterchange: A staged file's name and bytes
//   - Segment: A tokenized EDI segment
//   - PartnerProfile: A trading partner's classification rule
//   - ClassificationResult: The outcome of classifying one file
//   - JournalEntry: A recorded classification and its move
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
