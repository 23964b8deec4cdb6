// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - StagingArea: Lists, reads and watches the staging directory
//   - Mover: Relocates files without overwriting
//   - ConfigStore: Application configuration
//   - PartnerSource: Trading partner profiles (built-in or file)
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - JournalStore: Classification journal. Without it, failed moves
//     cannot be retried and the journal command has nothing to show.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
