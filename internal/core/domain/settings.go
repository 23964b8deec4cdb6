package domain

import (
	"fmt"
	"path/filepath"
	"time"
)

const unknownDescription = "Unknown"

// MalformedPolicy decides what happens to a file that cannot be classified.
type MalformedPolicy string

// Available malformed-file policies.
const (
	// MalformedHold leaves the file in staging and reports it.
	MalformedHold MalformedPolicy = "hold"

	// MalformedQuarantine moves the file unchanged to the quarantine directory.
	MalformedQuarantine MalformedPolicy = "quarantine"

	// MalformedCatchAll moves the file unchanged to inbound, like an
	// unmatched file.
	MalformedCatchAll MalformedPolicy = "catchall"
)

// IsValid returns true if the policy is recognised.
func (p MalformedPolicy) IsValid() bool {
	switch p {
	case MalformedHold, MalformedQuarantine, MalformedCatchAll:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p MalformedPolicy) String() string {
	return string(p)
}

// Description returns a human-readable description of the policy.
func (p MalformedPolicy) Description() string {
	switch p {
	case MalformedHold:
		return "Hold (leave in staging)"
	case MalformedQuarantine:
		return "Quarantine (move unchanged to quarantine)"
	case MalformedCatchAll:
		return "Catch-all (move unchanged to inbound)"
	default:
		return unknownDescription
	}
}

// DirSettings holds the directories the sorter works on.
type DirSettings struct {
	Staging    string
	Inbound    string
	Quarantine string
}

// MoveSettings holds the move retry policy.
type MoveSettings struct {
	// Attempts is the number of tries per move, including the first.
	Attempts int

	// PerSecond caps move attempts per second across the batch.
	PerSecond float64
}

// WatchSettings holds staging watch behaviour.
type WatchSettings struct {
	// Settle is how long a file must be quiet before it is sorted.
	Settle time.Duration
}

// Settings is the full application configuration.
type Settings struct {
	Dirs            DirSettings
	Transport       Transport
	MalformedPolicy MalformedPolicy

	// Workers bounds concurrent classification in a batch.
	Workers int

	Move  MoveSettings
	Watch WatchSettings

	// PartnersFile is a TOML or YAML partner table. Empty uses the built-in table.
	PartnersFile string

	// JournalEnabled records classifications in the SQLite journal.
	JournalEnabled bool
}

// DefaultSettings returns sensible defaults rooted at baseDir.
func DefaultSettings(baseDir string) Settings {
	return Settings{
		Dirs: DirSettings{
			Staging:    filepath.Join(baseDir, "staging"),
			Inbound:    filepath.Join(baseDir, "inbound"),
			Quarantine: filepath.Join(baseDir, "quarantine"),
		},
		Transport:       DefaultTransport(),
		MalformedPolicy: MalformedHold,
		Workers:         4,
		Move: MoveSettings{
			Attempts:  3,
			PerSecond: 10,
		},
		Watch: WatchSettings{
			Settle: 500 * time.Millisecond,
		},
		JournalEnabled: true,
	}
}

// Validate checks the settings are usable for a sort run.
func (s Settings) Validate() error {
	if s.Dirs.Staging == "" {
		return fmt.Errorf("%w: staging directory not set", ErrInvalidInput)
	}
	if s.Dirs.Inbound == "" {
		return fmt.Errorf("%w: inbound directory not set", ErrInvalidInput)
	}
	if filepath.Clean(s.Dirs.Staging) == filepath.Clean(s.Dirs.Inbound) {
		return fmt.Errorf("%w: staging and inbound must differ", ErrInvalidInput)
	}
	if s.Transport.Marker == "" {
		return fmt.Errorf("%w: transport marker not set", ErrInvalidInput)
	}
	if !s.MalformedPolicy.IsValid() {
		return fmt.Errorf("%w: unknown malformed policy %q", ErrInvalidInput, s.MalformedPolicy)
	}
	if s.MalformedPolicy == MalformedQuarantine && s.Dirs.Quarantine == "" {
		return fmt.Errorf("%w: quarantine policy needs a quarantine directory", ErrInvalidInput)
	}
	if s.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1", ErrInvalidInput)
	}
	if s.Move.Attempts < 1 {
		return fmt.Errorf("%w: move attempts must be at least 1", ErrInvalidInput)
	}
	return nil
}

// AllMalformedPolicies returns all available malformed-file policies.
func AllMalformedPolicies() []MalformedPolicy {
	return []MalformedPolicy{
		MalformedHold,
		MalformedQuarantine,
		MalformedCatchAll,
	}
}
