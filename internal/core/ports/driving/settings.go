package driving

import "github.com/custodia-labs/edisort/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, with defaults for
	// anything not configured.
	Get() (*domain.Settings, error)

	// Set validates and persists one configuration key.
	Set(key, value string) error

	// Values returns every known key with its effective value.
	Values() []KeyValue

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings

	// Unknown returns keys present in the config file that no setting
	// reads, usually misspelled keys edited in by hand.
	Unknown() []string
}

// KeyValue is one effective configuration entry.
type KeyValue struct {
	Key   string
	Value string

	// IsDefault is true when the key is not set in the config file.
	IsDefault bool
}
