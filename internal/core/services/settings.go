package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/edisort/internal/core/domain"
	"github.com/custodia-labs/edisort/internal/core/ports/driven"
	"github.com/custodia-labs/edisort/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyStagingDir      = "dirs.staging"
	keyInboundDir      = "dirs.inbound"
	keyQuarantineDir   = "dirs.quarantine"
	keyMarker          = "transport.marker"
	keyExtension       = "transport.extension"
	keyMalformedPolicy = "policy.malformed"
	keyWorkers         = "sort.workers"
	keyMoveAttempts    = "move.attempts"
	keyMovePerSecond   = "move.per_second"
	keySettleMillis    = "watch.settle_ms"
	keyPartnersFile    = "partners.file"
	keyJournalEnabled  = "journal.enabled"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindBool
	kindPolicy
)

// settingKey binds a config key to its field in domain.Settings.
type settingKey struct {
	name  string
	kind  valueKind
	min   float64
	get   func(domain.Settings) any
	apply func(*domain.Settings, driven.ConfigStore, string)
}

var settingKeys = []settingKey{
	{
		name:  keyStagingDir,
		get:   func(s domain.Settings) any { return s.Dirs.Staging },
		apply: func(s *domain.Settings, c driven.ConfigStore, k string) { s.Dirs.Staging = c.GetString(k) },
	},
	{
		name:  keyInboundDir,
		get:   func(s domain.Settings) any { return s.Dirs.Inbound },
		apply: func(s *domain.Settings, c driven.ConfigStore, k string) { s.Dirs.Inbound = c.GetString(k) },
	},
	{
		name:  keyQuarantineDir,
		get:   func(s domain.Settings) any { return s.Dirs.Quarantine },
		apply: func(s *domain.Settings, c driven.ConfigStore, k string) { s.Dirs.Quarantine = c.GetString(k) },
	},
	{
		name:  keyMarker,
		get:   func(s domain.Settings) any { return s.Transport.Marker },
		apply: func(s *domain.Settings, c driven.ConfigStore, k string) { s.Transport.Marker = c.GetString(k) },
	},
	{
		name:  keyExtension,
		get:   func(s domain.Settings) any { return s.Transport.Extension },
		apply: func(s *domain.Settings, c driven.ConfigStore, k string) { s.Transport.Extension = c.GetString(k) },
	},
	{
		name: keyMalformedPolicy,
		kind: kindPolicy,
		get:  func(s domain.Settings) any { return s.MalformedPolicy.String() },
		apply: func(s *domain.Settings, c driven.ConfigStore, k string) {
			if p := domain.MalformedPolicy(c.GetString(k)); p.IsValid() {
				s.MalformedPolicy = p
			}
		},
	},
	{
		name:  keyWorkers,
		kind:  kindInt,
		min:   1,
		get:   func(s domain.Settings) any { return s.Workers },
		apply: func(s *domain.Settings, c driven.ConfigStore, k string) { s.Workers = c.GetInt(k) },
	},
	{
		name:  keyMoveAttempts,
		kind:  kindInt,
		min:   1,
		get:   func(s domain.Settings) any { return s.Move.Attempts },
		apply: func(s *domain.Settings, c driven.ConfigStore, k string) { s.Move.Attempts = c.GetInt(k) },
	},
	{
		name:  keyMovePerSecond,
		kind:  kindFloat,
		get:   func(s domain.Settings) any { return s.Move.PerSecond },
		apply: func(s *domain.Settings, c driven.ConfigStore, k string) { s.Move.PerSecond = c.GetFloat(k) },
	},
	{
		name: keySettleMillis,
		kind: kindInt,
		get:  func(s domain.Settings) any { return int(s.Watch.Settle / time.Millisecond) },
		apply: func(s *domain.Settings, c driven.ConfigStore, k string) {
			s.Watch.Settle = time.Duration(c.GetInt(k)) * time.Millisecond
		},
	},
	{
		name:  keyPartnersFile,
		get:   func(s domain.Settings) any { return s.PartnersFile },
		apply: func(s *domain.Settings, c driven.ConfigStore, k string) { s.PartnersFile = c.GetString(k) },
	},
	{
		name:  keyJournalEnabled,
		kind:  kindBool,
		get:   func(s domain.Settings) any { return s.JournalEnabled },
		apply: func(s *domain.Settings, c driven.ConfigStore, k string) { s.JournalEnabled = c.GetBool(k) },
	},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	baseDir     string
}

// NewSettingsService creates a new settings service.
// Default directories are rooted at baseDir.
func NewSettingsService(configStore driven.ConfigStore, baseDir string) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		baseDir:     baseDir,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	settings := s.GetDefaults()
	for _, k := range settingKeys {
		if _, ok := s.configStore.Get(k.name); ok {
			k.apply(&settings, s.configStore, k.name)
		}
	}
	return &settings, nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings(s.baseDir)
}

// Set validates and persists one configuration key.
func (s *SettingsService) Set(key, value string) error {
	k, ok := lookupKey(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	parsed, err := k.parse(strings.TrimSpace(value))
	if err != nil {
		return err
	}

	if err := s.configStore.Set(k.name, parsed); err != nil {
		return fmt.Errorf("save %s: %w", k.name, err)
	}
	return nil
}

// Values returns every known key with its effective value.
func (s *SettingsService) Values() []driving.KeyValue {
	settings, _ := s.Get()
	values := make([]driving.KeyValue, 0, len(settingKeys))
	for _, k := range settingKeys {
		_, set := s.configStore.Get(k.name)
		values = append(values, driving.KeyValue{
			Key:       k.name,
			Value:     fmt.Sprint(k.get(*settings)),
			IsDefault: !set,
		})
	}
	return values
}

// Unknown returns stored keys that no setting reads. They are kept in the
// file but have no effect.
func (s *SettingsService) Unknown() []string {
	var unknown []string
	for _, key := range s.configStore.Keys() {
		if _, ok := lookupKey(key); !ok {
			unknown = append(unknown, key)
		}
	}
	return unknown
}

// Keys returns the names of all known settings.
func Keys() []string {
	names := make([]string, len(settingKeys))
	for i, k := range settingKeys {
		names[i] = k.name
	}
	return names
}

func lookupKey(name string) (settingKey, bool) {
	for _, k := range settingKeys {
		if k.name == name {
			return k, true
		}
	}
	return settingKey{}, false
}

// parse converts a command-line value to the type stored in the config file.
func (k settingKey) parse(value string) (any, error) {
	switch k.kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, k.name)
		}
		if float64(n) < k.min {
			return nil, fmt.Errorf("%w: %s must be at least %v", domain.ErrInvalidInput, k.name, k.min)
		}
		return n, nil
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < k.min {
			return nil, fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidInput, k.name)
		}
		return f, nil
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, k.name)
		}
		return b, nil
	case kindPolicy:
		policy := domain.MalformedPolicy(strings.ToLower(value))
		if !policy.IsValid() {
			return nil, fmt.Errorf("%w: %s must be one of %v", domain.ErrInvalidInput, k.name, domain.AllMalformedPolicies())
		}
		return policy.String(), nil
	default:
		return value, nil
	}
}
