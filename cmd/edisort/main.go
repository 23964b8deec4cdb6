// Command edisort classifies EDI interchanges and moves them into the
// inbound directory under canonical names.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/edisort/internal/adapters/driven/config/file"
	"github.com/custodia-labs/edisort/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/edisort/internal/adapters/driving/cli"
	"github.com/custodia-labs/edisort/internal/connectors/filesystem"
	"github.com/custodia-labs/edisort/internal/core/ports/driven"
	"github.com/custodia-labs/edisort/internal/core/ports/driving"
	"github.com/custodia-labs/edisort/internal/core/services"
	"github.com/custodia-labs/edisort/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap wires the services for configDir. Settings and partner checks
// are returned even when the sort pipeline cannot be built, so a broken
// configuration can be repaired with `edisort config set`.
func bootstrap(configDir string) (*cli.Services, error) {
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("locate config directory: %w", err)
		}
		configDir = dir
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, configDir)
	svc := &cli.Services{Settings: settingsService}

	settings, err := settingsService.Get()
	if err != nil {
		return svc, err
	}

	openPartners := func(path string) driven.PartnerSource {
		return file.NewPartnerFile(path)
	}
	var source driven.PartnerSource
	if settings.PartnersFile != "" {
		source = openPartners(settings.PartnersFile)
	}
	table, err := services.LoadTable(source)
	if err != nil {
		svc.Partners = services.NewPartnerService(nil, openPartners)
		return svc, err
	}
	svc.Partners = services.NewPartnerService(table, openPartners)

	classifier := services.NewClassificationService(table, settings.Transport)
	svc.Classifier = classifier
	svc.Inspector = classifier

	if err := settings.Validate(); err != nil {
		return svc, err
	}

	var journal driven.JournalStore
	if settings.JournalEnabled {
		store, err := sqlite.NewStore(filepath.Join(configDir, "data"))
		if err != nil {
			return svc, fmt.Errorf("open journal: %w", err)
		}
		journal = store.JournalStore()
		svc.Close = store.Close
	}

	staging := filesystem.New(settings.Dirs.Staging)
	sorter := services.NewSortService(classifier, staging, filesystem.NewMover(), journal, *settings)
	svc.Sorter = sorter
	svc.Journal = sorter
	svc.Watcher = services.NewWatchService(staging, sorter, settings.Watch.Settle, driving.SortOptions{})

	logger.Debug("services ready",
		"config", configStore.Path(),
		"staging", settings.Dirs.Staging,
		"inbound", settings.Dirs.Inbound,
		"partners", table.Len(),
		"journal", settings.JournalEnabled,
	)
	return svc, nil
}
