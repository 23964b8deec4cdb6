// Package cli provides the edisort command-line interface.
//
// Commands reach the core through driving ports held in package variables.
// main installs a Bootstrap that builds them from the configuration once
// flags are parsed; tests assign mocks directly.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/edisort/internal/core/ports/driving"
	"github.com/custodia-labs/edisort/internal/logger"
)

var version = "dev"

// Global flags.
var (
	verbose   bool
	configDir string
)

// Driving ports used by the commands.
var (
	classifier      driving.Classifier
	inspector       driving.Inspector
	sorter          driving.Sorter
	watcher         driving.Watcher
	journalReader   driving.JournalReader
	partnerService  driving.PartnerService
	settingsService driving.SettingsService
)

// Services are the driving ports the commands run against.
// Nil fields leave the matching commands unavailable.
type Services struct {
	Classifier driving.Classifier
	Inspector  driving.Inspector
	Sorter     driving.Sorter
	Watcher    driving.Watcher
	Journal    driving.JournalReader
	Partners   driving.PartnerService
	Settings   driving.SettingsService

	// Close releases resources held by the services (the journal database).
	Close func() error
}

// Bootstrap builds the services for a config directory. It may return
// partial services with an error, so configuration commands keep working
// when the sort pipeline cannot be built.
type Bootstrap func(configDir string) (*Services, error)

var (
	bootstrap    Bootstrap
	bootstrapErr error
	closeFn      func() error
)

// skipBootstrap marks commands that need no services.
const skipBootstrap = "skip-bootstrap"

var rootCmd = &cobra.Command{
	Use:   "edisort",
	Short: "Classify and rename EDI interchanges",
	Long: `edisort classifies X12 and EDIFACT interchange files dropped into a
staging directory, works out the trading partner and message type of each
file, and moves it into the inbound directory under a canonical name.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: func(*cobra.Command, []string) error { return teardown() },
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.edisort)")
}

// SetVersion sets the version reported by `edisort version`.
func SetVersion(v string) {
	version = v
}

// SetBootstrap installs the service builder run before each command.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if closeErr := teardown(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if bootstrap == nil || cmd.Annotations[skipBootstrap] == "true" {
		return nil
	}

	svc, err := bootstrap(configDir)
	bootstrapErr = err
	if err != nil {
		logger.Debug("bootstrap incomplete", "err", err)
	}
	if svc != nil {
		install(svc)
	}
	return nil
}

func install(svc *Services) {
	classifier = svc.Classifier
	inspector = svc.Inspector
	sorter = svc.Sorter
	watcher = svc.Watcher
	journalReader = svc.Journal
	partnerService = svc.Partners
	settingsService = svc.Settings
	closeFn = svc.Close
}

func teardown() error {
	if closeFn == nil {
		return nil
	}
	fn := closeFn
	closeFn = nil
	return fn()
}

// unavailable explains why a service is missing.
func unavailable(name string) error {
	if bootstrapErr != nil {
		return fmt.Errorf("%s service not configured: %w", name, bootstrapErr)
	}
	return errors.New(name + " service not configured")
}
