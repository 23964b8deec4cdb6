package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/custodia-labs/edisort/internal/core/domain"
	"github.com/custodia-labs/edisort/internal/core/ports/driving"
)

// mockClassifier implements driving.Classifier and driving.Inspector.
type mockClassifier struct {
	result   domain.ClassificationResult
	env      domain.Envelope
	segments []domain.Segment
	err      error
	seen     []domain.RawInterchange
}

func (m *mockClassifier) Classify(raw domain.RawInterchange) domain.ClassificationResult {
	m.seen = append(m.seen, raw)
	r := m.result
	r.Filename = raw.Filename
	return r
}

func (m *mockClassifier) Inspect(raw domain.RawInterchange) (domain.Envelope, []domain.Segment, error) {
	m.seen = append(m.seen, raw)
	return m.env, m.segments, m.err
}

// mockSorter implements driving.Sorter.
type mockSorter struct {
	report   *driving.BatchReport
	err      error
	lastOpts driving.SortOptions
	retried  bool
}

func (m *mockSorter) Sort(_ context.Context, opts driving.SortOptions) (*driving.BatchReport, error) {
	m.lastOpts = opts
	if m.report != nil {
		m.report.DryRun = opts.DryRun
	}
	return m.report, m.err
}

func (m *mockSorter) SortFiles(_ context.Context, _ []domain.StagedFile, opts driving.SortOptions) (*driving.BatchReport, error) {
	m.lastOpts = opts
	return m.report, m.err
}

func (m *mockSorter) Retry(_ context.Context) (*driving.BatchReport, error) {
	m.retried = true
	return m.report, m.err
}

// mockWatcher implements driving.Watcher.
type mockWatcher struct {
	onReport func(*driving.BatchReport)
	report   *driving.BatchReport
	err      error
}

func (m *mockWatcher) Start(_ context.Context) error {
	if m.onReport != nil && m.report != nil {
		m.onReport(m.report)
	}
	return m.err
}

func (m *mockWatcher) Stop() error { return nil }

func (m *mockWatcher) OnReport(fn func(*driving.BatchReport)) { m.onReport = fn }

// mockJournal implements driving.JournalReader.
type mockJournal struct {
	entries   []domain.JournalEntry
	err       error
	lastLimit int
}

func (m *mockJournal) Recent(_ context.Context, limit int) ([]domain.JournalEntry, error) {
	m.lastLimit = limit
	return m.entries, m.err
}

// mockPartners implements driving.PartnerService.
type mockPartners struct {
	profiles []domain.PartnerProfile
	count    int
	err      error
}

func (m *mockPartners) Profiles() []domain.PartnerProfile { return m.profiles }

func (m *mockPartners) Check(_ string) (int, error) { return m.count, m.err }

// mockSettings implements driving.SettingsService.
type mockSettings struct {
	settings domain.Settings
	values   []driving.KeyValue
	unknown  []string
	setErr   error
	set      map[string]string
}

func newMockSettings() *mockSettings {
	return &mockSettings{
		settings: domain.DefaultSettings("/srv/edi"),
		set:      make(map[string]string),
	}
}

func (m *mockSettings) Get() (*domain.Settings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettings) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.set[key] = value
	return nil
}

func (m *mockSettings) Values() []driving.KeyValue { return m.values }

func (m *mockSettings) GetDefaults() domain.Settings { return domain.DefaultSettings("/srv/edi") }

func (m *mockSettings) Unknown() []string { return m.unknown }

var errMoveFailed = errors.New("device busy")

// sampleReport has one file per action.
func sampleReport() *driving.BatchReport {
	husq := domain.PartnerProfile{SenderID: "HUSQORNGBRG", Prefix: "HUSQ", Dialect: domain.DialectX12}
	return &driving.BatchReport{
		RunID:      "run-1",
		StartedAt:  time.Date(2020, 10, 6, 10, 15, 20, 0, time.UTC),
		FinishedAt: time.Date(2020, 10, 6, 10, 15, 21, 0, time.UTC),
		Files: []driving.FileReport{
			{
				Result: domain.ClassificationResult{
					Outcome:     domain.OutcomeMatched,
					Filename:    "1027-20201006101520-2e7441af.edi",
					NewFilename: "HUSQ-THM-850-20201006101520-2e7441af.edi",
					Partner:     &husq,
					Dialect:     domain.DialectX12,
					SenderID:    "HUSQORNGBRG",
					MessageType: "850",
				},
				Source:      "/srv/edi/staging/1027-20201006101520-2e7441af.edi",
				Destination: "/srv/edi/inbound/HUSQ-THM-850-20201006101520-2e7441af.edi",
				Action:      driving.ActionMoved,
			},
			{
				Result: domain.ClassificationResult{
					Outcome:  domain.OutcomeUnmatched,
					Filename: "1027-20201006101520-0000aaaa.edi",
					Err:      domain.ErrUnknownSender,
				},
				Source:      "/srv/edi/staging/1027-20201006101520-0000aaaa.edi",
				Destination: "/srv/edi/inbound/1027-20201006101520-0000aaaa.edi",
				Action:      driving.ActionMoved,
			},
			{
				Result: domain.ClassificationResult{
					Outcome:  domain.OutcomeMalformed,
					Filename: "1027-20201006101520-bad.edi",
					Err:      domain.ErrUnrecognizedDialect,
				},
				Source: "/srv/edi/staging/1027-20201006101520-bad.edi",
				Action: driving.ActionHeld,
			},
		},
	}
}

// withServices installs mocks for the duration of a test.
func withServices(t *testing.T, svc Services) {
	t.Helper()
	old := Services{
		Classifier: classifier,
		Inspector:  inspector,
		Sorter:     sorter,
		Watcher:    watcher,
		Journal:    journalReader,
		Partners:   partnerService,
		Settings:   settingsService,
	}
	oldBootstrap, oldErr := bootstrap, bootstrapErr
	install(&svc)
	bootstrap, bootstrapErr = nil, nil
	t.Cleanup(func() {
		install(&old)
		bootstrap, bootstrapErr = oldBootstrap, oldErr
	})
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores flag defaults between executions.
func resetFlags() {
	verbose = false
	configDir = ""
	sortDryRun = false
	sortJSON = false
	retryJSON = false
	classifyJSON = false
	segmentsFind = ""
	journalLimit = 20
	journalJSON = false
}
