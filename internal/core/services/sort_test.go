package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/edisort/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/edisort/internal/core/domain"
	"github.com/custodia-labs/edisort/internal/core/ports/driving"
	"github.com/custodia-labs/edisort/internal/partners"
)

type sortFixture struct {
	svc      *SortService
	staging  *mockStaging
	mover    *mockMover
	journal  *memory.JournalStore
	settings domain.Settings
}

func newSortFixture(t *testing.T, mutate func(*domain.Settings)) *sortFixture {
	t.Helper()
	settings := domain.DefaultSettings("/edi")
	settings.Move.PerSecond = 0
	if mutate != nil {
		mutate(&settings)
	}

	f := &sortFixture{
		staging:  newMockStaging(settings.Dirs.Staging),
		mover:    newMockMover(),
		journal:  memory.NewJournalStore(),
		settings: settings,
	}
	classifier := NewClassificationService(defaultTable(t), settings.Transport)
	f.svc = NewSortService(classifier, f.staging, f.mover, f.journal, settings)
	f.svc.pacer.backoff = 0
	return f
}

func stagedName(seq string) string {
	return "1027-20201006101520-" + seq + ".edi"
}

func fileByName(t *testing.T, report *driving.BatchReport, filename string) driving.FileReport {
	t.Helper()
	for _, f := range report.Files {
		if f.Result.Filename == filename {
			return f
		}
	}
	t.Fatalf("no report for %s", filename)
	return driving.FileReport{}
}

func TestSort_MixedBatch(t *testing.T) {
	f := newSortFixture(t, nil)
	f.staging.add(stagedName("aaa"), x12File(partners.HusqvarnaSenderID, "850", "N1*SF*THOMSON PLASTICS"))
	f.staging.add(stagedName("bbb"), x12File("STRANGER", "850"))
	f.staging.add(stagedName("ccc"), []byte("garbage"))
	f.staging.add("readme.txt", []byte("hello"))

	report, err := f.svc.Sort(context.Background(), driving.SortOptions{})

	require.NoError(t, err)
	require.Len(t, report.Files, 4)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 1, report.Count(domain.OutcomeMatched))
	assert.Equal(t, 2, report.Count(domain.OutcomeUnmatched))
	assert.Equal(t, 1, report.Count(domain.OutcomeMalformed))
	assert.NoError(t, report.Err())

	moves := f.mover.destinations()
	assert.Equal(t, "/edi/inbound/HUSQ-THM-850-20201006101520-aaa.edi", moves["/edi/staging/"+stagedName("aaa")])
	assert.Equal(t, "/edi/inbound/"+stagedName("bbb"), moves["/edi/staging/"+stagedName("bbb")])
	assert.Equal(t, "/edi/inbound/readme.txt", moves["/edi/staging/readme.txt"])
	assert.NotContains(t, moves, "/edi/staging/"+stagedName("ccc"))

	held := fileByName(t, report, stagedName("ccc"))
	assert.Equal(t, driving.ActionHeld, held.Action)
	assert.Empty(t, held.Destination)

	entries, err := f.journal.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	statuses := map[string]domain.MoveStatus{}
	for _, e := range entries {
		statuses[e.Filename] = e.Status
		assert.Equal(t, report.RunID, e.RunID)
	}
	assert.Equal(t, domain.MoveDone, statuses[stagedName("aaa")])
	assert.Equal(t, domain.MoveDone, statuses[stagedName("bbb")])
	assert.Equal(t, domain.MoveHeld, statuses[stagedName("ccc")])
}

func TestSort_MalformedPolicy(t *testing.T) {
	tests := []struct {
		name     string
		policy   domain.MalformedPolicy
		action   driving.Action
		expected string
	}{
		{name: "hold", policy: domain.MalformedHold, action: driving.ActionHeld, expected: ""},
		{name: "quarantine", policy: domain.MalformedQuarantine, action: driving.ActionQuarantined, expected: "/edi/quarantine/" + stagedName("bad")},
		{name: "catchall", policy: domain.MalformedCatchAll, action: driving.ActionMoved, expected: "/edi/inbound/" + stagedName("bad")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSortFixture(t, func(s *domain.Settings) { s.MalformedPolicy = tt.policy })
			f.staging.add(stagedName("bad"), []byte("ZZZ*not*edi~"))

			report, err := f.svc.Sort(context.Background(), driving.SortOptions{})

			require.NoError(t, err)
			fr := fileByName(t, report, stagedName("bad"))
			assert.Equal(t, domain.OutcomeMalformed, fr.Result.Outcome)
			assert.Equal(t, tt.action, fr.Action)
			assert.Equal(t, tt.expected, fr.Destination)
			if tt.expected == "" {
				assert.Zero(t, f.mover.callCount())
			} else {
				assert.Equal(t, tt.expected, f.mover.destinations()["/edi/staging/"+stagedName("bad")])
			}
		})
	}
}

func TestSort_DryRunTouchesNothing(t *testing.T) {
	f := newSortFixture(t, nil)
	f.staging.add(stagedName("aaa"), edifactFile(partners.GAAlabamaSenderID, "DESADV"))
	f.staging.add(stagedName("bad"), []byte("nonsense"))

	report, err := f.svc.Sort(context.Background(), driving.SortOptions{DryRun: true})

	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Zero(t, f.mover.callCount())

	planned := fileByName(t, report, stagedName("aaa"))
	assert.Equal(t, driving.ActionPlanned, planned.Action)
	assert.Equal(t, "/edi/inbound/GAALABAMA-DESADV-20201006101520-aaa.edi", planned.Destination)
	assert.Equal(t, driving.ActionHeld, fileByName(t, report, stagedName("bad")).Action)

	entries, err := f.journal.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSort_TransientMoveFailureIsRetried(t *testing.T) {
	f := newSortFixture(t, nil)
	f.mover.failures = 2
	f.staging.add(stagedName("aaa"), x12File(partners.NavistarSenderID, "830"))

	report, err := f.svc.Sort(context.Background(), driving.SortOptions{})

	require.NoError(t, err)
	fr := fileByName(t, report, stagedName("aaa"))
	assert.Equal(t, driving.ActionMoved, fr.Action)
	assert.Equal(t, "/edi/inbound/NAVISTAR-830-20201006101520-aaa.edi", fr.Destination)
	assert.Equal(t, 3, f.mover.callCount())
}

func TestSort_FailedMoveIsJournalledAndRetried(t *testing.T) {
	f := newSortFixture(t, func(s *domain.Settings) { s.Move.Attempts = 2 })
	f.mover.failures = 2
	f.staging.add(stagedName("aaa"), x12File(partners.OWTSenderID, "850"))
	ctx := context.Background()

	report, err := f.svc.Sort(ctx, driving.SortOptions{})

	require.NoError(t, err)
	fr := fileByName(t, report, stagedName("aaa"))
	assert.Equal(t, driving.ActionFailed, fr.Action)
	assert.ErrorIs(t, fr.Err, errTransient)
	assert.ErrorIs(t, report.Err(), errTransient)
	assert.Equal(t, 2, f.mover.callCount())

	pending, err := f.journal.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, domain.MoveFailed, pending[0].Status)
	assert.Equal(t, "OWT-850-20201006101520-aaa.edi", pending[0].TargetName)
	assert.Equal(t, "OWT", pending[0].PartnerPrefix)

	retry, err := f.svc.Retry(ctx)

	require.NoError(t, err)
	require.Len(t, retry.Files, 1)
	assert.Equal(t, driving.ActionMoved, retry.Files[0].Action)
	assert.Equal(t, "OWT-850-20201006101520-aaa.edi", retry.Files[0].Result.NewFilename)
	assert.Equal(t, "/edi/inbound/OWT-850-20201006101520-aaa.edi", retry.Files[0].Destination)

	pending, err = f.journal.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSort_PermanentMoveErrorsAreNotRetried(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "destination exists", err: fmt.Errorf("x: %w", domain.ErrDestinationExists)},
		{name: "source gone", err: fmt.Errorf("x: %w", fs.ErrNotExist)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSortFixture(t, nil)
			f.mover.err = tt.err
			f.staging.add(stagedName("aaa"), x12File(partners.NavistarSenderID, "830"))

			report, err := f.svc.Sort(context.Background(), driving.SortOptions{})

			require.NoError(t, err)
			assert.Equal(t, driving.ActionFailed, report.Files[0].Action)
			assert.Equal(t, 1, f.mover.callCount())
		})
	}
}

func TestSort_DeliveredWithSourceLeftBehindIsNotRetried(t *testing.T) {
	f := newSortFixture(t, nil)
	f.mover.removeErr = errors.New("permission denied")
	f.staging.add(stagedName("aaa"), x12File(partners.NavistarSenderID, "830"))
	ctx := context.Background()

	report, err := f.svc.Sort(ctx, driving.SortOptions{})

	require.NoError(t, err)
	fr := fileByName(t, report, stagedName("aaa"))
	assert.Equal(t, driving.ActionMoved, fr.Action)
	assert.NoError(t, fr.Err)
	assert.Equal(t, "/edi/inbound/NAVISTAR-830-20201006101520-aaa.edi", fr.Destination)
	assert.Equal(t, 1, f.mover.callCount())

	entries, err := f.journal.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.MoveDone, entries[0].Status)
	assert.Equal(t, "/edi/inbound/NAVISTAR-830-20201006101520-aaa.edi", entries[0].MovedTo)

	pending, err := f.journal.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSort_ReadFailureIsScopedToFile(t *testing.T) {
	f := newSortFixture(t, nil)
	f.staging.add(stagedName("aaa"), x12File(partners.NavistarSenderID, "830"))
	f.staging.add(stagedName("bbb"), x12File(partners.NavistarSenderID, "830"))
	f.staging.readErr[stagedName("aaa")] = errors.New("permission denied")

	report, err := f.svc.Sort(context.Background(), driving.SortOptions{})

	require.NoError(t, err)
	assert.Equal(t, driving.ActionFailed, fileByName(t, report, stagedName("aaa")).Action)
	assert.Equal(t, driving.ActionMoved, fileByName(t, report, stagedName("bbb")).Action)
	assert.Contains(t, report.Err().Error(), "permission denied")
}

func TestSort_ListError(t *testing.T) {
	f := newSortFixture(t, nil)
	f.staging.listErr = errors.New("no such directory")

	report, err := f.svc.Sort(context.Background(), driving.SortOptions{})

	require.Error(t, err)
	assert.Nil(t, report)
}

func TestSort_CancelledBeforeStart(t *testing.T) {
	f := newSortFixture(t, nil)
	f.staging.add(stagedName("aaa"), x12File(partners.NavistarSenderID, "830"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := f.svc.Sort(ctx, driving.SortOptions{})

	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Empty(t, report.Files)
	assert.Zero(t, f.mover.callCount())
}

func TestSort_WorkersBoundConcurrency(t *testing.T) {
	f := newSortFixture(t, func(s *domain.Settings) { s.Workers = 2 })
	f.staging.readWait = 20 * time.Millisecond
	for i := 0; i < 8; i++ {
		f.staging.add(stagedName(fmt.Sprintf("s%d", i)), x12File(partners.NavistarSenderID, "830"))
	}

	report, err := f.svc.Sort(context.Background(), driving.SortOptions{})

	require.NoError(t, err)
	assert.Len(t, report.Files, 8)
	assert.LessOrEqual(t, f.staging.maxActive.Load(), int32(2))
}

func TestSort_WithoutJournal(t *testing.T) {
	settings := domain.DefaultSettings("/edi")
	settings.Move.PerSecond = 0
	staging := newMockStaging(settings.Dirs.Staging)
	staging.add(stagedName("aaa"), x12File(partners.NavistarSenderID, "830"))
	mover := newMockMover()
	svc := NewSortService(NewClassificationService(defaultTable(t), settings.Transport), staging, mover, nil, settings)

	report, err := svc.Sort(context.Background(), driving.SortOptions{})
	require.NoError(t, err)
	assert.Equal(t, driving.ActionMoved, report.Files[0].Action)

	_, err = svc.Retry(context.Background())
	assert.ErrorIs(t, err, domain.ErrJournalDisabled)

	_, err = svc.Recent(context.Background(), 10)
	assert.ErrorIs(t, err, domain.ErrJournalDisabled)
}

func TestSort_Recent(t *testing.T) {
	f := newSortFixture(t, nil)
	f.staging.add(stagedName("aaa"), x12File(partners.NavistarSenderID, "830"))
	_, err := f.svc.Sort(context.Background(), driving.SortOptions{})
	require.NoError(t, err)

	entries, err := f.svc.Recent(context.Background(), 5)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Join("/edi/staging", stagedName("aaa")), entries[0].SourcePath)
	assert.Equal(t, "/edi/inbound/NAVISTAR-830-20201006101520-aaa.edi", entries[0].MovedTo)
}
