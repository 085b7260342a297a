package scan

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adwikataware/Hackcrypt/pkg/history"
	"github.com/adwikataware/Hackcrypt/pkg/types"
)

type updateLog struct {
	mu      sync.Mutex
	updates []Update
}

func (l *updateLog) add(u Update) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.updates = append(l.updates, u)
}

func (l *updateLog) last() Update {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.updates) == 0 {
		return Update{}
	}
	return l.updates[len(l.updates)-1]
}

func successfulRun(record *types.ScanRecord) func(context.Context, func(int)) (*types.ScanRecord, error) {
	return func(_ context.Context, onProgress func(int)) (*types.ScanRecord, error) {
		for _, p := range []int{10, 50, 100} {
			onProgress(p)
		}
		return record, nil
	}
}

func TestLifecycleCompletes(t *testing.T) {
	store := history.NewMemoryStore()
	log := &updateLog{}
	machine := New(store, log.add)

	record := &types.ScanRecord{
		AnalysisResult: types.AnalysisResult{FileType: types.FileTypeImage, Verdict: "Likely Authentic"},
	}

	err := machine.Start(context.Background(), Submission{
		Source:      "photo.jpg",
		Fingerprint: "abc123",
		HasUpload:   true,
		Run:         successfulRun(record),
	})
	require.NoError(t, err)
	machine.Wait()

	assert.Equal(t, StateComplete, machine.State())

	final := log.last()
	assert.Equal(t, StateComplete, final.State)
	assert.Equal(t, 100, final.Percent)
	require.NotNil(t, final.Record)
	assert.Equal(t, "abc123", final.Record.ContentHash)
	assert.Equal(t, "photo.jpg", final.Record.Filename)
	assert.NotZero(t, final.Record.ScanTimestamp)

	stored, ok, err := store.Get(context.Background(), "abc123")
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, stored.Cached)
}

func TestRepeatContentMarkedCached(t *testing.T) {
	store := history.NewMemoryStore()
	machine := New(store, nil)

	submission := func() Submission {
		return Submission{
			Source:      "photo.jpg",
			Fingerprint: "samehash",
			HasUpload:   true,
			Run: successfulRun(&types.ScanRecord{
				AnalysisResult: types.AnalysisResult{FileType: types.FileTypeImage},
			}),
		}
	}

	require.NoError(t, machine.Start(context.Background(), submission()))
	machine.Wait()
	require.NoError(t, machine.Start(context.Background(), submission()))
	machine.Wait()

	stored, ok, err := store.Get(context.Background(), "samehash")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, stored.Cached)
}

func TestConcurrentSubmissionRejected(t *testing.T) {
	store := history.NewMemoryStore()
	machine := New(store, nil)

	release := make(chan struct{})
	err := machine.Start(context.Background(), Submission{
		HasUpload: true,
		Run: func(ctx context.Context, _ func(int)) (*types.ScanRecord, error) {
			<-release
			return &types.ScanRecord{}, nil
		},
	})
	require.NoError(t, err)

	err = machine.Start(context.Background(), Submission{})
	assert.ErrorIs(t, err, ErrScanActive)

	close(release)
	machine.Wait()

	// Terminal states accept a fresh submission.
	err = machine.Start(context.Background(), Submission{
		HasUpload: true,
		Run:       successfulRun(&types.ScanRecord{}),
	})
	assert.NoError(t, err)
	machine.Wait()
}

func TestFailureKeepsHistoryIntact(t *testing.T) {
	store := history.NewMemoryStore()
	existing := &types.ScanRecord{ContentHash: "keep", ScanTimestamp: 1}
	require.NoError(t, store.Put(context.Background(), existing))

	log := &updateLog{}
	machine := New(store, log.add)

	err := machine.Start(context.Background(), Submission{
		HasUpload: true,
		Run: func(ctx context.Context, _ func(int)) (*types.ScanRecord, error) {
			return nil, &types.ServerError{StatusCode: 500, Detail: "analysis crashed"}
		},
	})
	require.NoError(t, err)
	machine.Wait()

	assert.Equal(t, StateFailed, machine.State())

	final := log.last()
	var serverErr *types.ServerError
	require.ErrorAs(t, final.Err, &serverErr)

	all, err := store.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1, "failure must not disturb cached history")
}

func TestCancelReturnsToIdleWithoutRecord(t *testing.T) {
	store := history.NewMemoryStore()
	machine := New(store, nil)

	started := make(chan struct{})
	err := machine.Start(context.Background(), Submission{
		HasUpload: true,
		Run: func(ctx context.Context, _ func(int)) (*types.ScanRecord, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		},
	})
	require.NoError(t, err)

	<-started
	machine.Cancel()

	assert.Equal(t, StateIdle, machine.State())
	all, err := store.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all, "cancelled scans never create records")
}

func TestURLSubmissionSkipsUploadPhase(t *testing.T) {
	store := history.NewMemoryStore()
	machine := New(store, nil)

	sawProcessing := make(chan struct{})
	err := machine.Start(context.Background(), Submission{
		Source:    "https://example.com/v.mp4",
		HasUpload: false,
		Run: func(ctx context.Context, _ func(int)) (*types.ScanRecord, error) {
			// URL submissions enter Processing before any upload progress.
			deadline := time.After(2 * time.Second)
			for machine.State() != StateProcessing {
				select {
				case <-deadline:
					return nil, errors.New("never reached processing")
				case <-time.After(5 * time.Millisecond):
				}
			}
			close(sawProcessing)
			return &types.ScanRecord{
				AnalysisResult: types.AnalysisResult{FileType: types.FileTypeVideo},
				ContentHash:    "urlhash",
			}, nil
		},
	})
	require.NoError(t, err)
	machine.Wait()

	select {
	case <-sawProcessing:
	default:
		t.Fatal("machine never entered processing")
	}
	assert.Equal(t, StateComplete, machine.State())
}

func TestUploadCompletionNeverRevertsTerminalState(t *testing.T) {
	store := history.NewMemoryStore()
	machine := New(store, nil)

	// Run reports 100% and returns immediately, so the goroutine waiting on
	// the upload signal races the Complete transition. However the race
	// lands, the machine must stay terminal and accept the next submission.
	for i := 0; i < 500; i++ {
		err := machine.Start(context.Background(), Submission{
			Source:      "photo.jpg",
			Fingerprint: "racehash",
			HasUpload:   true,
			Run: func(_ context.Context, onProgress func(int)) (*types.ScanRecord, error) {
				onProgress(100)
				return &types.ScanRecord{
					AnalysisResult: types.AnalysisResult{FileType: types.FileTypeImage},
				}, nil
			},
		})
		require.NoError(t, err, "iteration %d: machine wedged out of a terminal state", i)
		machine.Wait()
		require.Equal(t, StateComplete, machine.State(), "iteration %d", i)
	}
}

func TestPhaseNames(t *testing.T) {
	assert.Equal(t, "Uploading file", phaseName(0))
	assert.Equal(t, "Running AI detection", phaseName(30))
	assert.Equal(t, "Forensic analysis", phaseName(60))
	assert.Equal(t, "Generating report", phaseName(90))
	assert.Equal(t, "Generating report", phaseName(100))
}
