package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adwikataware/Hackcrypt/pkg/types"
)

func record(hash string, ts float64, fileType types.FileType, auth types.Authenticity) *types.ScanRecord {
	return &types.ScanRecord{
		AnalysisResult: types.AnalysisResult{
			FileType:     fileType,
			Verdict:      auth.String(),
			Authenticity: auth,
		},
		ContentHash:   hash,
		ScanTimestamp: ts,
	}
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]byte("same bytes"))
	b := Fingerprint([]byte("same bytes"))
	c := Fingerprint([]byte("different bytes"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestFingerprintFileMatchesBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.bin")
	content := []byte("frame data")
	require.NoError(t, os.WriteFile(path, content, 0644))

	fromFile, err := FingerprintFile(path)
	require.NoError(t, err)
	assert.Equal(t, Fingerprint(content), fromFile)
}

// storeUnderTest runs the shared Store contract against an implementation.
func storeUnderTest(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("put get roundtrip", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, record("h1", 100, types.FileTypeImage, types.AuthenticityFake)))

		got, ok, err := store.Get(ctx, "h1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "h1", got.ContentHash)
		assert.Equal(t, types.FileTypeImage, got.FileType)
	})

	t.Run("last write wins", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, record("h1", 100, types.FileTypeImage, types.AuthenticityFake)))
		require.NoError(t, store.Put(ctx, record("h1", 200, types.FileTypeImage, types.AuthenticityReal)))

		got, ok, err := store.Get(ctx, "h1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, float64(200), got.ScanTimestamp)

		all, err := store.GetAll(ctx)
		require.NoError(t, err)
		count := 0
		for _, r := range all {
			if r.ContentHash == "h1" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("get all newest first", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx))
		require.NoError(t, store.Put(ctx, record("old", 100, types.FileTypeImage, types.AuthenticityReal)))
		require.NoError(t, store.Put(ctx, record("new", 300, types.FileTypeVideo, types.AuthenticityFake)))
		require.NoError(t, store.Put(ctx, record("mid", 200, types.FileTypeAudio, types.AuthenticityFake)))

		all, err := store.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "new", all[0].ContentHash)
		assert.Equal(t, "mid", all[1].ContentHash)
		assert.Equal(t, "old", all[2].ContentHash)
	})

	t.Run("delete absent is no-op", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, "never-existed"))
	})

	t.Run("delete removes record", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, record("gone", 400, types.FileTypeImage, types.AuthenticityReal)))
		require.NoError(t, store.Delete(ctx, "gone"))

		_, ok, err := store.Get(ctx, "gone")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("clear empties store", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, record("x", 500, types.FileTypeImage, types.AuthenticityReal)))
		require.NoError(t, store.Clear(ctx))

		all, err := store.GetAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}

func TestMemoryStore(t *testing.T) {
	storeUnderTest(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	storeUnderTest(t, store)
}

func TestSQLiteStoreReadsBackVerbatim(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	isFake := true
	stored := &types.ScanRecord{
		AnalysisResult: types.AnalysisResult{
			FileType: types.FileTypeImage,
			Verdict:  "Likely Fake",
			IsFake:   &isFake,
			// Sub-1 values are legitimate after normalization; reads must
			// not re-scale them.
			OverallConfidence: 0.5,
			ThreatLevel:       types.ThreatLow,
		},
		ContentHash:   "tiny",
		ScanTimestamp: 100,
	}
	require.NoError(t, store.Put(ctx, stored))

	got, ok, err := store.Get(ctx, "tiny")
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 0.5, got.OverallConfidence, 0.0001)
	assert.Equal(t, types.ThreatLow, got.ThreatLevel)
	assert.Equal(t, types.AuthenticityFake, got.Authenticity, "authenticity is re-derived on read")

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.InDelta(t, 0.5, all[0].OverallConfidence, 0.0001)
}

func TestComputeStats(t *testing.T) {
	t.Run("empty history", func(t *testing.T) {
		stats := ComputeStats(nil)
		assert.Equal(t, 0, stats.TotalScans)
		assert.Equal(t, float64(0), stats.DetectionRate)
	})

	t.Run("rates and type counts", func(t *testing.T) {
		records := []*types.ScanRecord{
			record("a", 1, types.FileTypeImage, types.AuthenticityFake),
			record("b", 2, types.FileTypeVideo, types.AuthenticityReal),
			record("c", 3, types.FileTypeAudio, types.AuthenticityUncertain),
		}
		stats := ComputeStats(records)

		assert.Equal(t, 3, stats.TotalScans)
		assert.Equal(t, 1, stats.FakeCount)
		assert.Equal(t, 1, stats.RealCount)
		assert.InDelta(t, 33.3, stats.DetectionRate, 0.001)
		assert.Equal(t, types.TypeCounts{Images: 1, Videos: 1, Audio: 1}, stats.ByType)
	})
}
