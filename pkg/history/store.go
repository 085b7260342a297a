package history

import (
	"context"
	"math"

	"github.com/adwikataware/Hackcrypt/pkg/types"
)

// Store is the scan history contract. Records are keyed by content hash;
// storing under an existing hash replaces the record (last write wins).
// GetAll returns records newest first. Delete and Clear are no-ops when
// nothing matches.
type Store interface {
	Put(ctx context.Context, record *types.ScanRecord) error
	Get(ctx context.Context, contentHash string) (*types.ScanRecord, bool, error)
	GetAll(ctx context.Context) ([]*types.ScanRecord, error)
	Delete(ctx context.Context, contentHash string) error
	Clear(ctx context.Context) error
	Stats(ctx context.Context) (*types.Stats, error)
}

// ComputeStats aggregates records into the stats summary. The detection
// rate is a percentage rounded to one decimal, and 0 when there are no
// scans so an empty history never produces NaN.
func ComputeStats(records []*types.ScanRecord) *types.Stats {
	stats := &types.Stats{TotalScans: len(records)}

	for _, record := range records {
		switch record.Authenticity {
		case types.AuthenticityFake:
			stats.FakeCount++
		case types.AuthenticityReal:
			stats.RealCount++
		}

		switch record.FileType {
		case types.FileTypeImage:
			stats.ByType.Images++
		case types.FileTypeVideo:
			stats.ByType.Videos++
		case types.FileTypeAudio:
			stats.ByType.Audio++
		}
	}

	if stats.TotalScans > 0 {
		rate := float64(stats.FakeCount) / float64(stats.TotalScans) * 100
		stats.DetectionRate = math.Round(rate*10) / 10
	}

	return stats
}
