package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/praetorian-inc/janus-framework/pkg/chain"
	"github.com/praetorian-inc/janus-framework/pkg/chain/cfg"
	"golang.org/x/sync/errgroup"

	"github.com/adwikataware/Hackcrypt/pkg/api"
	"github.com/adwikataware/Hackcrypt/pkg/links/options"
	"github.com/adwikataware/Hackcrypt/pkg/schema"
	"github.com/adwikataware/Hackcrypt/pkg/types"
)

// FrameSource yields base64-encoded frames captured from playing media.
// The browser extension answers captureFrame messages; the CLI analog
// reads pre-extracted frame images from a directory.
type FrameSource interface {
	Frames(ctx context.Context, source string) ([]string, error)
}

// DirFrameSource reads every image in a directory, in name order, as the
// captured frame sequence.
type DirFrameSource struct{}

func (DirFrameSource) Frames(_ context.Context, dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read frames directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".jpg", ".jpeg", ".png", ".webp":
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	frames := make([]string, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read frame %s: %w", name, err)
		}
		frames = append(frames, base64.StdEncoding.EncodeToString(data))
	}

	return frames, nil
}

// AnalyzeFramesLink batches captured frames to the backend and emits one
// normalized result per batch. Batches are submitted concurrently; the
// capture interval only paces the source, never the submissions.
type AnalyzeFramesLink struct {
	*chain.Base
	client *api.Client
	source FrameSource
}

func NewAnalyzeFramesLink(configs ...cfg.Config) chain.Link {
	l := &AnalyzeFramesLink{source: DirFrameSource{}}
	l.Base = chain.NewBase(l, configs...)
	return l
}

// SetSource replaces the frame source (used by tests).
func (l *AnalyzeFramesLink) SetSource(source FrameSource) { l.source = source }

func (l *AnalyzeFramesLink) Params() []cfg.Param {
	return append(options.BackendOptions(),
		options.FrameBatchSize(),
		options.FrameIntervalMS(),
	)
}

func (l *AnalyzeFramesLink) Initialize() error {
	l.client = clientFromArgs(l)
	return nil
}

func (l *AnalyzeFramesLink) Process(source string) error {
	batchSize, err := cfg.As[int](l.Arg("batch-size"))
	if err != nil || batchSize <= 0 {
		batchSize = 8
	}
	intervalMS, err := cfg.As[int](l.Arg("interval-ms"))
	if err != nil || intervalMS < 0 {
		intervalMS = 500
	}
	interval := time.Duration(intervalMS) * time.Millisecond

	frames, err := l.source.Frames(l.Context(), source)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no frames found in %s", source)
	}

	l.Logger.Info("analyzing captured frames", "frames", len(frames), "batch_size", batchSize, "interval", interval)

	group, ctx := errgroup.WithContext(l.Context())
	results := make([]*batchSlot, 0, (len(frames)+batchSize-1)/batchSize)

	for start := 0; start < len(frames); start += batchSize {
		end := start + batchSize
		if end > len(frames) {
			end = len(frames)
		}
		batch := frames[start:end]
		index := start / batchSize

		slot := &batchSlot{}
		results = append(results, slot)

		group.Go(func() error {
			fb, err := l.client.AnalyzeFrames(ctx, batch)
			if err != nil {
				return fmt.Errorf("frame batch %d failed: %w", index+1, err)
			}
			slot.result = schema.NormalizeFrameBatch(fb)
			return nil
		})

		// Pace batch starts at the capture interval, mirroring how the
		// extension streams frames off a live video.
		if end < len(frames) && interval > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(interval):
			}
		}
	}

	if err := group.Wait(); err != nil {
		return err
	}

	for _, slot := range results {
		if slot.result != nil {
			l.Send(slot.result)
		}
	}
	return nil
}

// batchSlot keeps per-batch results in submission order.
type batchSlot struct {
	result *types.AnalysisResult
}
