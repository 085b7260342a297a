package media

import (
	"context"
	"path/filepath"

	"github.com/praetorian-inc/janus-framework/pkg/chain"
	"github.com/praetorian-inc/janus-framework/pkg/chain/cfg"

	"github.com/adwikataware/Hackcrypt/internal/message"
	"github.com/adwikataware/Hackcrypt/pkg/api"
	"github.com/adwikataware/Hackcrypt/pkg/history"
	"github.com/adwikataware/Hackcrypt/pkg/links/options"
	"github.com/adwikataware/Hackcrypt/pkg/scan"
	"github.com/adwikataware/Hackcrypt/pkg/types"
)

// ScanFileLink submits a local media file through the scan lifecycle and
// emits the finished record. The protection short-circuit for images and
// all validation happen inside the client before any upload.
type ScanFileLink struct {
	*chain.Base
	client  *api.Client
	machine *scan.Machine
	store   history.Store
}

func NewScanFileLink(configs ...cfg.Config) chain.Link {
	l := &ScanFileLink{}
	l.Base = chain.NewBase(l, configs...)
	return l
}

func (l *ScanFileLink) Params() []cfg.Param {
	return options.ScanOptions()
}

func (l *ScanFileLink) Initialize() error {
	l.client = clientFromArgs(l)

	store, err := storeFromArgs(l, l.client)
	if err != nil {
		return err
	}
	l.store = store
	l.machine = scan.New(store, phaseReporter(l))

	return nil
}

func (l *ScanFileLink) Process(path string) error {
	fingerprint, err := history.FingerprintFile(path)
	if err != nil {
		l.Logger.Debug("fingerprint failed, backend hash will be used", "file", path, "error", err)
	}

	err = l.machine.Start(l.Context(), scan.Submission{
		Source:      filepath.Base(path),
		Fingerprint: fingerprint,
		HasUpload:   true,
		Run: func(ctx context.Context, onProgress func(int)) (*types.ScanRecord, error) {
			return l.client.Submit(ctx, path, onProgress)
		},
	})
	if err != nil {
		return err
	}
	l.machine.Wait()

	return l.emitOutcome()
}

// emitOutcome translates the machine's terminal state into link output.
func (l *ScanFileLink) emitOutcome() error {
	record, err := l.machine.Result()
	if err != nil {
		return err
	}
	l.Send(record)
	return nil
}

// VerifyURLLink submits a media URL for server-side download and analysis.
type VerifyURLLink struct {
	*chain.Base
	client  *api.Client
	machine *scan.Machine
}

func NewVerifyURLLink(configs ...cfg.Config) chain.Link {
	l := &VerifyURLLink{}
	l.Base = chain.NewBase(l, configs...)
	return l
}

func (l *VerifyURLLink) Params() []cfg.Param {
	return options.ScanOptions()
}

func (l *VerifyURLLink) Initialize() error {
	l.client = clientFromArgs(l)

	store, err := storeFromArgs(l, l.client)
	if err != nil {
		return err
	}
	l.machine = scan.New(store, phaseReporter(l))

	return nil
}

func (l *VerifyURLLink) Process(mediaURL string) error {
	err := l.machine.Start(l.Context(), scan.Submission{
		Source:    mediaURL,
		HasUpload: false,
		Run: func(ctx context.Context, _ func(int)) (*types.ScanRecord, error) {
			return l.client.VerifyURL(ctx, mediaURL)
		},
	})
	if err != nil {
		return err
	}
	l.machine.Wait()

	record, err := l.machine.Result()
	if err != nil {
		return err
	}
	if record.VideoTitle != "" {
		message.Info("Source: %s", message.Emphasize(record.VideoTitle))
	}
	l.Send(record)
	return nil
}

// phaseReporter prints lifecycle phase changes once each; the synthetic
// per-tick percentages stay at debug level.
func phaseReporter(l chain.Link) func(scan.Update) {
	lastPhase := ""
	return func(u scan.Update) {
		if u.Err != nil {
			return
		}
		if u.Phase != "" && u.Phase != lastPhase {
			lastPhase = u.Phase
			message.Info("%s...", u.Phase)
		}
		l.Logger.Debug("scan progress", "state", u.State.String(), "phase", u.Phase, "percent", u.Percent)
	}
}
