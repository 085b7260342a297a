// Package scan drives the submission lifecycle: one active scan at a time,
// moving Idle -> Submitting -> Processing -> Complete or Failed, feeding
// progress updates to the presentation layer and the finished record to
// the history store.
package scan

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/adwikataware/Hackcrypt/pkg/history"
	"github.com/adwikataware/Hackcrypt/pkg/types"
)

// ErrScanActive rejects a submission started while another is in flight.
// Submissions are rejected, never queued.
var ErrScanActive = errors.New("a scan is already in progress")

// State is the lifecycle position of the machine.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateProcessing
	StateComplete
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateProcessing:
		return "processing"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// phase is one named segment of the synthetic processing animation. The
// backend reports no real progress during analysis, so these percentages
// are user feedback only and carry no semantic guarantee.
type phase struct {
	name string
	upto int
}

var processingPhases = []phase{
	{"Uploading file", 25},
	{"Running AI detection", 50},
	{"Forensic analysis", 80},
	{"Generating report", 100},
}

const (
	synthTickInterval = 400 * time.Millisecond
	synthStep         = 3
	// Synthetic progress stalls just short of done until the backend
	// actually answers.
	synthCeiling = 95
)

// Update is one observable change pushed to the machine's listener.
type Update struct {
	State   State
	Phase   string
	Percent int
	Record  *types.ScanRecord
	Err     error
}

// Submission is the unit of work the machine runs. Run performs all
// network activity and reports real upload progress through onProgress;
// HasUpload is false for URL submissions, which skip the upload phase.
type Submission struct {
	Source      string
	Fingerprint string
	HasUpload   bool
	Run         func(ctx context.Context, onProgress func(percent int)) (*types.ScanRecord, error)
}

// Machine is the scan lifecycle controller. Completed records are written
// to the store; cancellation and failure never touch it.
type Machine struct {
	mu         sync.Mutex
	state      State
	cancel     context.CancelFunc
	done       chan struct{}
	store      history.Store
	onUpdate   func(Update)
	lastRecord *types.ScanRecord
	lastErr    error
}

// New creates a machine in Idle. onUpdate may be nil.
func New(store history.Store, onUpdate func(Update)) *Machine {
	if onUpdate == nil {
		onUpdate = func(Update) {}
	}
	return &Machine{state: StateIdle, store: store, onUpdate: onUpdate}
}

// State returns the current lifecycle state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Result returns the outcome of the most recent completed submission: the
// stored record after Complete, the failure after Failed, and nil/nil when
// the last run was cancelled or nothing has run yet.
func (m *Machine) Result() (*types.ScanRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRecord, m.lastErr
}

// Start begins a submission. It returns ErrScanActive while a prior
// submission is still in Submitting or Processing; terminal states start a
// fresh run. The lifecycle runs on its own goroutine; use Wait or the
// update callback to observe completion.
func (m *Machine) Start(ctx context.Context, sub Submission) error {
	m.mu.Lock()
	if m.state == StateSubmitting || m.state == StateProcessing {
		m.mu.Unlock()
		return ErrScanActive
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.state = StateSubmitting
	m.cancel = cancel
	m.done = make(chan struct{})
	m.lastRecord = nil
	m.lastErr = nil
	m.mu.Unlock()

	m.onUpdate(Update{State: StateSubmitting, Phase: "Uploading file"})

	go m.run(runCtx, sub)
	return nil
}

// Cancel aborts an in-flight scan and returns the machine to Idle. No
// record is created. Calling Cancel with nothing in flight is a no-op.
func (m *Machine) Cancel() {
	m.mu.Lock()
	cancel := m.cancel
	done := m.done
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	if done != nil {
		<-done
	}
}

// Wait blocks until the current submission finishes through any path.
func (m *Machine) Wait() {
	m.mu.Lock()
	done := m.done
	m.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (m *Machine) run(ctx context.Context, sub Submission) {
	defer close(m.done)
	defer m.clearCancel()

	// The synthetic animation goroutine lives exactly as long as this run.
	synthCtx, stopSynth := context.WithCancel(ctx)
	defer stopSynth()

	uploadDone := make(chan struct{})
	onProgress := m.uploadProgress(sub, uploadDone)
	var transition sync.WaitGroup
	if !sub.HasUpload {
		// URL submissions have no client-side upload phase.
		m.advanceToProcessing()
		close(uploadDone)
		transition.Add(1)
		go func() {
			defer transition.Done()
			m.animateProcessing(synthCtx, 0)
		}()
	} else {
		transition.Add(1)
		go func() {
			defer transition.Done()
			select {
			case <-uploadDone:
				if m.advanceToProcessing() {
					m.animateProcessing(synthCtx, 25)
				}
			case <-synthCtx.Done():
			}
		}()
	}

	record, err := sub.Run(ctx, onProgress)
	// Join the transition goroutine before any terminal state is set so a
	// late upload-complete signal cannot touch a finished machine.
	stopSynth()
	transition.Wait()

	if ctx.Err() != nil {
		// Cancelled: back to Idle, nothing stored.
		m.setState(StateIdle)
		m.onUpdate(Update{State: StateIdle})
		return
	}

	if err != nil {
		m.mu.Lock()
		m.state = StateFailed
		m.lastErr = err
		m.mu.Unlock()
		m.onUpdate(Update{State: StateFailed, Err: err})
		return
	}

	m.finalize(ctx, sub, record)
}

// finalize fills in record identity, marks repeat content as cached, and
// hands the record to the store.
func (m *Machine) finalize(ctx context.Context, sub Submission, record *types.ScanRecord) {
	if record.ContentHash == "" {
		record.ContentHash = sub.Fingerprint
	}
	if record.ScanTimestamp == 0 {
		record.ScanTimestamp = float64(time.Now().UnixMilli()) / 1000
	}
	if record.Filename == "" {
		record.Filename = sub.Source
	}

	if !record.Cached && record.ContentHash != "" {
		if _, seen, err := m.store.Get(ctx, record.ContentHash); err == nil && seen {
			record.Cached = true
		}
	}

	if err := m.store.Put(ctx, record); err != nil {
		slog.Warn("failed to store scan record", "hash", record.ContentHash, "error", err)
	}

	m.mu.Lock()
	m.state = StateComplete
	m.lastRecord = record
	m.mu.Unlock()
	m.onUpdate(Update{State: StateComplete, Phase: "Generating report", Percent: 100, Record: record})
}

// uploadProgress wraps the real upload percentage into Submitting updates
// and signals the Processing transition at 100%.
func (m *Machine) uploadProgress(sub Submission, uploadDone chan struct{}) func(int) {
	var once sync.Once
	return func(percent int) {
		if m.State() != StateSubmitting {
			return
		}
		// Upload progress maps onto the first synthetic phase band.
		m.onUpdate(Update{State: StateSubmitting, Phase: "Uploading file", Percent: percent * 25 / 100})
		if percent >= 100 {
			once.Do(func() { close(uploadDone) })
		}
	}
}

// animateProcessing advances the synthetic phase ticker. It stops when the
// run context ends (result, failure, or cancellation) so no timer outlives
// the state that started it.
func (m *Machine) animateProcessing(ctx context.Context, startPercent int) {
	ticker := time.NewTicker(synthTickInterval)
	defer ticker.Stop()

	percent := startPercent
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if percent < synthCeiling {
				percent += synthStep
				if percent > synthCeiling {
					percent = synthCeiling
				}
			}
			m.onUpdate(Update{State: StateProcessing, Phase: phaseName(percent), Percent: percent})
		}
	}
}

func phaseName(percent int) string {
	for _, p := range processingPhases {
		if percent < p.upto {
			return p.name
		}
	}
	return processingPhases[len(processingPhases)-1].name
}

func (m *Machine) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// advanceToProcessing moves the machine from Submitting to Processing. The
// upload-complete signal can arrive after the run already finished, so the
// transition applies only while the machine is still Submitting; a terminal
// state is never reverted.
func (m *Machine) advanceToProcessing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateSubmitting {
		return false
	}
	m.state = StateProcessing
	return true
}

func (m *Machine) clearCancel() {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.mu.Unlock()
}
