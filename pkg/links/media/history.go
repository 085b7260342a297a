package media

import (
	"fmt"
	"time"

	"github.com/praetorian-inc/janus-framework/pkg/chain"
	"github.com/praetorian-inc/janus-framework/pkg/chain/cfg"

	"github.com/adwikataware/Hackcrypt/internal/message"
	"github.com/adwikataware/Hackcrypt/pkg/history"
	"github.com/adwikataware/Hackcrypt/pkg/links/options"
	"github.com/adwikataware/Hackcrypt/pkg/types"
)

// historyBase wires the configured store into a link.
type historyBase struct {
	*chain.Base
	store history.Store
}

func (l *historyBase) Params() []cfg.Param {
	return options.ScanOptions()
}

func (l *historyBase) Initialize() error {
	store, err := storeFromArgs(l, clientFromArgs(l))
	if err != nil {
		return err
	}
	l.store = store
	return nil
}

// HistoryListLink emits every stored record plus a summary table.
type HistoryListLink struct {
	historyBase
}

func NewHistoryListLink(configs ...cfg.Config) chain.Link {
	l := &HistoryListLink{}
	l.Base = chain.NewBase(l, configs...)
	return l
}

func (l *HistoryListLink) Process(_ string) error { return nil }

// Complete renders the listing; list modules take no chain input.
func (l *HistoryListLink) Complete() error {
	records, err := l.store.GetAll(l.Context())
	if err != nil {
		return err
	}

	if len(records) == 0 {
		message.Info("Scan history is empty")
		return nil
	}

	rows := make([][]string, 0, len(records))
	for _, record := range records {
		when := time.Unix(int64(record.ScanTimestamp), 0).UTC().Format("2006-01-02 15:04")
		cached := ""
		if record.Cached {
			cached = "yes"
		}
		rows = append(rows, []string{
			shortHash(record.ContentHash),
			string(record.FileType),
			record.Verdict,
			string(record.ThreatLevel),
			fmt.Sprintf("%.1f%%", record.OverallConfidence),
			when,
			cached,
		})
		l.Send(record)
	}

	l.Send(types.MarkdownTable{
		TableHeading: "Scan History",
		Headers:      []string{"Hash", "Type", "Verdict", "Threat", "Confidence", "Scanned (UTC)", "Cached"},
		Rows:         rows,
	})
	return nil
}

// HistoryDeleteLink removes one record by content hash.
type HistoryDeleteLink struct {
	historyBase
}

func NewHistoryDeleteLink(configs ...cfg.Config) chain.Link {
	l := &HistoryDeleteLink{}
	l.Base = chain.NewBase(l, configs...)
	return l
}

func (l *HistoryDeleteLink) Process(contentHash string) error {
	if err := l.store.Delete(l.Context(), contentHash); err != nil {
		return err
	}
	message.Success("Deleted scan %s", shortHash(contentHash))
	return nil
}

// HistoryClearLink removes every record.
type HistoryClearLink struct {
	historyBase
}

func NewHistoryClearLink(configs ...cfg.Config) chain.Link {
	l := &HistoryClearLink{}
	l.Base = chain.NewBase(l, configs...)
	return l
}

func (l *HistoryClearLink) Process(_ string) error { return nil }

func (l *HistoryClearLink) Complete() error {
	if err := l.store.Clear(l.Context()); err != nil {
		return err
	}
	message.Success("Scan history cleared")
	return nil
}

// StatsLink emits the aggregate history statistics as a table.
type StatsLink struct {
	historyBase
}

func NewStatsLink(configs ...cfg.Config) chain.Link {
	l := &StatsLink{}
	l.Base = chain.NewBase(l, configs...)
	return l
}

func (l *StatsLink) Process(_ string) error { return nil }

func (l *StatsLink) Complete() error {
	stats, err := l.store.Stats(l.Context())
	if err != nil {
		return err
	}

	l.Send(*stats)
	l.Send(types.MarkdownTable{
		TableHeading: "Scan Statistics",
		Headers:      []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total scans", fmt.Sprintf("%d", stats.TotalScans)},
			{"Fake detected", fmt.Sprintf("%d", stats.FakeCount)},
			{"Authentic", fmt.Sprintf("%d", stats.RealCount)},
			{"Detection rate", fmt.Sprintf("%.1f%%", stats.DetectionRate)},
			{"Images", fmt.Sprintf("%d", stats.ByType.Images)},
			{"Videos", fmt.Sprintf("%d", stats.ByType.Videos)},
			{"Audio", fmt.Sprintf("%d", stats.ByType.Audio)},
		},
	})
	return nil
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
