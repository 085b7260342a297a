package outputters

import (
	"fmt"
	"sort"
	"strings"

	"github.com/praetorian-inc/janus-framework/pkg/chain"
	"github.com/praetorian-inc/janus-framework/pkg/chain/cfg"

	"github.com/adwikataware/Hackcrypt/internal/message"
	"github.com/adwikataware/Hackcrypt/pkg/types"
)

// VerdictConsoleOutputter renders analysis results as console verdict
// cards. It accepts both bare results and full scan records; anything
// else is ignored.
type VerdictConsoleOutputter struct {
	*chain.BaseOutputter
	results []*types.AnalysisResult
	hashes  []string
}

func NewVerdictConsoleOutputter(configs ...cfg.Config) chain.Outputter {
	o := &VerdictConsoleOutputter{}
	o.BaseOutputter = chain.NewBaseOutputter(o, configs...)
	return o
}

func (o *VerdictConsoleOutputter) Output(val any) error {
	switch v := val.(type) {
	case *types.ScanRecord:
		o.results = append(o.results, &v.AnalysisResult)
		o.hashes = append(o.hashes, v.ContentHash)
	case *types.AnalysisResult:
		o.results = append(o.results, v)
		o.hashes = append(o.hashes, "")
	}
	return nil
}

func (o *VerdictConsoleOutputter) Complete() error {
	for i, result := range o.results {
		o.render(result, o.hashes[i])
	}
	return nil
}

func (o *VerdictConsoleOutputter) Params() []cfg.Param {
	return []cfg.Param{}
}

func (o *VerdictConsoleOutputter) render(result *types.AnalysisResult, contentHash string) {
	title := result.Filename
	if title == "" {
		title = result.SourceURL
	}
	if title == "" {
		title = "Analysis Result"
	}
	message.Section(title)

	if result.Degraded {
		message.Warning("Partial result: %s", result.DegradedReason)
	}

	o.renderVerdict(result)

	if result.OverallConfidence > 0 {
		message.Info("Confidence: %.1f%%", result.OverallConfidence)
	}
	message.Info("Threat level: %s", threatColor(result.ThreatLevel))
	if result.Classification != "" {
		message.Info("Classification: %s", result.Classification)
	}
	if contentHash != "" {
		message.Info("Content hash: %s", contentHash)
	}

	o.renderBreakdown(result.ConfidenceBreakdown)
	o.renderFindings(result.PrimaryFindings)

	for _, line := range result.EvidenceSummary {
		message.Info("  %s", line)
	}

	if result.LivenessAnalysis != nil {
		message.Info("Liveness: %s (%d blinks, %.1f bpm)",
			result.LivenessAnalysis.Verdict,
			result.LivenessAnalysis.TotalBlinks,
			result.LivenessAnalysis.BlinkRateBPM)
	}

	tabs := make([]string, 0, 4)
	for _, tab := range result.Tabs() {
		tabs = append(tabs, string(tab))
	}
	message.Info("Detail views: %s", strings.Join(tabs, ", "))
	fmt.Println()
}

func (o *VerdictConsoleOutputter) renderVerdict(result *types.AnalysisResult) {
	verdict := result.Verdict
	if verdict == "" {
		verdict = result.Authenticity.String()
	}

	switch result.Authenticity {
	case types.AuthenticityReal:
		message.Success("✅ %s", message.Emphasize(verdict))
	case types.AuthenticityFake:
		message.Critical("🚨 %s", message.Emphasize(verdict))
	default:
		message.Warning("❓ %s", message.Emphasize(verdict))
	}
}

// renderBreakdown draws per-modality confidence bars. Absent modalities
// never get a bar; the normalizer already dropped zero and null entries.
func (o *VerdictConsoleOutputter) renderBreakdown(breakdown map[string]float64) {
	if len(breakdown) == 0 {
		return
	}

	names := make([]string, 0, len(breakdown))
	for name := range breakdown {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		score := breakdown[name]
		filled := int(score / 10)
		bar := strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
		message.Info("  %-12s %s %.1f%%", name, bar, score)
	}
}

func (o *VerdictConsoleOutputter) renderFindings(findings []types.Finding) {
	for _, finding := range findings {
		icon := finding.Icon
		if icon == "" {
			icon = "•"
		}
		line := fmt.Sprintf("%s %s", icon, finding.Type)
		if finding.Tool != "" {
			line += fmt.Sprintf(" [%s]", finding.Tool)
		}
		if finding.Confidence > 0 {
			line += fmt.Sprintf(" (%.0f%%)", finding.Confidence)
		}
		message.Info("  %s", line)
		if finding.Description != "" {
			message.Info("    %s", finding.Description)
		}
	}
}

func threatColor(level types.ThreatLevel) string {
	switch level {
	case types.ThreatCritical, types.ThreatHigh:
		return message.Emphasize(string(level))
	default:
		return string(level)
	}
}
