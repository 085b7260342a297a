package detect

import (
	"github.com/praetorian-inc/janus-framework/pkg/chain"
	"github.com/praetorian-inc/janus-framework/pkg/chain/cfg"

	"github.com/adwikataware/Hackcrypt/internal/registry"
	"github.com/adwikataware/Hackcrypt/pkg/links/media"
	"github.com/adwikataware/Hackcrypt/pkg/links/options"
	"github.com/adwikataware/Hackcrypt/pkg/outputters"
)

func init() {
	registry.Register("media", "detect", AnalyzeFrames.Metadata().Properties()["id"].(string), *AnalyzeFrames)
}

var AnalyzeFrames = chain.NewModule(
	cfg.NewMetadata(
		"Analyze Frames",
		"Analyze a directory of captured video frames in batches.",
	).WithProperties(map[string]any{
		"id":         "analyze-frames",
		"platform":   "media",
		"authors":    []string{"Hackcrypt"},
		"references": []string{},
	}).WithChainInputParam(options.FramesDir().Name()),
).WithLinks(
	media.NewAnalyzeFramesLink,
).WithOutputters(
	outputters.NewVerdictConsoleOutputter,
).WithInputParam(
	options.FramesDir(),
)
