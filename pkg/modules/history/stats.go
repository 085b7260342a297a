package history

import (
	"github.com/praetorian-inc/janus-framework/pkg/chain"
	"github.com/praetorian-inc/janus-framework/pkg/chain/cfg"

	"github.com/adwikataware/Hackcrypt/internal/registry"
	"github.com/adwikataware/Hackcrypt/pkg/links/media"
	"github.com/adwikataware/Hackcrypt/pkg/outputters"
)

func init() {
	registry.Register("media", "history", Stats.Metadata().Properties()["id"].(string), *Stats)
}

var Stats = chain.NewModule(
	cfg.NewMetadata(
		"Scan Statistics",
		"Show aggregate counts and the detection rate over the scan history.",
	).WithProperties(map[string]any{
		"id":         "stats",
		"platform":   "media",
		"authors":    []string{"Hackcrypt"},
		"references": []string{},
	}),
).WithLinks(
	media.NewStatsLink,
).WithOutputters(
	outputters.NewMarkdownTableConsoleOutputter,
	outputters.NewRuntimeMarkdownOutputter,
)
