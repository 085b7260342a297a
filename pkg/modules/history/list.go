package history

import (
	"github.com/praetorian-inc/janus-framework/pkg/chain"
	"github.com/praetorian-inc/janus-framework/pkg/chain/cfg"

	"github.com/adwikataware/Hackcrypt/internal/registry"
	"github.com/adwikataware/Hackcrypt/pkg/links/media"
	"github.com/adwikataware/Hackcrypt/pkg/outputters"
)

func init() {
	registry.Register("media", "history", List.Metadata().Properties()["id"].(string), *List)
}

var List = chain.NewModule(
	cfg.NewMetadata(
		"List History",
		"List all stored scan records, most recent first.",
	).WithProperties(map[string]any{
		"id":         "list",
		"platform":   "media",
		"authors":    []string{"Hackcrypt"},
		"references": []string{},
	}),
).WithLinks(
	media.NewHistoryListLink,
).WithOutputters(
	outputters.NewMarkdownTableConsoleOutputter,
	outputters.NewRuntimeMarkdownOutputter,
)
