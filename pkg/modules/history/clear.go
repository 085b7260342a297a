package history

import (
	"github.com/praetorian-inc/janus-framework/pkg/chain"
	"github.com/praetorian-inc/janus-framework/pkg/chain/cfg"

	"github.com/adwikataware/Hackcrypt/internal/registry"
	"github.com/adwikataware/Hackcrypt/pkg/links/media"
)

func init() {
	registry.Register("media", "history", Clear.Metadata().Properties()["id"].(string), *Clear)
}

var Clear = chain.NewModule(
	cfg.NewMetadata(
		"Clear History",
		"Delete every stored scan record.",
	).WithProperties(map[string]any{
		"id":         "clear",
		"platform":   "media",
		"authors":    []string{"Hackcrypt"},
		"references": []string{},
	}),
).WithLinks(
	media.NewHistoryClearLink,
)
