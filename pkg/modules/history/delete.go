package history

import (
	"github.com/praetorian-inc/janus-framework/pkg/chain"
	"github.com/praetorian-inc/janus-framework/pkg/chain/cfg"

	"github.com/adwikataware/Hackcrypt/internal/registry"
	"github.com/adwikataware/Hackcrypt/pkg/links/media"
	"github.com/adwikataware/Hackcrypt/pkg/links/options"
)

func init() {
	registry.Register("media", "history", Delete.Metadata().Properties()["id"].(string), *Delete)
}

var Delete = chain.NewModule(
	cfg.NewMetadata(
		"Delete Record",
		"Delete one scan record by content hash.",
	).WithProperties(map[string]any{
		"id":         "delete",
		"platform":   "media",
		"authors":    []string{"Hackcrypt"},
		"references": []string{},
	}).WithChainInputParam(options.ContentHash().Name()),
).WithLinks(
	media.NewHistoryDeleteLink,
).WithInputParam(
	options.ContentHash(),
)
