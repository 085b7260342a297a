package protect

import (
	"github.com/praetorian-inc/janus-framework/pkg/chain"
	"github.com/praetorian-inc/janus-framework/pkg/chain/cfg"

	"github.com/adwikataware/Hackcrypt/internal/registry"
	"github.com/adwikataware/Hackcrypt/pkg/links/media"
	"github.com/adwikataware/Hackcrypt/pkg/links/options"
	"github.com/adwikataware/Hackcrypt/pkg/outputters"
)

func init() {
	registry.Register("media", "protect", Protect.Metadata().Properties()["id"].(string), *Protect)
}

var Protect = chain.NewModule(
	cfg.NewMetadata(
		"Protect Image",
		"Apply a NoiseNet protection layer to an image and download the protected copy.",
	).WithProperties(map[string]any{
		"id":         "protect",
		"platform":   "media",
		"authors":    []string{"Hackcrypt"},
		"references": []string{},
	}).WithChainInputParam(options.MediaFile().Name()),
).WithLinks(
	media.NewProtectLink,
).WithOutputters(
	outputters.NewRuntimeJSONOutputter,
).WithInputParam(
	options.MediaFile(),
)
