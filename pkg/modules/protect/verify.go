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
	registry.Register("media", "protect", VerifyProtection.Metadata().Properties()["id"].(string), *VerifyProtection)
}

var VerifyProtection = chain.NewModule(
	cfg.NewMetadata(
		"Verify Protection",
		"Check whether an image carries an intact NoiseNet protection layer.",
	).WithProperties(map[string]any{
		"id":         "verify-protection",
		"platform":   "media",
		"authors":    []string{"Hackcrypt"},
		"references": []string{},
	}).WithChainInputParam(options.MediaFile().Name()),
).WithLinks(
	media.NewVerifyProtectionLink,
).WithOutputters(
	outputters.NewVerdictConsoleOutputter,
).WithInputParam(
	options.MediaFile(),
)
