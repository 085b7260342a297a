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
	registry.Register("media", "detect", ScanURL.Metadata().Properties()["id"].(string), *ScanURL)
}

var ScanURL = chain.NewModule(
	cfg.NewMetadata(
		"Scan URL",
		"Download and analyze media from a URL for deepfake manipulation.",
	).WithProperties(map[string]any{
		"id":         "scan-url",
		"platform":   "media",
		"authors":    []string{"Hackcrypt"},
		"references": []string{},
	}).WithChainInputParam(options.MediaURL().Name()),
).WithLinks(
	media.NewVerifyURLLink,
).WithOutputters(
	outputters.NewVerdictConsoleOutputter,
).WithInputParam(
	options.MediaURL(),
)
