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
	registry.Register("media", "detect", ScanFile.Metadata().Properties()["id"].(string), *ScanFile)
}

var ScanFile = chain.NewModule(
	cfg.NewMetadata(
		"Scan File",
		"Analyze a local image, video, or audio file for deepfake manipulation.",
	).WithProperties(map[string]any{
		"id":         "scan-file",
		"platform":   "media",
		"authors":    []string{"Hackcrypt"},
		"references": []string{},
	}).WithChainInputParam(options.MediaFile().Name()),
).WithLinks(
	media.NewScanFileLink,
).WithOutputters(
	outputters.NewVerdictConsoleOutputter,
).WithInputParam(
	options.MediaFile(),
)
