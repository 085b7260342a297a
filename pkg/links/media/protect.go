package media

import (
	"path/filepath"
	"strings"

	"github.com/praetorian-inc/janus-framework/pkg/chain"
	"github.com/praetorian-inc/janus-framework/pkg/chain/cfg"

	"github.com/adwikataware/Hackcrypt/internal/message"
	"github.com/adwikataware/Hackcrypt/pkg/api"
	"github.com/adwikataware/Hackcrypt/pkg/links/options"
	"github.com/adwikataware/Hackcrypt/pkg/outputters"
	"github.com/adwikataware/Hackcrypt/pkg/schema"
	"github.com/adwikataware/Hackcrypt/pkg/types"
)

// ProtectLink applies NoiseNet protection to an image and downloads the
// protected copy into the output directory.
type ProtectLink struct {
	*chain.Base
	client *api.Client
}

func NewProtectLink(configs ...cfg.Config) chain.Link {
	l := &ProtectLink{}
	l.Base = chain.NewBase(l, configs...)
	return l
}

func (l *ProtectLink) Params() []cfg.Param {
	return append(options.BackendOptions(),
		options.MaxUploadMB(),
		options.OutputDir(),
	)
}

func (l *ProtectLink) Initialize() error {
	l.client = clientFromArgs(l)
	return nil
}

func (l *ProtectLink) Process(path string) error {
	result, err := l.client.Protect(l.Context(), path)
	if err != nil {
		return err
	}

	outputDir, _ := cfg.As[string](l.Arg("output"))
	localPath, err := l.client.DownloadProtected(l.Context(), result.ProtectedFilename, outputDir)
	if err != nil {
		return err
	}

	message.Success("Protected image written to %s", message.Emphasize(localPath))
	result.LocalPath = localPath

	base := strings.TrimSuffix(result.ProtectedFilename, filepath.Ext(result.ProtectedFilename))
	l.Send(outputters.NewNamedOutputData(result, filepath.Join(outputDir, base+"-protection.json")))
	return nil
}

// VerifyProtectionLink checks the NoiseNet layer of an image and emits a
// protection-status result.
type VerifyProtectionLink struct {
	*chain.Base
	client *api.Client
}

func NewVerifyProtectionLink(configs ...cfg.Config) chain.Link {
	l := &VerifyProtectionLink{}
	l.Base = chain.NewBase(l, configs...)
	return l
}

func (l *VerifyProtectionLink) Params() []cfg.Param {
	return append(options.BackendOptions(), options.MaxUploadMB())
}

func (l *VerifyProtectionLink) Initialize() error {
	l.client = clientFromArgs(l)
	return nil
}

func (l *VerifyProtectionLink) Process(path string) error {
	if fileType := types.FileTypeOf(path); fileType != types.FileTypeImage {
		return &types.ValidationError{Field: "file", Reason: "protection verification applies to images only"}
	}

	status, err := l.client.VerifyProtection(l.Context(), path)
	if err != nil {
		return err
	}

	l.Send(schema.ProtectionResult(status, filepath.Base(path)))
	return nil
}
