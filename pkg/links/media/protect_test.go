package media

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/praetorian-inc/janus-framework/pkg/chain"
	"github.com/praetorian-inc/janus-framework/pkg/chain/cfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adwikataware/Hackcrypt/pkg/types"
)

func TestVerifyProtectionLinkUsesBaseFilename(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/verify-protection", r.URL.Path)
		fmt.Fprint(w, `{"is_protected": true, "is_tampered": false, "verdict": "Protected Image - Integrity Intact", "threat_level": "PROTECTED"}`)
	}))
	defer srv.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "portrait.png")
	require.NoError(t, os.WriteFile(path, []byte("png bytes"), 0644))

	c := chain.NewChain(NewVerifyProtectionLink()).WithConfigs(
		cfg.WithArg("backend-url", srv.URL),
	)
	c.Send(path)
	c.Close()

	result, ok := chain.RecvAs[*types.AnalysisResult](c)
	require.True(t, ok)
	require.NoError(t, c.Error())

	assert.Equal(t, "portrait.png", result.Filename, "reports the file name, not the local path")
	assert.Equal(t, types.ThreatProtected, result.ThreatLevel)
	assert.InDelta(t, 95, result.OverallConfidence, 0.001)
}

func TestVerifyProtectionLinkRejectsNonImage(t *testing.T) {
	c := chain.NewChain(NewVerifyProtectionLink()).WithConfigs(
		cfg.WithArg("backend-url", "http://localhost:1"),
	)
	c.Send("clip.mp4")
	c.Close()

	_, ok := chain.RecvAs[*types.AnalysisResult](c)
	assert.False(t, ok)
}
