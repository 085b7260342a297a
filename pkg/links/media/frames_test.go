package media

import (
	"context"
	"encoding/base64"
	"encoding/json"
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

func TestDirFrameSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "frame_002.jpg"), []byte("second"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "frame_001.jpg"), []byte("first"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	frames, err := DirFrameSource{}.Frames(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, frames, 2, "non-image files are skipped")

	first, err := base64.StdEncoding.DecodeString(frames[0])
	require.NoError(t, err)
	assert.Equal(t, "first", string(first), "frames are ordered by name")
}

func TestDirFrameSourceMissingDir(t *testing.T) {
	_, err := DirFrameSource{}.Frames(context.Background(), "/does/not/exist")
	assert.Error(t, err)
}

type stubFrameSource struct {
	frames []string
}

func (s stubFrameSource) Frames(context.Context, string) ([]string, error) {
	return s.frames, nil
}

func TestAnalyzeFramesLinkBatchesInOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/analyze-frames", r.URL.Path)

		var req struct {
			Frames []string `json:"frames"`
			Count  int      `json:"count"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, len(req.Frames), req.Count)
		require.Len(t, req.Frames, 2)

		// The first batch looks synthetic, the second clean.
		if req.Frames[0] == "f1" {
			fmt.Fprint(w, `{"success": true, "confidence": 0.9, "threat_level": "HIGH", "threat_type": "faceswap"}`)
			return
		}
		fmt.Fprint(w, `{"success": true, "confidence": 0.3, "threat_level": "LOW"}`)
	}))
	defer srv.Close()

	link := NewAnalyzeFramesLink().(*AnalyzeFramesLink)
	link.SetSource(stubFrameSource{frames: []string{"f1", "f2", "f3", "f4"}})

	c := chain.NewChain(link).WithConfigs(
		cfg.WithArg("backend-url", srv.URL),
		cfg.WithArg("batch-size", 2),
		cfg.WithArg("interval-ms", 0),
	)
	c.Send("capture-session")
	c.Close()

	var results []*types.AnalysisResult
	for r, ok := chain.RecvAs[*types.AnalysisResult](c); ok; r, ok = chain.RecvAs[*types.AnalysisResult](c) {
		results = append(results, r)
	}
	require.NoError(t, c.Error())
	require.Len(t, results, 2, "four frames at batch size two yield two batches")

	assert.InDelta(t, 90, results[0].OverallConfidence, 0.001, "batch order follows capture order")
	assert.Equal(t, types.ThreatHigh, results[0].ThreatLevel)
	assert.InDelta(t, 30, results[1].OverallConfidence, 0.001)
	assert.Equal(t, types.ThreatLow, results[1].ThreatLevel)
}
