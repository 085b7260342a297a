package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adwikataware/Hackcrypt/pkg/types"
)

func writeTempFile(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0644))
	return path
}

func TestValidateFile(t *testing.T) {
	client := NewClient("", WithMaxUploadSize(1024))

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeTempFile(t, "report.pdf", 10)
		_, err := client.ValidateFile(path)

		var validationErr *types.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, types.CategoryValidation, types.Categorize(err))
	})

	t.Run("oversized file", func(t *testing.T) {
		path := writeTempFile(t, "large.jpg", 2048)
		_, err := client.ValidateFile(path)

		var sizeErr *types.SizeExceededError
		require.ErrorAs(t, err, &sizeErr)
		assert.Equal(t, int64(2048), sizeErr.Size)
		assert.Equal(t, int64(1024), sizeErr.Limit)
	})

	t.Run("valid image", func(t *testing.T) {
		path := writeTempFile(t, "photo.jpg", 10)
		fileType, err := client.ValidateFile(path)
		require.NoError(t, err)
		assert.Equal(t, types.FileTypeImage, fileType)
	})
}

func TestOversizedFileNeverReachesTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s: oversized files must be rejected locally", r.URL.Path)
	}))
	defer server.Close()

	client := NewClient(server.URL, WithMaxUploadSize(1024))
	path := writeTempFile(t, "huge.mp4", 4096)

	var sizeErr *types.SizeExceededError

	_, err := client.Submit(context.Background(), path, nil)
	require.ErrorAs(t, err, &sizeErr)

	_, err = client.ScanFile(context.Background(), path, nil)
	require.ErrorAs(t, err, &sizeErr)

	_, err = client.ScanVideo(context.Background(), path, nil)
	assert.ErrorAs(t, err, &sizeErr)
}

func TestValidateURL(t *testing.T) {
	assert.NoError(t, ValidateURL("https://example.com/video.mp4"))
	assert.NoError(t, ValidateURL("http://example.com/a.jpg"))

	err := ValidateURL("ftp://example.com/a.jpg")
	var validationErr *types.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "url", validationErr.Field)
}

func TestScanFileNormalizesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/scan", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		require.NoError(t, r.ParseMultipartForm(10<<20))
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "photo.jpg", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"file_type": "image",
			"filename": "photo.jpg",
			"verdict": "Likely Authentic",
			"is_fake": false,
			"overall_confidence": 0.923,
			"confidence_breakdown": {"visual": 0.91}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	path := writeTempFile(t, "photo.jpg", 4096)

	var percents []int
	result, err := client.ScanFile(context.Background(), path, func(p int) {
		percents = append(percents, p)
	})
	require.NoError(t, err)

	assert.Equal(t, types.FileTypeImage, result.FileType)
	assert.InDelta(t, 92.3, result.OverallConfidence, 0.001)
	assert.Equal(t, types.AuthenticityReal, result.Authenticity)

	require.NotEmpty(t, percents)
	assert.Equal(t, 100, percents[len(percents)-1])
	hundreds := 0
	for i := 1; i < len(percents); i++ {
		assert.GreaterOrEqual(t, percents[i], percents[i-1])
	}
	for _, p := range percents {
		if p == 100 {
			hundreds++
		}
	}
	assert.Equal(t, 1, hundreds)
}

func TestSubmitProtectionShortCircuit(t *testing.T) {
	scanCalled := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/verify-protection":
			w.Write([]byte(`{
				"is_protected": true,
				"is_tampered": false,
				"verdict": "Protected Original",
				"threat_level": "PROTECTED"
			}`))
		case "/api/scan":
			scanCalled = true
			w.Write([]byte(`{"file_type": "image"}`))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	path := writeTempFile(t, "protected.png", 128)

	result, err := client.Submit(context.Background(), path, nil)
	require.NoError(t, err)

	assert.False(t, scanCalled, "protected image must not run full analysis")
	require.NotNil(t, result.ProtectionStatus)
	assert.True(t, result.ProtectionStatus.IsProtected)
	assert.Equal(t, types.ThreatProtected, result.ThreatLevel)
	assert.InDelta(t, 95, result.OverallConfidence, 0.001)
}

func TestSubmitContinuesWhenProtectionCheckFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/verify-protection":
			http.Error(w, `{"detail": "verifier offline"}`, http.StatusServiceUnavailable)
		case "/api/scan":
			w.Write([]byte(`{"file_type": "image", "verdict": "Likely Fake", "is_fake": true, "overall_confidence": 88}`))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	path := writeTempFile(t, "photo.jpg", 128)

	result, err := client.Submit(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Equal(t, types.AuthenticityFake, result.Authenticity)
}

func TestServerErrorDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail": "unsupported file type"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	path := writeTempFile(t, "photo.jpg", 128)

	_, err := client.ScanFile(context.Background(), path, nil)
	var serverErr *types.ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusBadRequest, serverErr.StatusCode)
	assert.Equal(t, "unsupported file type", serverErr.Detail)
	assert.Equal(t, types.CategoryServer, types.Categorize(err))
}

func TestNetworkErrorCategory(t *testing.T) {
	client := NewClient("http://127.0.0.1:1") // nothing listens here
	path := writeTempFile(t, "photo.jpg", 128)

	_, err := client.ScanFile(context.Background(), path, nil)
	var netErr *types.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, types.CategoryNetwork, types.Categorize(err))
}

func TestDeleteScanAbsentIsNoOp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	assert.NoError(t, client.DeleteScan(context.Background(), "deadbeef"))
}

func TestHistorySkipsBadRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/history", r.URL.Path)
		w.Write([]byte(`{
			"total_scans": 2,
			"scans": [
				{"file_type": "audio", "content_hash": "aaa", "scan_timestamp": 1700000000.5},
				"not an object"
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	records, err := client.History(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "aaa", records[0].ContentHash)
	assert.Equal(t, types.FileTypeAudio, records[0].FileType)
}

func TestAnalyzeFramesRejectsEmptyBatch(t *testing.T) {
	client := NewClient("")
	_, err := client.AnalyzeFrames(context.Background(), nil)

	var validationErr *types.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestVerifyURLSendsForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/verify-url", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "https://example.com/v.mp4", r.FormValue("url"))
		w.Write([]byte(`{"file_type": "video", "source_url": "https://example.com/v.mp4"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.VerifyURL(context.Background(), "https://example.com/v.mp4")
	require.NoError(t, err)
	assert.Equal(t, types.FileTypeVideo, result.FileType)
	assert.Equal(t, "https://example.com/v.mp4", result.SourceURL)
}

func TestProtectRejectsNonImage(t *testing.T) {
	client := NewClient("")
	path := writeTempFile(t, "clip.mp4", 64)

	_, err := client.Protect(context.Background(), path)
	var validationErr *types.ValidationError
	require.True(t, errors.As(err, &validationErr))
}
