// Package api is the HTTP client for the Hackcrypt detection backend. It
// owns input validation, multipart uploads with progress, and the mapping
// of transport/backend failures onto the typed error taxonomy; callers
// never see raw http errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adwikataware/Hackcrypt/pkg/schema"
	"github.com/adwikataware/Hackcrypt/pkg/types"
)

const (
	// DefaultBaseURL matches the backend's default local deployment.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultMaxUploadSize is the upload cap enforced before any network
	// call is made.
	DefaultMaxUploadSize = 100 << 20 // 100MB
)

// ProgressFunc receives upload progress as a 0-100 percentage. Values are
// monotonically non-decreasing and 100 is emitted exactly once.
type ProgressFunc func(percent int)

// Client talks to the detection backend.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	maxUploadSize int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http client (used by tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMaxUploadSize overrides the local upload size cap.
func WithMaxUploadSize(limit int64) Option {
	return func(c *Client) { c.maxUploadSize = limit }
}

// NewClient creates a backend client. An empty baseURL falls back to the
// default local deployment.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    &http.Client{Timeout: 10 * time.Minute},
		maxUploadSize: DefaultMaxUploadSize,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ValidateFile checks a local media file before any network activity.
// Unknown media types and oversized payloads are rejected here.
func (c *Client) ValidateFile(path string) (types.FileType, error) {
	fileType := types.FileTypeOf(path)
	if fileType == types.FileTypeUnknown {
		return fileType, &types.ValidationError{
			Field:  "file",
			Reason: fmt.Sprintf("unsupported media type: %s", filepath.Ext(path)),
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fileType, &types.ValidationError{Field: "file", Reason: err.Error()}
	}
	if info.Size() > c.maxUploadSize {
		return fileType, &types.SizeExceededError{Size: info.Size(), Limit: c.maxUploadSize}
	}

	return fileType, nil
}

// ValidateURL checks a submission URL locally.
func ValidateURL(raw string) error {
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return &types.ValidationError{Field: "url", Reason: "must start with http:// or https://"}
	}
	if _, err := url.Parse(raw); err != nil {
		return &types.ValidationError{Field: "url", Reason: err.Error()}
	}
	return nil
}

// Submit runs the full submission flow for a local file: validation, the
// protection short-circuit for images, and the universal scan upload.
// A protected image returns a protection-status result without running
// full analysis; that branch changes the returned schema, not just the UI.
func (c *Client) Submit(ctx context.Context, path string, onProgress ProgressFunc) (*types.ScanRecord, error) {
	fileType, err := c.ValidateFile(path)
	if err != nil {
		return nil, err
	}

	if fileType == types.FileTypeImage {
		status, err := c.VerifyProtection(ctx, path)
		if err == nil && status.IsProtected {
			slog.Debug("protection short-circuit", "file", path, "tampered", status.IsTampered)
			return &types.ScanRecord{AnalysisResult: *schema.ProtectionResult(status, filepath.Base(path))}, nil
		}
		if err != nil {
			// The protection check is best-effort; full analysis still runs.
			slog.Warn("protection check failed, continuing with full scan", "error", err)
		}
	}

	return c.ScanFile(ctx, path, onProgress)
}

// ScanFile uploads a file to the universal scan endpoint.
func (c *Client) ScanFile(ctx context.Context, path string, onProgress ProgressFunc) (*types.ScanRecord, error) {
	return c.uploadForRecord(ctx, "/api/scan", path, onProgress)
}

// ScanImage uploads to the image-specific endpoint.
func (c *Client) ScanImage(ctx context.Context, path string, onProgress ProgressFunc) (*types.ScanRecord, error) {
	return c.uploadForRecord(ctx, "/api/scan/image", path, onProgress)
}

// ScanVideo uploads to the video-specific endpoint.
func (c *Client) ScanVideo(ctx context.Context, path string, onProgress ProgressFunc) (*types.ScanRecord, error) {
	return c.uploadForRecord(ctx, "/api/scan/video", path, onProgress)
}

// ScanAudio uploads to the audio-specific endpoint.
func (c *Client) ScanAudio(ctx context.Context, path string, onProgress ProgressFunc) (*types.ScanRecord, error) {
	return c.uploadForRecord(ctx, "/api/scan/audio", path, onProgress)
}

// VerifyURL submits a media URL for server-side download and analysis.
func (c *Client) VerifyURL(ctx context.Context, mediaURL string) (*types.ScanRecord, error) {
	if err := ValidateURL(mediaURL); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("url", mediaURL)

	body, err := c.do(ctx, http.MethodPost, "/api/verify-url",
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return nil, err
	}

	return schema.NormalizeRecord(body)
}

// VerifyProtection checks whether an image carries an intact NoiseNet layer.
func (c *Client) VerifyProtection(ctx context.Context, path string) (*types.ProtectionStatus, error) {
	body, err := c.uploadFile(ctx, "/api/verify-protection", path, nil)
	if err != nil {
		return nil, err
	}

	var status types.ProtectionStatus
	if err := decodeProtection(body, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Protect applies NoiseNet protection to an image.
func (c *Client) Protect(ctx context.Context, path string) (*types.ProtectResult, error) {
	if fileType := types.FileTypeOf(path); fileType != types.FileTypeImage {
		return nil, &types.ValidationError{Field: "file", Reason: "protection applies to images only"}
	}
	if _, err := c.ValidateFile(path); err != nil {
		return nil, err
	}

	body, err := c.uploadFile(ctx, "/api/protect", path, nil)
	if err != nil {
		return nil, err
	}

	var result types.ProtectResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &types.SchemaError{Reason: "protect response did not parse", Err: err}
	}
	return &result, nil
}

// DownloadProtected fetches a protected image into destDir and returns the
// local path written.
func (c *Client) DownloadProtected(ctx context.Context, filename, destDir string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/download-protected/"+url.PathEscape(filename), nil, "")
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &types.NetworkError{Op: "download-protected", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", serverError(resp)
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	dest := filepath.Join(destDir, filepath.Base(filename))
	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", &types.NetworkError{Op: "download-protected", Err: err}
	}

	return dest, nil
}

// History fetches all scan records, most recent first (backend ordering).
func (c *Client) History(ctx context.Context) ([]*types.ScanRecord, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/history", nil, "")
	if err != nil {
		return nil, err
	}

	var envelope struct {
		TotalScans int               `json:"total_scans"`
		Scans      []json.RawMessage `json:"scans"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &types.SchemaError{Reason: "history response did not parse", Err: err}
	}

	records := make([]*types.ScanRecord, 0, len(envelope.Scans))
	for _, raw := range envelope.Scans {
		record, err := schema.NormalizeRecord(raw)
		if err != nil {
			// One bad record must not hide the rest of the history.
			slog.Warn("skipping unparseable history record", "error", err)
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

// DeleteScan removes one record by content hash. A 404 is treated as
// success: deleting an absent record is a no-op.
func (c *Client) DeleteScan(ctx context.Context, contentHash string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/history/"+url.PathEscape(contentHash), nil, "")
	var serverErr *types.ServerError
	if errors.As(err, &serverErr) && serverErr.StatusCode == http.StatusNotFound {
		return nil
	}
	return err
}

// ClearHistory removes all records.
func (c *Client) ClearHistory(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/history", nil, "")
	return err
}

// Stats fetches the aggregate scan statistics.
func (c *Client) Stats(ctx context.Context) (*types.Stats, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/stats", nil, "")
	if err != nil {
		return nil, err
	}

	var stats types.Stats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, &types.SchemaError{Reason: "stats response did not parse", Err: err}
	}
	return &stats, nil
}

// AnalyzeFrames submits a batch of base64-encoded frames captured from
// playing video.
func (c *Client) AnalyzeFrames(ctx context.Context, frames []string) (*types.FrameBatchResult, error) {
	if len(frames) == 0 {
		return nil, &types.ValidationError{Field: "frames", Reason: "no frames captured"}
	}

	payload, err := json.Marshal(map[string]any{
		"frames": frames,
		"count":  len(frames),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame batch: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/api/analyze-frames", bytes.NewReader(payload), "application/json")
	if err != nil {
		return nil, err
	}

	var result types.FrameBatchResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &types.SchemaError{Reason: "frame batch response did not parse", Err: err}
	}
	return &result, nil
}

// RequestDownload asks the backend to fetch a media URL server-side ahead
// of analysis.
func (c *Client) RequestDownload(ctx context.Context, mediaURL string) error {
	if err := ValidateURL(mediaURL); err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]string{"url": mediaURL})
	if err != nil {
		return fmt.Errorf("failed to encode download request: %w", err)
	}

	_, err = c.do(ctx, http.MethodPost, "/api/download", bytes.NewReader(payload), "application/json")
	return err
}

// uploadForRecord uploads a validated file and normalizes the result body.
func (c *Client) uploadForRecord(ctx context.Context, endpoint, path string, onProgress ProgressFunc) (*types.ScanRecord, error) {
	if _, err := c.ValidateFile(path); err != nil {
		return nil, err
	}

	body, err := c.uploadFile(ctx, endpoint, path, onProgress)
	if err != nil {
		return nil, err
	}

	return schema.NormalizeRecord(body)
}

// uploadFile posts one file as a multipart form, reporting upload progress.
func (c *Client) uploadFile(ctx context.Context, endpoint, path string, onProgress ProgressFunc) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &types.ValidationError{Field: "file", Reason: err.Error()}
	}
	defer f.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	reader := newProgressReader(&buf, int64(buf.Len()), onProgress)

	return c.do(ctx, http.MethodPost, endpoint, reader, writer.FormDataContentType())
}

// do performs one request and maps failures onto the error taxonomy.
func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader, contentType string) ([]byte, error) {
	req, err := c.newRequest(ctx, method, endpoint, body, contentType)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &types.NetworkError{Op: method + " " + endpoint, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &types.NetworkError{Op: method + " " + endpoint, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, serverErrorFromBody(resp.StatusCode, payload)
	}

	return payload, nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", endpoint, err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	return req, nil
}

func serverError(resp *http.Response) error {
	payload, _ := io.ReadAll(resp.Body)
	return serverErrorFromBody(resp.StatusCode, payload)
}

// serverErrorFromBody extracts the FastAPI-style detail message when present.
func serverErrorFromBody(status int, payload []byte) error {
	var detail struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	_ = json.Unmarshal(payload, &detail)

	message := detail.Detail
	if message == "" {
		message = detail.Error
	}

	return &types.ServerError{StatusCode: status, Detail: message}
}

func decodeProtection(body []byte, status *types.ProtectionStatus) error {
	// threat_level arrives as a free string (PROTECTED, UNKNOWN, HIGH);
	// decode loosely and parse it into the enum.
	var raw struct {
		IsProtected      bool   `json:"is_protected"`
		IsTampered       bool   `json:"is_tampered"`
		Verdict          string `json:"verdict"`
		ThreatLevel      string `json:"threat_level"`
		OriginalFilename string `json:"original_filename"`
		ProtectedSince   string `json:"protected_since"`
		Message          string `json:"message"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return &types.SchemaError{Reason: "protection response did not parse", Err: err}
	}

	*status = types.ProtectionStatus{
		IsProtected:      raw.IsProtected,
		IsTampered:       raw.IsTampered,
		Verdict:          raw.Verdict,
		ThreatLevel:      types.ParseThreatLevel(raw.ThreatLevel),
		OriginalFilename: raw.OriginalFilename,
		ProtectedSince:   raw.ProtectedSince,
		Message:          raw.Message,
	}
	return nil
}
