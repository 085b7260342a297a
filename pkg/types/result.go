package types

import (
	"strings"
)

// FileType identifies the media class of a scanned file. The backend routes
// analysis by this value and it constrains which nested sections are present.
type FileType string

const (
	FileTypeImage   FileType = "image"
	FileTypeVideo   FileType = "video"
	FileTypeAudio   FileType = "audio"
	FileTypeUnknown FileType = "unknown"
)

// Extension lists mirror the backend's routing tables.
var (
	imageExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".tiff", ".webp"}
	videoExtensions = []string{".mp4", ".avi", ".mov", ".mkv", ".flv", ".wmv"}
	audioExtensions = []string{".mp3", ".wav", ".flac", ".ogg", ".m4a"}
)

// FileTypeOf determines the media class from a filename extension.
func FileTypeOf(filename string) FileType {
	lower := strings.ToLower(filename)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return FileTypeImage
		}
	}
	for _, ext := range videoExtensions {
		if strings.HasSuffix(lower, ext) {
			return FileTypeVideo
		}
	}
	for _, ext := range audioExtensions {
		if strings.HasSuffix(lower, ext) {
			return FileTypeAudio
		}
	}
	return FileTypeUnknown
}

// Tab is a detail view offered for a result.
type Tab string

const (
	TabOverview Tab = "overview"
	TabVisual   Tab = "visual"
	TabAudio    Tab = "audio"
	TabTimeline Tab = "timeline"
)

// Tabs returns the detail tabs available for this media class. The set is a
// pure function of the file type; callers must not add tabs based on which
// nested sections happen to be populated.
func (ft FileType) Tabs() []Tab {
	switch ft {
	case FileTypeImage:
		return []Tab{TabOverview, TabVisual}
	case FileTypeAudio:
		return []Tab{TabOverview, TabAudio}
	case FileTypeVideo:
		return []Tab{TabOverview, TabVisual, TabAudio, TabTimeline}
	default:
		return []Tab{TabOverview}
	}
}

// ThreatLevel is the ordinal severity attached to a result. PROTECTED and
// UNKNOWN appear only on protection-status results.
type ThreatLevel string

const (
	ThreatLow       ThreatLevel = "LOW"
	ThreatMedium    ThreatLevel = "MEDIUM"
	ThreatHigh      ThreatLevel = "HIGH"
	ThreatCritical  ThreatLevel = "CRITICAL"
	ThreatProtected ThreatLevel = "PROTECTED"
	ThreatUnknown   ThreatLevel = "UNKNOWN"
)

// ParseThreatLevel normalizes a backend threat level string.
func ParseThreatLevel(s string) ThreatLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LOW":
		return ThreatLow
	case "MEDIUM":
		return ThreatMedium
	case "HIGH":
		return ThreatHigh
	case "CRITICAL":
		return ThreatCritical
	case "PROTECTED", "SAFE":
		return ThreatProtected
	default:
		return ThreatUnknown
	}
}

// Rank orders threat levels for comparison and display. PROTECTED and UNKNOWN
// rank below LOW.
func (t ThreatLevel) Rank() int {
	switch t {
	case ThreatCritical:
		return 4
	case ThreatHigh:
		return 3
	case ThreatMedium:
		return 2
	case ThreatLow:
		return 1
	default:
		return 0
	}
}

// Authenticity is the reconciled fake/real verdict for a result. It is derived
// once at normalization; render sites must not re-infer it.
type Authenticity int

const (
	AuthenticityUncertain Authenticity = iota
	AuthenticityReal
	AuthenticityFake
)

func (a Authenticity) String() string {
	switch a {
	case AuthenticityReal:
		return "authentic"
	case AuthenticityFake:
		return "fake"
	}
	return "uncertain"
}

// Finding is one named detection with its source tool and confidence.
// Slice order is display order; there is no implied ranking by confidence.
type Finding struct {
	Type        string  `json:"type"`
	Tool        string  `json:"tool,omitempty"`
	Icon        string  `json:"icon,omitempty"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

// Artifact is a single visual anomaly reported by the image pipeline.
type Artifact struct {
	Artifact string `json:"artifact"`
	Severity string `json:"severity"`
}

// VisualAnalysis is the image/video visual section. Present only when the
// backend ran visual models.
type VisualAnalysis struct {
	HeatmapBase64      string             `json:"heatmap_base64,omitempty"`
	HeatmapDescription string             `json:"heatmap_description,omitempty"`
	DetectedArtifacts  []Artifact         `json:"detected_artifacts,omitempty"`
	ModelPerformance   map[string]float64 `json:"model_performance,omitempty"`
}

// HighFrequencyAnalysis reports the spectral cutoff check on audio.
type HighFrequencyAnalysis struct {
	AvgHighFreqEnergy float64 `json:"avg_high_freq_energy"`
	SampleRate        int     `json:"sample_rate"`
	IsFake            bool    `json:"is_fake"`
	Verdict           string  `json:"verdict,omitempty"`
}

// SilenceAnalysis reports the breathing/silence-gap check on audio.
type SilenceAnalysis struct {
	SilenceGapsCount   int    `json:"silence_gaps_count"`
	HasBreathingSounds bool   `json:"has_breathing_sounds"`
	IsFake             bool   `json:"is_fake"`
	Verdict            string `json:"verdict,omitempty"`
}

// AudioAnalysis is the audio section of a result.
type AudioAnalysis struct {
	HighFrequency  *HighFrequencyAnalysis `json:"high_frequency_analysis,omitempty"`
	Silence        *SilenceAnalysis       `json:"silence_analysis,omitempty"`
	IsFake         *bool                  `json:"is_fake,omitempty"`
	OverallVerdict string                 `json:"overall_verdict,omitempty"`
}

// LivenessAnalysis is the video liveness section (blink-rate based).
// Only meaningful for video records.
type LivenessAnalysis struct {
	TotalBlinks  int         `json:"total_blinks"`
	BlinkRateBPM float64     `json:"blink_rate_bpm"`
	ThreatLevel  ThreatLevel `json:"threat_level,omitempty"`
	Verdict      string      `json:"verdict,omitempty"`
}

// ProtectionStatus is the result of the NoiseNet protection check.
type ProtectionStatus struct {
	IsProtected      bool        `json:"is_protected"`
	IsTampered       bool        `json:"is_tampered"`
	Verdict          string      `json:"verdict"`
	ThreatLevel      ThreatLevel `json:"threat_level,omitempty"`
	OriginalFilename string      `json:"original_filename,omitempty"`
	ProtectedSince   string      `json:"protected_since,omitempty"`
	Message          string      `json:"message,omitempty"`
}

// IntentClass labels a confirmed deepfake as benign or malicious. Set only
// by the backend; the client never infers intent from filenames.
type IntentClass string

const (
	IntentGood IntentClass = "good"
	IntentBad  IntentClass = "bad"
)

// AnalysisResult is the canonical, normalized scan result. All confidence
// values are on the 0-100 percent scale. Nil section pointers mean the
// backend did not produce that section; they are never synthesized as zeros.
type AnalysisResult struct {
	FileType            FileType           `json:"file_type"`
	Filename            string             `json:"filename,omitempty"`
	Verdict             string             `json:"verdict,omitempty"`
	IsFake              *bool              `json:"is_fake,omitempty"`
	Authenticity        Authenticity       `json:"-"`
	OverallConfidence   float64            `json:"overall_confidence"`
	ThreatLevel         ThreatLevel        `json:"threat_level"`
	Classification      string             `json:"classification,omitempty"`
	ConfidenceBreakdown map[string]float64 `json:"confidence_breakdown,omitempty"`
	PrimaryFindings     []Finding          `json:"primary_findings,omitempty"`
	EvidenceSummary     []string           `json:"evidence_summary,omitempty"`
	VisualAnalysis      *VisualAnalysis    `json:"visual_analysis,omitempty"`
	AudioAnalysis       *AudioAnalysis     `json:"audio_analysis,omitempty"`
	LivenessAnalysis    *LivenessAnalysis  `json:"liveness_analysis,omitempty"`
	MetadataInfo        map[string]any     `json:"metadata_info,omitempty"`
	ProtectionStatus    *ProtectionStatus  `json:"protection_status,omitempty"`
	IntentClassification IntentClass       `json:"intent_classification,omitempty"`

	// URL scans only
	SourceURL  string `json:"source_url,omitempty"`
	VideoTitle string `json:"video_title,omitempty"`

	// Degraded marks a record that failed schema validation but was kept
	// with best-effort field extraction rather than discarded.
	Degraded       bool   `json:"degraded,omitempty"`
	DegradedReason string `json:"degraded_reason,omitempty"`
}

// Tabs returns the detail tabs available for this result.
func (r *AnalysisResult) Tabs() []Tab {
	return r.FileType.Tabs()
}

// ScanRecord is a history entry: an AnalysisResult keyed by its content
// fingerprint. Records are immutable once stored; a re-scan replaces the
// whole record under the same hash.
type ScanRecord struct {
	AnalysisResult
	ContentHash   string  `json:"content_hash"`
	ScanTimestamp float64 `json:"scan_timestamp"`
	Cached        bool    `json:"cached"`
}

// TypeCounts breaks scan totals down by media class.
type TypeCounts struct {
	Images int `json:"images"`
	Videos int `json:"videos"`
	Audio  int `json:"audio"`
}

// Stats is the aggregate over the scan history. DetectionRate is a percentage
// rounded to one decimal; it is 0 (not NaN) when TotalScans is 0.
type Stats struct {
	TotalScans    int        `json:"total_scans"`
	FakeCount     int        `json:"fake_count"`
	RealCount     int        `json:"real_count"`
	DetectionRate float64    `json:"detection_rate"`
	ByType        TypeCounts `json:"by_type"`
}

// ThreatScore is one per-threat-type entry in a frame-batch response.
type ThreatScore struct {
	Type          string  `json:"type"`
	Confidence    float64 `json:"confidence"`
	VisualScore   float64 `json:"visual_score"`
	AudioScore    float64 `json:"audio_score"`
	TemporalScore float64 `json:"temporal_score"`
}

// FrameBatchResult is the raw response of the frame-batch endpoint used by
// the browser extension side panel.
type FrameBatchResult struct {
	Success       bool          `json:"success"`
	Confidence    float64       `json:"confidence"`
	ThreatLevel   string        `json:"threat_level"`
	ThreatType    string        `json:"threat_type"`
	VisualScore   float64       `json:"visual_score"`
	AudioScore    float64       `json:"audio_score"`
	TemporalScore float64       `json:"temporal_score"`
	AllThreats    []ThreatScore `json:"all_threats,omitempty"`
	Authentic     *bool         `json:"authentic,omitempty"`
}

// ProtectResult is the response of the protect endpoint.
type ProtectResult struct {
	Success           bool   `json:"success"`
	OriginalFilename  string `json:"original_filename"`
	ProtectedFilename string `json:"protected_filename"`
	ProtectedPath     string `json:"protected_path"`
	OriginalHash      string `json:"original_hash,omitempty"`
	ProtectedHash     string `json:"protected_hash,omitempty"`
	Message           string `json:"message,omitempty"`
	DownloadURL       string `json:"download_url,omitempty"`
	LocalPath         string `json:"local_path,omitempty"`
}
