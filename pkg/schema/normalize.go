// Package schema validates and normalizes raw backend responses into
// canonical results. It is the single source of truth for confidence
// scaling, threat-level derivation, and fake/real reconciliation; render
// sites and outputters must not re-derive any of these.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/adwikataware/Hackcrypt/pkg/types"
)

//go:embed schema.json
var resultSchemaDoc string

const resultSchemaURL = "https://hackcrypt.schemas.local/analysis_result.schema.json"

var resultSchema = mustCompile()

func mustCompile() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(resultSchemaURL, strings.NewReader(resultSchemaDoc)); err != nil {
		panic(fmt.Sprintf("schema: embedded resource load failed: %v", err))
	}
	s, err := c.Compile(resultSchemaURL)
	if err != nil {
		panic(fmt.Sprintf("schema: embedded schema compile failed: %v", err))
	}
	return s
}

// NormalizeConfidence converts a confidence value to the 0-100 percent scale.
// Values at or below 1 are fractions and scale by 100 (rounded to one
// decimal); values in (1, 100] pass through; anything above 100 clamps.
func NormalizeConfidence(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v <= 1:
		return math.Round(v*1000) / 10
	case v <= 100:
		return v
	default:
		return 100
	}
}

// DeriveThreatLevel maps a percent-scale confidence to the canonical
// threshold table: >=90 CRITICAL, >=85 HIGH, >=50 MEDIUM, else LOW.
func DeriveThreatLevel(pct float64) types.ThreatLevel {
	switch {
	case pct >= 90:
		return types.ThreatCritical
	case pct >= 85:
		return types.ThreatHigh
	case pct >= 50:
		return types.ThreatMedium
	default:
		return types.ThreatLow
	}
}

// DeriveAuthenticity reconciles the fake/real signals in fixed priority:
// an explicit is_fake flag wins, then verdict keywords, then HIGH/CRITICAL
// threat, and everything else is uncertain.
func DeriveAuthenticity(isFake *bool, verdict string, threat types.ThreatLevel) types.Authenticity {
	if isFake != nil {
		if *isFake {
			return types.AuthenticityFake
		}
		return types.AuthenticityReal
	}

	lower := strings.ToLower(verdict)
	if strings.Contains(lower, "authentic") || strings.Contains(lower, "real") {
		return types.AuthenticityReal
	}
	if strings.Contains(lower, "fake") || strings.Contains(lower, "generated") ||
		strings.Contains(lower, "synthetic") || strings.Contains(lower, "tampered") {
		return types.AuthenticityFake
	}

	if threat == types.ThreatHigh || threat == types.ThreatCritical {
		return types.AuthenticityFake
	}

	return types.AuthenticityUncertain
}

// Normalize parses a raw backend result body into a canonical AnalysisResult.
// A body that is not JSON at all fails with a SchemaError; a body that parses
// but violates the result schema is normalized best-effort and marked
// degraded, so partial responses still render.
func Normalize(raw []byte) (*types.AnalysisResult, error) {
	var doc map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, &types.SchemaError{Reason: "response is not a JSON object", Err: err}
	}

	result := extract(doc)

	if err := resultSchema.Validate(plain(doc)); err != nil {
		result.Degraded = true
		result.DegradedReason = validationSummary(err)
	}

	return result, nil
}

// NormalizeRecord parses a history entry: an AnalysisResult plus its
// fingerprint, timestamp, and cache flag.
func NormalizeRecord(raw []byte) (*types.ScanRecord, error) {
	var doc map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, &types.SchemaError{Reason: "record is not a JSON object", Err: err}
	}

	return RecordFromMap(doc), nil
}

// RecordFromMap normalizes one already-decoded history entry.
func RecordFromMap(doc map[string]any) *types.ScanRecord {
	result := extract(doc)

	rec := &types.ScanRecord{
		AnalysisResult: *result,
		ContentHash:    asString(doc["content_hash"]),
		Cached:         asBool(doc["cached"]),
	}
	if ts, ok := asFloat(doc["scan_timestamp"]); ok {
		rec.ScanTimestamp = ts
	}

	if err := resultSchema.Validate(plain(doc)); err != nil && !rec.Degraded {
		rec.Degraded = true
		rec.DegradedReason = validationSummary(err)
	}

	return rec
}

// NormalizeFrameBatch converts a frame-batch response into a canonical
// result. Frame batches are always captured from playing video.
func NormalizeFrameBatch(fb *types.FrameBatchResult) *types.AnalysisResult {
	confidence := NormalizeConfidence(fb.Confidence)

	threat := types.ParseThreatLevel(fb.ThreatLevel)
	if threat == types.ThreatUnknown {
		threat = DeriveThreatLevel(confidence)
	}

	breakdown := make(map[string]float64)
	for name, score := range map[string]float64{
		"Visual":   fb.VisualScore,
		"Audio":    fb.AudioScore,
		"Temporal": fb.TemporalScore,
	} {
		if score > 0 {
			breakdown[name] = NormalizeConfidence(score)
		}
	}
	if len(breakdown) == 0 {
		breakdown = nil
	}

	var findings []types.Finding
	for _, threatScore := range fb.AllThreats {
		if threatScore.Type == "none" {
			continue
		}
		findings = append(findings, types.Finding{
			Type:        threatScore.Type,
			Confidence:  NormalizeConfidence(threatScore.Confidence),
			Description: fmt.Sprintf("Detected in captured frames (visual %.0f%%, temporal %.0f%%)", NormalizeConfidence(threatScore.VisualScore), NormalizeConfidence(threatScore.TemporalScore)),
		})
	}

	var isFake *bool
	if fb.Authentic != nil {
		fake := !*fb.Authentic
		isFake = &fake
	}

	result := &types.AnalysisResult{
		FileType:            types.FileTypeVideo,
		IsFake:              isFake,
		OverallConfidence:   confidence,
		ThreatLevel:         threat,
		Classification:      fb.ThreatType,
		ConfidenceBreakdown: breakdown,
		PrimaryFindings:     findings,
	}
	result.Authenticity = DeriveAuthenticity(isFake, "", threat)

	return result
}

// ProtectionResult synthesizes the result shown when an image submission
// short-circuits on a positive protection check. Tampered protected images
// surface as HIGH threat; intact ones as authentic.
func ProtectionResult(ps *types.ProtectionStatus, filename string) *types.AnalysisResult {
	notFake := false

	result := &types.AnalysisResult{
		FileType:         types.FileTypeImage,
		Filename:         filename,
		Verdict:          ps.Verdict,
		IsFake:           &notFake,
		ThreatLevel:      ps.ThreatLevel,
		ProtectionStatus: ps,
	}

	if ps.IsTampered {
		result.Classification = "Tampered Protected Image"
		result.OverallConfidence = 15
		result.PrimaryFindings = []types.Finding{{
			Type:        "NoiseNet Tampering",
			Icon:        "🚨",
			Description: "This image was protected with NoiseNet but has been modified",
			Confidence:  95,
		}}
	} else {
		result.Classification = "Protected Image"
		result.OverallConfidence = 95
		result.PrimaryFindings = []types.Finding{{
			Type:        "NoiseNet Protected",
			Icon:        "🛡️",
			Description: "This image is protected against deepfake manipulation",
			Confidence:  98,
		}}
	}

	integrity := "Noise layer integrity: INTACT"
	if ps.IsTampered {
		integrity = "Noise layer integrity: COMPROMISED"
	}
	result.EvidenceSummary = []string{ps.Message}
	if ps.OriginalFilename != "" {
		result.EvidenceSummary = append(result.EvidenceSummary, "Original: "+ps.OriginalFilename)
	}
	result.EvidenceSummary = append(result.EvidenceSummary, integrity)

	result.Authenticity = DeriveAuthenticity(result.IsFake, result.Verdict, result.ThreatLevel)

	return result
}

// extract maps a decoded response onto the canonical result with tolerant
// coercion. Missing or mistyped optional fields stay at their zero/nil
// values; they are never synthesized.
func extract(doc map[string]any) *types.AnalysisResult {
	result := &types.AnalysisResult{
		FileType:       types.FileTypeUnknown,
		Filename:       asString(doc["filename"]),
		Verdict:        asString(doc["verdict"]),
		Classification: asString(doc["classification"]),
		SourceURL:      asString(doc["source_url"]),
		VideoTitle:     asString(doc["video_title"]),
	}

	switch asString(doc["file_type"]) {
	case "image":
		result.FileType = types.FileTypeImage
	case "video":
		result.FileType = types.FileTypeVideo
	case "audio":
		result.FileType = types.FileTypeAudio
	}

	if fake, ok := doc["is_fake"].(bool); ok {
		result.IsFake = &fake
	}

	if confidence, ok := asFloat(doc["overall_confidence"]); ok {
		result.OverallConfidence = NormalizeConfidence(confidence)
	}

	result.ThreatLevel = types.ParseThreatLevel(asString(doc["threat_level"]))
	if result.ThreatLevel == types.ThreatUnknown {
		result.ThreatLevel = DeriveThreatLevel(result.OverallConfidence)
	}

	if breakdown, ok := doc["confidence_breakdown"].(map[string]any); ok {
		normalized := make(map[string]float64)
		for name, value := range breakdown {
			score, ok := asFloat(value)
			if !ok || score <= 0 {
				// A zero or null modality is "not analyzed", not a 0% score.
				continue
			}
			normalized[name] = NormalizeConfidence(score)
		}
		if len(normalized) > 0 {
			result.ConfidenceBreakdown = normalized
		}
	}

	if findings, ok := doc["primary_findings"].([]any); ok {
		for _, entry := range findings {
			m, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			finding := types.Finding{
				Type:        asString(m["type"]),
				Tool:        asString(m["tool"]),
				Icon:        asString(m["icon"]),
				Description: asString(m["description"]),
			}
			if confidence, ok := asFloat(m["confidence"]); ok {
				finding.Confidence = NormalizeConfidence(confidence)
			}
			result.PrimaryFindings = append(result.PrimaryFindings, finding)
		}
	}

	if evidence, ok := doc["evidence_summary"].([]any); ok {
		for _, entry := range evidence {
			if s := asString(entry); s != "" {
				result.EvidenceSummary = append(result.EvidenceSummary, s)
			}
		}
	}

	decodeSection(doc["visual_analysis"], &result.VisualAnalysis)
	decodeSection(doc["audio_analysis"], &result.AudioAnalysis)
	decodeSection(doc["protection_status"], &result.ProtectionStatus)

	if meta, ok := doc["metadata_info"].(map[string]any); ok && len(meta) > 0 {
		result.MetadataInfo = plain(meta).(map[string]any)
	}

	// liveness_analysis is only meaningful for video; ignore it elsewhere so
	// a stray section on an audio record is never interpreted.
	if result.FileType == types.FileTypeVideo {
		decodeSection(doc["liveness_analysis"], &result.LivenessAnalysis)
	}

	switch asString(doc["intent_classification"]) {
	case "good":
		result.IntentClassification = types.IntentGood
	case "bad":
		result.IntentClassification = types.IntentBad
	}

	result.Authenticity = DeriveAuthenticity(result.IsFake, result.Verdict, result.ThreatLevel)

	return result
}

// decodeSection round-trips an optional nested object into its struct.
// Anything that fails to decode leaves the target nil.
func decodeSection[T any](raw any, target **T) {
	m, ok := raw.(map[string]any)
	if !ok || len(m) == 0 {
		return
	}

	buf, err := json.Marshal(m)
	if err != nil {
		return
	}

	section := new(T)
	if err := json.Unmarshal(buf, section); err != nil {
		return
	}
	*target = section
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// plain rewrites json.Number values as float64 so the schema validator sees
// standard decoded JSON.
func plain(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = plain(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = plain(val)
		}
		return out
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return t.String()
		}
		return f
	default:
		return v
	}
}

func validationSummary(err error) string {
	var ve *jsonschema.ValidationError
	if errors.As(err, &ve) {
		leaf := ve
		for len(leaf.Causes) > 0 {
			leaf = leaf.Causes[0]
		}
		if leaf.InstanceLocation != "" {
			return fmt.Sprintf("%s: %s", leaf.InstanceLocation, leaf.Message)
		}
		return leaf.Message
	}
	return err.Error()
}
