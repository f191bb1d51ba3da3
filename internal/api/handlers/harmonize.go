package handlers

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgeni2/chamber-api/internal/cache"
	"github.com/dgeni2/chamber-api/internal/config"
	"github.com/dgeni2/chamber-api/internal/harmony"
	"github.com/dgeni2/chamber-api/internal/logger"
	"github.com/dgeni2/chamber-api/internal/metrics"
	"github.com/gin-gonic/gin"
)

// HarmonizeHandler serves the core harmonization endpoint: multipart
// MusicXML upload in, harmony-only and combined scores out.
type HarmonizeHandler struct {
	cfg    *config.Config
	store  *cache.Store
	cw     *metrics.Client
	sentry *metrics.SentryMetrics
}

func NewHarmonizeHandler(cfg *config.Config, store *cache.Store, cw *metrics.Client) *HarmonizeHandler {
	return &HarmonizeHandler{cfg: cfg, store: store, cw: cw, sentry: metrics.NewSentryMetrics()}
}

// ScoreFile is one serialized output document plus a suggested filename.
type ScoreFile struct {
	Content  string `json:"content"`
	Filename string `json:"filename"`
}

// Metadata describes how a response was produced.
type Metadata struct {
	Instruments   []string `json:"instruments"`
	AnalysisScore float64  `json:"analysis_score"`
	Warnings      []string `json:"warnings"`
	Refined       bool     `json:"refined"`
	ProcessingMS  int64    `json:"processing_ms"`
	Timestamp     string   `json:"timestamp"`
	RequestID     string   `json:"request_id"`
	Cached        bool     `json:"cached"`
}

// HarmonizeResponse is the JSON body returned to the client.
type HarmonizeResponse struct {
	HarmonyOnly ScoreFile `json:"harmony_only"`
	Combined    ScoreFile `json:"combined"`
	Metadata    Metadata  `json:"metadata"`
}

// Harmonize handles POST /api/v1/harmonize.
func (h *HarmonizeHandler) Harmonize(c *gin.Context) {
	start := time.Now()

	fileHeader, err := c.FormFile("score")
	if err != nil {
		badRequest(c, "missing score file (multipart field \"score\")")
		return
	}
	if fileHeader.Size > h.cfg.MaxUploadBytes {
		badRequest(c, "score file exceeds the upload limit")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		badRequest(c, "could not read uploaded score")
		return
	}
	defer f.Close()
	content, err := io.ReadAll(io.LimitReader(f, h.cfg.MaxUploadBytes+1))
	if err != nil || int64(len(content)) > h.cfg.MaxUploadBytes {
		badRequest(c, "could not read uploaded score")
		return
	}
	if len(bytes.TrimSpace(content)) == 0 {
		badRequest(c, "score file is empty")
		return
	}

	instruments, err := parseInstruments(c.PostForm("instruments"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	key := cacheKey(content, instruments)
	if v, ok := h.store.Get(key); ok {
		resp := v.(HarmonizeResponse)
		resp.Metadata.Cached = true
		resp.Metadata.RequestID = c.GetString("request_id")
		resp.Metadata.ProcessingMS = time.Since(start).Milliseconds()
		resp.Metadata.Timestamp = time.Now().UTC().Format(time.RFC3339)

		h.cw.RecordHarmonization(time.Since(start), resp.Metadata.AnalysisScore, true)
		h.sentry.RecordHarmonization(c.Request.Context(), len(instruments), resp.Metadata.AnalysisScore, time.Since(start), true)
		logger.LogHarmonizationRequest(c, time.Since(start), resp.Metadata.AnalysisScore, true, nil)
		c.JSON(http.StatusOK, resp)
		return
	}

	result, err := harmony.HarmonizeBytes(content, instruments, nil)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	harmonyXML, err := encodeDocument(result.HarmonyOnly)
	if err != nil {
		logger.Error("Failed to serialize harmony score", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to serialize output", "request_id": c.GetString("request_id")})
		return
	}
	combinedXML, err := encodeDocument(result.Combined)
	if err != nil {
		logger.Error("Failed to serialize combined score", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to serialize output", "request_id": c.GetString("request_id")})
		return
	}

	base := strings.TrimSuffix(fileHeader.Filename, filepath.Ext(fileHeader.Filename))
	if base == "" {
		base = "score"
	}

	duration := time.Since(start)
	resp := HarmonizeResponse{
		HarmonyOnly: ScoreFile{Content: harmonyXML, Filename: base + "-harmony.musicxml"},
		Combined:    ScoreFile{Content: combinedXML, Filename: base + "-combined.musicxml"},
		Metadata: Metadata{
			Instruments:   instruments,
			AnalysisScore: result.Analysis.Score,
			Warnings:      result.Analysis.Warnings,
			Refined:       result.Analysis.Refined,
			ProcessingMS:  duration.Milliseconds(),
			Timestamp:     time.Now().UTC().Format(time.RFC3339),
			RequestID:     c.GetString("request_id"),
		},
	}

	h.store.Put(key, resp)
	h.cw.RecordHarmonization(duration, result.Analysis.Score, false)
	h.sentry.RecordHarmonization(c.Request.Context(), len(instruments), result.Analysis.Score, duration, false)
	logger.LogHarmonizationRequest(c, duration, result.Analysis.Score, false, logger.Fields{
		"instruments": strings.Join(instruments, ","),
		"steps":       len(result.Chords),
	})

	c.JSON(http.StatusOK, resp)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":      msg,
		"request_id": c.GetString("request_id"),
	})
}

// parseInstruments splits and validates the comma-separated instrument
// list. Unknown names are allowed; they resolve to the default profile.
func parseInstruments(raw string) ([]string, error) {
	var instruments []string
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name != "" {
			instruments = append(instruments, name)
		}
	}
	if len(instruments) == 0 {
		return nil, harmony.ErrNoInstruments
	}
	if len(instruments) > harmony.MaxInstruments {
		return nil, harmony.ErrTooManyInstruments
	}
	return instruments, nil
}

// cacheKey hashes the content plus the instrument list in request order.
// Ordering decides which harmony voice each instrument plays and how the
// output parts are laid out, so reordered lists are distinct entries; only
// the engine's RNG seeding treats the list as a set.
func cacheKey(content []byte, instruments []string) string {
	sum := sha256.New()
	sum.Write(content)
	sum.Write([]byte("|" + strings.Join(instruments, ",")))
	return hex.EncodeToString(sum.Sum(nil))
}

func encodeDocument(doc interface{ Encode(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := doc.Encode(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
