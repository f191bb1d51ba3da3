package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgeni2/chamber-api/internal/cache"
	"github.com/dgeni2/chamber-api/internal/config"
	"github.com/dgeni2/chamber-api/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testScoreXML = `<?xml version="1.0" encoding="UTF-8"?>
<score-partwise version="3.1">
  <part-list>
    <score-part id="P1"><part-name>Melody</part-name></score-part>
  </part-list>
  <part id="P1">
    <measure number="1">
      <attributes>
        <divisions>1</divisions>
        <key><fifths>0</fifths><mode>major</mode></key>
        <time><beats>4</beats><beat-type>4</beat-type></time>
      </attributes>
      <note><pitch><step>C</step><octave>4</octave></pitch><duration>1</duration></note>
      <note><pitch><step>D</step><octave>4</octave></pitch><duration>1</duration></note>
      <note><pitch><step>E</step><octave>4</octave></pitch><duration>1</duration></note>
      <note><pitch><step>C</step><octave>4</octave></pitch><duration>1</duration></note>
    </measure>
  </part>
</score-partwise>`

func setupTestRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if cfg == nil {
		cfg = &config.Config{Environment: "test", MaxUploadBytes: 1 << 20}
	}
	store := cache.New(time.Minute, 8)
	cw, err := metrics.NewClient(context.Background(), "test", false)
	require.NoError(t, err)

	router := gin.New()
	h := NewHarmonizeHandler(cfg, store, cw)
	router.POST("/api/v1/harmonize", h.Harmonize)
	router.GET("/api/v1/instruments", ListInstruments)
	router.GET("/api/v1/examples", ListExamples)
	router.GET("/health", NewHealthHandler(store).HealthCheck)
	router.GET("/api/metrics", NewMetricsHandler("test", store).GetMetrics)
	return router
}

func harmonizeRequest(t *testing.T, filename, content, instruments string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := w.CreateFormFile("score", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	if instruments != "" {
		require.NoError(t, w.WriteField("instruments", instruments))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/harmonize", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestHarmonizeEndpoint(t *testing.T) {
	router := setupTestRouter(t, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, harmonizeRequest(t, "melody.musicxml", testScoreXML, "Violin,Cello"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp HarmonizeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Contains(t, resp.HarmonyOnly.Content, "<score-partwise")
	assert.Equal(t, "melody-harmony.musicxml", resp.HarmonyOnly.Filename)
	assert.Equal(t, "melody-combined.musicxml", resp.Combined.Filename)
	assert.Equal(t, []string{"Violin", "Cello"}, resp.Metadata.Instruments)
	assert.False(t, resp.Metadata.Cached)
	assert.NotEmpty(t, resp.Metadata.Timestamp)
}

func TestHarmonizeEndpointCaches(t *testing.T) {
	router := setupTestRouter(t, nil)

	first := httptest.NewRecorder()
	router.ServeHTTP(first, harmonizeRequest(t, "melody.musicxml", testScoreXML, "Violin"))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, harmonizeRequest(t, "melody.musicxml", testScoreXML, "Violin"))
	require.Equal(t, http.StatusOK, second.Code)

	var a, b HarmonizeResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))

	assert.False(t, a.Metadata.Cached)
	assert.True(t, b.Metadata.Cached)
	assert.Equal(t, a.HarmonyOnly.Content, b.HarmonyOnly.Content,
		"cache hit must return identical output")
}

func TestHarmonizeEndpointValidation(t *testing.T) {
	router := setupTestRouter(t, nil)

	tests := []struct {
		name        string
		filename    string
		content     string
		instruments string
		wantError   string
	}{
		{"missing file", "", "", "Violin", "missing score file"},
		{"empty file", "melody.musicxml", "   ", "Violin", "empty"},
		{"no instruments", "melody.musicxml", testScoreXML, "", "at least one instrument"},
		{"too many instruments", "melody.musicxml", testScoreXML, "Violin,Viola,Cello,Flute,Oboe", "at most 4"},
		{"broken xml", "melody.musicxml", "<score-partwise", "Violin", "decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, harmonizeRequest(t, tt.filename, tt.content, tt.instruments))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantError)
		})
	}
}

func TestHarmonizeEndpointUploadLimit(t *testing.T) {
	cfg := &config.Config{Environment: "test", MaxUploadBytes: 16}
	router := setupTestRouter(t, cfg)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, harmonizeRequest(t, "melody.musicxml", testScoreXML, "Violin"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "upload limit")
}

func TestParseInstruments(t *testing.T) {
	got, err := parseInstruments(" Violin , Cello ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Violin", "Cello"}, got)

	_, err = parseInstruments("  ,  ")
	assert.Error(t, err)

	_, err = parseInstruments("a,b,c,d,e")
	assert.Error(t, err)
}

func TestCacheKeyDependsOnInstrumentOrder(t *testing.T) {
	// Instrument order decides voice assignment and part layout, so a
	// reordered list must never share a cache entry.
	content := []byte(testScoreXML)
	assert.NotEqual(t,
		cacheKey(content, []string{"Violin", "Cello"}),
		cacheKey(content, []string{"Cello", "Violin"}))
	assert.NotEqual(t,
		cacheKey(content, []string{"Violin"}),
		cacheKey(content, []string{"Cello"}))
	assert.Equal(t,
		cacheKey(content, []string{"Violin", "Cello"}),
		cacheKey(content, []string{"Violin", "Cello"}))
}

func TestHarmonizeEndpointReorderedInstrumentsNotCached(t *testing.T) {
	router := setupTestRouter(t, nil)

	first := httptest.NewRecorder()
	router.ServeHTTP(first, harmonizeRequest(t, "melody.musicxml", testScoreXML, "Violin,Cello"))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, harmonizeRequest(t, "melody.musicxml", testScoreXML, "Cello,Violin"))
	require.Equal(t, http.StatusOK, second.Code)

	var a, b HarmonizeResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))

	assert.False(t, b.Metadata.Cached, "a reordered instrument list is a different request")
	assert.Equal(t, []string{"Violin", "Cello"}, a.Metadata.Instruments)
	assert.Equal(t, []string{"Cello", "Violin"}, b.Metadata.Instruments)
}

func TestInstrumentsEndpoint(t *testing.T) {
	router := setupTestRouter(t, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/instruments", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Instruments    []map[string]any `json:"instruments"`
		MaxInstruments int              `json:"max_instruments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.MaxInstruments)
	assert.Equal(t, 13, len(resp.Instruments), "twelve named profiles plus the default")
}

func TestExamplesEndpoint(t *testing.T) {
	router := setupTestRouter(t, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/examples", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Examples []struct {
			ID      string `json:"id"`
			Content string `json:"content"`
		} `json:"examples"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Examples)
	assert.Contains(t, resp.Examples[0].Content, "<score-partwise")

	// Every embedded example must itself harmonize cleanly.
	for _, ex := range resp.Examples {
		hw := httptest.NewRecorder()
		router.ServeHTTP(hw, harmonizeRequest(t, ex.ID+".musicxml", ex.Content, "Violin"))
		assert.Equal(t, http.StatusOK, hw.Code, "example %s failed: %s", ex.ID, hw.Body.String())
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := setupTestRouter(t, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupTestRouter(t, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp MetricsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "test", resp.Version)
}
