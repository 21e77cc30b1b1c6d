package server

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/xob0t/GoPromoGen/pkg/imagegen"
)

func newTestServer(t *testing.T) (*srv, *httptest.Server) {
	t.Helper()
	s, err := newSrv()
	require.NoError(t, err)
	// Tests fire requests back to back.
	s.limiter = rate.NewLimiter(rate.Inf, 1)
	ts := httptest.NewServer(s.routes())
	t.Cleanup(ts.Close)
	return s, ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func TestGenerateImageReturnsPNG(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/generate/image", map[string]any{
		"prompt": "sunset over the sea",
		"style":  "poster",
		"width":  64,
		"height": 64,
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	buf := new(bytes.Buffer)
	buf.ReadFrom(resp.Body)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestGenerateImageRejectsUnknownStyle(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/generate/image", map[string]any{
		"prompt": "x",
		"style":  "cubist",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGenerateBatchReturnsZIPWithAllStyles(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/generate/image/batch", map[string]any{
		"prompt": "mountains",
		"width":  64,
		"height": 64,
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/zip", resp.Header.Get("Content-Type"))

	buf := new(bytes.Buffer)
	buf.ReadFrom(resp.Body)
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, len(imagegen.Styles))

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	for _, style := range imagegen.Styles {
		assert.True(t, names[string(style)+".png"], "missing %s.png", style)
	}
}

func TestGenerateVideoSetsMetadataHeader(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/generate/video", map[string]any{
		"title":      "Demo Clip",
		"text":       "hello world",
		"duration":   3,
		"resolution": map[string]int{"width": 320, "height": 240},
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "video/avi", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "Demo_Clip.avi")

	var meta struct {
		FallbackOccurred bool `json:"fallbackOccurred"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp.Header.Get("X-Video-Metadata")), &meta))
	assert.False(t, meta.FallbackOccurred)

	buf := new(bytes.Buffer)
	buf.ReadFrom(resp.Body)
	assert.Equal(t, "RIFF", string(buf.Bytes()[:4]))
}

func TestPromoSaveRoundTrip(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/promo/save", map[string]any{
		"headline": "Big Launch",
		"title":    "Launch Promo",
		"tags":     []string{"launch"},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var saved struct {
		Ref string `json:"ref"`
		URL string `json:"url"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&saved))
	require.NotEmpty(t, saved.Ref)

	obj, err := http.Get(ts.URL + saved.URL)
	require.NoError(t, err)
	defer obj.Body.Close()
	assert.Equal(t, http.StatusOK, obj.StatusCode)
	assert.Equal(t, "image/png", obj.Header.Get("Content-Type"))

	list, err := http.Get(ts.URL + "/api/library")
	require.NoError(t, err)
	defer list.Body.Close()
	var recs []struct {
		Ref   string `json:"ref"`
		Title string `json:"title"`
	}
	require.NoError(t, json.NewDecoder(list.Body).Decode(&recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "Launch Promo", recs[0].Title)
}

func TestPromoSaveRejectsEmptyComposition(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/promo/save", map[string]any{
		"title": "Empty",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSuggestMetadata(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/metadata/suggest", map[string]any{
		"title":       "my awesome video!!!",
		"description": "a clip",
		"tags":        []string{},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sug struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sug))
	assert.Equal(t, "My Awesome Video!", sug.Title)
	assert.True(t, strings.HasSuffix(sug.Description, "."))
}

func TestDeleteObject(t *testing.T) {
	s, ts := newTestServer(t)

	ref, err := s.store.Put(t.Context(), "a.png", "image/png", []byte{1})
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/library/"+ref, nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	again, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer again.Body.Close()
	assert.Equal(t, http.StatusNotFound, again.StatusCode)
}

func TestRateLimitRejectsBurst(t *testing.T) {
	s, err := newSrv()
	require.NoError(t, err)
	s.limiter = rate.NewLimiter(rate.Every(time.Hour), 1)
	ts := httptest.NewServer(s.routes())
	defer ts.Close()

	body := map[string]any{"prompt": "x", "style": "minimal", "width": 32, "height": 32}
	first := postJSON(t, ts.URL+"/api/generate/image", body)
	first.Body.Close()
	require.Equal(t, http.StatusOK, first.StatusCode)

	second := postJSON(t, ts.URL+"/api/generate/image", body)
	second.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
}
