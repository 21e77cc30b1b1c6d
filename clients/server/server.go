// Package server exposes the GoPromoGen generators over an HTTP API.
package server

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/xob0t/GoPromoGen/pkg/imagegen"
	"github.com/xob0t/GoPromoGen/pkg/library"
	"github.com/xob0t/GoPromoGen/pkg/metadata"
	"github.com/xob0t/GoPromoGen/pkg/promo"
	"github.com/xob0t/GoPromoGen/pkg/videogen"
)

// ── Server ──

type srv struct {
	images  *imagegen.Generator
	videos  *videogen.Engine
	store   *library.Memory
	saver   *library.Saver
	cache   *gocache.Cache
	limiter *rate.Limiter
}

func newSrv() (*srv, error) {
	images, err := imagegen.NewGenerator()
	if err != nil {
		return nil, fmt.Errorf("image generator: %w", err)
	}
	videos, err := videogen.NewEngine(videogen.NewAVIFactory())
	if err != nil {
		return nil, fmt.Errorf("video engine: %w", err)
	}

	store := library.NewMemory()
	return &srv{
		images: images,
		videos: videos,
		store:  store,
		saver:  &library.Saver{Objects: store, Catalog: store},
		// Renders are deterministic per request, so cached copies never
		// go stale. The TTL just bounds memory.
		cache:   gocache.New(30*time.Minute, 10*time.Minute),
		limiter: rate.NewLimiter(rate.Limit(4), 8),
	}, nil
}

func (s *srv) routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Generation routes.
	mux.HandleFunc("POST /api/generate/image", s.limited(s.handleGenerateImage))
	mux.HandleFunc("POST /api/generate/image/batch", s.limited(s.handleGenerateBatch))
	mux.HandleFunc("POST /api/generate/video", s.limited(s.handleGenerateVideo))
	mux.HandleFunc("GET /api/styles", s.handleListStyles)

	// Promo routes.
	mux.HandleFunc("POST /api/promo/render", s.handlePromoRender)
	mux.HandleFunc("POST /api/promo/save", s.handlePromoSave)

	// Metadata helper.
	mux.HandleFunc("POST /api/metadata/suggest", s.handleSuggestMetadata)

	// Library routes.
	mux.HandleFunc("POST /api/upload/image", s.handleUploadImage)
	mux.HandleFunc("GET /api/library", s.handleListLibrary)
	mux.HandleFunc("GET /api/library/{ref}", s.handleGetObject)
	mux.HandleFunc("DELETE /api/library/{ref}", s.handleDeleteObject)

	return mux
}

// RunServe starts the API server on the given port.
func RunServe(args []string) error {
	port := "8080"
	for i, a := range args {
		if (a == "--port" || a == "-p") && i+1 < len(args) {
			port = args[i+1]
		}
	}

	s, err := newSrv()
	if err != nil {
		return err
	}

	addr := ":" + port
	log.Printf("GoPromoGen API → http://localhost%s", addr)

	return http.ListenAndServe(addr, s.routes())
}

// limited applies the shared generation rate limit to a handler.
func (s *srv) limited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			http.Error(w, "too many generation requests", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

// ── Image generation ──

type imageRequest struct {
	Prompt  string `json:"prompt"`
	Style   string `json:"style"`
	Subject string `json:"subject"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

func (s *srv) buildRequest(ir imageRequest) (imagegen.Request, error) {
	style, err := imagegen.ParseStyle(ir.Style)
	if err != nil {
		return imagegen.Request{}, err
	}
	subject := imagegen.SubjectAuto
	if ir.Subject != "" {
		subject, err = imagegen.ParseSubject(ir.Subject)
		if err != nil {
			return imagegen.Request{}, err
		}
	}
	return imagegen.Request{
		Prompt:  ir.Prompt,
		Style:   style,
		Subject: subject,
		Width:   ir.Width,
		Height:  ir.Height,
	}, nil
}

func (s *srv) renderPNG(req imagegen.Request) ([]byte, error) {
	key := fmt.Sprintf("%s|%s|%s|%dx%d", req.Prompt, req.Style, req.Subject, req.Width, req.Height)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]byte), nil
	}
	gen, err := s.images.Generate(req, nil)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, gen.PNG, gocache.DefaultExpiration)
	return gen.PNG, nil
}

func (s *srv) handleGenerateImage(w http.ResponseWriter, r *http.Request) {
	var ir imageRequest
	if err := json.NewDecoder(r.Body).Decode(&ir); err != nil {
		http.Error(w, "decode request: "+err.Error(), http.StatusBadRequest)
		return
	}
	req, err := s.buildRequest(ir)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	data, err := s.renderPNG(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(data)
}

// handleGenerateBatch renders the prompt in every style and returns a
// ZIP with one PNG per style.
func (s *srv) handleGenerateBatch(w http.ResponseWriter, r *http.Request) {
	var ir imageRequest
	if err := json.NewDecoder(r.Body).Decode(&ir); err != nil {
		http.Error(w, "decode request: "+err.Error(), http.StatusBadRequest)
		return
	}

	results := make([][]byte, len(imagegen.Styles))
	g, _ := errgroup.WithContext(r.Context())
	for i, style := range imagegen.Styles {
		g.Go(func() error {
			req, err := s.buildRequest(imageRequest{
				Prompt:  ir.Prompt,
				Style:   string(style),
				Subject: ir.Subject,
				Width:   ir.Width,
				Height:  ir.Height,
			})
			if err != nil {
				return err
			}
			data, err := s.renderPNG(req)
			if err != nil {
				return fmt.Errorf("style %s: %w", style, err)
			}
			results[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i, style := range imagegen.Styles {
		fw, err := zw.Create(string(style) + ".png")
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		fw.Write(results[i])
	}
	zw.Close()

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="styles.zip"`)
	w.Write(buf.Bytes())
}

func (s *srv) handleListStyles(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, len(imagegen.Styles))
	for i, style := range imagegen.Styles {
		names[i] = string(style)
	}
	writeJSON(w, map[string]any{"styles": names})
}

// ── Video generation ──

type videoRequest struct {
	Title         string               `json:"title"`
	Text          string               `json:"text"`
	Duration      int                  `json:"duration"`
	Resolution    *videogen.Resolution `json:"resolution"`
	BackgroundRef string               `json:"backgroundRef"`
}

func (s *srv) handleGenerateVideo(w http.ResponseWriter, r *http.Request) {
	var vr videoRequest
	if err := json.NewDecoder(r.Body).Decode(&vr); err != nil {
		http.Error(w, "decode request: "+err.Error(), http.StatusBadRequest)
		return
	}

	var background image.Image
	if vr.BackgroundRef != "" {
		obj, err := s.store.Get(r.Context(), vr.BackgroundRef)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		background, err = png.Decode(bytes.NewReader(obj.Data))
		if err != nil {
			http.Error(w, "decode background: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	gen, err := s.videos.Generate(r.Context(), videogen.Options{
		Title:      vr.Title,
		Text:       vr.Text,
		Duration:   vr.Duration,
		Resolution: vr.Resolution,
		Background: background,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	meta, _ := json.Marshal(gen.Metadata)
	w.Header().Set("Content-Type", "video/avi")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, gen.Filename))
	w.Header().Set("X-Video-Metadata", string(meta))
	w.Write(gen.File)
}

// ── Promo ──

type promoRequest struct {
	BaseImageRef string `json:"baseImageRef"`
	Headline     string `json:"headline"`
	Subheadline  string `json:"subheadline"`
	TextColor    string `json:"textColor"`
	FontSize     int    `json:"fontSize"`
	Erase        bool   `json:"erase"`

	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

func (s *srv) buildComposition(r *http.Request, pr promoRequest) (*promo.Composition, error) {
	comp, err := promo.NewComposition(promo.DefaultSize)
	if err != nil {
		return nil, err
	}
	if pr.BaseImageRef != "" {
		obj, err := s.store.Get(r.Context(), pr.BaseImageRef)
		if err != nil {
			return nil, err
		}
		img, err := png.Decode(bytes.NewReader(obj.Data))
		if err != nil {
			return nil, fmt.Errorf("decode base image: %w", err)
		}
		comp.SetBaseImage(img)
	}
	if pr.Headline != "" {
		comp.SetHeadline(pr.Headline)
	}
	if pr.Subheadline != "" {
		comp.SetSubheadline(pr.Subheadline)
	}
	if pr.TextColor != "" {
		comp.SetTextColor(pr.TextColor)
	}
	if pr.FontSize > 0 {
		comp.SetFontSize(float64(pr.FontSize))
	}
	if pr.Erase {
		comp.Erase()
	}
	return comp, nil
}

func (s *srv) handlePromoRender(w http.ResponseWriter, r *http.Request) {
	var pr promoRequest
	if err := json.NewDecoder(r.Body).Decode(&pr); err != nil {
		http.Error(w, "decode request: "+err.Error(), http.StatusBadRequest)
		return
	}
	comp, err := s.buildComposition(r, pr)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	data, err := comp.ExportPNG()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(data)
}

func (s *srv) handlePromoSave(w http.ResponseWriter, r *http.Request) {
	var pr promoRequest
	if err := json.NewDecoder(r.Body).Decode(&pr); err != nil {
		http.Error(w, "decode request: "+err.Error(), http.StatusBadRequest)
		return
	}
	comp, err := s.buildComposition(r, pr)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ref, err := comp.Save(r.Context(), s.saver, promo.SaveMeta{
		Title:       pr.Title,
		Description: pr.Description,
		Tags:        pr.Tags,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]string{"ref": ref, "url": "/api/library/" + ref})
}

// ── Metadata ──

func (s *srv) handleSuggestMetadata(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Tags        []string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "decode request: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, metadata.Suggest(req.Title, req.Description, req.Tags))
}

// ── Library ──

func (s *srv) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	r.ParseMultipartForm(10 << 20)
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "no file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ref, err := s.store.Put(r.Context(), header.Filename, "image/png", data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]string{
		"ref":  ref,
		"name": header.Filename,
		"url":  "/api/library/" + ref,
	})
}

func (s *srv) handleListLibrary(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, recs)
}

func (s *srv) handleGetObject(w http.ResponseWriter, r *http.Request) {
	obj, err := s.store.Get(r.Context(), r.PathValue("ref"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", obj.Mime)
	w.Write(obj.Data)
}

func (s *srv) handleDeleteObject(w http.ResponseWriter, r *http.Request) {
	ref := r.PathValue("ref")
	if err := s.store.Delete(r.Context(), ref); err != nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, map[string]string{"status": "deleted", "ref": ref})
}

// ── Helpers ──

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
