package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/brandqr/pkg/errors"
	"github.com/matzehuels/brandqr/pkg/pipeline"
	"github.com/matzehuels/brandqr/pkg/render"
	"github.com/matzehuels/brandqr/pkg/share"
	"github.com/matzehuels/brandqr/pkg/urlclass"
)

// Geometry bounds for HTTP requests. Larger values would only produce
// rasters that ToPNG refuses or responses nobody can use.
const (
	MaxModuleScale = 64
	MaxBorder      = 64
)

type generateResponse struct {
	SVG         string  `json:"svg"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Modules     int     `json:"modules"`
	ECC         string  `json:"ecc"`
	Clickable   bool    `json:"clickable"`
	Link        string  `json:"link,omitempty"`
	ClickStatus string  `json:"clickStatus,omitempty"`
	AriaLabel   string  `json:"ariaLabel"`
	Filename    string  `json:"filename"`
}

type shareResponse struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	WhatsApp string `json:"whatsapp"`
	Title    string `json:"title"`
	IsURL    bool   `json:"isUrl"`
}

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	IsURL      bool   `json:"isUrl"`
	WebLink    bool   `json:"webLink"`
	Normalized string `json:"normalized"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := decodeJSON(r, &opts); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := checkLimits(opts); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Generate(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{
		SVG:         res.Image.String(),
		Width:       res.Image.Width,
		Height:      res.Image.Height,
		Modules:     res.Matrix.Size(),
		ECC:         res.Level.Letter(),
		Clickable:   res.Clickable(),
		Link:        res.Link(),
		ClickStatus: res.ClickStatus(),
		AriaLabel:   res.AriaLabel(),
		Filename:    res.Filename(render.KindSVG, time.Now()),
	})
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	opts, err := optionsFromQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Generate(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeDownload(w, render.KindSVG, res.Filename(render.KindSVG, time.Now()), res.Image.SVG)
}

func (s *Server) handlePNG(w http.ResponseWriter, r *http.Request) {
	opts, err := optionsFromQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Generate(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, _, err := render.RasterSize(res.Image.Width, res.Image.Height, render.Supersample); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidConfig, err, "image too large for png export"))
		return
	}
	data, err := s.runner.ExportPNG(r.Context(), res)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeDownload(w, render.KindPNG, res.Filename(render.KindPNG, time.Now()), data)
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := decodeJSON(r, &opts); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := checkLimits(opts); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Generate(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc := s.runner.Share(r.Context(), res)
	id, err := s.store.Put(r.Context(), doc, s.cfg.ShareTTL)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "store share page"))
		return
	}

	link := s.baseURL(r) + "/s/" + id
	s.logger.Info("stored share page", "id", id, "bytes", len(doc.HTML))
	writeJSON(w, http.StatusCreated, shareResponse{
		ID:       id,
		URL:      link,
		WhatsApp: share.WhatsAppURL(link),
		Title:    doc.Title,
		IsURL:    doc.IsURL,
	})
}

func (s *Server) handleSharePage(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	securityHeaders(w)
	w.Header().Set("Content-Type", render.KindHTML.ContentType())
	_, _ = w.Write([]byte(doc.HTML))
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, classifyResponse{
		IsURL:      urlclass.IsURL(req.Text),
		WebLink:    urlclass.IsWebLink(req.Text),
		Normalized: urlclass.Normalize(req.Text),
	})
}

func (s *Server) baseURL(r *http.Request) string {
	if s.cfg.BaseURL != "" {
		return strings.TrimRight(s.cfg.BaseURL, "/")
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func writeDownload(w http.ResponseWriter, kind render.Kind, filename string, data []byte) {
	w.Header().Set("Content-Type", kind.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

// optionsFromQuery reads text, ecc, scale, border, fg, bg, caption,
// caption_color, caption_size and clickable. Logos need the JSON endpoints.
func optionsFromQuery(q url.Values) (pipeline.Options, error) {
	opts := pipeline.Options{
		Text:       q.Get("text"),
		ECC:        q.Get("ecc"),
		Foreground: q.Get("fg"),
		Background: q.Get("bg"),
	}
	if v := q.Get("scale"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidConfig, "scale must be a number, got %q", v)
		}
		opts.ModuleScale = f
	}
	if v := q.Get("border"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidConfig, "border must be an integer, got %q", v)
		}
		opts.Border = &n
	}
	if v := q.Get("clickable"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "clickable must be a boolean, got %q", v)
		}
		opts.Clickable = b
	}
	if text := q.Get("caption"); text != "" {
		size, err := render.ParseCaptionSize(q.Get("caption_size"))
		if err != nil {
			return opts, err
		}
		opts.Caption = &render.Caption{Text: text, Color: q.Get("caption_color"), Size: size}
	}
	return opts, checkLimits(opts)
}

// checkLimits rejects a module scale above MaxModuleScale or a border above
// MaxBorder. Zero values mean defaults and pass.
func checkLimits(opts pipeline.Options) error {
	if !(opts.ModuleScale <= MaxModuleScale) {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must be at most %d, got %v", MaxModuleScale, opts.ModuleScale)
	}
	if opts.Border != nil && *opts.Border > MaxBorder {
		return errors.New(errors.ErrCodeInvalidConfig, "border must be at most %d, got %d", MaxBorder, *opts.Border)
	}
	return nil
}
