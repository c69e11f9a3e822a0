// Package web serves the laser-etch widget: a text box, a live SVG preview,
// a highlighted view of the raw markup, and a download button backed by the
// same blob, data URI, then manual-copy chain the library implements.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	laseretch "github.com/alnah/go-laseretch"
)

// Defaults for the widget.
const (
	DefaultAddr = "127.0.0.1:8080"
	DefaultText = "LASER"

	maxFormBytes    = 64 << 10
	shutdownTimeout = 5 * time.Second
)

// Sentinel errors for server setup.
var (
	ErrTemplate = errors.New("parsing page template")
	ErrContent  = errors.New("loading embedded content")
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithDefaultText sets the text prefilled in the input box.
func WithDefaultText(text string) Option {
	return func(s *Server) {
		if text != "" {
			s.defaultText = text
		}
	}
}

// WithFilename sets the suggested download name.
func WithFilename(name string) Option {
	return func(s *Server) {
		if name != "" {
			s.filename = name
		}
	}
}

// Server holds the chi router, the composer and the parsed page.
type Server struct {
	router      chi.Router
	composer    *laseretch.Composer
	page        *template.Template
	highlight   *highlighter
	highlightCS template.CSS
	about       template.HTML
	logger      *slog.Logger
	addr        string
	defaultText string
	filename    string
}

// pageData is passed to index.html.
type pageData struct {
	Text         string
	HasDocument  bool
	Markup       string
	Highlighted  template.HTML
	PreviewURL   template.URL
	Width        string
	Height       string
	Filename     string
	HighlightCSS template.CSS
	About        template.HTML
	Error        string
}

// NewServer parses the embedded page and builds the router.
func NewServer(composer *laseretch.Composer, opts ...Option) (*Server, error) {
	s := &Server{
		composer:    composer,
		highlight:   newHighlighter(),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		addr:        DefaultAddr,
		defaultText: DefaultText,
		filename:    laseretch.DefaultFilename,
	}
	for _, opt := range opts {
		opt(s)
	}

	page, err := template.ParseFS(contentFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	s.page = page

	aboutSrc, err := fs.ReadFile(contentFS, "content/about.md")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContent, err)
	}
	if s.about, err = markdownToHTML(aboutSrc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContent, err)
	}
	if s.highlightCS, err = s.highlight.CSS(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContent, err)
	}

	router, err := s.buildRouter()
	if err != nil {
		return nil, err
	}
	s.router = router
	return s, nil
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.addr }

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}

// buildRouter constructs the chi router with all routes and middleware.
func (s *Server) buildRouter() (chi.Router, error) {
	r := chi.NewRouter()

	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	staticFS, err := fs.Sub(contentFS, "static")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContent, err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	r.Get("/", s.handleIndex)
	r.Post("/generate", s.handleGenerate)
	r.Get("/download", s.handleDownload)
	r.Get("/health", s.handleHealth)

	return r, nil
}

// handleIndex renders the empty widget. Download stays disabled until a document exists.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, s.basePage(s.defaultText))
}

// handleGenerate composes the submitted text and renders preview and markup.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		data := s.basePage(s.defaultText)
		data.Error = "invalid form submission"
		s.render(w, http.StatusBadRequest, data)
		return
	}

	text := r.PostForm.Get("text")
	doc := s.composer.Compose(text)
	canvas := s.composer.Canvas(text)

	highlighted, err := s.highlight.Highlight(doc.String())
	if err != nil {
		s.logger.Error("highlighting markup", "err", err)
		highlighted = template.HTML(template.HTMLEscapeString(doc.String())) // #nosec G203 -- escaped
	}

	data := s.basePage(text)
	data.HasDocument = true
	data.Markup = doc.String()
	data.Highlighted = highlighted
	data.PreviewURL = template.URL(laseretch.DataURI(doc)) // #nosec G203 -- percent-encoded data URI
	data.Width = fmt.Sprint(canvas.Width)
	data.Height = fmt.Sprint(canvas.Height)
	s.render(w, http.StatusOK, data)
}

// handleDownload streams the document for ?text= as an attachment.
// A request without the parameter has no document to save.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("text") {
		http.Error(w, laseretch.ErrMissingDocument.Error(), http.StatusConflict)
		return
	}

	doc := s.composer.Compose(q.Get("text"))

	w.Header().Set("Content-Type", laseretch.MediaType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": s.filename}))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, doc.String()); err != nil {
		s.logger.Warn("writing download", "err", err)
	}
}

// handleHealth returns a JSON health check response.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) basePage(text string) pageData {
	return pageData{
		Text:         text,
		Filename:     s.filename,
		HighlightCSS: s.highlightCS,
		About:        s.about,
	}
}

func (s *Server) render(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := s.page.ExecuteTemplate(&buf, "index.html", data); err != nil {
		s.logger.Error("rendering page", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
