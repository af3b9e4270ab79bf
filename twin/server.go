// Package twin is an in-memory stand-in for the linked-data resource server that the contract
// tests run against. It serves each resource as an HTML page, SPARQL JSON results, or TriG,
// selected by URL suffix, and rejects any other suffix.
package twin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// suffixPattern is how a format suffix is recognized at the end of a request path.
var suffixPattern = regexp.MustCompile(`\.[a-z1-9]+$`)

// Config holds the twin's settings.
type Config struct {
	// BaseURI is prepended to request paths to form resource URIs.
	BaseURI string
	// RootRedirectTo is where requests for "/" are sent.
	RootRedirectTo string
	Logger         *slog.Logger
}

// Server serves resources from a MemoryStore.
type Server struct {
	config  Config
	store   *MemoryStore
	router  *chi.Mux
	started time.Time
	metrics *twinMetrics
}

// NewServer creates the twin's HTTP handler.
func NewServer(config Config, store *MemoryStore) *Server {
	config.BaseURI = strings.TrimSuffix(config.BaseURI, "/")
	if config.RootRedirectTo == "" {
		config.RootRedirectTo = DefaultResourcePath + DefaultResourceID
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	s := &Server{
		config:  config,
		store:   store,
		router:  chi.NewRouter(),
		started: time.Now(),
		metrics: newTwinMetrics(),
	}
	s.router.Use(chimw.Recoverer)
	s.router.Use(s.metrics.middleware)
	s.router.Use(s.logRequests)
	s.router.Get("/", s.rootRedirect)
	s.router.Get("/.status", s.status)
	s.router.Method(http.MethodGet, "/.metrics", s.metrics.handler())
	s.router.Get("/literals", s.literals)
	s.router.Get("/*", s.resource)
	return s
}

// ServeHTTP implements http.Handler so the twin can be used directly in tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.config.Logger.Info("starting resource twin", "addr", addr, "base_uri", s.config.BaseURI)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	s.config.Logger.Info("shutting down resource twin")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) rootRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.config.RootRedirectTo, http.StatusFound)
}

func (s *Server) resource(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	suffix := suffixPattern.FindString(path)
	uri := s.config.BaseURI + strings.TrimSuffix(path, suffix)

	switch suffix {
	case "":
		// the bare URI identifies the resource; its default representation is the HTML page
		http.Redirect(w, r, path+".html", http.StatusFound)
	case ".html":
		res, ok := s.store.Get(uri)
		if !ok {
			s.errorPage(w, http.StatusNotFound, "This URI has no information")
			return
		}
		var buf bytes.Buffer
		if err := renderResourcePage(&buf, res); err != nil {
			s.errorPage(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
	case ".json":
		res, _ := s.store.Get(uri)
		w.Header().Set("Content-Type", "application/json")
		_ = writeSPARQLJSON(w, uri, res.Quads)
	case ".rdf":
		res, _ := s.store.Get(uri)
		w.Header().Set("Content-Type", "application/x-trig")
		_ = writeTriG(w, res.Quads)
	default:
		s.errorPage(w, http.StatusBadRequest,
			fmt.Sprintf("Unsupported output format: %s.\n\nValid formats are: html, json, rdf", suffix[1:]))
	}
}

func (s *Server) errorPage(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := renderErrorPage(w, code, message); err != nil {
		s.config.Logger.Error("rendering error page", "err", err)
	}
}

// StatusReport is the body of GET /.status.
type StatusReport struct {
	UpTime       string           `json:"uptime"`
	PID          int              `json:"pid"`
	Resources    int              `json:"resources"`
	Responses    map[string]int64 `json:"responses"`
	ResponseTime ResponseTimes    `json:"response_time"`
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	counts, times, err := s.metrics.snapshot()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	report := StatusReport{
		UpTime:       time.Since(s.started).Round(time.Second).String(),
		PID:          os.Getpid(),
		Resources:    s.store.Len(),
		Responses:    counts,
		ResponseTime: times,
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		s.config.Logger.Error("writing status", "err", err)
	}
}

// literals answers GET /literals?uri=... with a table of the resource's literal values, for
// previews of linked resources.
func (s *Server) literals(w http.ResponseWriter, r *http.Request) {
	uri := r.FormValue("uri")
	res, _ := s.store.Get(uri)
	var buf bytes.Buffer
	if err := renderLiterals(&buf, uri, res.Quads); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.config.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

// Counts returns the number of responses per status class, "1xx" to "5xx".
func (s *Server) Counts() map[string]int64 {
	counts, _, err := s.metrics.snapshot()
	if err != nil {
		s.config.Logger.Error("reading metrics", "err", err)
	}
	return counts
}
