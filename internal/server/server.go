// Package server is the development host for the upload page. It serves the
// page and its wasm assets and forwards upload POSTs to an external backend;
// it never stores or inspects uploaded files itself.
package server

import (
	"context"
	"crypto/tls"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sreevalligodiganuru08-collab/path2learn-smart-learning/internal/logging"
	"github.com/sreevalligodiganuru08-collab/path2learn-smart-learning/internal/upload"
)

//go:embed templates/*
var templates embed.FS

// ErrNoUpstream is reported to clients posting uploads when no backend is
// configured.
var ErrNoUpstream = errors.New("upload backend not configured")

const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	Title     string
	Bindings  []upload.Binding
	StaticDir string
	// Upstream is the base URL upload POSTs are proxied to.
	Upstream string
	Registry *prometheus.Registry
	Logger   logging.Logger
}

type pageData struct {
	Title    string
	Bindings []upload.Binding
}

// Server routes the upload page, static assets, upload proxy and metrics.
type Server struct {
	opts    Options
	tmpl    *template.Template
	router  *mux.Router
	proxy   *httputil.ReverseProxy
	metrics *metrics
	logger  logging.Logger
}

// New builds the router. It fails on an unparsable upstream URL.
func New(opts Options) (*Server, error) {
	if opts.Title == "" {
		opts.Title = "Path2Learn uploads"
	}
	if len(opts.Bindings) == 0 {
		opts.Bindings = upload.DefaultBindings()
	}
	if opts.StaticDir == "" {
		opts.StaticDir = "static"
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}

	tmpl, err := template.ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	m, err := newMetrics(opts.Registry)
	if err != nil {
		return nil, err
	}

	s := &Server{
		opts:    opts,
		tmpl:    tmpl,
		metrics: m,
		logger:  logging.OrNop(opts.Logger),
	}
	if opts.Upstream != "" {
		target, err := url.Parse(opts.Upstream)
		if err != nil || target.Scheme == "" || target.Host == "" {
			return nil, fmt.Errorf("invalid upstream %q", opts.Upstream)
		}
		s.proxy = httputil.NewSingleHostReverseProxy(target)
		s.proxy.ErrorHandler = s.proxyError
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestID, s.accessLog)

	// Upload page
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)

	// Upload endpoints, one per binding
	for _, b := range s.opts.Bindings {
		r.Handle(b.Endpoint, s.uploadProxy(b)).Methods(http.MethodPost)
	}

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.opts.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	// wasm_exec.js, main.wasm and anything else the page loads
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(s.opts.StaticDir))))
	return r
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := s.tmpl.ExecuteTemplate(w, "index.html", pageData{
		Title:    s.opts.Title,
		Bindings: s.opts.Bindings,
	})
	if err != nil {
		s.logger.Error("render index: %v", err)
	}
}

func (s *Server) uploadProxy(b upload.Binding) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			s.metrics.proxied.WithLabelValues(b.Endpoint, fmt.Sprint(rec.status)).Inc()
		}()
		if s.proxy == nil {
			http.Error(rec, ErrNoUpstream.Error(), http.StatusServiceUnavailable)
			return
		}
		s.proxy.ServeHTTP(rec, r)
	})
}

func (s *Server) proxyError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Warn("proxy %s %s: %v", r.Method, r.URL.Path, err)
	http.Error(w, "Backend Offline", http.StatusBadGateway)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. A non-nil tlsConfig switches to HTTPS.
func (s *Server) ListenAndServe(ctx context.Context, addr string, tlsConfig *tls.Config) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		TLSConfig:    tlsConfig,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		var err error
		if tlsConfig != nil {
			s.logger.Info("upload page at https://%s", displayAddr(addr))
			err = srv.ListenAndServeTLS("", "")
		} else {
			s.logger.Info("upload page at http://%s", displayAddr(addr))
			err = srv.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func displayAddr(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil || host != "" {
		return addr
	}
	return "localhost:" + port
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
