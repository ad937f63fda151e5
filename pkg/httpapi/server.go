// Package httpapi serves node assembly and validation over HTTP.
//
// Routes:
//
//	POST /v1/nodes            assemble one node request into a render spec
//	POST /v1/nodes/validate   assemble and validate one node request
//	POST /v1/flows            run a whole flow through the pipeline
//	GET  /v1/node-types       list node types with their port policy
//	GET  /v1/style            the style nodes are assembled with
//	GET  /healthz             liveness
//	GET  /metrics             Prometheus metrics, when configured
//
// Errors are RFC 7807 problem documents.
package httpapi

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/flowcanvas/pkg/assemble"
	"github.com/matzehuels/flowcanvas/pkg/layout"
	"github.com/matzehuels/flowcanvas/pkg/observability"
	"github.com/matzehuels/flowcanvas/pkg/pipeline"
)

// DefaultMaxBodyBytes limits request bodies.
const DefaultMaxBodyBytes = 1 << 20

// Config configures [NewHandler].
type Config struct {
	// Style nodes are assembled with. The zero value selects
	// layout.DefaultStyle.
	Style layout.Style

	// AbsolutePorts emits output ports as absolute {x, y} positions.
	AbsolutePorts bool

	// Runner executes flows. Nil selects a runner with static measurement.
	Runner *pipeline.Runner

	// Metrics is mounted at /metrics when set.
	Metrics http.Handler

	// MaxBodyBytes limits request bodies. Zero selects DefaultMaxBodyBytes.
	MaxBodyBytes int64

	Logger *log.Logger
}

type server struct {
	cfg       Config
	assembler *assemble.Assembler
	runner    *pipeline.Runner
	logger    *log.Logger
}

// NewHandler returns the API router.
func NewHandler(cfg Config) http.Handler {
	if cfg.Style == (layout.Style{}) {
		cfg.Style = layout.DefaultStyle()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, cfg.Logger)
	}

	s := &server{
		cfg: cfg,
		assembler: assemble.New(
			assemble.WithStyle(cfg.Style),
			assemble.WithAbsolutePorts(cfg.AbsolutePorts),
			assemble.WithGeneratedIDs(true),
		),
		runner: cfg.Runner,
		logger: cfg.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)

	r.Get("/healthz", s.health)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/nodes", s.createNode)
		r.Post("/nodes/validate", s.validateNode)
		r.Post("/flows", s.runFlow)
		r.Get("/node-types", s.nodeTypes)
		r.Get("/style", s.style)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, r, http.StatusNotFound, "not_found", "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, r, http.StatusMethodNotAllowed, "method_not_allowed", r.Method+" is not allowed on "+r.URL.Path)
	})
	return r
}

// accessLog logs each request and reports it to the HTTP hooks under its
// route pattern.
func (s *server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, dur)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", dur,
			"request_id", middleware.GetReqID(r.Context()))
	})
}
