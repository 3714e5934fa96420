package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/motamman/signalk-units-preference-sub000/convert"
	"github.com/motamman/signalk-units-preference-sub000/metric"
	"github.com/motamman/signalk-units-preference-sub000/store"
)

// maxRequestSize bounds request bodies; preference documents are small.
const maxRequestSize = 1 << 20

// Server wires the conversion engine and preference store into HTTP routes.
type Server struct {
	engine *convert.Engine
	store  *store.Store

	logger      *slog.Logger
	metrics     *metric.Registry
	corsOrigins []string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics enables request duration metrics and the /metrics route.
func WithMetrics(m *metric.Registry) Option {
	return func(s *Server) { s.metrics = m }
}

// WithCORS allows the given origins ("*" allows any).
func WithCORS(origins []string) Option {
	return func(s *Server) { s.corsOrigins = origins }
}

// NewServer creates the REST boundary over an engine and a store.
func NewServer(engine *convert.Engine, st *store.Store, opts ...Option) *Server {
	s := &Server{
		engine: engine,
		store:  st,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterRoutes attaches all routes to the mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Conversion surface.
	mux.HandleFunc("GET /api/paths/conversion", s.route("paths_conversion", s.handleGetConversion))
	mux.HandleFunc("POST /api/paths/convert", s.route("paths_convert", s.handleConvertPath))
	mux.HandleFunc("POST /api/units/convert", s.route("units_convert", s.handleConvertUnitValue))

	// Preference CRUD.
	mux.HandleFunc("GET /api/preferences", s.route("preferences_get", s.handleGetPreferences))
	mux.HandleFunc("PUT /api/categories/{category}", s.route("categories_put", s.handlePutCategory))
	mux.HandleFunc("DELETE /api/categories/{category}", s.route("categories_delete", s.handleDeleteCategory))
	mux.HandleFunc("PUT /api/overrides", s.route("overrides_put", s.handlePutOverride))
	mux.HandleFunc("DELETE /api/overrides", s.route("overrides_delete", s.handleDeleteOverride))
	mux.HandleFunc("PUT /api/patterns", s.route("patterns_put", s.handlePutPattern))
	mux.HandleFunc("DELETE /api/patterns", s.route("patterns_delete", s.handleDeletePattern))
	mux.HandleFunc("PUT /api/metadata", s.route("metadata_put", s.handlePutMetadata))
	mux.HandleFunc("DELETE /api/metadata", s.route("metadata_delete", s.handleDeleteMetadata))
	mux.HandleFunc("GET /api/custom-units", s.route("custom_units_get", s.handleGetCustomUnits))
	mux.HandleFunc("PUT /api/custom-units/{baseUnit}/{target}", s.route("custom_units_put", s.handlePutCustomUnit))
	mux.HandleFunc("DELETE /api/custom-units/{baseUnit}/{target}", s.route("custom_units_delete", s.handleDeleteCustomUnit))

	// Presets and bundles.
	mux.HandleFunc("GET /api/presets", s.route("presets_get", s.handleListPresets))
	mux.HandleFunc("POST /api/presets/{name}/apply", s.route("presets_apply", s.handleApplyPreset))
	mux.HandleFunc("GET /api/backup", s.route("backup", s.handleBackup))
	mux.HandleFunc("POST /api/restore", s.route("restore", s.handleRestore))

	// Operational.
	mux.HandleFunc("GET /api/health", s.route("health", s.handleHealth))
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	// Method-scoped patterns above never match preflight requests.
	if len(s.corsOrigins) > 0 {
		mux.HandleFunc("OPTIONS /api/", func(w http.ResponseWriter, r *http.Request) {
			s.applyCORS(w, r)
			w.WriteHeader(http.StatusNoContent)
		})
	}
}

// route wraps a handler with request ID propagation, CORS, body limits and
// duration metrics.
func (s *Server) route(name string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		s.applyCORS(w, r)

		r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
		defer r.Body.Close()

		start := time.Now()
		h(w, r)
		if s.metrics != nil {
			s.metrics.HTTPDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		}
	}
}

// applyCORS sets CORS headers when the origin is allowed; reports whether
// CORS handling is active.
func (s *Server) applyCORS(w http.ResponseWriter, r *http.Request) bool {
	if len(s.corsOrigins) == 0 {
		return false
	}
	origin := r.Header.Get("Origin")
	allowed := false
	for _, o := range s.corsOrigins {
		if o == "*" || o == origin {
			allowed = true
			break
		}
	}
	if !allowed {
		return false
	}
	if origin == "" {
		origin = "*"
	}
	w.Header().Set("Access-Control-Allow-Origin", origin)
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
	w.Header().Set("Access-Control-Max-Age", "3600")
	return true
}
