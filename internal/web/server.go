// Package web serves the prediction form, a JSON prediction endpoint,
// health and Prometheus metrics.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"shipment-predictor/internal/pipeline"
	"shipment-predictor/internal/shipment"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Server renders the prediction page on top of a Pipeline.
type Server struct {
	pipeline       *pipeline.Pipeline
	metricsHandler http.Handler
	corsOrigins    []string
	server         *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithMetricsHandler replaces the default Prometheus registry handler.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metricsHandler = h }
}

// WithCORSOrigins allows browser clients from origins to call the JSON API.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) { s.corsOrigins = origins }
}

func NewServer(p *pipeline.Pipeline, addr string, opts ...Option) *Server {
	s := &Server{pipeline: p, metricsHandler: promhttp.Handler()}
	for _, opt := range opts {
		opt(s)
	}

	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/", s.handleIndex)
	r.Post("/predict", s.handlePredictForm)
	r.Route("/api/v1", func(r chi.Router) {
		if len(s.corsOrigins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: s.corsOrigins,
				AllowedMethods: []string{http.MethodPost, http.MethodOptions},
				AllowedHeaders: []string{"Content-Type"},
				MaxAge:         300,
			}))
		}
		r.Post("/predict", s.handlePredictJSON)
	})
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", s.metricsHandler)
	return r
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("starting prediction server")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type page struct {
	Blocks      []shipment.WarehouseBlock
	Modes       []shipment.Mode
	Importances []shipment.Importance
	Genders     []shipment.Gender
	values      url.Values
	Result      *pipeline.Result
	Error       string
}

func newPage(values url.Values) *page {
	return &page{
		Blocks:      shipment.WarehouseBlocks,
		Modes:       shipment.Modes,
		Importances: shipment.Importances,
		Genders:     shipment.Genders,
		values:      values,
	}
}

// Value returns the submitted value of a form field.
func (p *page) Value(field string) string { return p.values.Get(field) }

func (p *page) Prob(v float64) string { return pipeline.FormatProb(v) }

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, newPage(shipment.Default().Values()))
}

func (s *Server) handlePredictForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		pg := newPage(shipment.Default().Values())
		pg.Error = "invalid form submission"
		s.renderPage(w, http.StatusBadRequest, pg)
		return
	}

	pg := newPage(r.PostForm)
	in, err := shipment.ParseForm(r.PostForm)
	if err == nil {
		var res pipeline.Result
		if res, err = s.pipeline.Run(r.Context(), in); err == nil {
			pg.Result = &res
		}
	}
	if err != nil {
		log.Warn().Err(err).Msg("prediction request rejected")
		pg.Error = err.Error()
		s.renderPage(w, http.StatusBadRequest, pg)
		return
	}

	s.renderPage(w, http.StatusOK, pg)
}

func (s *Server) renderPage(w http.ResponseWriter, status int, pg *page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := indexTmpl.Execute(w, pg); err != nil {
		log.Error().Err(err).Msg("failed to render page")
	}
}

// PredictResponse is the JSON form of a pipeline result.
type PredictResponse struct {
	pipeline.Result
	ProbDelayed float64 `json:"probability_delayed"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handlePredictJSON(w http.ResponseWriter, r *http.Request) {
	var req shipment.Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "invalid request: " + err.Error()})
		return
	}
	in, err := req.Input()
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: err.Error()})
		return
	}

	res, err := s.pipeline.Run(r.Context(), in)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: err.Error()})
		return
	}

	render.JSON(w, r, PredictResponse{Result: res, ProbDelayed: res.ProbDelayed()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":   "ok",
		"features": s.pipeline.Schema().Len(),
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Str("request_id", middleware.GetReqID(r.Context())).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}
