package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shipment-predictor/internal/cfg"
	"shipment-predictor/internal/metrics"
	"shipment-predictor/internal/ml"
	"shipment-predictor/internal/pipeline"
	"shipment-predictor/internal/web"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	c, err := cfg.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	setupLogging(c)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Both artifacts are required; without them no request can be served.
	schema, err := ml.LoadSchema(ctx, c.SchemaPath, c.PythonPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", c.SchemaPath).Msg("feature schema load failed")
	}
	log.Info().Str("path", c.SchemaPath).Int("columns", schema.Len()).Msg("feature schema loaded")

	clf, err := ml.Load(ctx, c.ModelConfig(), schema)
	if err != nil {
		log.Fatal().Err(err).Str("backend", c.Backend).Msg("model load failed")
	}

	m := metrics.New()
	mw := metrics.NewWrapper(m)
	predictor := ml.NewPredictorWithMetrics(clf, mw, c.PredictTimeout)
	p := pipeline.New(schema, predictor, mw)

	srv := web.NewServer(p, c.ListenAddr, web.WithCORSOrigins(c.CORSOrigins))
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	waitForShutdown(ctx, srv, errCh)
}

func setupLogging(c cfg.Settings) {
	zerolog.SetGlobalLevel(c.LogLevel)
	zerolog.TimeFieldFormat = time.RFC3339
	if c.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// waitForShutdown blocks until a signal arrives or the server fails, then
// drains in-flight requests.
func waitForShutdown(ctx context.Context, srv *web.Server, errCh <-chan error) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Fatal().Err(err).Msg("prediction server failed")
		}
		return
	case <-ctx.Done():
		log.Info().Msg("context canceled")
	}

	log.Info().Msg("shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("shutdown timeout, forcing exit")
	}
}
