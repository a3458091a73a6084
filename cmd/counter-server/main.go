package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/weegigs/wee-ledger-go/config"
	"github.com/weegigs/wee-ledger-go/connectors/wehttp"
	"github.com/weegigs/wee-ledger-go/connectors/wekafka"
	"github.com/weegigs/wee-ledger-go/counter"
	"github.com/weegigs/wee-ledger-go/we"
)

const serviceName = "counter-server"

func configureLogging(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// newRouter mounts the counter under /contracts and the metrics endpoint
// beside it.
func newRouter(runtime *we.Runtime[counter.Counter], registry *prometheus.Registry) http.Handler {
	r := chi.NewRouter()

	r.Handle("/metrics", wehttp.MetricsHandler(registry))
	r.Mount("/contracts", wehttp.NewHandler[counter.Counter](runtime))

	return withLogging(r)
}

func receiptSinks(cfg config.KafkaConfig) ([]we.ReceiptSink, func()) {
	sinks := []we.ReceiptSink{we.NewLogSink(&log.Logger)}
	if !cfg.Enabled {
		return sinks, func() {}
	}

	kafka := wekafka.NewReceiptSink(wekafka.NewWriter(cfg.Brokers, cfg.Topic))
	return append(sinks, kafka), func() {
		if err := kafka.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close receipt writer")
		}
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	configureLogging(cfg.Log)

	shutdown, err := we.InstallTracing(ctx, serviceName, we.TelemetryOptions{
		Exporter:         cfg.Telemetry.Exporter,
		HoneycombTeam:    cfg.Telemetry.HoneycombTeam,
		HoneycombDataset: cfg.Telemetry.HoneycombDataset,
		JaegerEndpoint:   cfg.Telemetry.JaegerEndpoint,
	})
	if err != nil {
		return err
	}
	defer func() { _ = shutdown(context.Background()) }()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	metrics, err := we.NewMetrics(registry)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	sinks, closeSinks := receiptSinks(cfg.Kafka)
	defer closeSinks()

	runtime := counter.NewRuntime(
		store,
		we.WithMetrics(metrics),
		we.WithReceiptSinks(sinks...),
		we.WithAttempts(cfg.Runtime.Attempts),
	)

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      newRouter(runtime, registry),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errs := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Str("store", string(cfg.Store.Kind)).Msg("listening")
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	stop, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return server.Shutdown(stop)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server failed")
	}
}
