package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"taximeter/internal/app"
	"taximeter/internal/clock"
	"taximeter/internal/config"
	"taximeter/internal/domain"
	"taximeter/internal/handler"
	internalRedis "taximeter/internal/redis"
	"taximeter/internal/service"
	"taximeter/internal/source"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic first so Redis can be instrumented.
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s", cfg.NewRelic.AppName)
		}
	}

	// Redis backs the live fix stream and the idempotency cache. The meter
	// still runs without it, on the simulated or websocket source.
	var redisClient *redis.Client
	redisClient, err = app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Printf("redis unavailable, continuing without fix stream: %v", err)
		redisClient = nil
	} else {
		log.Println("Connected to Redis")
	}

	// Metering core. A broken rate schedule aborts startup here.
	calculator, err := service.NewFareCalculator(domain.DefaultRates())
	if err != nil {
		log.Fatalf("invalid rate schedule: %v", err)
	}

	estimator := service.NewDistanceEstimator(cfg.Meter.CorrectionFactor)
	filter := service.NewSampleFilter(estimator, cfg.Meter.NoiseGateMeters)
	clk := clock.New()

	sources := map[string]service.Source{
		service.SampleModeSimulated: source.NewSimulated(
			clk,
			cfg.Source.SimulatedTick,
			cfg.Source.SimulatedLat,
			cfg.Source.SimulatedLng,
			cfg.Source.SimulatedSpeedKmh,
		),
	}

	var fixStream *internalRedis.FixStream
	switch cfg.Source.LiveKind {
	case "websocket":
		sources[service.SampleModeLive] = source.NewWebSocket(cfg.Source.WebSocketURL)
	default:
		if redisClient != nil {
			fixStream = internalRedis.NewFixStream(redisClient, cfg.Source.VehicleID)
			sources[service.SampleModeLive] = fixStream
		}
	}

	session := service.NewSession(service.SessionConfig{
		Clock:       clk,
		Filter:      filter,
		Calculator:  calculator,
		Sources:     sources,
		WaitingTick: cfg.Meter.WaitingTick,
	})
	defer session.Close()

	if err := session.SetSampleMode(cfg.Source.DefaultMode); err != nil {
		// Surfaced again as source status on /v1/meter; not fatal.
		log.Printf("sample mode %q not attached: %v", cfg.Source.DefaultMode, err)
	}

	// Wire handlers and router.
	meterHandler := handler.NewMeterHandler(session)
	var fixHandler *handler.FixHandler
	if fixStream != nil {
		fixHandler = handler.NewFixHandler(fixStream)
	}

	router := app.NewRouter(app.RouterDeps{
		MeterHandler: meterHandler,
		FixHandler:   fixHandler,
		RedisClient:  redisClient,
		NewRelicApp:  nrApp,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine.
	go func() {
		log.Printf("Starting meter on port %s (vehicle=%s mode=%s)", cfg.Server.Port, cfg.Source.VehicleID, cfg.Source.DefaultMode)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down meter...")

	session.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	if redisClient != nil {
		_ = redisClient.Close()
	}

	log.Println("Meter exited")
}
