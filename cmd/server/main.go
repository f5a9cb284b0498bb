package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gilchrisn/localization-viewer/api"
	"github.com/gilchrisn/localization-viewer/config"
	"github.com/gilchrisn/localization-viewer/pkg/plot"
	"github.com/gilchrisn/localization-viewer/service"
)

func main() {
	configPath := flag.String("config", "", "optional YAML/JSON/TOML config file")
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log.Logger = cfg.CreateLogger()

	log.Info().
		Str("address", cfg.Server.Address).
		Str("results_dir", cfg.Results.Dir).
		Str("views_dir", cfg.Results.ViewsDir).
		Str("color_scale", cfg.Plot.ColorScale).
		Msg("Configuration loaded")

	renderer := plot.NewRenderer(cfg.Plot.Width, cfg.Plot.Height)
	renderer.Camera = plot.Camera{Azimuth: cfg.Plot.Azimuth, Elevation: cfg.Plot.Elevation}

	explorer := service.NewExplorerService(cfg.Results.Dir, renderer, cfg.Plot.ColorScale)
	views := service.NewViewService(cfg.Results.ViewsDir, api.ViewsPath)

	// Report what is on disk at startup; requests rescan anyway
	if resp, err := explorer.Combinations(); err != nil {
		log.Warn().Err(err).Msg("Result directory is not readable yet")
	} else {
		log.Info().
			Int("result_files", resp.Count).
			Ints("frequencies", resp.Combinations.Frequency).
			Ints("blocksizes", resp.Combinations.Blocksize).
			Msg("Result files discovered")
	}

	handlers := api.NewHandlers(explorer, views)

	router := mux.NewRouter()
	api.SetupRoutes(router, handlers)

	router.Use(api.LoggingMiddleware)
	router.Use(api.RecoveryMiddleware)

	// CORS sits in front of the router to answer preflight requests
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      api.CORSMiddleware(cfg.Server.AllowedOrigins)(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().
			Str("address", cfg.Server.Address).
			Msg("HTTP server starting")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server shutdown complete")
}
