package main

import (
	"fmt"
	"os"

	"plantapi/internal/api"
	"plantapi/internal/config"
	"plantapi/internal/fixtures"
	"plantapi/internal/logging"
	"plantapi/internal/render"
)

func main() {
	// 1. config: defaults, config.json, .env, PLANTAPI_*, flags
	cfg, err := config.Load("config.json", os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(2)
	}

	// 2. fixtures: a missing directory is not fatal, the endpoint reports it
	catalog := fixtures.NewCatalog(cfg.FixturesDir)
	if n, err := catalog.Reload(); err != nil {
		log.WithError(err).Warn("fixtures not loaded")
	} else {
		log.WithField("fixtures", n).Info("fixtures loaded")
	}

	format, _ := render.ParseFormat(cfg.OutputFormat) // validated by config.Load
	storage := api.NewStorage(catalog, cfg.HistoryLimit)

	// 3. REST API
	log.WithField("port", cfg.Port).Info("starting plantapi server")
	if err := api.RunServer(":"+cfg.Port, storage, log, api.Options{
		DefaultFormat:  format,
		RenderServer:   cfg.RenderServer,
		DBSchema:       cfg.DBSchema,
		MetricsEnabled: cfg.MetricsEnabled,
	}); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
