package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/webindexer/webindexer/internal/logger"
	"github.com/webindexer/webindexer/internal/server"
	"github.com/webindexer/webindexer/pkg/config"
	"github.com/webindexer/webindexer/pkg/index"
	"github.com/webindexer/webindexer/pkg/metrics"
	"github.com/webindexer/webindexer/pkg/thumbs"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: "+config.GetDefaultConfigPath()+")")
	listen := flag.String("listen", "", "Listen address, overrides config")
	root := flag.String("root", "", "Document root, overrides config")
	logLevel := flag.String("log-level", "", "Log level (DEBUG, INFO, WARN, ERROR), overrides config")
	flag.Parse()

	// Flag overrides must land before validation so --root alone is
	// enough to start without a config file.
	if *root != "" {
		os.Setenv("WEBINDEXER_SERVER_ROOT", *root)
	}
	if *listen != "" {
		os.Setenv("WEBINDEXER_SERVER_LISTEN", *listen)
	}
	if *logLevel != "" {
		os.Setenv("WEBINDEXER_LOGGING_LEVEL", *logLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Setup(cfg.Logging.Level, cfg.Logging.Output); err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	logger.Info("webindexer starting")
	logger.Info("Document root: %s", cfg.Server.Root)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var thumbSvc *thumbs.Service
	if cfg.Thumbnails.Enabled {
		cache, err := config.CreateThumbnailCache(&cfg.Thumbnails.Cache)
		if err != nil {
			log.Fatalf("Failed to create thumbnail cache: %v", err)
		}
		defer cache.Close()

		thumbSvc = thumbs.NewService(cache, cfg.Thumbnails.Size, cfg.Thumbnails.JPEGQuality)
		logger.Info("Thumbnails enabled (%dpx, %s cache)", cfg.Thumbnails.Size, cfg.Thumbnails.Cache.Type)
	}

	var httpMetrics metrics.HTTPMetrics
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		httpMetrics = metrics.NewHTTPMetrics()

		metricsServer := metrics.NewServer(cfg.Metrics.Listen)
		go func() {
			if err := metricsServer.Start(ctx); err != nil {
				logger.Error("Metrics server error: %v", err)
			}
		}()
	}

	resolver := index.NewResolver(cfg.Server.Root, index.XattrStore{})

	srv, err := server.New(cfg, resolver, thumbSvc, httpMetrics)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Serve(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Received %s, shutting down", sig)
		cancel()
		if err := <-errChan; err != nil {
			logger.Error("Shutdown error: %v", err)
		}
	case err := <-errChan:
		if err != nil {
			logger.Error("Server error: %v", err)
			os.Exit(1)
		}
	}
}
