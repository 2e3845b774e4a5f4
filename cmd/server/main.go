package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/linedeck/linedeck/internal/app"
	"github.com/linedeck/linedeck/internal/lines"
	"github.com/linedeck/linedeck/internal/logging"
	"github.com/linedeck/linedeck/internal/restapi"
	"github.com/linedeck/linedeck/internal/singular"
	"github.com/linedeck/linedeck/internal/upstream"
	"github.com/linedeck/linedeck/internal/webui"
)

func main() {
	var cfg app.Config
	var configPath string
	var autoRefresh bool

	flag.IntVar(&cfg.Port, "port", 3113, "Control panel server port")
	flag.StringVar(&cfg.Env, "env", "development", "Environment (development|staging|production)")
	flag.StringVar(&configPath, "config", "", "Optional YAML config file; flags override its values")
	flag.StringVar(&cfg.TfLURL, "tfl-url", "", "TfL status endpoint (default: all tracked modes)")
	flag.StringVar(&cfg.TfLAppID, "tfl-app-id", "", "TfL API app id (optional)")
	flag.StringVar(&cfg.TfLAppKey, "tfl-app-key", "", "TfL API app key (optional)")
	flag.StringVar(&cfg.AlertsURL, "alerts-url", "", "GTFS-Realtime service alerts feed; replaces the TfL source when set")
	flag.StringVar(&cfg.StreamURL, "stream-url", "", "Singular datastream URL or bare datastream ID")
	flag.StringVar(&cfg.ControlToken, "control-token", "", "Singular Control App token (optional)")
	flag.DurationVar(&cfg.RefreshInterval, "refresh", time.Minute, "Auto-refresh poll interval; 0 disables the loop")
	flag.BoolVar(&autoRefresh, "auto", false, "Start with auto-refresh enabled")
	flag.Parse()

	logger := logging.NewStructuredLogger(os.Stdout, slog.LevelInfo)

	if configPath != "" {
		merged, err := app.LoadConfigFile(configPath, cfg)
		if err != nil {
			logging.LogError(logger, "failed to load config file", err)
			os.Exit(1)
		}
		// Flags passed explicitly still win over the file
		flagCfg := cfg
		cfg = merged
		flag.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "port":
				cfg.Port = flagCfg.Port
			case "env":
				cfg.Env = flagCfg.Env
			case "tfl-url":
				cfg.TfLURL = flagCfg.TfLURL
			case "tfl-app-id":
				cfg.TfLAppID = flagCfg.TfLAppID
			case "tfl-app-key":
				cfg.TfLAppKey = flagCfg.TfLAppKey
			case "alerts-url":
				cfg.AlertsURL = flagCfg.AlertsURL
			case "stream-url":
				cfg.StreamURL = flagCfg.StreamURL
			case "control-token":
				cfg.ControlToken = flagCfg.ControlToken
			case "refresh":
				cfg.RefreshInterval = flagCfg.RefreshInterval
			}
		})
	}

	var fetcher upstream.Fetcher
	if cfg.AlertsURL != "" {
		fetcher = upstream.NewAlertsClient(cfg.AlertsURL, nil, logger)
	} else {
		fetcher = upstream.NewTfLClient(cfg.TfLURL, cfg.TfLAppID, cfg.TfLAppKey, logger)
	}

	application := &app.Application{
		Config:   cfg,
		Logger:   logger,
		Lines:    lines.NewStore(),
		Fetcher:  fetcher,
		Stream:   singular.NewDatastream(singular.NormalizeStreamURL(cfg.StreamURL), logger),
		Control:  singular.NewControlClient(cfg.ControlToken, "", logger),
		Registry: singular.NewRegistry(),
		Events:   app.NewEventLog(),
	}
	application.SetAutoRefresh(autoRefresh)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.ControlToken != "" {
		// Best effort: the registry can be rebuilt later via the API
		if err := application.RebuildRegistry(ctx); err != nil {
			logging.LogError(logger, "initial registry build failed", err)
		}
	}

	router := httprouter.New()
	restAPI := restapi.NewRestAPI(application)
	restAPI.SetRoutes(router)
	webUI := webui.NewWebUI(application)
	webUI.SetRoutes(router)

	handler := restapi.NewRequestLoggingMiddleware(logger)(router)
	handler = restapi.CompressionMiddleware(handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	if cfg.RefreshInterval > 0 {
		go runAutoRefresh(ctx, application, cfg.RefreshInterval)
	}

	go func() {
		logger.Info("starting server", "addr", srv.Addr, "env", cfg.Env, "version", app.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.LogError(logger, "server failed", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.LogError(logger, "shutdown failed", err)
	}
	logger.Info("server stopped")
}

// runAutoRefresh polls the upstream source at a fixed interval. Each
// tick is skipped unless the operator has auto-refresh switched on;
// failures are logged and the next tick tries again.
func runAutoRefresh(ctx context.Context, application *app.Application, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !application.AutoRefreshEnabled() {
				continue
			}
			_ = application.RefreshFromUpstream(ctx)
		}
	}
}
