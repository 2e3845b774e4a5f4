package app

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/linedeck/linedeck/internal/lines"
	"github.com/linedeck/linedeck/internal/logging"
	"github.com/linedeck/linedeck/internal/singular"
	"github.com/linedeck/linedeck/internal/upstream"
)

// Version is reported by the health endpoint and the web panel footer.
const Version = "1.1.0"

// Application holds the dependencies for our HTTP handlers, helpers,
// and background loops: the status store, the upstream fetcher, the
// Singular clients, and the shared logger.
type Application struct {
	Config   Config
	Logger   *slog.Logger
	Lines    *lines.Store
	Fetcher  upstream.Fetcher
	Stream   *singular.Datastream
	Control  *singular.ControlClient
	Registry *singular.Registry
	Events   *EventLog

	autoRefresh atomic.Bool
}

// AutoRefreshEnabled reports whether the background upstream poll is
// currently allowed to overwrite non-overridden lines.
func (app *Application) AutoRefreshEnabled() bool {
	return app.autoRefresh.Load()
}

// SetAutoRefresh toggles the background upstream poll.
func (app *Application) SetAutoRefresh(enabled bool) {
	app.autoRefresh.Store(enabled)
	app.Events.Record("auto_refresh", map[string]bool{"enabled": enabled})
}

// PushSnapshot forwards the current store contents to the datastream.
func (app *Application) PushSnapshot(ctx context.Context) error {
	err := app.Stream.Push(ctx, singular.PayloadFromSnapshot(app.Lines.Snapshot()))
	if err != nil {
		logging.LogError(app.Logger, "datastream push failed", err)
		return err
	}
	return nil
}

// RefreshFromUpstream fetches fresh statuses and applies them to every
// line without a manual override, then pushes the result. The store is
// left untouched when the upstream fetch fails.
func (app *Application) RefreshFromUpstream(ctx context.Context) error {
	statuses, err := app.Fetcher.FetchAll(ctx)
	if err != nil {
		logging.LogError(app.Logger, "upstream fetch failed", err)
		return err
	}

	applied := 0
	for id, text := range statuses {
		if err := app.Lines.SetAuto(id, text); err == nil {
			applied++
		}
	}
	logging.LogOperation(app.Logger, "upstream_refresh", slog.Int("lines_applied", applied))
	app.Events.Record("upstream_refresh", map[string]int{"linesApplied": applied})

	return app.PushSnapshot(ctx)
}

// RebuildRegistry refetches the control app model and reindexes its
// subcompositions.
func (app *Application) RebuildRegistry(ctx context.Context) error {
	model, err := app.Control.FetchModel(ctx)
	if err != nil {
		logging.LogError(app.Logger, "control app model fetch failed", err)
		return err
	}
	app.Registry.Rebuild(model)
	logging.LogOperation(app.Logger, "registry_rebuild", slog.Int("subcompositions", app.Registry.Len()))
	app.Events.Record("registry_rebuild", map[string]int{"subcompositions": app.Registry.Len()})
	return nil
}
