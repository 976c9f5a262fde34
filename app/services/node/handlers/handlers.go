// Package handlers manages the different versions of the API.
package handlers

import (
	"context"
	"expvar"
	"net/http"
	"net/http/pprof"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/libertyswede/nxtnode/app/services/node/handlers/debug/checkgrp"
	v1 "github.com/libertyswede/nxtnode/app/services/node/handlers/v1"
	"github.com/libertyswede/nxtnode/business/sys/metrics"
	"github.com/libertyswede/nxtnode/business/web/mid"
	"github.com/libertyswede/nxtnode/foundation/blockchain/state"
	"github.com/libertyswede/nxtnode/foundation/events"
	"github.com/libertyswede/nxtnode/foundation/nameservice"
	"github.com/libertyswede/nxtnode/foundation/web"
)

// MuxConfig contains all the mandatory systems required by handlers.
type MuxConfig struct {
	Shutdown chan os.Signal
	Log      *zap.SugaredLogger
	State    *state.State
	Evts     *events.Events
	NS       *nameservice.NameService
	Build    string
}

// PublicMux constructs a http.Handler with the wallet and explorer routes.
func PublicMux(cfg MuxConfig) http.Handler {
	rec := metrics.NewWeb()

	// Construct the web.App which holds all routes as well as common Middleware.
	app := web.NewApp(
		cfg.Shutdown,
		mid.Logger(cfg.Log),
		mid.Errors(cfg.Log),
		mid.Metrics(rec),
		mid.Cors("*"),
		mid.Panics(rec),
	)

	// Accept CORS 'OPTIONS' preflight requests.
	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return nil
	}
	app.Handle(http.MethodOptions, "", "/*", h, mid.Cors("*"))

	v1.PublicRoutes(app, v1.Config{
		Log:   cfg.Log,
		State: cfg.State,
		Evts:  cfg.Evts,
		NS:    cfg.NS,
	})

	return app
}

// PeerMux constructs a http.Handler serving the peer endpoint.
func PeerMux(cfg MuxConfig) http.Handler {
	rec := metrics.NewWeb()

	app := web.NewApp(
		cfg.Shutdown,
		mid.Logger(cfg.Log),
		mid.Errors(cfg.Log),
		mid.Metrics(rec),
		mid.Panics(rec),
	)

	v1.PeerRoutes(app, v1.Config{
		Log:     cfg.Log,
		State:   cfg.State,
		Version: cfg.Build,
	})

	return app
}

// DebugStandardLibraryMux registers all the debug routes from the standard library
// into a new mux bypassing the use of the DefaultServerMux. Using the
// DefaultServerMux would be a security risk since a dependency could inject a
// handler into our service without us knowing it.
func DebugStandardLibraryMux() *http.ServeMux {
	mux := http.NewServeMux()

	// Register all the standard library debug endpoints.
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/debug/vars", expvar.Handler())

	return mux
}

// DebugMux registers all the debug standard library routes, the prometheus
// metrics and then custom debug application routes for the service.
func DebugMux(build string, log *zap.SugaredLogger, st *state.State) http.Handler {
	mux := DebugStandardLibraryMux()

	mux.Handle("/metrics", promhttp.Handler())

	// Register debug check endpoints.
	cgh := checkgrp.Handlers{
		Build: build,
		Log:   log,
		State: st,
	}
	mux.HandleFunc("/debug/readiness", cgh.Readiness)
	mux.HandleFunc("/debug/liveness", cgh.Liveness)

	return mux
}
