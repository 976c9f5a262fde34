// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/libertyswede/nxtnode/app/services/node/handlers/v1/peergrp"
	"github.com/libertyswede/nxtnode/app/services/node/handlers/v1/public"
	"github.com/libertyswede/nxtnode/foundation/blockchain/state"
	"github.com/libertyswede/nxtnode/foundation/events"
	"github.com/libertyswede/nxtnode/foundation/nameservice"
	"github.com/libertyswede/nxtnode/foundation/web"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log     *zap.SugaredLogger
	State   *state.State
	Evts    *events.Events
	NS      *nameservice.NameService
	Version string
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		WS:    websocket.Upgrader{},
		Evts:  cfg.Evts,
		NS:    cfg.NS,
	}

	app.Handle(http.MethodGet, version, "/status", pbl.Status)
	app.Handle(http.MethodGet, version, "/peers", pbl.Peers)
	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/accounts/names", pbl.Names)
	app.Handle(http.MethodGet, version, "/accounts/:id", pbl.Account)
	app.Handle(http.MethodGet, version, "/aliases/:name", pbl.Alias)
	app.Handle(http.MethodGet, version, "/blocks/list/:from/:to", pbl.BlocksByHeight)
	app.Handle(http.MethodGet, version, "/blocks/:id", pbl.Block)
	app.Handle(http.MethodGet, version, "/tx/unconfirmed", pbl.Unconfirmed)
	app.Handle(http.MethodGet, version, "/tx/:id", pbl.Transaction)
	app.Handle(http.MethodPost, version, "/tx/submit", pbl.SubmitTransaction)
}

// PeerRoutes binds the peer endpoint. It lives outside the versioned group
// since every node in the network calls it by the same path.
func PeerRoutes(app *web.App, cfg Config) {
	prg := peergrp.Handlers{
		Log:     cfg.Log,
		State:   cfg.State,
		Version: cfg.Version,
	}

	app.Handle(http.MethodPost, "", "/nxt", prg.Dispatch)
}
