// Package handlers contains the full set of handler functions and routes
// supported by the viewer website.
package handlers

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/libertyswede/nxtnode/business/sys/metrics"
	"github.com/libertyswede/nxtnode/business/web/mid"
	"github.com/libertyswede/nxtnode/foundation/web"
)

//go:embed assets
var assets embed.FS

// UIMux constructs an http.Handler with all application routes defined.
// The page talks to the public API of the node found at nodeURL.
func UIMux(build string, nodeURL string, shutdown chan os.Signal, log *zap.SugaredLogger) (*web.App, error) {
	rec := metrics.NewWeb()

	app := web.NewApp(
		shutdown,
		mid.Logger(log),
		mid.Errors(log),
		mid.Metrics(rec),
		mid.Panics(rec),
		mid.Cors("*"),
	)

	// Register the index page for the website.
	ig, err := newIndex(build, nodeURL)
	if err != nil {
		return nil, fmt.Errorf("loading index template: %w", err)
	}
	app.Handle(http.MethodGet, "", "/", ig.handler)

	// Register the assets.
	static, err := fs.Sub(assets, "assets/static")
	if err != nil {
		return nil, fmt.Errorf("loading assets: %w", err)
	}
	fsrv := http.StripPrefix("/assets/", http.FileServer(http.FS(static)))
	f := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		fsrv.ServeHTTP(w, r)
		return nil
	}
	app.Handle(http.MethodGet, "", "/assets/*", f)

	return app, nil
}
