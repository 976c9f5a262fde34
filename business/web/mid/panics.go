package mid

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/libertyswede/nxtnode/foundation/web"
)

// Panics recovers from panics and converts the panic to an error so it is
// reported in Metrics and handled in Errors.
func Panics(rec Recorder) web.Middleware {
	m := func(handler web.Handler) web.Handler {

		// Use the named return value so the deferred recover can set it.
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) (err error) {
			defer func() {
				if rv := recover(); rv != nil {
					trace := debug.Stack()
					err = fmt.Errorf("PANIC [%v] TRACE[%s]", rv, string(trace))
					rec.ObservePanic()
				}
			}()

			return handler(ctx, w, r)
		}

		return h
	}

	return m
}
