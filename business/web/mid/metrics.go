package mid

import (
	"context"
	"net/http"
	"time"

	"github.com/libertyswede/nxtnode/foundation/web"
)

// Recorder is the set of API measurements taken by the middleware.
type Recorder interface {
	ObserveRequest(method string, statusCode int, started time.Time)
	ObserveError()
	ObservePanic()
}

// Metrics updates program counters.
func Metrics(rec Recorder) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			err := handler(ctx, w, r)

			if v, verr := web.GetValues(ctx); verr == nil {
				code := v.StatusCode
				if err != nil && code == 0 {
					code = http.StatusInternalServerError
				}
				rec.ObserveRequest(r.Method, code, v.Now)
			}

			if err != nil {
				rec.ObserveError()
			}

			return err
		}

		return h
	}

	return m
}
