package mid_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/libertyswede/nxtnode/business/sys/validate"
	"github.com/libertyswede/nxtnode/business/web/errs"
	"github.com/libertyswede/nxtnode/business/web/mid"
	"github.com/libertyswede/nxtnode/foundation/web"
)

type recorder struct {
	statuses []int
	errors   int
	panics   int
}

func (r *recorder) ObserveRequest(method string, statusCode int, started time.Time) {
	r.statuses = append(r.statuses, statusCode)
}

func (r *recorder) ObserveError() { r.errors++ }

func (r *recorder) ObservePanic() { r.panics++ }

func TestErrors(t *testing.T) {
	tests := []struct {
		name       string
		handler    web.Handler
		wantStatus int
		wantError  string
		wantFields map[string]string
	}{
		{
			name: "trusted error keeps its status",
			handler: func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				return errs.NewTrustedf(http.StatusNotFound, "block %d: not found", 7)
			},
			wantStatus: http.StatusNotFound,
			wantError:  "block 7: not found",
		},
		{
			name: "field errors are a bad request",
			handler: func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				return validate.FieldErrors{{Field: "deadline", Error: "deadline is a required field"}}
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "data validation error",
			wantFields: map[string]string{"deadline": "deadline is a required field"},
		},
		{
			name: "other errors are hidden",
			handler: func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				return errors.New("disk on fire")
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  http.StatusText(http.StatusInternalServerError),
		},
		{
			name: "panics become errors",
			handler: func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				panic("boom")
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  http.StatusText(http.StatusInternalServerError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			log := zap.NewNop().Sugar()

			app := web.NewApp(make(chan os.Signal, 1),
				mid.Logger(log),
				mid.Errors(log),
				mid.Metrics(rec),
				mid.Panics(rec),
			)
			app.Handle(http.MethodGet, "v1", "/test", tt.handler)

			w := httptest.NewRecorder()
			app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/test", nil))

			require.Equal(t, tt.wantStatus, w.Code)

			var got errs.Response
			require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
			assert.Equal(t, tt.wantError, got.Error)
			assert.Equal(t, tt.wantFields, got.Fields)
			assert.NotEmpty(t, got.TraceID)

			assert.Equal(t, 1, rec.errors)
		})
	}
}

func TestCors(t *testing.T) {
	app := web.NewApp(make(chan os.Signal, 1), mid.Cors("*"))
	app.Handle(http.MethodGet, "", "/ping", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.Respond(ctx, w, "pong", http.StatusOK)
	})

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
