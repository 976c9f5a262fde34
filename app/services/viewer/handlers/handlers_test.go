package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/libertyswede/nxtnode/app/services/viewer/handlers"
)

func TestUIMux(t *testing.T) {
	app, err := handlers.UIMux("test-build", "http://node.local:7876", make(chan os.Signal, 1), zap.NewNop().Sugar())
	require.NoError(t, err)

	t.Run("index", func(t *testing.T) {
		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), `data-node="http://node.local:7876"`)
		assert.Contains(t, w.Body.String(), "test-build")
	})

	t.Run("assets", func(t *testing.T) {
		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/assets/viewer.js", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "/v1/events")
	})
}
