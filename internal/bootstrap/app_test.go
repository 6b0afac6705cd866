package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeMemoryStore(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("REDIS_ADDR", "")

	app := NewApp()
	require.NoError(t, app.Initialize(context.Background()))
	t.Cleanup(func() { _ = app.Close(context.Background()) })

	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Not Found"}`, rec.Body.String())
}

func TestInitializeUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "cassandra")

	err := NewApp().Initialize(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown STORE_DRIVER "cassandra"`)
}

func TestInitializeBadAlgorithm(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_ALGORITHM", "RS256")

	app := NewApp()
	t.Cleanup(func() { _ = app.Close(context.Background()) })
	assert.Error(t, app.Initialize(context.Background()))
}
