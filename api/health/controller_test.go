package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"resort/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(probes map[string]Probe) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{App: config.AppConfig{Version: "1.2.3", Env: "production"}}
	engine := gin.New()
	NewController(cfg, probes).RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func get(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func healthy(context.Context) error { return nil }

func TestHealth_AllProbesHealthy(t *testing.T) {
	engine := newEngine(map[string]Probe{"database": healthy, "redis": healthy})

	w := get(engine, "/api/v1/health")

	require.Equal(t, http.StatusOK, w.Code)
	var body HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "1.2.3", body.Version)
	assert.Len(t, body.Checks, 2)
	assert.Nil(t, body.System, "system info is only exposed in development")
}

func TestHealth_FailingProbe(t *testing.T) {
	engine := newEngine(map[string]Probe{
		"database": healthy,
		"mongo":    func(context.Context) error { return errors.New("no primary") },
	})

	w := get(engine, "/api/v1/health")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body.Status)
	assert.Equal(t, "no primary", body.Checks["mongo"].Message)
	assert.Equal(t, "healthy", body.Checks["database"].Status)
}

func TestReadiness(t *testing.T) {
	t.Run("ready without probes", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, get(newEngine(nil), "/api/v1/health/ready").Code)
	})

	t.Run("not ready names the dependency", func(t *testing.T) {
		engine := newEngine(map[string]Probe{"redis": func(context.Context) error { return errors.New("refused") }})

		w := get(engine, "/api/v1/health/ready")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "redis not available")
	})
}

func TestLiveness(t *testing.T) {
	engine := newEngine(map[string]Probe{"redis": func(context.Context) error { return errors.New("refused") }})

	assert.Equal(t, http.StatusOK, get(engine, "/api/v1/health/live").Code)
}
