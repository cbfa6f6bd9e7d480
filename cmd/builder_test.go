package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"resort/api"
	"resort/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seededVilla = "room-two-bedroom-beachfront-villa"

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.App.Env = "test"
	cfg.Database.Type = "memory"
	cfg.Mongo.Enabled = false
	cfg.Redis.Enabled = false
	cfg.Server.Port = "0"
	cfg.Server.RateLimit.Enabled = false
	cfg.Booking.Timezone = "UTC"
	return cfg
}

func call(t *testing.T, h http.Handler, method, path string, body interface{}) (int, map[string]json.RawMessage) {
	t.Helper()
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "guest-1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var envelope map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), w.Body.String())
	return w.Code, envelope
}

func TestBuild_MemoryModeServesBookings(t *testing.T) {
	app, err := NewBuilder(memoryConfig(t)).Build(context.Background())
	require.NoError(t, err)
	h := app.Handler()

	code, _ := call(t, h, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, code)

	code, env := call(t, h, http.MethodPost, "/api/v1/bookings/add-to-cart", map[string]interface{}{
		"type":       "room",
		"ref_id":     seededVilla,
		"start_date": "2030-01-10",
		"end_date":   "2030-01-12",
	})
	require.Equal(t, http.StatusOK, code)
	var cartResp struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env["data"], &cartResp))
	require.NotEmpty(t, cartResp.ID)

	code, _ = call(t, h, http.MethodPut, "/api/v1/bookings/confirm/"+cartResp.ID, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = call(t, h, http.MethodGet, "/api/v1/rooms/"+seededVilla+"/booked-dates", nil)
	require.Equal(t, http.StatusOK, code)
	var ledger struct {
		BookedDates []json.RawMessage `json:"booked_dates"`
	}
	require.NoError(t, json.Unmarshal(env["data"], &ledger))
	assert.Len(t, ledger.BookedDates, 1)
}

type pingController struct{}

func (pingController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"pong": true}) })
}

func TestBuild_ExtraControllersAndRoutes(t *testing.T) {
	app, err := NewBuilder(memoryConfig(t)).
		WithController(pingController{}).
		WithRoute(http.MethodGet, "/version", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"version": "test"})
		}).
		Build(context.Background())
	require.NoError(t, err)

	code, _ := call(t, app.Handler(), http.MethodGet, "/api/v1/ping", nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = call(t, app.Handler(), http.MethodGet, "/version", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Server.ShutdownTimeout = time.Second
	app, err := NewBuilder(cfg).Build(context.Background())
	require.NoError(t, err)
	require.NotNil(t, app.worker, "memory mode relays its own outbox")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}

var _ api.ControllerRegister = pingController{}
