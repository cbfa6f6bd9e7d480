package room

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	bookingapp "resort/application/booking"
	"resort/domain/calendar"
	"resort/domain/catalog"
	"resort/domain/shared"
	"resort/infrastructure/persistence/mocks"
	"resort/infrastructure/persistence/retry"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookedDates(t *testing.T) {
	gin.SetMode(gin.TestMode)

	stay := calendar.Normalize(
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		time.UTC,
	)
	store := mocks.NewStore()
	store.PutRoom(catalog.RoomReconstructionDTO{
		ID:             "room-villa",
		Name:           "Lake View Villa",
		PricePerNight:  *shared.NewMoney(1500000, "INR"),
		AvailableRooms: 1,
		BookedDates:    []calendar.Range{stay},
	})

	queries := bookingapp.NewQueryService(bookingapp.Dependencies{
		Orders:       mocks.NewOrderRepository(store),
		Catalog:      mocks.NewCatalogRepository(store),
		Reservations: mocks.NewReservationRepository(store),
		UoWFactory:   mocks.NewUnitOfWorkFactory(store, retry.DefaultConfig),
		Location:     time.UTC,
	})

	engine := gin.New()
	NewController(queries).RegisterRoutes(engine.Group("/api/v1"))

	t.Run("returns the ledger", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/rooms/room-villa/booked-dates", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Data catalog.LedgerSnapshot `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Lake View Villa", body.Data.Name)
		require.Len(t, body.Data.BookedDates, 1)
		assert.True(t, stay.Equal(body.Data.BookedDates[0]))
	})

	t.Run("unknown room", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/rooms/nope/booked-dates", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "ROOM_NOT_FOUND")
	})
}
