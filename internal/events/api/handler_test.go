package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"campus-events/internal/events"
	"campus-events/internal/events/api"
	"campus-events/internal/events/db"
	"campus-events/internal/logger"
	"campus-events/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "github.com/uptrace/bun/driver/sqliteshim"
)

func setupHandler(t *testing.T) (*api.Handler, *db.DB) {
	sqldb, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { bunDB.Close() })

	ctx := context.Background()
	_, err = bunDB.NewCreateTable().Model((*models.Event)(nil)).Exec(ctx)
	require.NoError(t, err)
	_, err = bunDB.NewCreateTable().Model((*models.Student)(nil)).Exec(ctx)
	require.NoError(t, err)

	eventDB := &db.DB{Bun: bunDB}
	return api.NewHandler(events.NewService(eventDB), logger.Discard()), eventDB
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCreateAndListEvents(t *testing.T) {
	handler, _ := setupHandler(t)

	payload := `{"eventName":"Tech Fest","date":"2025-06-01","venue":"Hall A","description":"Annual fest","maxCapacity":150}`
	req := httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewBufferString(payload))
	rec := httptest.NewRecorder()
	handler.CreateEvent(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Event created successfully", body["message"])
	created := body["data"].(map[string]interface{})
	assert.Equal(t, "1", created["id"])
	assert.Equal(t, "Tech Fest", created["eventName"])

	req = httptest.NewRequest(http.MethodGet, "/api/events", nil)
	rec = httptest.NewRecorder()
	handler.GetEvents(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["count"])
	list := body["data"].([]interface{})
	require.Len(t, list, 1)
	event := list[0].(map[string]interface{})
	assert.Equal(t, "1", event["id"])
	assert.Equal(t, float64(150), event["maxCapacity"])
	assert.Equal(t, float64(0), event["registrationCount"])
}

func TestGetEvents_SingleByID(t *testing.T) {
	handler, eventDB := setupHandler(t)

	event := &models.Event{EventName: "Tech Fest", Date: "2025-06-01", Venue: "Hall A", MaxCapacity: 100}
	require.NoError(t, eventDB.CreateEvent(context.Background(), event))

	req := httptest.NewRequest(http.MethodGet, "/api/events?id=1", nil)
	rec := httptest.NewRecorder()
	handler.GetEvents(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Tech Fest", data["eventName"])
}

func TestGetEvents_NotFound(t *testing.T) {
	handler, _ := setupHandler(t)

	for _, target := range []string{"/api/events?id=42", "/api/events?id=abc"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		handler.GetEvents(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Event not found", body["error"])
	}
}

func TestCreateEvent_MissingFields(t *testing.T) {
	handler, _ := setupHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/events",
		bytes.NewBufferString(`{"eventName":"Tech Fest"}`))
	rec := httptest.NewRecorder()
	handler.CreateEvent(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Missing required fields: date, venue", body["error"])
}

func TestCreateEvent_InvalidBody(t *testing.T) {
	handler, _ := setupHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	handler.CreateEvent(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Invalid request body", body["error"])
}

func TestUpdateEvent(t *testing.T) {
	handler, eventDB := setupHandler(t)

	event := &models.Event{EventName: "Old", Date: "2025-06-01", Venue: "Hall A", MaxCapacity: 100}
	require.NoError(t, eventDB.CreateEvent(context.Background(), event))

	req := httptest.NewRequest(http.MethodPut, "/api/events?id=1",
		bytes.NewBufferString(`{"venue":"Hall B"}`))
	rec := httptest.NewRecorder()
	handler.UpdateEvent(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Event updated successfully", body["message"])

	got, err := eventDB.GetEvent(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hall B", got.Venue)
}

func TestUpdateEvent_RequiresID(t *testing.T) {
	handler, _ := setupHandler(t)

	req := httptest.NewRequest(http.MethodPut, "/api/events", bytes.NewBufferString(`{"venue":"B"}`))
	rec := httptest.NewRecorder()
	handler.UpdateEvent(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Event ID is required", body["error"])
}

func TestUpdateEvent_NoFields(t *testing.T) {
	handler, eventDB := setupHandler(t)

	event := &models.Event{EventName: "E", Date: "2025-06-01", Venue: "V", MaxCapacity: 100}
	require.NoError(t, eventDB.CreateEvent(context.Background(), event))

	req := httptest.NewRequest(http.MethodPut, "/api/events?id=1", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	handler.UpdateEvent(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "No fields to update", body["error"])
}

func TestDeleteEvent(t *testing.T) {
	handler, eventDB := setupHandler(t)

	event := &models.Event{EventName: "Doomed", Date: "2025-06-01", Venue: "V", MaxCapacity: 100}
	require.NoError(t, eventDB.CreateEvent(context.Background(), event))

	req := httptest.NewRequest(http.MethodDelete, "/api/events?id=1", nil)
	rec := httptest.NewRecorder()
	handler.DeleteEvent(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Event and all related registrations deleted successfully", body["message"])

	exists, err := eventDB.EventExists(context.Background(), event.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDeleteEvent_NotFound(t *testing.T) {
	handler, _ := setupHandler(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/events?id=42", nil)
	rec := httptest.NewRecorder()
	handler.DeleteEvent(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Event not found", body["error"])
}
