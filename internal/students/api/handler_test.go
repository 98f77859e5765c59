package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"campus-events/internal/logger"
	"campus-events/internal/models"
	"campus-events/internal/students"
	"campus-events/internal/students/api"
	"campus-events/internal/students/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "github.com/uptrace/bun/driver/sqliteshim"
)

func setupHandler(t *testing.T) (*api.Handler, *bun.DB) {
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

	studentDB := &db.DB{Bun: bunDB}
	return api.NewHandler(students.NewService(studentDB), logger.Discard()), bunDB
}

func seedEvent(t *testing.T, bunDB *bun.DB, name string, capacity int) *models.Event {
	t.Helper()
	event := &models.Event{EventName: name, Date: "2025-06-01", Venue: "Hall A", MaxCapacity: capacity}
	_, err := bunDB.NewInsert().Model(event).Exec(context.Background())
	require.NoError(t, err)
	return event
}

func registerPayload(eventID int64, email, roll string) string {
	return fmt.Sprintf(`{
		"fullName": "Alice Smith",
		"email": %q,
		"contactNumber": "1234567890",
		"collegeName": "Test College",
		"age": 20,
		"gender": "female",
		"universityRollNumber": %q,
		"batch": "2025",
		"eventId": "%d"
	}`, email, roll, eventID)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func postRegistration(handler *api.Handler, payload string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/students", bytes.NewBufferString(payload))
	rec := httptest.NewRecorder()
	handler.RegisterStudent(rec, req)
	return rec
}

func TestRegisterStudent_Success(t *testing.T) {
	handler, bunDB := setupHandler(t)
	event := seedEvent(t, bunDB, "Tech Fest", 10)

	rec := postRegistration(handler, registerPayload(event.ID, "alice@example.com", "R100"))

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Registration successful! Welcome to Tech Fest", body["message"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "1", data["id"])
	assert.Equal(t, "Alice Smith", data["fullName"])
	assert.Equal(t, "Tech Fest", data["eventName"])
}

func TestRegisterStudent_Duplicate(t *testing.T) {
	handler, bunDB := setupHandler(t)
	event := seedEvent(t, bunDB, "Tech Fest", 10)

	require.Equal(t, http.StatusCreated,
		postRegistration(handler, registerPayload(event.ID, "alice@example.com", "R100")).Code)

	rec := postRegistration(handler, registerPayload(event.ID, "alice@example.com", "R200"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t,
		"You have already registered for this event with the same email or roll number",
		body["error"])
}

func TestRegisterStudent_CapacityFull(t *testing.T) {
	handler, bunDB := setupHandler(t)
	event := seedEvent(t, bunDB, "Tiny Event", 1)

	require.Equal(t, http.StatusCreated,
		postRegistration(handler, registerPayload(event.ID, "first@example.com", "R1")).Code)

	rec := postRegistration(handler, registerPayload(event.ID, "second@example.com", "R2"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Event registration is full", body["error"])
}

func TestRegisterStudent_EventNotFound(t *testing.T) {
	handler, _ := setupHandler(t)

	rec := postRegistration(handler, registerPayload(999, "alice@example.com", "R100"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Event not found", body["error"])
}

func TestRegisterStudent_ValidationErrors(t *testing.T) {
	handler, bunDB := setupHandler(t)
	seedEvent(t, bunDB, "Tech Fest", 10)

	rec := postRegistration(handler, `{"fullName": "Alice Smith"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["error"], "Missing required fields:")

	rec = postRegistration(handler, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, "Invalid request body", body["error"])
}

func TestGetStudents(t *testing.T) {
	handler, bunDB := setupHandler(t)
	first := seedEvent(t, bunDB, "Tech Fest", 10)
	second := seedEvent(t, bunDB, "Cultural Fest", 10)

	require.Equal(t, http.StatusCreated,
		postRegistration(handler, registerPayload(first.ID, "alice@example.com", "R1")).Code)
	require.Equal(t, http.StatusCreated,
		postRegistration(handler, registerPayload(second.ID, "bob@example.com", "R2")).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/students", nil)
	rec := httptest.NewRecorder()
	handler.GetStudents(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(2), body["count"])

	req = httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/students?event_id=%d", first.ID), nil)
	rec = httptest.NewRecorder()
	handler.GetStudents(rec, req)

	body = decodeBody(t, rec)
	assert.Equal(t, float64(1), body["count"])
	list := body["data"].([]interface{})
	student := list[0].(map[string]interface{})
	assert.Equal(t, "alice@example.com", student["email"])
	assert.Equal(t, "Tech Fest", student["eventName"])

	req = httptest.NewRequest(http.MethodGet, "/api/students?search=bob", nil)
	rec = httptest.NewRecorder()
	handler.GetStudents(rec, req)

	body = decodeBody(t, rec)
	assert.Equal(t, float64(1), body["count"])
}

func TestGetStudents_SingleByID(t *testing.T) {
	handler, bunDB := setupHandler(t)
	event := seedEvent(t, bunDB, "Tech Fest", 10)

	require.Equal(t, http.StatusCreated,
		postRegistration(handler, registerPayload(event.ID, "alice@example.com", "R1")).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/students?id=1", nil)
	rec := httptest.NewRecorder()
	handler.GetStudents(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "alice@example.com", data["email"])

	req = httptest.NewRequest(http.MethodGet, "/api/students?id=42", nil)
	rec = httptest.NewRecorder()
	handler.GetStudents(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, "Student not found", body["error"])
}

func TestDeleteStudent(t *testing.T) {
	handler, bunDB := setupHandler(t)
	event := seedEvent(t, bunDB, "Tech Fest", 10)

	require.Equal(t, http.StatusCreated,
		postRegistration(handler, registerPayload(event.ID, "alice@example.com", "R1")).Code)

	req := httptest.NewRequest(http.MethodDelete, "/api/students?id=1", nil)
	rec := httptest.NewRecorder()
	handler.DeleteStudent(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Registration deleted successfully", body["message"])
}

func TestDeleteStudent_Errors(t *testing.T) {
	handler, _ := setupHandler(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/students", nil)
	rec := httptest.NewRecorder()
	handler.DeleteStudent(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Student ID is required", decodeBody(t, rec)["error"])

	req = httptest.NewRequest(http.MethodDelete, "/api/students?id=42", nil)
	rec = httptest.NewRecorder()
	handler.DeleteStudent(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Student not found", decodeBody(t, rec)["error"])
}
