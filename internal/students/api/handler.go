package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"campus-events/internal/logger"
	"campus-events/internal/models"
	"campus-events/internal/students"
	"campus-events/internal/utils"
)

type Handler struct {
	Service *students.Service
	Logger  *logger.Logger
}

func NewHandler(service *students.Service, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

// GetStudents serves the list (optionally filtered by ?event_id= or
// ?search=) and, when ?id= is present, a single registration.
func (h *Handler) GetStudents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if idParam := query.Get("id"); idParam != "" {
		id, err := strconv.ParseInt(idParam, 10, 64)
		if err != nil {
			utils.WriteError(w, http.StatusNotFound, "Student not found")
			return
		}
		student, err := h.Service.Get(r.Context(), id)
		if err != nil {
			h.writeServiceError(w, "GetStudents", err)
			return
		}
		utils.WriteData(w, http.StatusOK, student.ToResponse())
		return
	}

	var eventID *int64
	if eventParam := query.Get("event_id"); eventParam != "" {
		id, err := strconv.ParseInt(eventParam, 10, 64)
		if err == nil {
			eventID = &id
		}
	}

	list, err := h.Service.List(r.Context(), eventID, query.Get("search"))
	if err != nil {
		h.writeServiceError(w, "GetStudents", err)
		return
	}
	responses := make([]models.StudentResponse, 0, len(list))
	for i := range list {
		responses = append(responses, list[i].ToResponse())
	}
	utils.WriteList(w, responses, len(responses))
}

// RegisterStudent is the public admission endpoint.
func (h *Handler) RegisterStudent(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.Service.Register(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, "RegisterStudent", err)
		return
	}
	h.Logger.Info("API", fmt.Sprintf("RegisterStudent: admitted %s for event %d",
		result.Student.Email, result.Student.EventID))
	utils.WriteMessage(w, http.StatusCreated,
		"Registration successful! Welcome to "+result.EventName, result.ToResponse())
}

func (h *Handler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	idParam := r.URL.Query().Get("id")
	if idParam == "" {
		utils.WriteError(w, http.StatusBadRequest, "Student ID is required")
		return
	}
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusNotFound, "Student not found")
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, "DeleteStudent", err)
		return
	}
	h.Logger.Info("API", fmt.Sprintf("DeleteStudent: removed registration %d", id))
	utils.WriteMessage(w, http.StatusOK, "Registration deleted successfully", nil)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, op string, err error) {
	var missing *models.MissingFieldsError
	var field *models.FieldError
	switch {
	case errors.As(err, &missing), errors.As(err, &field):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrEventNotFound):
		utils.WriteError(w, http.StatusNotFound, "Event not found")
	case errors.Is(err, models.ErrStudentNotFound):
		utils.WriteError(w, http.StatusNotFound, "Student not found")
	case errors.Is(err, models.ErrCapacityFull):
		utils.WriteError(w, http.StatusBadRequest, "Event registration is full")
	case errors.Is(err, models.ErrDuplicateRegistration):
		utils.WriteError(w, http.StatusConflict,
			"You have already registered for this event with the same email or roll number")
	default:
		h.Logger.Error("API", fmt.Sprintf("%s: %v", op, err))
		utils.WriteError(w, http.StatusInternalServerError, "Server error occurred")
	}
}
