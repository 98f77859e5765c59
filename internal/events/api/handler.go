package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"campus-events/internal/events"
	"campus-events/internal/logger"
	"campus-events/internal/models"
	"campus-events/internal/utils"
)

type Handler struct {
	Service *events.Service
	Logger  *logger.Logger
}

func NewHandler(service *events.Service, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

// GetEvents serves both the list and, when ?id= is present, a single event.
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	if idParam := r.URL.Query().Get("id"); idParam != "" {
		id, err := strconv.ParseInt(idParam, 10, 64)
		if err != nil {
			utils.WriteError(w, http.StatusNotFound, "Event not found")
			return
		}
		event, err := h.Service.Get(r.Context(), id)
		if err != nil {
			h.writeServiceError(w, "GetEvents", err)
			return
		}
		utils.WriteData(w, http.StatusOK, event.ToResponse())
		return
	}

	list, err := h.Service.List(r.Context())
	if err != nil {
		h.writeServiceError(w, "GetEvents", err)
		return
	}
	responses := make([]models.EventResponse, 0, len(list))
	for i := range list {
		responses = append(responses, list[i].ToResponse())
	}
	utils.WriteList(w, responses, len(responses))
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	event, err := h.Service.Create(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, "CreateEvent", err)
		return
	}
	h.Logger.Info("API", fmt.Sprintf("CreateEvent: created event %d (%s)", event.ID, event.EventName))
	utils.WriteMessage(w, http.StatusCreated, "Event created successfully", event.ToCreatedResponse())
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireID(w, r)
	if !ok {
		return
	}

	var req models.UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.Update(r.Context(), id, req); err != nil {
		h.writeServiceError(w, "UpdateEvent", err)
		return
	}
	h.Logger.Info("API", fmt.Sprintf("UpdateEvent: updated event %d", id))
	utils.WriteMessage(w, http.StatusOK, "Event updated successfully", nil)
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireID(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, "DeleteEvent", err)
		return
	}
	h.Logger.Info("API", fmt.Sprintf("DeleteEvent: deleted event %d and its registrations", id))
	utils.WriteMessage(w, http.StatusOK, "Event and all related registrations deleted successfully", nil)
}

func (h *Handler) requireID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idParam := r.URL.Query().Get("id")
	if idParam == "" {
		utils.WriteError(w, http.StatusBadRequest, "Event ID is required")
		return 0, false
	}
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusNotFound, "Event not found")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, op string, err error) {
	var missing *models.MissingFieldsError
	var field *models.FieldError
	switch {
	case errors.As(err, &missing), errors.As(err, &field):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrNoFields):
		utils.WriteError(w, http.StatusBadRequest, "No fields to update")
	case errors.Is(err, models.ErrEventNotFound):
		utils.WriteError(w, http.StatusNotFound, "Event not found")
	default:
		h.Logger.Error("API", fmt.Sprintf("%s: %v", op, err))
		utils.WriteError(w, http.StatusInternalServerError, "Server error occurred")
	}
}
