package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"campus-events/internal/logger"
	"campus-events/internal/models"
	"campus-events/internal/reports"
	"campus-events/internal/utils"
)

type Handler struct {
	Service *reports.Service
	Logger  *logger.Logger
}

func NewHandler(service *reports.Service, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

// ExportCSV streams the registration export as a CSV attachment. The route
// is admin-gated by the router; an empty result is a 404, not an empty file.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	var eventID *int64
	var eventName string

	if eventParam := r.URL.Query().Get("event_id"); eventParam != "" {
		id, err := strconv.ParseInt(eventParam, 10, 64)
		if err == nil {
			eventID = &id
			name, err := h.Service.EventName(r.Context(), id)
			if err != nil {
				h.Logger.Error("API", fmt.Sprintf("ExportCSV: event name lookup: %v", err))
				utils.WriteError(w, http.StatusInternalServerError, "Server error occurred")
				return
			}
			eventName = name
		}
	}

	rows, err := h.Service.ExportRows(r.Context(), eventID)
	if errors.Is(err, models.ErrNoData) {
		utils.WriteError(w, http.StatusNotFound, "No data to export")
		return
	}
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ExportCSV: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "Server error occurred")
		return
	}

	filename := reports.ExportFilename(eventName, time.Now())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")

	if err := reports.WriteCSV(w, rows); err != nil {
		h.Logger.Error("API", fmt.Sprintf("ExportCSV: write: %v", err))
		return
	}
	h.Logger.Info("API", fmt.Sprintf("ExportCSV: exported %d registrations as %s", len(rows), filename))
}
