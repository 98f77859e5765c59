package utils

import (
	"encoding/json"
	"net/http"
)

// ListResponse wraps collection endpoints: data plus a row count.
type ListResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Count   int         `json:"count"`
}

// DataResponse wraps single-entity reads.
type DataResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// MessageResponse wraps mutations, optionally echoing the affected entity.
type MessageResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the shape of every JSON error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}

func WriteList(w http.ResponseWriter, data interface{}, count int) {
	WriteJSON(w, http.StatusOK, ListResponse{Success: true, Data: data, Count: count})
}

func WriteData(w http.ResponseWriter, status int, data interface{}) {
	WriteJSON(w, status, DataResponse{Success: true, Data: data})
}

func WriteMessage(w http.ResponseWriter, status int, message string, data interface{}) {
	WriteJSON(w, status, MessageResponse{Success: true, Message: message, Data: data})
}
