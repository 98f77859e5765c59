package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"campus-events/internal/admin"
	"campus-events/internal/logger"
	"campus-events/internal/models"
	"campus-events/internal/reports"
	"campus-events/internal/utils"
)

type StatsProvider interface {
	DashboardStats(ctx context.Context) (*reports.DashboardStats, error)
}

type Handler struct {
	Service    *admin.Service
	Stats      StatsProvider
	Logger     *logger.Logger
	CookieName string
	CookieTTL  time.Duration
}

func NewHandler(service *admin.Service, stats StatsProvider, log *logger.Logger, cookieName string, cookieTTL time.Duration) *Handler {
	return &Handler{
		Service:    service,
		Stats:      stats,
		Logger:     log,
		CookieName: cookieName,
		CookieTTL:  cookieTTL,
	}
}

// HandleAdmin dispatches on ?action=: login and logout mutate session
// state, check and stats are reads (stats requires authentication).
func (h *Handler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("action") {
	case "login":
		if r.Method != http.MethodPost {
			utils.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.login(w, r)
	case "logout":
		h.logout(w, r)
	case "check":
		h.check(w, r)
	case "stats":
		h.stats(w, r)
	default:
		utils.WriteError(w, http.StatusBadRequest, "Invalid action")
	}
}

type loginData struct {
	Username string `json:"username"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Username and password are required")
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		utils.WriteError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	token, username, err := h.Service.Login(r.Context(), strings.TrimSpace(req.Username), req.Password)
	if errors.Is(err, models.ErrInvalidCredentials) {
		utils.WriteError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("login: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "Server error occurred")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.CookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	utils.WriteMessage(w, http.StatusOK, "Login successful", loginData{Username: username})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Logout(r.Context(), h.token(r)); err != nil {
		h.Logger.Error("API", fmt.Sprintf("logout: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "Server error occurred")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	utils.WriteMessage(w, http.StatusOK, "Logged out successfully", nil)
}

type statusResponse struct {
	Success    bool    `json:"success"`
	IsLoggedIn bool    `json:"isLoggedIn"`
	Username   *string `json:"username"`
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	loggedIn, username := h.Service.Status(r.Context(), h.token(r))
	resp := statusResponse{Success: true, IsLoggedIn: loggedIn}
	if loggedIn {
		resp.Username = &username
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Service.Resolve(r.Context(), h.token(r)); err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized. Admin login required.")
		return
	}

	stats, err := h.Stats.DashboardStats(r.Context())
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("stats: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "Server error occurred")
		return
	}
	utils.WriteData(w, http.StatusOK, stats)
}

func (h *Handler) token(r *http.Request) string {
	cookie, err := r.Cookie(h.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
