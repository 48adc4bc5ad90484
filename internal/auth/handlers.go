package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/anto-kazungu/fullstack-telemedicine-webapp/internal/utils"
)

const sessionCookieName = "session_id"

type Handler struct {
	service  *Service
	sessions *SessionStore
	log      zerolog.Logger
}

func NewHandler(service *Service, sessions *SessionStore, log zerolog.Logger) *Handler {
	return &Handler{service: service, sessions: sessions, log: log}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if creds.Username == "" || creds.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	err := h.service.Register(creds.Username, creds.Password)
	switch {
	case errors.Is(err, ErrDuplicateUsername):
		http.Error(w, "Username already taken", http.StatusConflict)
		return
	case errors.Is(err, ErrInvalidCredentials):
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	case err != nil:
		h.log.Error().Err(err).Msg("signup failed")
		http.Error(w, "Failed to register user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"username": creds.Username})
}

func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	username, err := h.service.Authenticate(creds.Username, creds.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		// One message for unknown user and wrong password.
		http.Error(w, "Incorrect username and/or password", http.StatusUnauthorized)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("login failed")
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	token, err := h.sessions.Start(username)
	if err != nil {
		h.log.Error().Err(err).Str("username", username).Msg("session start failed")
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, sessionCookie(token, int(h.sessions.ttl.Seconds())))
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Login successful")
}

func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err == nil {
		// Destroy is idempotent; an unknown token is not an error.
		if err := h.sessions.Destroy(cookie.Value); err != nil {
			h.log.Error().Err(err).Msg("logout failed")
			http.Error(w, "Server error", http.StatusInternalServerError)
			return
		}
	}

	http.SetCookie(w, sessionCookie("", -1))
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Logout successful")
}

func (h *Handler) UpdatePasswordHandler(w http.ResponseWriter, r *http.Request) {
	username, ok := utils.GetUsernameFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Current and new password are required", http.StatusBadRequest)
		return
	}

	err := h.service.ChangePassword(username, body.CurrentPassword, body.NewPassword)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		http.Error(w, "Invalid current password", http.StatusUnauthorized)
		return
	case err != nil:
		h.log.Error().Err(err).Msg("password update failed")
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Password updated")
}

func sessionCookie(token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   os.Getenv("ENV") == "production",
	}
}
