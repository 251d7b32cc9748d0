package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/planora/server/internal/domain/users"
)

// AuthHandler serves the signup and login endpoints.
type AuthHandler struct {
	service *users.Service
	logger  zerolog.Logger
}

func NewAuthHandler(service *users.Service, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("handler", "auth").Logger(),
	}
}

type signupRequest struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message  string `json:"message"`
	Token    string `json:"token"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// Signup handles POST /signup. Success returns no token; the caller logs
// in afterwards.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", err)
		return
	}

	err := h.service.Signup(r.Context(), users.SignupParams{
		FullName:        req.FullName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, users.ErrPasswordMismatch):
			writeError(w, r, http.StatusBadRequest, "passwords do not match", nil)
		case errors.Is(err, users.ErrValidation):
			writeError(w, r, http.StatusBadRequest, "missing fields", nil)
		case errors.Is(err, users.ErrUserExists):
			writeError(w, r, http.StatusConflict, "user already exists", nil)
		default:
			writeError(w, r, http.StatusInternalServerError, "internal server error", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Signup successful"})
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", err)
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrValidation):
			writeError(w, r, http.StatusBadRequest, "missing credentials", nil)
		case errors.Is(err, users.ErrUserNotFound):
			writeError(w, r, http.StatusNotFound, "user not found", nil)
		case errors.Is(err, users.ErrInvalidPassword):
			writeError(w, r, http.StatusUnauthorized, "invalid password", nil)
		default:
			writeError(w, r, http.StatusInternalServerError, "internal server error", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Message:  "Login successful",
		Token:    result.Token,
		Email:    result.Email,
		FullName: result.FullName,
	})
}
