package handler

import (
	"encoding/json"
	"net/http"

	"go-account-service/internal/metrics"
	"go-account-service/internal/model"
	"go-account-service/internal/service"
	"go-account-service/internal/validation"
)

// AuthHandler exposes the public credential endpoints.
type AuthHandler struct {
	users     *service.UserService
	validator *validation.Validator
	collector *metrics.Collector
}

func NewAuthHandler(users *service.UserService, validator *validation.Validator, collector *metrics.Collector) *AuthHandler {
	return &AuthHandler{users: users, validator: validator, collector: collector}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, badJSON())
		return
	}

	if err := h.validator.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.users.Register(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	h.collector.RecordRegistration()
	writeSuccess(w, http.StatusCreated, result, nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, badJSON())
		return
	}

	if err := h.validator.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.users.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.collector.RecordLogin()
	writeSuccess(w, http.StatusOK, result, nil)
}
