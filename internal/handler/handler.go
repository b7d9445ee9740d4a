package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/satuatap/credit-decision-service/internal/models"
	"github.com/satuatap/credit-decision-service/internal/repository"
	"github.com/satuatap/credit-decision-service/internal/scoring"
	"github.com/satuatap/credit-decision-service/internal/service"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]any{"success": false, "message": message})
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.svc.Register(req.Username, req.Email, req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "registration failed")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"success": true, "user": user})
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	token, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "token": token})
}

// CreditScore handles scoring requests: with a user_id the stored profile is
// fetched or created and overrides persisted; without one the request is
// scored statelessly.
func (h *Handler) CreditScore(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Content-Type harus application/json")
		return
	}

	userID := stringValue(payload["user_id"])
	overrides, fieldErrs := scoring.ParsePartial(payload)
	if len(fieldErrs) > 0 {
		respondJSON(w, http.StatusBadRequest, map[string]any{"success": false, "errors": fieldErrs})
		return
	}

	resp, err := h.svc.CreditScore(r.Context(), userID, overrides)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "scoring failed")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetCreditProfile returns the stored profile for a user
func (h *Handler) GetCreditProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]
	profile, err := h.svc.GetProfile(r.Context(), userID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		respondError(w, http.StatusNotFound, "user_id tidak ditemukan")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "user_id": userID, "profile": profile})
}

// UpsertCreditProfile creates or patches a stored profile
func (h *Handler) UpsertCreditProfile(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Content-Type harus application/json")
		return
	}

	userID := stringValue(payload["user_id"])
	if userID == "" {
		respondError(w, http.StatusBadRequest, "user_id wajib")
		return
	}

	overrides, fieldErrs := scoring.ParsePartial(payload)
	if len(fieldErrs) > 0 {
		respondJSON(w, http.StatusBadRequest, map[string]any{"success": false, "errors": fieldErrs})
		return
	}

	profile, created, err := h.svc.UpsertProfile(r.Context(), userID, overrides)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "upsert failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"created": created,
		"user_id": userID,
		"profile": profile,
	})
}

// Recommend runs the ensemble decision over the submitted documents
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Content-Type harus application/json")
		return
	}

	envelope, err := h.svc.Recommend(r.Context(), req)
	if errors.Is(err, service.ErrBadRequest) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "decision failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"decision":   envelope.Result.Decision,
		"confidence": envelope.Result.Confidence,
		"reasons":    envelope.Result.Reasons,
		"summary":    envelope.Result.Summary,
		"result":     envelope,
	})
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// stringValue normalizes a JSON value to its string form; numeric ids arrive
// as float64 from encoding/json.
func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
