package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/girojeri/backend/internal/middleware"
	"github.com/girojeri/backend/internal/models"
	"go.uber.org/zap"
)

type AgencyService interface {
	// Register creates new agency account and returns its auth token
	Register(ctx context.Context, login, password, name string) (string, error)
	// Login checks agency credentials and returns new auth token
	Login(ctx context.Context, login, password string) (string, error)
	// Profile returns the account of an authenticated agency
	Profile(ctx context.Context, agencyID string) (*models.Agency, error)
}

// AgencyHandler represents HTTP handler for agency account requests
type AgencyHandler struct {
	svc    AgencyService
	logger *zap.Logger
}

// NewAgencyHandler creates new AgencyHandler instance
func NewAgencyHandler(svc AgencyService, logger *zap.Logger) *AgencyHandler {
	return &AgencyHandler{
		svc:    svc,
		logger: logger,
	}
}

type registerAgencyRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginAgencyRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
}

// RegisterAgency creates new agency account
// 200 — agency registered, auth cookie set;
// 400 — missing login, password or name;
// 409 — login already taken;
// 500 — internal error.
func (ah *AgencyHandler) RegisterAgency() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerAgencyRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if req.Login == "" || req.Password == "" || req.Name == "" {
			http.Error(w, "missing required fields", http.StatusBadRequest)
			return
		}

		token, err := ah.svc.Register(r.Context(), req.Login, req.Password, req.Name)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrConflictData):
				http.Error(w, "login already taken", http.StatusConflict)
			default:
				ah.logger.Error("register agency", zap.Error(err))
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		setAuthCookie(w, token)
		w.WriteHeader(http.StatusOK)
	}
}

// LoginAgency authenticates agency
// 200 — authenticated, auth cookie set;
// 400 — missing login or password;
// 401 — invalid credentials;
// 500 — internal error.
func (ah *AgencyHandler) LoginAgency() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginAgencyRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if req.Login == "" || req.Password == "" {
			http.Error(w, "missing required fields", http.StatusBadRequest)
			return
		}

		token, err := ah.svc.Login(r.Context(), req.Login, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrInvalidCredentials):
				http.Error(w, "invalid login or password", http.StatusUnauthorized)
			default:
				ah.logger.Error("login agency", zap.Error(err))
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		setAuthCookie(w, token)
		w.WriteHeader(http.StatusOK)
	}
}

type agencyResponse struct {
	ID        string    `json:"id"`
	Login     string    `json:"login"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// GetCurrentAgency returns the account of the authenticated agency
// 200 — agency account;
// 401 — agency is not authenticated;
// 500 — internal error.
func (ah *AgencyHandler) GetCurrentAgency() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := middleware.PayloadFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		agency, err := ah.svc.Profile(r.Context(), payload.AgencyID)
		if err != nil {
			ah.logger.Error("get agency profile", zap.String("agency", payload.AgencyID), zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := agencyResponse{
			ID:        agency.ID,
			Login:     agency.Login,
			Name:      agency.Name,
			CreatedAt: agency.CreatedAt,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}
