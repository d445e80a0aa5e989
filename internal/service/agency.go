package service

import (
	"context"
	"errors"

	"github.com/girojeri/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// TokenService creates and verifies agency auth tokens
type TokenService interface {
	CreateToken(agency *models.Agency) (string, error)
	VerifyToken(tokenString string) (*models.TokenPayload, error)
}

// AgencyRepository is interface for interacting with agency accounts
type AgencyRepository interface {
	// CreateAgency inserts new agency account
	CreateAgency(ctx context.Context, agency *models.Agency) (*models.Agency, error)
	// GetAgencyByLogin returns agency by login
	GetAgencyByLogin(ctx context.Context, login string) (*models.Agency, error)
	// GetAgencyByID returns agency by id
	GetAgencyByID(ctx context.Context, id string) (*models.Agency, error)
}

// AgencyService implements agency registration and login
type AgencyService struct {
	repo  AgencyRepository
	token TokenService
}

// NewAgencyService creates new AgencyService instance
func NewAgencyService(repo AgencyRepository, token TokenService) *AgencyService {
	return &AgencyService{
		repo:  repo,
		token: token,
	}
}

// Register creates new agency account and returns its auth token
func (as *AgencyService) Register(ctx context.Context, login, password, name string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	agency := models.Agency{
		Login:        login,
		PasswordHash: string(hash),
		Name:         name,
	}

	created, err := as.repo.CreateAgency(ctx, &agency)
	if err != nil {
		return "", err
	}

	return as.token.CreateToken(created)
}

// Profile returns the account of an authenticated agency
func (as *AgencyService) Profile(ctx context.Context, agencyID string) (*models.Agency, error) {
	return as.repo.GetAgencyByID(ctx, agencyID)
}

// Login checks agency credentials and returns new auth token
func (as *AgencyService) Login(ctx context.Context, login, password string) (string, error) {
	agency, err := as.repo.GetAgencyByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return "", models.ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(agency.PasswordHash), []byte(password)); err != nil {
		return "", models.ErrInvalidCredentials
	}

	return as.token.CreateToken(agency)
}
