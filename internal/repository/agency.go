package repository

import (
	"context"
	"errors"

	"github.com/girojeri/backend/internal/models"
	"github.com/girojeri/backend/internal/repository/postgres"
	"github.com/jackc/pgx/v5"
)

const (
	insertAgencyQuery = `
						INSERT INTO agencies (login, password_hash, name)
						VALUES ($1, $2, $3)
						RETURNING id, login, password_hash, name, created_at
`
	selectAgencyByLoginQuery = `
						SELECT id, login, password_hash, name, created_at FROM agencies
						WHERE login = $1
`
	selectAgencyByIDQuery = `
						SELECT id, login, password_hash, name, created_at FROM agencies
						WHERE id = $1
`
)

// AgencyRepository implements AgencyRepository interface
type AgencyRepository struct {
	db *postgres.DB
}

// NewAgencyRepository creates new AgencyRepository instance
func NewAgencyRepository(db *postgres.DB) *AgencyRepository {
	return &AgencyRepository{db: db}
}

// CreateAgency inserts new agency account
func (ar *AgencyRepository) CreateAgency(ctx context.Context, agency *models.Agency) (*models.Agency, error) {
	err := ar.db.QueryRow(ctx, insertAgencyQuery, agency.Login, agency.PasswordHash, agency.Name).
		Scan(&agency.ID, &agency.Login, &agency.PasswordHash, &agency.Name, &agency.CreatedAt)
	if err != nil {
		if errCode := ar.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return agency, nil
}

// GetAgencyByLogin returns agency by login
func (ar *AgencyRepository) GetAgencyByLogin(ctx context.Context, login string) (*models.Agency, error) {
	agency := models.Agency{}
	err := ar.db.QueryRow(ctx, selectAgencyByLoginQuery, login).
		Scan(&agency.ID, &agency.Login, &agency.PasswordHash, &agency.Name, &agency.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &agency, nil
}

// GetAgencyByID returns agency by id
func (ar *AgencyRepository) GetAgencyByID(ctx context.Context, id string) (*models.Agency, error) {
	agency := models.Agency{}
	err := ar.db.QueryRow(ctx, selectAgencyByIDQuery, id).
		Scan(&agency.ID, &agency.Login, &agency.PasswordHash, &agency.Name, &agency.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &agency, nil
}
