package service

import (
	"context"

	"github.com/girojeri/backend/internal/models"
)

// AdminCatalogRepository is interface for interacting with admin-managed reference data
type AdminCatalogRepository interface {
	// GetVehicles returns all vehicles
	GetVehicles(ctx context.Context) ([]models.Vehicle, error)
	// GetHolidays returns all holidays
	GetHolidays(ctx context.Context) ([]models.Holiday, error)
	// CreateHoliday inserts new holiday
	CreateHoliday(ctx context.Context, holiday *models.Holiday) (*models.Holiday, error)
	// GetPricingRules returns all pricing rules
	GetPricingRules(ctx context.Context) ([]models.PricingRule, error)
	// SavePricingRule inserts or updates pricing rule by name
	SavePricingRule(ctx context.Context, rule *models.PricingRule) (*models.PricingRule, error)
}

// CatalogService exposes the vehicle catalog and the admin pricing data
type CatalogService struct {
	repo AdminCatalogRepository
}

// NewCatalogService creates new CatalogService instance
func NewCatalogService(repo AdminCatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// ListVehicles returns all vehicles
func (cs *CatalogService) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	return cs.repo.GetVehicles(ctx)
}

// ListHolidays returns all holidays
func (cs *CatalogService) ListHolidays(ctx context.Context) ([]models.Holiday, error) {
	return cs.repo.GetHolidays(ctx)
}

// AddHoliday registers new holiday
func (cs *CatalogService) AddHoliday(ctx context.Context, holiday *models.Holiday) (*models.Holiday, error) {
	return cs.repo.CreateHoliday(ctx, holiday)
}

// ListPricingRules returns all pricing rules
func (cs *CatalogService) ListPricingRules(ctx context.Context) ([]models.PricingRule, error) {
	return cs.repo.GetPricingRules(ctx)
}

// SetPricingRule creates or updates pricing rule
func (cs *CatalogService) SetPricingRule(ctx context.Context, rule *models.PricingRule) (*models.PricingRule, error) {
	return cs.repo.SavePricingRule(ctx, rule)
}
