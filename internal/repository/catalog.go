package repository

import (
	"context"
	"errors"
	"time"

	"github.com/girojeri/backend/internal/models"
	"github.com/girojeri/backend/internal/repository/postgres"
	"github.com/jackc/pgx/v5"
)

const (
	selectServiceByIDQuery = `
						SELECT id, name, type, base_price FROM services
						WHERE id = $1
`
	selectVehicleByIDQuery = `
						SELECT id, name, capacity, price FROM vehicles
						WHERE id = $1
`
	selectVehiclesQuery = `
						SELECT id, name, capacity, price FROM vehicles
						ORDER BY name
`
	selectHolidayByDateQuery = `
						SELECT id, date, name, active FROM holidays
						WHERE active AND date = $1
						LIMIT 1
`
	selectHolidaysQuery = `
						SELECT id, date, name, active FROM holidays
						ORDER BY date
`
	insertHolidayQuery = `
						INSERT INTO holidays (date, name, active)
						VALUES ($1, $2, $3)
						RETURNING id, date, name, active
`
	selectPricingRuleByNameQuery = `
						SELECT id, name, value FROM pricing_rules
						WHERE name = $1
`
	selectPricingRulesQuery = `
						SELECT id, name, value FROM pricing_rules
						ORDER BY name
`
	upsertPricingRuleQuery = `
						INSERT INTO pricing_rules (name, value)
						VALUES ($1, $2)
						ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value
						RETURNING id, name, value
`
)

// CatalogRepository gives access to services, vehicles, holidays and pricing rules
type CatalogRepository struct {
	db *postgres.DB
}

// NewCatalogRepository creates new CatalogRepository instance
func NewCatalogRepository(db *postgres.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// GetServiceByID returns service by id
func (cr *CatalogRepository) GetServiceByID(ctx context.Context, id string) (*models.Service, error) {
	service := models.Service{}
	err := cr.db.QueryRow(ctx, selectServiceByIDQuery, id).
		Scan(&service.ID, &service.Name, &service.Type, &service.BasePrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &service, nil
}

// GetVehicleByID returns vehicle by id
func (cr *CatalogRepository) GetVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	vehicle := models.Vehicle{}
	err := cr.db.QueryRow(ctx, selectVehicleByIDQuery, id).
		Scan(&vehicle.ID, &vehicle.Name, &vehicle.Capacity, &vehicle.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &vehicle, nil
}

// GetVehicles returns all vehicles
func (cr *CatalogRepository) GetVehicles(ctx context.Context) ([]models.Vehicle, error) {
	rows, err := cr.db.Query(ctx, selectVehiclesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := []models.Vehicle{}

	for rows.Next() {
		vehicle := models.Vehicle{}
		err = rows.Scan(&vehicle.ID, &vehicle.Name, &vehicle.Capacity, &vehicle.Price)
		if err != nil {
			continue
		}
		vehicles = append(vehicles, vehicle)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return vehicles, nil
}

// GetHolidayByDate returns an active holiday on the given date
func (cr *CatalogRepository) GetHolidayByDate(ctx context.Context, date time.Time) (*models.Holiday, error) {
	holiday := models.Holiday{}
	err := cr.db.QueryRow(ctx, selectHolidayByDateQuery, date).
		Scan(&holiday.ID, &holiday.Date, &holiday.Name, &holiday.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &holiday, nil
}

// GetHolidays returns all holidays
func (cr *CatalogRepository) GetHolidays(ctx context.Context) ([]models.Holiday, error) {
	rows, err := cr.db.Query(ctx, selectHolidaysQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	holidays := []models.Holiday{}

	for rows.Next() {
		holiday := models.Holiday{}
		err = rows.Scan(&holiday.ID, &holiday.Date, &holiday.Name, &holiday.Active)
		if err != nil {
			continue
		}
		holidays = append(holidays, holiday)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return holidays, nil
}

// CreateHoliday inserts new holiday
func (cr *CatalogRepository) CreateHoliday(ctx context.Context, holiday *models.Holiday) (*models.Holiday, error) {
	err := cr.db.QueryRow(ctx, insertHolidayQuery, holiday.Date, holiday.Name, holiday.Active).
		Scan(&holiday.ID, &holiday.Date, &holiday.Name, &holiday.Active)
	if err != nil {
		return nil, err
	}

	return holiday, nil
}

// GetPricingRuleByName returns pricing rule by name
func (cr *CatalogRepository) GetPricingRuleByName(ctx context.Context, name string) (*models.PricingRule, error) {
	rule := models.PricingRule{}
	err := cr.db.QueryRow(ctx, selectPricingRuleByNameQuery, name).
		Scan(&rule.ID, &rule.Name, &rule.Value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &rule, nil
}

// GetPricingRules returns all pricing rules
func (cr *CatalogRepository) GetPricingRules(ctx context.Context) ([]models.PricingRule, error) {
	rows, err := cr.db.Query(ctx, selectPricingRulesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := []models.PricingRule{}

	for rows.Next() {
		rule := models.PricingRule{}
		err = rows.Scan(&rule.ID, &rule.Name, &rule.Value)
		if err != nil {
			continue
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rules, nil
}

// SavePricingRule inserts or updates pricing rule by name
func (cr *CatalogRepository) SavePricingRule(ctx context.Context, rule *models.PricingRule) (*models.PricingRule, error) {
	err := cr.db.QueryRow(ctx, upsertPricingRuleQuery, rule.Name, rule.Value).
		Scan(&rule.ID, &rule.Name, &rule.Value)
	if err != nil {
		return nil, err
	}

	return rule, nil
}
