package service

import (
	"context"
	"errors"
	"time"

	"github.com/girojeri/backend/internal/models"
)

// high season runs July through January; the FERIADO pricing rule (percent)
// applies to active holidays outside of it
const (
	highSeasonMultiplier = 1.10
	holidayRuleName      = "FERIADO"
	defaultHolidayExtra  = 10.0
)

// pricing adjustment type
const (
	AdjustmentNormal     = "NORMAL"
	AdjustmentHighSeason = "ALTA_TEMPORADA"
	AdjustmentHoliday    = "FERIADO"
)

// CatalogRepository is interface for interacting with pricing reference data
type CatalogRepository interface {
	// GetServiceByID returns service by id
	GetServiceByID(ctx context.Context, id string) (*models.Service, error)
	// GetVehicleByID returns vehicle by id
	GetVehicleByID(ctx context.Context, id string) (*models.Vehicle, error)
	// GetHolidayByDate returns an active holiday on the given date
	GetHolidayByDate(ctx context.Context, date time.Time) (*models.Holiday, error)
	// GetPricingRuleByName returns pricing rule by name
	GetPricingRuleByName(ctx context.Context, name string) (*models.PricingRule, error)
}

// QuoteInput is a pricing request for a scheduled service
type QuoteInput struct {
	ServiceID   string
	ScheduledAt time.Time
	PeopleCount int
	Vehicles    []models.OrderVehicle
}

// Quote is the priced result
type Quote struct {
	BaseTotal         float64
	PricingMultiplier float64
	AdjustmentType    string
	FinalTotal        float64
}

// PricingService computes price quotes for bookings
type PricingService struct {
	catalog CatalogRepository
}

// NewPricingService creates new PricingService instance
func NewPricingService(catalog CatalogRepository) *PricingService {
	return &PricingService{catalog: catalog}
}

// Quote prices a booking: private services sum their vehicle lines, shared
// services and transfers charge base price per person; high season or an
// active holiday raises the total
func (ps *PricingService) Quote(ctx context.Context, in QuoteInput) (*Quote, error) {
	service, err := ps.catalog.GetServiceByID(ctx, in.ServiceID)
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return nil, models.ErrServiceNotFound
		}
		return nil, err
	}

	var baseTotal float64

	if service.Type == models.ServiceTypePrivate {
		for _, v := range in.Vehicles {
			vehicle, err := ps.catalog.GetVehicleByID(ctx, v.VehicleID)
			if err != nil {
				if errors.Is(err, models.ErrDataNotFound) {
					continue
				}
				return nil, err
			}
			baseTotal += vehicle.Price * float64(v.Quantity)
		}
	} else {
		people := in.PeopleCount
		if people == 0 {
			people = 1
		}
		baseTotal = service.BasePrice * float64(people)
	}

	multiplier := 1.0
	adjustment := AdjustmentNormal

	month := in.ScheduledAt.Month()
	if month >= time.July || month == time.January {
		multiplier = highSeasonMultiplier
		adjustment = AdjustmentHighSeason
	} else {
		day := time.Date(in.ScheduledAt.Year(), in.ScheduledAt.Month(), in.ScheduledAt.Day(), 0, 0, 0, 0, time.UTC)
		_, err := ps.catalog.GetHolidayByDate(ctx, day)
		switch {
		case err == nil:
			extra := defaultHolidayExtra
			if rule, err := ps.catalog.GetPricingRuleByName(ctx, holidayRuleName); err == nil {
				extra = rule.Value
			}
			multiplier = 1 + extra/100
			adjustment = AdjustmentHoliday
		case errors.Is(err, models.ErrDataNotFound):
			// regular day
		default:
			return nil, err
		}
	}

	return &Quote{
		BaseTotal:         baseTotal,
		PricingMultiplier: multiplier,
		AdjustmentType:    adjustment,
		FinalTotal:        baseTotal * multiplier,
	}, nil
}
