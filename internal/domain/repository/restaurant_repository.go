package repository

import (
	"context"

	"github.com/dalvarezq/frescura-api/internal/domain/entity"
)

// RestaurantRepository define el puerto de persistencia para el tenant.
type RestaurantRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Restaurant, error)
	// UpdateThresholds actualiza los umbrales por defecto del restaurante.
	UpdateThresholds(ctx context.Context, id string, urgentDays, warningDays int) error
}
