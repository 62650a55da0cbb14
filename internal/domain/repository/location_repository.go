package repository

import (
	"context"

	"github.com/dalvarezq/frescura-api/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia para Location (DIP).
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, restaurantID, id string) (*entity.Location, error)
	Update(ctx context.Context, location *entity.Location) error
	ListByRestaurant(ctx context.Context, restaurantID string) ([]*entity.Location, error)
	Delete(ctx context.Context, restaurantID, id string) error
}
