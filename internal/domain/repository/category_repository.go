package repository

import (
	"context"

	"github.com/dalvarezq/frescura-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, restaurantID, id string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	ListByRestaurant(ctx context.Context, restaurantID string) ([]*entity.Category, error)
	Delete(ctx context.Context, restaurantID, id string) error
}
