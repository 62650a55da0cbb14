package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dalvarezq/frescura-api/internal/domain"
	"github.com/dalvarezq/frescura-api/internal/domain/entity"
	"github.com/dalvarezq/frescura-api/internal/domain/repository"
)

var _ repository.RestaurantRepository = (*RestaurantRepo)(nil)

// RestaurantRepo implementación de RestaurantRepository sobre PostgreSQL.
type RestaurantRepo struct {
	q Querier
}

// NewRestaurantRepository construye el adaptador del tenant. Pasar pool o tx (Querier).
func NewRestaurantRepository(q Querier) *RestaurantRepo {
	return &RestaurantRepo{q: q}
}

// GetByID obtiene el restaurante. (nil, nil) si no existe.
func (r *RestaurantRepo) GetByID(ctx context.Context, id string) (*entity.Restaurant, error) {
	query := `
		SELECT id, name, urgent_days, warning_days, created_at, updated_at
		FROM restaurants WHERE id = $1`
	var rest entity.Restaurant
	err := r.q.QueryRow(ctx, query, id).Scan(
		&rest.ID, &rest.Name, &rest.UrgentDays, &rest.WarningDays, &rest.CreatedAt, &rest.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get restaurant: %w", err)
	}
	return &rest, nil
}

// UpdateThresholds actualiza los umbrales por defecto del restaurante.
func (r *RestaurantRepo) UpdateThresholds(ctx context.Context, id string, urgentDays, warningDays int) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE restaurants SET urgent_days = $2, warning_days = $3, updated_at = now() WHERE id = $1`,
		id, urgentDays, warningDays,
	)
	if err != nil {
		return fmt.Errorf("update restaurant thresholds: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
