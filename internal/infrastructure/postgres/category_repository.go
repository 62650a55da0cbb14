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

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación de CategoryRepository sobre PostgreSQL
// (usable con pool o tx).
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de categorías. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste una categoría nueva.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	query := `
		INSERT INTO categories (id, restaurant_id, name, urgent_days, warning_days, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, c.ID, c.RestaurantID, c.Name, c.UrgentDays, c.WarningDays, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría por restaurante + ID. (nil, nil) si no existe.
func (r *CategoryRepo) GetByID(ctx context.Context, restaurantID, id string) (*entity.Category, error) {
	query := `
		SELECT id, restaurant_id, name, urgent_days, warning_days, created_at, updated_at
		FROM categories WHERE restaurant_id = $1 AND id = $2`
	var c entity.Category
	err := r.q.QueryRow(ctx, query, restaurantID, id).Scan(
		&c.ID, &c.RestaurantID, &c.Name, &c.UrgentDays, &c.WarningDays, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// Update actualiza nombre y overrides de umbral.
func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	query := `
		UPDATE categories SET name = $3, urgent_days = $4, warning_days = $5, updated_at = $6
		WHERE restaurant_id = $1 AND id = $2`
	cmd, err := r.q.Exec(ctx, query, c.RestaurantID, c.ID, c.Name, c.UrgentDays, c.WarningDays, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByRestaurant lista las categorías del restaurante.
func (r *CategoryRepo) ListByRestaurant(ctx context.Context, restaurantID string) ([]*entity.Category, error) {
	query := `
		SELECT id, restaurant_id, name, urgent_days, warning_days, created_at, updated_at
		FROM categories WHERE restaurant_id = $1 ORDER BY name ASC`
	rows, err := r.q.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var list []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.RestaurantID, &c.Name, &c.UrgentDays, &c.WarningDays, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Delete elimina la categoría. El vaciado de referencias en lotes lo hace el
// caso de uso dentro de la misma transacción.
func (r *CategoryRepo) Delete(ctx context.Context, restaurantID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM categories WHERE restaurant_id = $1 AND id = $2`, restaurantID, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
