package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dalvarezq/frescura-api/internal/domain"
	"github.com/dalvarezq/frescura-api/internal/domain/entity"
	"github.com/dalvarezq/frescura-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = `id, restaurant_id, name, quantity, unit, expiry_date,
	COALESCE(category_id, ''), COALESCE(location_id, ''), status,
	packaging_type, packaging_size, packaging_unit, created_at, updated_at`

// BatchRepo implementación del puerto BatchRepository sobre PostgreSQL
// (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// Create persiste un lote nuevo.
func (r *BatchRepo) Create(ctx context.Context, b *entity.Batch) error {
	query := `
		INSERT INTO batches (id, restaurant_id, name, quantity, unit, expiry_date, category_id, location_id, status, packaging_type, packaging_size, packaging_unit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.RestaurantID, b.Name, b.Quantity, b.Unit, b.ExpiryDate,
		nullIfEmpty(b.CategoryID), nullIfEmpty(b.LocationID), b.Status,
		b.PackagingType, b.PackagingSize, b.PackagingUnit, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por restaurante + ID. (nil, nil) si no existe.
func (r *BatchRepo) GetByID(ctx context.Context, restaurantID, id string) (*entity.Batch, error) {
	return r.get(ctx, restaurantID, id, "")
}

// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE) para que
// dos ajustes concurrentes serialicen sin perder decrementos.
func (r *BatchRepo) GetForUpdate(ctx context.Context, restaurantID, id string) (*entity.Batch, error) {
	return r.get(ctx, restaurantID, id, " FOR UPDATE")
}

func (r *BatchRepo) get(ctx context.Context, restaurantID, id, suffix string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE restaurant_id = $1 AND id = $2` + suffix
	var b entity.Batch
	err := r.q.QueryRow(ctx, query, restaurantID, id).Scan(
		&b.ID, &b.RestaurantID, &b.Name, &b.Quantity, &b.Unit, &b.ExpiryDate,
		&b.CategoryID, &b.LocationID, &b.Status,
		&b.PackagingType, &b.PackagingSize, &b.PackagingUnit, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return &b, nil
}

// Update actualiza los campos mutables del lote.
func (r *BatchRepo) Update(ctx context.Context, b *entity.Batch) error {
	query := `
		UPDATE batches
		SET name = $3, quantity = $4, unit = $5, expiry_date = $6, category_id = $7,
			location_id = $8, status = $9, packaging_type = $10, packaging_size = $11,
			packaging_unit = $12, updated_at = $13
		WHERE restaurant_id = $1 AND id = $2`
	cmd, err := r.q.Exec(ctx, query,
		b.RestaurantID, b.ID, b.Name, b.Quantity, b.Unit, b.ExpiryDate,
		nullIfEmpty(b.CategoryID), nullIfEmpty(b.LocationID), b.Status,
		b.PackagingType, b.PackagingSize, b.PackagingUnit, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el lote. No escribe eventos: la distinción merma/borrado
// técnico vive en el caso de uso.
func (r *BatchRepo) Delete(ctx context.Context, restaurantID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM batches WHERE restaurant_id = $1 AND id = $2`, restaurantID, id)
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByRestaurant lista lotes con filtros opcionales, ordenados por
// vencimiento ascendente (lo más urgente primero).
func (r *BatchRepo) ListByRestaurant(ctx context.Context, restaurantID string, f repository.BatchFilter) ([]*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE restaurant_id = $1`
	args := []any{restaurantID}
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if f.LocationID != "" {
		args = append(args, f.LocationID)
		query += fmt.Sprintf(" AND location_id = $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY expiry_date ASC, created_at ASC"
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	var list []*entity.Batch
	for rows.Next() {
		var b entity.Batch
		if err := rows.Scan(
			&b.ID, &b.RestaurantID, &b.Name, &b.Quantity, &b.Unit, &b.ExpiryDate,
			&b.CategoryID, &b.LocationID, &b.Status,
			&b.PackagingType, &b.PackagingSize, &b.PackagingUnit, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// CountExpired cuenta lotes activos ya vencidos con cantidad > 0. Solo lectura.
func (r *BatchRepo) CountExpired(ctx context.Context, restaurantID string, today time.Time) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*) FROM batches
		WHERE restaurant_id = $1 AND status = $2 AND expiry_date < $3::date AND quantity > 0`,
		restaurantID, entity.BatchStatusActive, today,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count expired batches: %w", err)
	}
	return count, nil
}

// ClearCategoryRef vacía la referencia de categoría en los lotes (referencia débil).
func (r *BatchRepo) ClearCategoryRef(ctx context.Context, restaurantID, categoryID string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE batches SET category_id = NULL, updated_at = now() WHERE restaurant_id = $1 AND category_id = $2`,
		restaurantID, categoryID,
	)
	if err != nil {
		return fmt.Errorf("clear category ref: %w", err)
	}
	return nil
}

// ClearLocationRef vacía la referencia de ubicación en los lotes (referencia débil).
func (r *BatchRepo) ClearLocationRef(ctx context.Context, restaurantID, locationID string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE batches SET location_id = NULL, updated_at = now() WHERE restaurant_id = $1 AND location_id = $2`,
		restaurantID, locationID,
	)
	if err != nil {
		return fmt.Errorf("clear location ref: %w", err)
	}
	return nil
}
