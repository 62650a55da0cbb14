package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/dalvarezq/frescura-api/internal/domain/entity"
	"github.com/dalvarezq/frescura-api/internal/domain/repository"
)

var _ repository.EventRepository = (*EventRepo)(nil)

// EventRepo implementación de EventRepository sobre PostgreSQL (usable con
// pool o tx). El libro de eventos es append-mostly: INSERT y los dos UPDATE
// de backfill; nunca DELETE.
type EventRepo struct {
	q Querier
}

// NewEventRepository construye el adaptador de eventos. Pasar pool o tx (Querier).
func NewEventRepository(q Querier) *EventRepo {
	return &EventRepo{q: q}
}

// Create persiste un evento del libro.
func (r *EventRepo) Create(ctx context.Context, e *entity.Event) error {
	query := `
		INSERT INTO events (id, restaurant_id, type, product_name, quantity, unit, batch_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.RestaurantID, e.Type, e.ProductName, e.Quantity, e.Unit,
		nullIfEmpty(e.BatchID), e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// ListByPeriod devuelve los eventos del restaurante con from <= created_at < to.
func (r *EventRepo) ListByPeriod(ctx context.Context, restaurantID string, from, to time.Time) ([]*entity.Event, error) {
	query := `
		SELECT id, restaurant_id, type, product_name, quantity, unit, COALESCE(batch_id, ''), created_at
		FROM events
		WHERE restaurant_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at ASC`
	rows, err := r.q.Query(ctx, query, restaurantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var list []*entity.Event
	for rows.Next() {
		var e entity.Event
		if err := rows.Scan(&e.ID, &e.RestaurantID, &e.Type, &e.ProductName, &e.Quantity, &e.Unit, &e.BatchID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// RelabelByBatch reescribe nombre/unidad de los eventos ligados al lote (backfill fase 1).
func (r *EventRepo) RelabelByBatch(ctx context.Context, restaurantID, batchID, newName, newUnit string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE events SET product_name = $3, unit = $4 WHERE restaurant_id = $1 AND batch_id = $2`,
		restaurantID, batchID, newName, newUnit,
	)
	if err != nil {
		return fmt.Errorf("relabel events by batch: %w", err)
	}
	return nil
}

// RelabelByProduct reescribe los eventos históricos que coinciden con el
// nombre viejo normalizado y la unidad vieja (backfill fase 2).
// lower(trim(...)) en SQL refleja entity.FoldName del lado Go.
func (r *EventRepo) RelabelByProduct(ctx context.Context, restaurantID, oldNameFolded, oldUnit, newName, newUnit string) error {
	_, err := r.q.Exec(ctx, `
		UPDATE events SET product_name = $4, unit = $5
		WHERE restaurant_id = $1 AND lower(trim(product_name)) = $2 AND unit = $3`,
		restaurantID, oldNameFolded, oldUnit, newName, newUnit,
	)
	if err != nil {
		return fmt.Errorf("relabel events by product: %w", err)
	}
	return nil
}
