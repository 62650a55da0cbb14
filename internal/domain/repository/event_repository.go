package repository

import (
	"context"
	"time"

	"github.com/dalvarezq/frescura-api/internal/domain/entity"
)

// EventRepository define el puerto de persistencia para el libro de eventos.
// Los eventos solo se crean y, excepcionalmente, se reetiquetan por backfill;
// nunca se borran ni se netean.
type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	// ListByPeriod devuelve los eventos del restaurante con from <= CreatedAt < to.
	ListByPeriod(ctx context.Context, restaurantID string, from, to time.Time) ([]*entity.Event, error)
	// RelabelByBatch reescribe nombre/unidad de los eventos ligados al lote.
	RelabelByBatch(ctx context.Context, restaurantID, batchID, newName, newUnit string) error
	// RelabelByProduct reescribe nombre/unidad de todos los eventos del
	// restaurante cuyo nombre normalizado (entity.FoldName) coincide con
	// oldNameFolded y cuya unidad es oldUnit. Corrige historial legado sin lote
	// o ligado a otros lotes del mismo producto.
	RelabelByProduct(ctx context.Context, restaurantID, oldNameFolded, oldUnit, newName, newUnit string) error
}
