package ledger

import (
	"context"

	"github.com/dalvarezq/frescura-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para las mutaciones del
// libro de inventario (lote + evento se confirman o fallan juntos).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		batchRepo repository.BatchRepository,
		eventRepo repository.EventRepository,
	) error) error
}
