package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dalvarezq/frescura-api/internal/domain"
	"github.com/dalvarezq/frescura-api/internal/domain/entity"
	"github.com/dalvarezq/frescura-api/internal/domain/repository"
	"github.com/dalvarezq/frescura-api/internal/domain/status"
)

// UseCase implementa las operaciones del libro de inventario: alta de lotes,
// ajustes de cantidad, declaración de merma, borrado técnico y edición con
// backfill del historial. Es el único componente que escribe Batch y Event.
type UseCase struct {
	txRunner       TxRunner
	batchRepo      repository.BatchRepository
	restaurantRepo repository.RestaurantRepository
	categoryRepo   repository.CategoryRepository
	now            func() time.Time
}

// NewUseCase construye el caso de uso. batchRepo/restaurantRepo/categoryRepo se
// usan en la ruta de lectura (fuera de transacción); las mutaciones pasan por
// txRunner.
func NewUseCase(
	txRunner TxRunner,
	batchRepo repository.BatchRepository,
	restaurantRepo repository.RestaurantRepository,
	categoryRepo repository.CategoryRepository,
) *UseCase {
	return &UseCase{
		txRunner:       txRunner,
		batchRepo:      batchRepo,
		restaurantRepo: restaurantRepo,
		categoryRepo:   categoryRepo,
		now:            time.Now,
	}
}

// WithClock reemplaza la fuente de tiempo (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// CreateBatchInput campos crudos del formulario de entrada de stock.
// Quantity y PackagingSize llegan como texto porque la sanitización legada es
// parte del contrato: cantidad no parseable o <= 0 se fuerza a 1.
type CreateBatchInput struct {
	Name          string
	Quantity      string
	Unit          string
	ExpiryDate    string // YYYY-MM-DD
	CategoryID    string
	LocationID    string
	PackagingType string
	PackagingSize string
	PackagingUnit string
}

// CreateBatch da de alta un lote y registra exactamente un evento en la misma
// transacción: entry si el vencimiento es hoy o futuro, waste si el lote ya
// llegó vencido (así la analítica mensual no cuenta como "usado con éxito"
// stock que estaba muerto al entrar).
func (uc *UseCase) CreateBatch(ctx context.Context, restaurantID string, in CreateBatchInput) (*entity.Batch, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	expiry, err := status.ParseExpiry(in.ExpiryDate)
	if err != nil {
		return nil, err
	}
	qty := sanitizeQuantity(in.Quantity)
	now := uc.now()

	batch := &entity.Batch{
		ID:            uuid.New().String(),
		RestaurantID:  restaurantID,
		Name:          name,
		Quantity:      qty,
		Unit:          strings.TrimSpace(in.Unit),
		ExpiryDate:    expiry,
		CategoryID:    in.CategoryID,
		LocationID:    in.LocationID,
		Status:        entity.BatchStatusActive,
		PackagingType: in.PackagingType,
		PackagingSize: sanitizeOptionalQuantity(in.PackagingSize),
		PackagingUnit: in.PackagingUnit,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	eventType := entity.EventTypeEntry
	if status.DaysUntil(expiry, now) < 0 {
		eventType = entity.EventTypeWaste
	}
	event := &entity.Event{
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		Type:         eventType,
		ProductName:  batch.Name,
		Quantity:     batch.Quantity,
		Unit:         batch.Unit,
		BatchID:      batch.ID,
		CreatedAt:    now,
	}

	err = uc.txRunner.Run(ctx, func(batchRepo repository.BatchRepository, eventRepo repository.EventRepository) error {
		if err := batchRepo.Create(ctx, batch); err != nil {
			return err
		}
		return eventRepo.Create(ctx, event)
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// AdjustQuantity aplica un delta con signo sobre la cantidad del lote,
// recortando en 0. Es una operación técnica neutra (consumo normal,
// correcciones): NO escribe ningún evento; la merma solo se registra por
// declaración explícita (MarkAsWaste).
// La lectura y la escritura ocurren en la misma transacción (fila bloqueada)
// para no perder decrementos concurrentes.
func (uc *UseCase) AdjustQuantity(ctx context.Context, restaurantID, batchID string, delta decimal.Decimal) (*entity.Batch, error) {
	var updated *entity.Batch
	err := uc.txRunner.Run(ctx, func(batchRepo repository.BatchRepository, _ repository.EventRepository) error {
		batch, err := batchRepo.GetForUpdate(ctx, restaurantID, batchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return domain.ErrNotFound
		}
		newQty := batch.Quantity.Add(delta)
		if newQty.IsNegative() {
			newQty = decimal.Zero
		}
		batch.Quantity = newQty
		if newQty.IsZero() {
			batch.Status = entity.BatchStatusUsed
		} else {
			// Subir la cantidad por encima de 0 reactiva un lote agotado.
			batch.Status = entity.BatchStatusActive
		}
		batch.UpdatedAt = uc.now()
		if err := batchRepo.Update(ctx, batch); err != nil {
			return err
		}
		updated = batch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// MarkAsWaste registra la cantidad restante del lote como merma y lo elimina.
// Es la única ruta que declara merma. Evento y borrado comparten transacción:
// o queda la merma registrada y el lote fuera, o nada ("lote desaparecido sin
// merma registrada" no es un estado alcanzable).
func (uc *UseCase) MarkAsWaste(ctx context.Context, restaurantID, batchID string) error {
	return uc.txRunner.Run(ctx, func(batchRepo repository.BatchRepository, eventRepo repository.EventRepository) error {
		batch, err := batchRepo.GetForUpdate(ctx, restaurantID, batchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return domain.ErrNotFound
		}
		if batch.Quantity.IsPositive() {
			event := &entity.Event{
				ID:           uuid.New().String(),
				RestaurantID: restaurantID,
				Type:         entity.EventTypeWaste,
				ProductName:  batch.Name,
				Quantity:     batch.Quantity,
				Unit:         batch.Unit,
				BatchID:      batch.ID,
				CreatedAt:    uc.now(),
			}
			if err := eventRepo.Create(ctx, event); err != nil {
				return err
			}
		}
		return batchRepo.Delete(ctx, restaurantID, batchID)
	})
}

// DeleteBatch elimina el lote sin escribir ningún evento. Borrado "técnico"
// (corrección de datos, limpieza): deliberadamente silencioso en el historial,
// a diferencia de MarkAsWaste. Decisión de producto, no un olvido.
func (uc *UseCase) DeleteBatch(ctx context.Context, restaurantID, batchID string) error {
	return uc.batchRepo.Delete(ctx, restaurantID, batchID)
}

// UpdateBatchInput campos crudos del formulario de edición de lote.
type UpdateBatchInput struct {
	Name          string
	Quantity      string
	Unit          string
	ExpiryDate    string
	CategoryID    string
	LocationID    string
	PackagingType string
	PackagingSize string
	PackagingUnit string
}

// UpdateBatch actualiza los campos mutables del lote y, si cambió el nombre o
// la unidad, reescribe el historial de eventos (backfill) para que la
// corrección aplique retroactivamente:
//
//  1. eventos ligados a este lote pasan al nuevo nombre/unidad;
//  2. el resto de eventos del restaurante cuyo nombre normalizado coincide con
//     el nombre VIEJO y cuya unidad es la VIEJA (histórico sin lote o de otros
//     lotes del mismo producto) también se reescriben.
//
// La edición principal se confirma en su propia transacción; el backfill corre
// en una segunda transacción acotada para no retener locks sobre un barrido
// cruzado. Si el backfill falla, la edición NO se revierte y se devuelve
// *domain.BackfillError junto con el lote ya actualizado.
func (uc *UseCase) UpdateBatch(ctx context.Context, restaurantID, batchID string, in UpdateBatchInput) (*entity.Batch, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	expiry, err := status.ParseExpiry(in.ExpiryDate)
	if err != nil {
		return nil, err
	}
	qty := sanitizeQuantity(in.Quantity)
	unit := strings.TrimSpace(in.Unit)

	var updated *entity.Batch
	var oldName, oldUnit string

	err = uc.txRunner.Run(ctx, func(batchRepo repository.BatchRepository, _ repository.EventRepository) error {
		batch, err := batchRepo.GetForUpdate(ctx, restaurantID, batchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return domain.ErrNotFound
		}
		oldName = batch.Name
		oldUnit = batch.Unit

		batch.Name = name
		batch.Quantity = qty
		batch.Unit = unit
		batch.ExpiryDate = expiry
		batch.CategoryID = in.CategoryID
		batch.LocationID = in.LocationID
		batch.PackagingType = in.PackagingType
		batch.PackagingSize = sanitizeOptionalQuantity(in.PackagingSize)
		batch.PackagingUnit = in.PackagingUnit
		if batch.Quantity.IsZero() {
			batch.Status = entity.BatchStatusUsed
		} else {
			batch.Status = entity.BatchStatusActive
		}
		batch.UpdatedAt = uc.now()
		if err := batchRepo.Update(ctx, batch); err != nil {
			return err
		}
		updated = batch
		return nil
	})
	if err != nil {
		return nil, err
	}

	if oldName == name && oldUnit == unit {
		return updated, nil
	}

	// Segunda transacción: barrido del historial. La edición de arriba ya está
	// confirmada; un fallo aquí se reporta como parcial, nunca la revierte.
	backfillErr := uc.txRunner.Run(ctx, func(_ repository.BatchRepository, eventRepo repository.EventRepository) error {
		if err := eventRepo.RelabelByBatch(ctx, restaurantID, batchID, name, unit); err != nil {
			return err
		}
		return eventRepo.RelabelByProduct(ctx, restaurantID, entity.FoldName(oldName), oldUnit, name, unit)
	})
	if backfillErr != nil {
		return updated, &domain.BackfillError{BatchID: batchID, Err: backfillErr}
	}
	return updated, nil
}

// LabeledBatch lote enriquecido con su clasificación de urgencia (ruta de lectura).
type LabeledBatch struct {
	Batch        *entity.Batch
	Status       status.Status
	DaysToExpiry int
}

// GetBatch devuelve un lote clasificado según los umbrales efectivos.
func (uc *UseCase) GetBatch(ctx context.Context, restaurantID, batchID string) (*LabeledBatch, error) {
	batch, err := uc.batchRepo.GetByID(ctx, restaurantID, batchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, domain.ErrNotFound
	}
	restaurant, categories, err := uc.loadThresholds(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	labeled := uc.label(batch, restaurant, categories)
	return &labeled, nil
}

// ListBatches lista lotes del restaurante clasificados por urgencia. La
// clasificación es solo de lectura: no toca cantidades ni eventos.
func (uc *UseCase) ListBatches(ctx context.Context, restaurantID string, f repository.BatchFilter) ([]LabeledBatch, error) {
	batches, err := uc.batchRepo.ListByRestaurant(ctx, restaurantID, f)
	if err != nil {
		return nil, err
	}
	restaurant, categories, err := uc.loadThresholds(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	out := make([]LabeledBatch, 0, len(batches))
	for _, b := range batches {
		out = append(out, uc.label(b, restaurant, categories))
	}
	return out, nil
}

func (uc *UseCase) loadThresholds(ctx context.Context, restaurantID string) (*entity.Restaurant, map[string]*entity.Category, error) {
	restaurant, err := uc.restaurantRepo.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, nil, err
	}
	if restaurant == nil {
		return nil, nil, domain.ErrNotFound
	}
	list, err := uc.categoryRepo.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, nil, err
	}
	categories := make(map[string]*entity.Category, len(list))
	for _, c := range list {
		categories[c.ID] = c
	}
	return restaurant, categories, nil
}

func (uc *UseCase) label(b *entity.Batch, r *entity.Restaurant, categories map[string]*entity.Category) LabeledBatch {
	urgentDays, warningDays := status.Resolve(r, categories[b.CategoryID])
	today := uc.now()
	return LabeledBatch{
		Batch:        b,
		Status:       status.Classify(b.ExpiryDate, today, urgentDays, warningDays),
		DaysToExpiry: status.DaysUntil(b.ExpiryDate, today),
	}
}

// sanitizeQuantity parsea la cantidad del formulario. No parseable o <= 0 se
// fuerza a 1 (sanitización legada del input; ver formulario original).
func sanitizeQuantity(raw string) decimal.Decimal {
	q, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !q.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return q
}

// sanitizeOptionalQuantity igual que sanitizeQuantity pero el vacío queda en 0
// (campo opcional de empaque, sin coerción a 1).
func sanitizeOptionalQuantity(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	q, err := decimal.NewFromString(raw)
	if err != nil || q.IsNegative() {
		return decimal.Zero
	}
	return q
}
