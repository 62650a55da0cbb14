package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/dalvarezq/frescura-api/internal/application/dto"
	"github.com/dalvarezq/frescura-api/internal/application/ledger"
	"github.com/dalvarezq/frescura-api/internal/application/scanner"
	"github.com/dalvarezq/frescura-api/internal/domain"
	"github.com/dalvarezq/frescura-api/internal/domain/repository"
)

// BatchHandler maneja las peticiones HTTP del libro de lotes (protegido).
type BatchHandler struct {
	ledger  *ledger.UseCase
	scanner *scanner.Scanner
}

// NewBatchHandler construye el handler.
func NewBatchHandler(ledgerUC *ledger.UseCase, sc *scanner.Scanner) *BatchHandler {
	return &BatchHandler{ledger: ledgerUC, scanner: sc}
}

// Create godoc
// @Summary      Registrar entrada de stock (nuevo lote)
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BatchRequest  true  "name, quantity, unit, expiryDate, categoryId, locationId, packaging*"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/batches [post]
func (h *BatchHandler) Create(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	var in dto.BatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	batch, err := h.ledger.CreateBatch(c.Context(), restaurantID, in.ToCreateInput())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": batch.ID, "message": "lote registrado"})
}

// List godoc
// @Summary      Listar lotes clasificados por urgencia
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        category_id  query  string  false  "Filtrar por categoría"
// @Param        location_id  query  string  false  "Filtrar por ubicación"
// @Param        status       query  string  false  "active | used"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/batches [get]
func (h *BatchHandler) List(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	filter := repository.BatchFilter{
		CategoryID: c.Query("category_id"),
		LocationID: c.Query("location_id"),
		Status:     c.Query("status"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}
	list, err := h.ledger.ListBatches(c.Context(), restaurantID, filter)
	if err != nil {
		return respondError(c, err)
	}
	batches := make([]dto.BatchDTO, 0, len(list))
	for _, lb := range list {
		batches = append(batches, dto.FromLabeledBatch(lb))
	}
	return c.JSON(fiber.Map{"total": len(batches), "batches": batches})
}

// GetByID godoc
// @Summary      Obtener un lote clasificado
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del lote"
// @Success      200  {object}  dto.BatchDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/{id} [get]
func (h *BatchHandler) GetByID(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	labeled, err := h.ledger.GetBatch(c.Context(), restaurantID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromLabeledBatch(*labeled))
}

// Update godoc
// @Summary      Editar lote (con backfill de historial si cambia nombre/unidad)
// @Description  Si la reescritura del historial falla, la edición principal ya
// @Description  quedó confirmada: se responde 200 con un warning para que la UI
// @Description  avise que el historial puede quedar inconsistente.
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "ID del lote"
// @Param        body  body  dto.BatchRequest true  "campos mutables"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/batches/{id} [put]
func (h *BatchHandler) Update(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	var in dto.BatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	batch, err := h.ledger.UpdateBatch(c.Context(), restaurantID, c.Params("id"), in.ToUpdateInput())
	if err != nil {
		var bf *domain.BackfillError
		if errors.As(err, &bf) {
			return c.JSON(fiber.Map{
				"id":      batch.ID,
				"message": "lote actualizado",
				"warning": "el historial no pudo reescribirse por completo; puede quedar inconsistente",
			})
		}
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"id": batch.ID, "message": "lote actualizado"})
}

// Adjust godoc
// @Summary      Ajustar cantidad del lote (delta con signo)
// @Description  Operación técnica neutra: no escribe eventos. La cantidad se
// @Description  recorta en 0 y el estado alterna active/used al cruzar el cero.
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del lote"
// @Param        body  body  dto.AdjustQuantityRequest true  "delta"
// @Success      200   {object}  map[string]interface{}
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/adjust [post]
func (h *BatchHandler) Adjust(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	var in dto.AdjustQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	delta, err := decimal.NewFromString(strings.TrimSpace(in.Delta))
	if err != nil {
		return respondError(c, domain.ErrInvalidInput)
	}
	batch, err := h.ledger.AdjustQuantity(c.Context(), restaurantID, c.Params("id"), delta)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"id": batch.ID, "quantity": batch.Quantity, "status": batch.Status})
}

// Waste godoc
// @Summary      Declarar el lote como merma
// @Description  Registra la cantidad restante como evento waste y elimina el
// @Description  lote, atómicamente. Única ruta que declara merma.
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del lote"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/waste [post]
func (h *BatchHandler) Waste(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	if err := h.ledger.MarkAsWaste(c.Context(), restaurantID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "merma registrada"})
}

// Delete godoc
// @Summary      Borrado técnico del lote
// @Description  Elimina el lote SIN dejar rastro en el historial (corrección de
// @Description  datos). Para declarar merma usar /waste.
// @Tags         batches
// @Security     Bearer
// @Param        id  path  string  true  "ID del lote"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/{id} [delete]
func (h *BatchHandler) Delete(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	if err := h.ledger.DeleteBatch(c.Context(), restaurantID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Expired godoc
// @Summary      Escanear lotes vencidos (informativo, memoizado)
// @Description  Cuenta lotes activos ya vencidos. No muta el libro: la merma
// @Description  requiere la acción explícita /waste. Resultado memoizado ~1 min.
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  scanner.ScanResult
// @Router       /api/batches/expired [get]
func (h *BatchHandler) Expired(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	result, err := h.scanner.Scan(c.Context(), restaurantID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}
