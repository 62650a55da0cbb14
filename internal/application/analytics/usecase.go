// Package analytics agrega el libro de eventos en reportes mensuales de merma
// y pedidos. Solo lectura: nunca escribe lotes ni eventos.
package analytics

import (
	"context"
	"time"

	"github.com/dalvarezq/frescura-api/internal/domain"
	"github.com/dalvarezq/frescura-api/internal/domain/repository"
)

// monthLayout formato de la clave de mes en la API.
const monthLayout = "2006-01"

// UseCase carga los eventos de un mes y delega en Aggregate.
type UseCase struct {
	eventRepo repository.EventRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(eventRepo repository.EventRepository) *UseCase {
	return &UseCase{eventRepo: eventRepo}
}

// GetMonthlyReport genera el reporte del mes dado (clave YYYY-MM).
func (uc *UseCase) GetMonthlyReport(ctx context.Context, restaurantID, month string) (*MonthlyReport, error) {
	start, err := time.Parse(monthLayout, month)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	end := start.AddDate(0, 1, 0)

	events, err := uc.eventRepo.ListByPeriod(ctx, restaurantID, start, end)
	if err != nil {
		return nil, err
	}
	return Aggregate(month, events), nil
}
