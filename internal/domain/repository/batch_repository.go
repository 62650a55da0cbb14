package repository

import (
	"context"
	"time"

	"github.com/dalvarezq/frescura-api/internal/domain/entity"
)

// BatchFilter filtros opcionales para listar lotes (vacío = sin filtro).
type BatchFilter struct {
	CategoryID string
	LocationID string
	Status     string
	Limit      int
	Offset     int
}

// BatchRepository define el puerto de persistencia para Batch (DIP).
// Todas las consultas están acotadas al restaurante: un ID de otro tenant se
// comporta como inexistente.
type BatchRepository interface {
	Create(ctx context.Context, batch *entity.Batch) error
	GetByID(ctx context.Context, restaurantID, id string) (*entity.Batch, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para leer-modificar-escribir
	// sin carreras entre ajustes concurrentes.
	GetForUpdate(ctx context.Context, restaurantID, id string) (*entity.Batch, error)
	Update(ctx context.Context, batch *entity.Batch) error
	Delete(ctx context.Context, restaurantID, id string) error
	ListByRestaurant(ctx context.Context, restaurantID string, f BatchFilter) ([]*entity.Batch, error)
	// CountExpired cuenta lotes activos con vencimiento anterior a today y
	// cantidad > 0. Solo lectura: el escaneo nunca muta el libro.
	CountExpired(ctx context.Context, restaurantID string, today time.Time) (int, error)
	// ClearCategoryRef/ClearLocationRef vacían la referencia débil en los lotes
	// que apuntan a la categoría/ubicación (se usan al borrarla).
	ClearCategoryRef(ctx context.Context, restaurantID, categoryID string) error
	ClearLocationRef(ctx context.Context, restaurantID, locationID string) error
}
