// Package catalog cubre las entidades de apoyo del libro: categorías,
// ubicaciones y los umbrales de vencimiento configurables.
package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dalvarezq/frescura-api/internal/domain"
	"github.com/dalvarezq/frescura-api/internal/domain/entity"
	"github.com/dalvarezq/frescura-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repos del
// catálogo. Se usa para que el borrado de categoría/ubicación y el vaciado de
// referencias débiles en lotes sean atómicos.
type TxRunner interface {
	RunCatalog(ctx context.Context, fn func(
		batchRepo repository.BatchRepository,
		categoryRepo repository.CategoryRepository,
		locationRepo repository.LocationRepository,
	) error) error
}

// UseCase gestiona categorías, ubicaciones y umbrales del restaurante.
type UseCase struct {
	txRunner       TxRunner
	categoryRepo   repository.CategoryRepository
	locationRepo   repository.LocationRepository
	restaurantRepo repository.RestaurantRepository
	now            func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	categoryRepo repository.CategoryRepository,
	locationRepo repository.LocationRepository,
	restaurantRepo repository.RestaurantRepository,
) *UseCase {
	return &UseCase{
		txRunner:       txRunner,
		categoryRepo:   categoryRepo,
		locationRepo:   locationRepo,
		restaurantRepo: restaurantRepo,
		now:            time.Now,
	}
}

// CategoryInput entrada para crear/editar una categoría. Los umbrales en nil
// heredan el default del restaurante.
type CategoryInput struct {
	Name        string
	UrgentDays  *int
	WarningDays *int
}

func validThreshold(v *int) bool { return v == nil || *v >= 0 }

// CreateCategory crea una categoría del restaurante.
func (uc *UseCase) CreateCategory(ctx context.Context, restaurantID string, in CategoryInput) (*entity.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || !validThreshold(in.UrgentDays) || !validThreshold(in.WarningDays) {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	category := &entity.Category{
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		Name:         name,
		UrgentDays:   in.UrgentDays,
		WarningDays:  in.WarningDays,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory actualiza nombre y overrides de umbral de la categoría.
func (uc *UseCase) UpdateCategory(ctx context.Context, restaurantID, id string, in CategoryInput) (*entity.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || !validThreshold(in.UrgentDays) || !validThreshold(in.WarningDays) {
		return nil, domain.ErrInvalidInput
	}
	category, err := uc.categoryRepo.GetByID(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	category.Name = name
	category.UrgentDays = in.UrgentDays
	category.WarningDays = in.WarningDays
	category.UpdatedAt = uc.now()
	if err := uc.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories lista las categorías del restaurante.
func (uc *UseCase) ListCategories(ctx context.Context, restaurantID string) ([]*entity.Category, error) {
	return uc.categoryRepo.ListByRestaurant(ctx, restaurantID)
}

// DeleteCategory borra la categoría y vacía la referencia en los lotes que la
// usaban, en la misma transacción. Los lotes NUNCA se borran por esta vía
// (referencia débil).
func (uc *UseCase) DeleteCategory(ctx context.Context, restaurantID, id string) error {
	return uc.txRunner.RunCatalog(ctx, func(
		batchRepo repository.BatchRepository,
		categoryRepo repository.CategoryRepository,
		_ repository.LocationRepository,
	) error {
		category, err := categoryRepo.GetByID(ctx, restaurantID, id)
		if err != nil {
			return err
		}
		if category == nil {
			return domain.ErrNotFound
		}
		if err := batchRepo.ClearCategoryRef(ctx, restaurantID, id); err != nil {
			return err
		}
		return categoryRepo.Delete(ctx, restaurantID, id)
	})
}

// CreateLocation crea una ubicación física del restaurante.
func (uc *UseCase) CreateLocation(ctx context.Context, restaurantID, name string) (*entity.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	location := &entity.Location{
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.locationRepo.Create(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

// UpdateLocation renombra una ubicación.
func (uc *UseCase) UpdateLocation(ctx context.Context, restaurantID, id, name string) (*entity.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	location, err := uc.locationRepo.GetByID(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrNotFound
	}
	location.Name = name
	location.UpdatedAt = uc.now()
	if err := uc.locationRepo.Update(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

// ListLocations lista las ubicaciones del restaurante.
func (uc *UseCase) ListLocations(ctx context.Context, restaurantID string) ([]*entity.Location, error) {
	return uc.locationRepo.ListByRestaurant(ctx, restaurantID)
}

// DeleteLocation borra la ubicación y vacía la referencia en los lotes, igual
// que DeleteCategory.
func (uc *UseCase) DeleteLocation(ctx context.Context, restaurantID, id string) error {
	return uc.txRunner.RunCatalog(ctx, func(
		batchRepo repository.BatchRepository,
		_ repository.CategoryRepository,
		locationRepo repository.LocationRepository,
	) error {
		location, err := locationRepo.GetByID(ctx, restaurantID, id)
		if err != nil {
			return err
		}
		if location == nil {
			return domain.ErrNotFound
		}
		if err := batchRepo.ClearLocationRef(ctx, restaurantID, id); err != nil {
			return err
		}
		return locationRepo.Delete(ctx, restaurantID, id)
	})
}

// UpdateThresholds actualiza los umbrales por defecto del restaurante.
// Solo se rechazan valores negativos: warning < urgent es una configuración
// incoherente pero permitida (el motor de estado resuelve determinista).
func (uc *UseCase) UpdateThresholds(ctx context.Context, restaurantID string, urgentDays, warningDays int) error {
	if urgentDays < 0 || warningDays < 0 {
		return domain.ErrInvalidInput
	}
	return uc.restaurantRepo.UpdateThresholds(ctx, restaurantID, urgentDays, warningDays)
}
