package dto

import (
	"time"

	"github.com/dalvarezq/frescura-api/internal/domain/entity"
)

// CategoryRequest body para crear/editar una categoría. Umbrales en nil
// heredan el default del restaurante.
type CategoryRequest struct {
	Name        string `json:"name" form:"name"`
	UrgentDays  *int   `json:"urgent_days"`
	WarningDays *int   `json:"warning_days"`
}

// CategoryDTO categoría en respuestas.
type CategoryDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	UrgentDays  *int      `json:"urgent_days,omitempty"`
	WarningDays *int      `json:"warning_days,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// FromCategory mapea la entidad al DTO.
func FromCategory(c *entity.Category) CategoryDTO {
	return CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		UrgentDays:  c.UrgentDays,
		WarningDays: c.WarningDays,
		CreatedAt:   c.CreatedAt,
	}
}

// LocationRequest body para crear/editar una ubicación.
type LocationRequest struct {
	Name string `json:"name" form:"name"`
}

// LocationDTO ubicación en respuestas.
type LocationDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// FromLocation mapea la entidad al DTO.
func FromLocation(l *entity.Location) LocationDTO {
	return LocationDTO{ID: l.ID, Name: l.Name, CreatedAt: l.CreatedAt}
}

// ThresholdsRequest body para actualizar los umbrales por defecto del
// restaurante.
type ThresholdsRequest struct {
	UrgentDays  int `json:"urgent_days" form:"urgentDays"`
	WarningDays int `json:"warning_days" form:"warningDays"`
}
