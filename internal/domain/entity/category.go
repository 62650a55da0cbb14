package entity

import "time"

// Category representa una categoría de productos del restaurante.
// UrgentDays/WarningDays en nil heredan el umbral por defecto del restaurante.
// Es una referencia débil desde Batch: borrar la categoría no borra lotes,
// solo deja la referencia vacía.
type Category struct {
	ID           string
	RestaurantID string
	Name         string
	UrgentDays   *int
	WarningDays  *int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
