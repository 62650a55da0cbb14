package entity

import "time"

// Location representa una ubicación física (nevera, despensa, congelador).
// Referencia débil desde Batch, igual que Category.
type Location struct {
	ID           string
	RestaurantID string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
