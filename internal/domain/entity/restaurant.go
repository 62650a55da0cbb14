package entity

import "time"

// Restaurant representa el tenant: todas las operaciones del libro de inventario
// están acotadas a un restaurante.
// UrgentDays y WarningDays son los umbrales por defecto para clasificar lotes por
// cercanía al vencimiento; una categoría puede sobreescribirlos.
type Restaurant struct {
	ID          string
	Name        string
	UrgentDays  int // "usar urgente": días hasta vencer <= UrgentDays
	WarningDays int // "vigilar": días hasta vencer <= WarningDays
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
