package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un lote.
// active <-> used según la cantidad cruce el cero en ajustes; el lote solo
// desaparece por MarkAsWaste o DeleteBatch (nunca por el escaneo de vencidos).
const (
	BatchStatusActive = "active"
	BatchStatusUsed   = "used"
)

// Batch representa un lote recibido de un producto con una única fecha de
// vencimiento. CategoryID y LocationID son referencias débiles (vacío = sin
// asignar); borrar la categoría/ubicación no borra el lote.
type Batch struct {
	ID            string
	RestaurantID  string
	Name          string
	Quantity      decimal.Decimal // >= 0; el estado pasa a used al llegar a 0
	Unit          string          // kg, un, l, ...
	ExpiryDate    time.Time       // solo fecha; la hora se ignora
	CategoryID    string
	LocationID    string
	Status        string // active | used
	PackagingType string
	PackagingSize decimal.Decimal
	PackagingUnit string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
