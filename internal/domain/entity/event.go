package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de evento del libro de auditoría.
const (
	EventTypeEntry = "entry" // stock que entró
	EventTypeWaste = "waste" // stock declarado como merma
)

// Event es el registro de auditoría del libro de inventario. Es inmutable,
// con una sola excepción: el backfill de renombrado/reunitización reescribe
// ProductName y Unit para corregir el historial retroactivamente.
//
// La suma de cantidades entry por (producto, unidad) en un período es lo
// "pedido"; la suma waste es lo "desperdiciado". Nunca se netean en
// almacenamiento; eso ocurre solo al agregar.
type Event struct {
	ID           string
	RestaurantID string
	Type         string // entry | waste
	ProductName  string
	Quantity     decimal.Decimal // siempre > 0
	Unit         string
	BatchID      string // vacío = evento histórico sin lote asociado
	CreatedAt    time.Time
}
