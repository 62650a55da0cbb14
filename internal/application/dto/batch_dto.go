package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dalvarezq/frescura-api/internal/application/ledger"
	"github.com/dalvarezq/frescura-api/internal/domain/status"
)

// BatchRequest body para crear/editar un lote. Los nombres de campo form
// siguen el formulario de la UI. Quantity y PackagingSize se transportan como
// texto: la sanitización (no parseable o <= 0 fuerza 1) es del caso de uso.
type BatchRequest struct {
	Name          string `json:"name" form:"name"`
	Quantity      string `json:"quantity" form:"quantity"`
	Unit          string `json:"unit" form:"unit"`
	ExpiryDate    string `json:"expiry_date" form:"expiryDate"`
	CategoryID    string `json:"category_id" form:"categoryId"`
	LocationID    string `json:"location_id" form:"locationId"`
	PackagingType string `json:"packaging_type" form:"packagingType"`
	PackagingSize string `json:"packaging_size" form:"packagingSize"`
	PackagingUnit string `json:"packaging_unit" form:"packagingSizeUnit"`
}

// ToCreateInput convierte el request al input del caso de uso.
func (r BatchRequest) ToCreateInput() ledger.CreateBatchInput {
	return ledger.CreateBatchInput{
		Name:          r.Name,
		Quantity:      r.Quantity,
		Unit:          r.Unit,
		ExpiryDate:    r.ExpiryDate,
		CategoryID:    r.CategoryID,
		LocationID:    r.LocationID,
		PackagingType: r.PackagingType,
		PackagingSize: r.PackagingSize,
		PackagingUnit: r.PackagingUnit,
	}
}

// ToUpdateInput convierte el request al input de edición.
func (r BatchRequest) ToUpdateInput() ledger.UpdateBatchInput {
	return ledger.UpdateBatchInput{
		Name:          r.Name,
		Quantity:      r.Quantity,
		Unit:          r.Unit,
		ExpiryDate:    r.ExpiryDate,
		CategoryID:    r.CategoryID,
		LocationID:    r.LocationID,
		PackagingType: r.PackagingType,
		PackagingSize: r.PackagingSize,
		PackagingUnit: r.PackagingUnit,
	}
}

// AdjustQuantityRequest body para ajustar cantidad. Delta con signo, como
// texto para aceptar el formulario tal cual; sin cota inferior (se recorta en 0).
type AdjustQuantityRequest struct {
	Delta string `json:"delta" form:"delta"`
}

// BatchDTO lote con su clasificación de urgencia para la UI.
type BatchDTO struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Quantity      decimal.Decimal `json:"quantity"`
	Unit          string          `json:"unit"`
	ExpiryDate    string          `json:"expiry_date"`
	CategoryID    string          `json:"category_id,omitempty"`
	LocationID    string          `json:"location_id,omitempty"`
	Status        string          `json:"status"`  // active | used
	Urgency       string          `json:"urgency"` // expired | urgent | attention | ok
	DaysToExpiry  int             `json:"days_to_expiry"`
	DaysLabel     string          `json:"days_label"`
	PackagingType string          `json:"packaging_type,omitempty"`
	PackagingSize decimal.Decimal `json:"packaging_size,omitempty"`
	PackagingUnit string          `json:"packaging_unit,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// FromLabeledBatch mapea el resultado del caso de uso al DTO.
func FromLabeledBatch(lb ledger.LabeledBatch) BatchDTO {
	b := lb.Batch
	return BatchDTO{
		ID:            b.ID,
		Name:          b.Name,
		Quantity:      b.Quantity,
		Unit:          b.Unit,
		ExpiryDate:    b.ExpiryDate.Format(status.ExpiryLayout),
		CategoryID:    b.CategoryID,
		LocationID:    b.LocationID,
		Status:        b.Status,
		Urgency:       string(lb.Status),
		DaysToExpiry:  lb.DaysToExpiry,
		DaysLabel:     daysLabel(lb.DaysToExpiry),
		PackagingType: b.PackagingType,
		PackagingSize: b.PackagingSize,
		PackagingUnit: b.PackagingUnit,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// daysLabel texto legible del conteo de días para la UI.
func daysLabel(days int) string {
	switch {
	case days < -1:
		return fmt.Sprintf("vencido hace %d días", -days)
	case days == -1:
		return "vencido ayer"
	case days == 0:
		return "vence hoy"
	case days == 1:
		return "vence mañana"
	default:
		return fmt.Sprintf("vence en %d días", days)
	}
}
