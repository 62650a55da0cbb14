// Package status clasifica lotes por cercanía al vencimiento (servicio de
// dominio puro, sin dependencias de infraestructura).
package status

import (
	"time"

	"github.com/dalvarezq/frescura-api/internal/domain"
	"github.com/dalvarezq/frescura-api/internal/domain/entity"
)

// Status es el nivel de urgencia derivado de la fecha de vencimiento.
type Status string

const (
	StatusExpired   Status = "expired"   // ya venció
	StatusUrgent    Status = "urgent"    // usar urgente
	StatusAttention Status = "attention" // vigilar
	StatusOK        Status = "ok"
)

// ExpiryLayout formato de fecha aceptado en requests (solo fecha, sin hora).
const ExpiryLayout = "2006-01-02"

// DaysUntil devuelve la diferencia en días calendario entre today y expiry,
// ignorando la hora: dos instantes del mismo día calendario dan 0 sin importar
// la hora. Negativo si expiry ya pasó.
func DaysUntil(expiry, today time.Time) int {
	e := truncateToDay(expiry)
	t := truncateToDay(today)
	return int(e.Sub(t).Hours() / 24)
}

// Classify deriva el nivel de urgencia de un lote. El orden de los chequeos es
// fijo: expired, urgent, attention, ok. Si el caller configura
// warningDays < urgentDays el chequeo urgente corta primero igualmente; el
// resultado es determinista aunque la configuración sea incoherente.
func Classify(expiry, today time.Time, urgentDays, warningDays int) Status {
	days := DaysUntil(expiry, today)
	switch {
	case days < 0:
		return StatusExpired
	case days <= urgentDays:
		return StatusUrgent
	case days <= warningDays:
		return StatusAttention
	default:
		return StatusOK
	}
}

// ParseExpiry parsea una fecha de vencimiento en formato YYYY-MM-DD.
// Una fecha no parseable retorna domain.ErrInvalidDate: no se asume "lejos en
// el futuro" ni ningún otro default silencioso.
func ParseExpiry(s string) (time.Time, error) {
	t, err := time.Parse(ExpiryLayout, s)
	if err != nil {
		return time.Time{}, domain.ErrInvalidDate
	}
	return t, nil
}

// Resolve calcula los umbrales efectivos para un lote: el override de la
// categoría (si existe, campo a campo) y si no, el default del restaurante.
// category puede ser nil (lote sin categoría).
func Resolve(r *entity.Restaurant, category *entity.Category) (urgentDays, warningDays int) {
	urgentDays = r.UrgentDays
	warningDays = r.WarningDays
	if warningDays == 0 {
		// Restaurante sin umbral de vigilancia configurado: cae al urgente.
		warningDays = urgentDays
	}
	if category != nil {
		if category.UrgentDays != nil {
			urgentDays = *category.UrgentDays
		}
		if category.WarningDays != nil {
			warningDays = *category.WarningDays
		}
	}
	return urgentDays, warningDays
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
