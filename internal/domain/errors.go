package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrInvalidDate  = errors.New("fecha inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrConflict     = errors.New("conflicto con el estado actual")
)

// BackfillError indica que la edición del lote se confirmó pero la reescritura
// del historial de eventos falló. El caller debe avisar al usuario que el
// historial puede quedar inconsistente; la edición principal NO se revierte.
type BackfillError struct {
	BatchID string
	Err     error
}

func (e *BackfillError) Error() string {
	return fmt.Sprintf("lote %s actualizado pero el backfill del historial falló: %v", e.BatchID, e.Err)
}

func (e *BackfillError) Unwrap() error { return e.Err }
