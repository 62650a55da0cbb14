// Package cache implementa el puerto scanner.Cache: un mapa protegido con
// mutex para una instancia, y Redis para despliegues con varias.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/dalvarezq/frescura-api/internal/application/scanner"
)

var _ scanner.Cache = (*Memory)(nil)

type memoryItem struct {
	value     scanner.ScanResult
	expiresAt time.Time
}

// Memory cache en proceso con TTL, seguro bajo requests concurrentes.
// La expiración se comprueba en la lectura; no hay goroutine de limpieza
// (el mapa tiene una clave por restaurante, no crece sin límite).
type Memory struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

// NewMemory construye el cache en memoria.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]memoryItem), now: time.Now}
}

// WithClock reemplaza la fuente de tiempo (tests).
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

// Get devuelve (nil, nil) si la clave no existe o ya expiró.
func (m *Memory) Get(_ context.Context, key string) (*scanner.ScanResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[key]
	if !ok {
		return nil, nil
	}
	if m.now().After(item.expiresAt) {
		delete(m.items, key)
		return nil, nil
	}
	value := item.value
	return &value, nil
}

// Set guarda una copia del valor con el TTL dado.
func (m *Memory) Set(_ context.Context, key string, value *scanner.ScanResult, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = memoryItem{value: *value, expiresAt: m.now().Add(ttl)}
	return nil
}
