// Package scanner implementa el escaneo de lotes vencidos. El escaneo es
// informativo: encuentra y cuenta, pero JAMÁS muta el libro. La versión previa
// creaba eventos waste automáticamente al escanear; se eliminó a propósito y
// no debe volver: la merma solo se declara con una acción humana explícita.
package scanner

import (
	"context"
	"time"

	"github.com/dalvarezq/frescura-api/internal/domain/repository"
	"github.com/dalvarezq/frescura-api/pkg/logger"
)

// DefaultTTL ventana de memoización por tenant: dentro de ella el escaneo no
// vuelve a consultar la BD (los dashboards refrescan en cada carga de página).
const DefaultTTL = time.Minute

const cacheKeyPrefix = "expiry-scan:"

// ScanResult resultado del escaneo de vencidos de un restaurante.
type ScanResult struct {
	ExpiredCount int       `json:"expired_count"`
	ScannedAt    time.Time `json:"scanned_at"`
	Cached       bool      `json:"cached"` // true si vino de la memoización
}

// Cache puerto de memoización del escaneo. Get devuelve (nil, nil) en miss.
// Las implementaciones deben ser seguras bajo requests concurrentes
// (mapa con mutex en proceso, o Redis para varias instancias).
type Cache interface {
	Get(ctx context.Context, key string) (*ScanResult, error)
	Set(ctx context.Context, key string, value *ScanResult, ttl time.Duration) error
}

// Scanner ejecuta el escaneo con memoización por tenant.
type Scanner struct {
	batchRepo repository.BatchRepository
	cache     Cache
	ttl       time.Duration
	log       *logger.Logger
	now       func() time.Time
}

// New construye el scanner. ttl <= 0 usa DefaultTTL.
func New(batchRepo repository.BatchRepository, cache Cache, ttl time.Duration, log *logger.Logger) *Scanner {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Scanner{
		batchRepo: batchRepo,
		cache:     cache,
		ttl:       ttl,
		log:       log,
		now:       time.Now,
	}
}

// WithClock reemplaza la fuente de tiempo (tests).
func (s *Scanner) WithClock(now func() time.Time) *Scanner {
	s.now = now
	return s
}

// Scan cuenta los lotes activos con vencimiento pasado y cantidad > 0.
// Dentro de la ventana TTL devuelve el resultado memoizado sin tocar la BD.
// Un fallo del cache degrada a escaneo directo: el cache nunca tumba la
// operación.
func (s *Scanner) Scan(ctx context.Context, restaurantID string) (*ScanResult, error) {
	key := cacheKeyPrefix + restaurantID

	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("restaurant_id", restaurantID).Msg("cache de escaneo ilegible; escaneando directo")
	} else if cached != nil {
		hit := *cached
		hit.Cached = true
		return &hit, nil
	}

	today := s.now()
	count, err := s.batchRepo.CountExpired(ctx, restaurantID, today)
	if err != nil {
		return nil, err
	}
	result := &ScanResult{ExpiredCount: count, ScannedAt: today}

	if err := s.cache.Set(ctx, key, result, s.ttl); err != nil {
		s.log.Warn().Err(err).Str("restaurant_id", restaurantID).Msg("no se pudo memoizar el escaneo")
	}
	return result, nil
}
