package scanner_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalvarezq/frescura-api/internal/application/scanner"
	"github.com/dalvarezq/frescura-api/internal/domain/repository"
	"github.com/dalvarezq/frescura-api/internal/infrastructure/cache"
	"github.com/dalvarezq/frescura-api/pkg/logger"
)

// countingBatchRepo implementa solo CountExpired; el resto del puerto no se usa
// en el escaneo (el embed en nil hace fallar ruidosamente cualquier otro método).
type countingBatchRepo struct {
	repository.BatchRepository
	count int
	calls int
}

func (r *countingBatchRepo) CountExpired(context.Context, string, time.Time) (int, error) {
	r.calls++
	return r.count, nil
}

// brokenCache falla siempre: el escaneo debe degradar a consulta directa.
type brokenCache struct{}

func (brokenCache) Get(context.Context, string) (*scanner.ScanResult, error) {
	return nil, errors.New("cache caído")
}
func (brokenCache) Set(context.Context, string, *scanner.ScanResult, time.Duration) error {
	return errors.New("cache caído")
}

func TestScan_MemoizaDentroDelTTL(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	repo := &countingBatchRepo{count: 3}
	sc := scanner.New(repo, cache.NewMemory().WithClock(clock), time.Minute, logger.Nop()).
		WithClock(clock)

	first, err := sc.Scan(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, 3, first.ExpiredCount)
	assert.False(t, first.Cached)

	second, err := sc.Scan(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, 3, second.ExpiredCount)
	assert.True(t, second.Cached, "la segunda llamada viene de la memoización")
	assert.Equal(t, first.ScannedAt, second.ScannedAt, "mismo resultado, mismo instante de escaneo")

	assert.Equal(t, 1, repo.calls, "dentro del TTL la BD se consulta una sola vez")
}

func TestScan_ExpiradoElTTL_VuelveAConsultar(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	repo := &countingBatchRepo{count: 3}
	sc := scanner.New(repo, cache.NewMemory().WithClock(clock), time.Minute, logger.Nop()).
		WithClock(clock)

	_, err := sc.Scan(context.Background(), "r1")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	repo.count = 5

	result, err := sc.Scan(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, 5, result.ExpiredCount, "pasado el TTL se ve el conteo fresco")
	assert.False(t, result.Cached)
	assert.Equal(t, 2, repo.calls)
}

func TestScan_MemoizacionPorTenant(t *testing.T) {
	repo := &countingBatchRepo{count: 1}
	sc := scanner.New(repo, cache.NewMemory(), time.Minute, logger.Nop())

	_, err := sc.Scan(context.Background(), "r1")
	require.NoError(t, err)
	_, err = sc.Scan(context.Background(), "r2")
	require.NoError(t, err)

	assert.Equal(t, 2, repo.calls, "cada restaurante memoiza por separado")
}

func TestScan_CacheRoto_DegradaAEscaneoDirecto(t *testing.T) {
	repo := &countingBatchRepo{count: 7}
	sc := scanner.New(repo, brokenCache{}, time.Minute, logger.Nop())

	result, err := sc.Scan(context.Background(), "r1")
	require.NoError(t, err, "el cache nunca tumba el escaneo")
	assert.Equal(t, 7, result.ExpiredCount)

	result, err = sc.Scan(context.Background(), "r1")
	require.NoError(t, err)
	assert.False(t, result.Cached)
	assert.Equal(t, 2, repo.calls, "sin cache, cada llamada consulta la BD")
}
