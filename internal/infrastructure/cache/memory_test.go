package cache_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalvarezq/frescura-api/internal/application/scanner"
	"github.com/dalvarezq/frescura-api/internal/infrastructure/cache"
)

func TestMemory_GetSetYExpiracion(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	m := cache.NewMemory().WithClock(func() time.Time { return now })

	got, err := m.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Nil(t, got, "miss limpio: (nil, nil)")

	value := &scanner.ScanResult{ExpiredCount: 4, ScannedAt: now}
	require.NoError(t, m.Set(context.Background(), "k", value, time.Minute))

	got, err = m.Get(context.Background(), "k")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 4, got.ExpiredCount)

	// El valor guardado es una copia: mutar el original no afecta al cache.
	value.ExpiredCount = 99
	got, err = m.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, 4, got.ExpiredCount)

	now = now.Add(2 * time.Minute)
	got, err = m.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Nil(t, got, "pasado el TTL la clave expira")
}

func TestMemory_AccesoConcurrente(t *testing.T) {
	m := cache.NewMemory()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = m.Set(context.Background(), "k", &scanner.ScanResult{ExpiredCount: 1}, time.Minute)
		}()
		go func() {
			defer wg.Done()
			_, _ = m.Get(context.Background(), "k")
		}()
	}
	wg.Wait()
}
