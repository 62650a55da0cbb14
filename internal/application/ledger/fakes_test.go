package ledger_test

import (
	"context"
	"errors"
	"time"

	"github.com/dalvarezq/frescura-api/internal/domain"
	"github.com/dalvarezq/frescura-api/internal/domain/entity"
	"github.com/dalvarezq/frescura-api/internal/domain/repository"
)

// Fakes en memoria de los puertos de persistencia. El txRunner no simula
// rollback: los casos de uso se prueban por su efecto observable sobre los
// repos, no por la mecánica transaccional (eso vive en infrastructure).

type memBatchRepo struct {
	batches map[string]*entity.Batch // por ID
}

func newMemBatchRepo() *memBatchRepo {
	return &memBatchRepo{batches: make(map[string]*entity.Batch)}
}

func (r *memBatchRepo) Create(_ context.Context, b *entity.Batch) error {
	if _, ok := r.batches[b.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *b
	r.batches[b.ID] = &cp
	return nil
}

func (r *memBatchRepo) GetByID(_ context.Context, restaurantID, id string) (*entity.Batch, error) {
	b, ok := r.batches[id]
	if !ok || b.RestaurantID != restaurantID {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *memBatchRepo) GetForUpdate(ctx context.Context, restaurantID, id string) (*entity.Batch, error) {
	return r.GetByID(ctx, restaurantID, id)
}

func (r *memBatchRepo) Update(_ context.Context, b *entity.Batch) error {
	old, ok := r.batches[b.ID]
	if !ok || old.RestaurantID != b.RestaurantID {
		return domain.ErrNotFound
	}
	cp := *b
	r.batches[b.ID] = &cp
	return nil
}

func (r *memBatchRepo) Delete(_ context.Context, restaurantID, id string) error {
	b, ok := r.batches[id]
	if !ok || b.RestaurantID != restaurantID {
		return domain.ErrNotFound
	}
	delete(r.batches, id)
	return nil
}

func (r *memBatchRepo) ListByRestaurant(_ context.Context, restaurantID string, f repository.BatchFilter) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, b := range r.batches {
		if b.RestaurantID != restaurantID {
			continue
		}
		if f.CategoryID != "" && b.CategoryID != f.CategoryID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memBatchRepo) CountExpired(_ context.Context, restaurantID string, today time.Time) (int, error) {
	count := 0
	for _, b := range r.batches {
		if b.RestaurantID == restaurantID && b.Status == entity.BatchStatusActive &&
			b.ExpiryDate.Before(today) && b.Quantity.IsPositive() {
			count++
		}
	}
	return count, nil
}

func (r *memBatchRepo) ClearCategoryRef(_ context.Context, restaurantID, categoryID string) error {
	for _, b := range r.batches {
		if b.RestaurantID == restaurantID && b.CategoryID == categoryID {
			b.CategoryID = ""
		}
	}
	return nil
}

func (r *memBatchRepo) ClearLocationRef(_ context.Context, restaurantID, locationID string) error {
	for _, b := range r.batches {
		if b.RestaurantID == restaurantID && b.LocationID == locationID {
			b.LocationID = ""
		}
	}
	return nil
}

type memEventRepo struct {
	events      []*entity.Event
	failRelabel bool // fuerza el fallo del backfill
}

func newMemEventRepo() *memEventRepo {
	return &memEventRepo{}
}

func (r *memEventRepo) Create(_ context.Context, e *entity.Event) error {
	cp := *e
	r.events = append(r.events, &cp)
	return nil
}

func (r *memEventRepo) ListByPeriod(_ context.Context, restaurantID string, from, to time.Time) ([]*entity.Event, error) {
	var out []*entity.Event
	for _, e := range r.events {
		if e.RestaurantID == restaurantID && !e.CreatedAt.Before(from) && e.CreatedAt.Before(to) {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memEventRepo) RelabelByBatch(_ context.Context, restaurantID, batchID, newName, newUnit string) error {
	if r.failRelabel {
		return errors.New("relabel roto")
	}
	for _, e := range r.events {
		if e.RestaurantID == restaurantID && e.BatchID == batchID {
			e.ProductName = newName
			e.Unit = newUnit
		}
	}
	return nil
}

func (r *memEventRepo) RelabelByProduct(_ context.Context, restaurantID, oldNameFolded, oldUnit, newName, newUnit string) error {
	if r.failRelabel {
		return errors.New("relabel roto")
	}
	for _, e := range r.events {
		if e.RestaurantID == restaurantID && entity.FoldName(e.ProductName) == oldNameFolded && e.Unit == oldUnit {
			e.ProductName = newName
			e.Unit = newUnit
		}
	}
	return nil
}

type memRestaurantRepo struct {
	restaurants map[string]*entity.Restaurant
}

func newMemRestaurantRepo(rs ...*entity.Restaurant) *memRestaurantRepo {
	m := make(map[string]*entity.Restaurant, len(rs))
	for _, r := range rs {
		m[r.ID] = r
	}
	return &memRestaurantRepo{restaurants: m}
}

func (r *memRestaurantRepo) GetByID(_ context.Context, id string) (*entity.Restaurant, error) {
	res, ok := r.restaurants[id]
	if !ok {
		return nil, nil
	}
	cp := *res
	return &cp, nil
}

func (r *memRestaurantRepo) UpdateThresholds(_ context.Context, id string, urgentDays, warningDays int) error {
	res, ok := r.restaurants[id]
	if !ok {
		return domain.ErrNotFound
	}
	res.UrgentDays = urgentDays
	res.WarningDays = warningDays
	return nil
}

type memCategoryRepo struct {
	categories map[string]*entity.Category
}

func newMemCategoryRepo(cs ...*entity.Category) *memCategoryRepo {
	m := make(map[string]*entity.Category, len(cs))
	for _, c := range cs {
		m[c.ID] = c
	}
	return &memCategoryRepo{categories: m}
}

func (r *memCategoryRepo) Create(_ context.Context, c *entity.Category) error {
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *memCategoryRepo) GetByID(_ context.Context, restaurantID, id string) (*entity.Category, error) {
	c, ok := r.categories[id]
	if !ok || c.RestaurantID != restaurantID {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memCategoryRepo) Update(_ context.Context, c *entity.Category) error {
	old, ok := r.categories[c.ID]
	if !ok || old.RestaurantID != c.RestaurantID {
		return domain.ErrNotFound
	}
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *memCategoryRepo) ListByRestaurant(_ context.Context, restaurantID string) ([]*entity.Category, error) {
	var out []*entity.Category
	for _, c := range r.categories {
		if c.RestaurantID == restaurantID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memCategoryRepo) Delete(_ context.Context, restaurantID, id string) error {
	c, ok := r.categories[id]
	if !ok || c.RestaurantID != restaurantID {
		return domain.ErrNotFound
	}
	delete(r.categories, id)
	return nil
}

// fakeTxRunner ejecuta fn directamente sobre los repos en memoria.
type fakeTxRunner struct {
	batches *memBatchRepo
	events  *memEventRepo
}

func (t *fakeTxRunner) Run(ctx context.Context, fn func(repository.BatchRepository, repository.EventRepository) error) error {
	return fn(t.batches, t.events)
}
