package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lucroml/backend-go/internal/domain"
	"github.com/lucroml/backend-go/internal/repository"
	"github.com/lucroml/backend-go/internal/storage"
)

// In-memory repository fakes shared by the service tests.

type fakeProductRepo struct {
	mu       sync.Mutex
	nextID   int64
	products map[int64]domain.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[int64]domain.Product{}}
}

func (r *fakeProductRepo) Create(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	r.products[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return repository.ErrNotFound
	}
	r.products[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *fakeProductRepo) GetByMLItemID(_ context.Context, mlItemID string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.MLItemID == mlItemID && mlItemID != "" {
			found := p
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeProductRepo) List(_ context.Context) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeSaleRepo struct {
	mu     sync.Mutex
	nextID int64
	sales  map[int64]domain.Sale
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: map[int64]domain.Sale{}}
}

func (r *fakeSaleRepo) Create(_ context.Context, s *domain.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	s.ID = r.nextID
	r.sales[s.ID] = *s
	return nil
}

func (r *fakeSaleRepo) Replace(_ context.Context, s *domain.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sales[s.ID]; !ok {
		return repository.ErrNotFound
	}
	r.sales[s.ID] = *s
	return nil
}

func (r *fakeSaleRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sales[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.sales, id)
	return nil
}

func (r *fakeSaleRepo) GetByID(_ context.Context, id int64) (*domain.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *fakeSaleRepo) List(_ context.Context) ([]domain.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeSaleRepo) ListBetween(ctx context.Context, from, to time.Time) ([]domain.Sale, error) {
	all, _ := r.List(ctx)
	out := make([]domain.Sale, 0, len(all))
	for _, s := range all {
		if !s.Date.Before(from) && !s.Date.After(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSaleRepo) ExistsByMLOrderID(_ context.Context, mlOrderID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sales {
		if s.MLOrderID == mlOrderID && mlOrderID != "" {
			return true, nil
		}
	}
	return false, nil
}

type fakeCampaignRepo struct {
	mu        sync.Mutex
	nextID    int64
	campaigns map[int64]domain.Campaign
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{campaigns: map[int64]domain.Campaign{}}
}

func (r *fakeCampaignRepo) Create(_ context.Context, c *domain.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c.ID = r.nextID
	r.campaigns[c.ID] = *c
	return nil
}

func (r *fakeCampaignRepo) Update(_ context.Context, c *domain.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.campaigns[c.ID]; !ok {
		return repository.ErrNotFound
	}
	r.campaigns[c.ID] = *c
	return nil
}

func (r *fakeCampaignRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.campaigns[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.campaigns, id)
	return nil
}

func (r *fakeCampaignRepo) GetByID(_ context.Context, id int64) (*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *fakeCampaignRepo) List(_ context.Context) ([]domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Campaign, 0, len(r.campaigns))
	for _, c := range r.campaigns {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings *domain.Settings
}

func (r *fakeSettingsRepo) Get(_ context.Context) (*domain.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settings == nil {
		return nil, repository.ErrNotFound
	}
	copied := *r.settings
	return &copied, nil
}

func (r *fakeSettingsRepo) Save(_ context.Context, s *domain.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *s
	r.settings = &copied
	return nil
}

// fakeStorage records uploads in memory.
type fakeStorage struct {
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) UploadObject(_ context.Context, key, _ string, data []byte) error {
	s.objects[key] = data
	return nil
}

func (s *fakeStorage) ListObjects(_ context.Context, prefix string) ([]storage.ObjectInfo, error) {
	var keys []string
	for k := range s.objects {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	infos := make([]storage.ObjectInfo, 0, len(keys))
	for _, k := range keys {
		infos = append(infos, storage.ObjectInfo{Key: k, Size: int64(len(s.objects[k]))})
	}
	return infos, nil
}
