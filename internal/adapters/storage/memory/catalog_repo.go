package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/SeanKennethDMS/PetPal-sub000/internal/domain/catalog"
)

type catalogRepo struct {
	mu       sync.RWMutex
	services map[string]catalog.GroomService
	products map[string]catalog.Product
}

func NewCatalogRepo() catalog.Repository {
	return &catalogRepo{
		services: make(map[string]catalog.GroomService),
		products: make(map[string]catalog.Product),
	}
}

func (r *catalogRepo) CreateService(ctx context.Context, s catalog.GroomService) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(s.ID) == "" {
		return errors.New("service id required")
	}
	if _, exists := r.services[s.ID]; exists {
		return errors.New("service already exists")
	}
	r.services[s.ID] = s
	return nil
}

func (r *catalogRepo) GetService(ctx context.Context, id string) (catalog.GroomService, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.services[id]
	if !ok {
		return catalog.GroomService{}, ErrNotFound
	}
	return s, nil
}

func (r *catalogRepo) ListServices(ctx context.Context) ([]catalog.GroomService, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.GroomService, 0, len(r.services))
	for _, s := range r.services {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *catalogRepo) CreateProduct(ctx context.Context, p catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("product id required")
	}
	if _, exists := r.products[p.ID]; exists {
		return errors.New("product already exists")
	}
	r.products[p.ID] = p
	return nil
}

func (r *catalogRepo) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return catalog.Product{}, ErrNotFound
	}
	return p, nil
}

func (r *catalogRepo) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *catalogRepo) ProductStock(ctx context.Context, id string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return 0, ErrNotFound
	}
	return p.Stock, nil
}

// DecrementStock chequea y descuenta bajo el mismo lock, equivalente al
// UPDATE condicionado de postgres.
func (r *catalogRepo) DecrementStock(ctx context.Context, id string, qty int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return 0, ErrNotFound
	}
	if p.Stock < qty {
		return 0, catalog.ErrInsufficientStock
	}
	p.Stock -= qty
	r.products[id] = p
	return p.Stock, nil
}
