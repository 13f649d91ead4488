package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateServiceInput struct {
	Name     string
	Category string
	Prices   map[string]int
}

func (s *Service) CreateService(ctx context.Context, in CreateServiceInput) (GroomService, error) {
	if strings.TrimSpace(in.Name) == "" {
		return GroomService{}, ErrInvalidInput
	}
	if len(in.Prices) == 0 {
		return GroomService{}, ErrInvalidInput
	}

	prices := make(map[string]int, len(in.Prices))
	for opt, p := range in.Prices {
		opt = strings.TrimSpace(opt)
		if opt == "" || p < 0 {
			return GroomService{}, ErrInvalidInput
		}
		prices[opt] = p
	}

	now := s.now()
	gs := GroomService{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Category:  strings.TrimSpace(in.Category),
		Prices:    prices,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateService(ctx, gs); err != nil {
		return GroomService{}, err
	}
	return gs, nil
}

type CreateProductInput struct {
	Name       string
	Category   string
	PriceCents int
	Stock      int
}

func (s *Service) CreateProduct(ctx context.Context, in CreateProductInput) (Product, error) {
	if strings.TrimSpace(in.Name) == "" || in.PriceCents < 0 || in.Stock < 0 {
		return Product{}, ErrInvalidInput
	}

	now := s.now()
	p := Product{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(in.Name),
		Category:   strings.TrimSpace(in.Category),
		PriceCents: in.PriceCents,
		Stock:      in.Stock,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (s *Service) GetService(ctx context.Context, id string) (GroomService, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return GroomService{}, ErrInvalidInput
	}
	return s.repo.GetService(ctx, id)
}

func (s *Service) ListServices(ctx context.Context) ([]GroomService, error) {
	return s.repo.ListServices(ctx)
}

func (s *Service) GetProduct(ctx context.Context, id string) (Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Product{}, ErrInvalidInput
	}
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context) ([]Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *Service) ProductStock(ctx context.Context, id string) (int, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return 0, ErrInvalidInput
	}
	return s.repo.ProductStock(ctx, id)
}

func (s *Service) DecrementStock(ctx context.Context, id string, qty int) (int, error) {
	id = strings.TrimSpace(id)
	if id == "" || qty <= 0 {
		return 0, ErrInvalidInput
	}
	return s.repo.DecrementStock(ctx, id, qty)
}
