package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/SeanKennethDMS/PetPal-sub000/internal/domain/catalog"
)

type CatalogRepo struct {
	db *sql.DB
}

func NewCatalogRepo(db *sql.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

func (r *CatalogRepo) CreateService(ctx context.Context, s catalog.GroomService) error {
	prices, err := json.Marshal(s.Prices)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO services (
			id, name, category, prices, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6)
	`,
		s.ID,
		s.Name,
		s.Category,
		prices,
		s.CreatedAt,
		s.UpdatedAt,
	)
	return err
}

func (r *CatalogRepo) GetService(ctx context.Context, id string) (catalog.GroomService, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return catalog.GroomService{}, ErrNotFound
	}

	return scanService(r.db.QueryRowContext(ctx, `
		SELECT id, name, category, prices, created_at, updated_at
		FROM services
		WHERE id = $1
	`, id))
}

func (r *CatalogRepo) ListServices(ctx context.Context) ([]catalog.GroomService, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, category, prices, created_at, updated_at
		FROM services
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catalog.GroomService, 0)
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	return out, rows.Err()
}

func (r *CatalogRepo) CreateProduct(ctx context.Context, p catalog.Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (
			id, name, category, price_cents, stock, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		p.ID,
		p.Name,
		p.Category,
		p.PriceCents,
		p.Stock,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *CatalogRepo) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return catalog.Product{}, ErrNotFound
	}

	return scanProduct(r.db.QueryRowContext(ctx, `
		SELECT id, name, category, price_cents, stock, created_at, updated_at
		FROM products
		WHERE id = $1
	`, id))
}

func (r *CatalogRepo) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, category, price_cents, stock, created_at, updated_at
		FROM products
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catalog.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

func (r *CatalogRepo) ProductStock(ctx context.Context, id string) (int, error) {
	var stock int
	err := r.db.QueryRowContext(ctx, `
		SELECT stock FROM products WHERE id = $1
	`, id).Scan(&stock)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	return stock, err
}

// DecrementStock descuenta en un solo UPDATE condicionado; el WHERE con
// stock >= qty evita dejar stock negativo bajo concurrencia.
func (r *CatalogRepo) DecrementStock(ctx context.Context, id string, qty int) (int, error) {
	var remaining int
	err := r.db.QueryRowContext(ctx, `
		UPDATE products
		SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2
		RETURNING stock
	`, id, qty).Scan(&remaining)
	if err == sql.ErrNoRows {
		// o no existe o no alcanza; distinguimos con una lectura extra
		if _, serr := r.ProductStock(ctx, id); serr != nil {
			return 0, serr
		}
		return 0, catalog.ErrInsufficientStock
	}
	return remaining, err
}

func scanService(row rowScanner) (catalog.GroomService, error) {
	var s catalog.GroomService
	var prices []byte
	if err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Category,
		&prices,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return catalog.GroomService{}, ErrNotFound
		}
		return catalog.GroomService{}, err
	}
	if len(prices) > 0 {
		if err := json.Unmarshal(prices, &s.Prices); err != nil {
			return catalog.GroomService{}, err
		}
	}
	return s, nil
}

func scanProduct(row rowScanner) (catalog.Product, error) {
	var p catalog.Product
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Category,
		&p.PriceCents,
		&p.Stock,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return catalog.Product{}, ErrNotFound
		}
		return catalog.Product{}, err
	}
	return p, nil
}
