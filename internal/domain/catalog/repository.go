package catalog

import "context"

type Repository interface {
	CreateService(ctx context.Context, s GroomService) error
	GetService(ctx context.Context, id string) (GroomService, error)
	ListServices(ctx context.Context) ([]GroomService, error)

	CreateProduct(ctx context.Context, p Product) error
	GetProduct(ctx context.Context, id string) (Product, error)
	ListProducts(ctx context.Context) ([]Product, error)

	// ProductStock relee el stock actual (el checkout lo consulta justo antes
	// de confirmar).
	ProductStock(ctx context.Context, id string) (int, error)

	// DecrementStock descuenta qty de forma atómica
	// (UPDATE ... SET stock = stock - $2 WHERE id = $1 AND stock >= $2)
	// y devuelve el stock restante. ErrInsufficientStock si no alcanza.
	DecrementStock(ctx context.Context, id string, qty int) (remaining int, err error)
}
