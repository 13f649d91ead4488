package pos

import "context"

type Repository interface {
	CreateTransaction(ctx context.Context, t Transaction) error
	// AddItem inserta una línea ya vendida. Va después del insert de la
	// transacción; si falla queda la venta sin esa línea (sin compensación).
	AddItem(ctx context.Context, it TransactionItem) error

	GetTransaction(ctx context.Context, id string) (Transaction, []TransactionItem, error)
	ListRecent(ctx context.Context, limit int) ([]Transaction, error)
}
