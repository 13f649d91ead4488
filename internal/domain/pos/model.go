package pos

import "time"

type ItemType string

const (
	ItemTypeProduct ItemType = "product"
	ItemTypeService ItemType = "service"
)

// Line es una línea del carrito / de la transacción.
// Un ítem ya cargado incrementa Qty, no duplica línea.
type Line struct {
	ItemID         string   `json:"item_id"`
	ItemType       ItemType `json:"item_type"`
	ItemName       string   `json:"item_name"`
	Qty            int      `json:"qty"`
	UnitPriceCents int      `json:"unit_price_cents"`
}

// Transaction es una venta confirmada. Montos en centavos.
type Transaction struct {
	ID   string
	Code string // URN legible, ej TXN-20250110-9C01AB

	OperatorID    string
	SubtotalCents int
	TaxCents      int
	TotalCents    int
	PaymentMethod string
	Status        string // completed; no hay refunds en esta versión

	CreatedAt time.Time
}

// TransactionItem referencia producto o servicio por type tag.
type TransactionItem struct {
	ID            string
	TransactionID string

	ItemID         string
	ItemType       ItemType
	ItemName       string
	Qty            int
	UnitPriceCents int
}
