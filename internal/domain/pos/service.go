package pos

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/SeanKennethDMS/PetPal-sub000/internal/domain/audit"
	"github.com/SeanKennethDMS/PetPal-sub000/internal/domain/catalog"
	"github.com/SeanKennethDMS/PetPal-sub000/internal/domain/notifications"
	"github.com/SeanKennethDMS/PetPal-sub000/internal/platform/logger"
	"github.com/SeanKennethDMS/PetPal-sub000/internal/ports/auth"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Catalog es lo que el POS necesita del catálogo: resolver precios al cargar
// el carrito, releer stock en checkout y descontar atómico al confirmar.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (catalog.Product, error)
	GetService(ctx context.Context, id string) (catalog.GroomService, error)
	ProductStock(ctx context.Context, id string) (int, error)
	DecrementStock(ctx context.Context, id string, qty int) (remaining int, err error)
}

// Notifier avisa a admins cuando un checkout deja stock bajo.
type Notifier interface {
	BroadcastToAdmins(ctx context.Context, t notifications.Type, d notifications.TemplateData) error
}

type Service struct {
	repo     Repository
	catalog  Catalog
	notifier Notifier
	audit    *audit.Service
	log      logger.Logger
	now      func() time.Time

	lowStockThreshold int

	// Un carrito por operador. Single-writer lógico (cada caja es una
	// persona), pero igual va con lock: dos tabs del mismo operador pueden
	// pegarle a la vez.
	mu    sync.Mutex
	carts map[string]*Cart
}

type Deps struct {
	Repo              Repository
	Catalog           Catalog
	Notifier          Notifier
	Audit             *audit.Service
	Log               logger.Logger
	LowStockThreshold int
}

func NewService(d Deps) *Service {
	log := d.Log
	if log == nil {
		log = logger.Nop()
	}
	threshold := d.LowStockThreshold
	if threshold <= 0 {
		threshold = 5
	}
	return &Service{
		repo:              d.Repo,
		catalog:           d.Catalog,
		notifier:          d.Notifier,
		audit:             d.Audit,
		log:               log,
		now:               time.Now,
		lowStockThreshold: threshold,
		carts:             make(map[string]*Cart),
	}
}

// CartView es el snapshot que ve la caja: líneas + totales recalculados
// después de cada add/remove/edición de cantidad.
type CartView struct {
	Lines         []Line `json:"lines"`
	SubtotalCents int    `json:"subtotal_cents"`
	TaxCents      int    `json:"tax_cents"`
	TotalCents    int    `json:"total_cents"`
}

func (s *Service) cartFor(operatorID string) *Cart {
	c, ok := s.carts[operatorID]
	if !ok {
		c = &Cart{}
		s.carts[operatorID] = c
	}
	return c
}

func (s *Service) view(c *Cart) CartView {
	lines := make([]Line, len(c.Lines))
	copy(lines, c.Lines)
	return CartView{
		Lines:         lines,
		SubtotalCents: c.Subtotal(),
		TaxCents:      c.Tax(),
		TotalCents:    c.Total(),
	}
}

func (s *Service) Cart(operatorID string) CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(s.cartFor(operatorID))
}

type AddItemInput struct {
	ItemID        string
	ItemType      ItemType
	ServiceOption string
	Qty           int
}

// AddItem resuelve nombre y precio desde el catálogo (nunca desde el client)
// y mergea en el carrito del operador.
func (s *Service) AddItem(ctx context.Context, operatorID string, in AddItemInput) (CartView, error) {
	operatorID = strings.TrimSpace(operatorID)
	itemID := strings.TrimSpace(in.ItemID)
	if operatorID == "" || itemID == "" {
		return CartView{}, ErrInvalidInput
	}
	qty := in.Qty
	if qty <= 0 {
		qty = 1
	}

	var line Line
	switch in.ItemType {
	case ItemTypeProduct:
		p, err := s.catalog.GetProduct(ctx, itemID)
		if err != nil {
			return CartView{}, ErrNotFound
		}
		line = Line{ItemID: p.ID, ItemType: ItemTypeProduct, ItemName: p.Name, Qty: qty, UnitPriceCents: p.PriceCents}
	case ItemTypeService:
		gs, err := s.catalog.GetService(ctx, itemID)
		if err != nil {
			return CartView{}, ErrNotFound
		}
		price, ok := gs.PriceFor(in.ServiceOption)
		if !ok {
			return CartView{}, ErrInvalidInput
		}
		name := gs.Name
		if opt := strings.TrimSpace(in.ServiceOption); opt != "" && opt != catalog.DefaultOption {
			name = fmt.Sprintf("%s (%s)", gs.Name, opt)
		}
		line = Line{ItemID: gs.ID, ItemType: ItemTypeService, ItemName: name, Qty: qty, UnitPriceCents: price}
	default:
		return CartView{}, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cartFor(operatorID)
	c.Add(line)
	return s.view(c), nil
}

func (s *Service) SetQty(operatorID, itemID string, itemType ItemType, qty int) (CartView, error) {
	if qty <= 0 {
		return CartView{}, ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cartFor(operatorID)
	if !c.SetQty(itemID, itemType, qty) {
		return CartView{}, ErrNotFound
	}
	return s.view(c), nil
}

func (s *Service) RemoveItem(operatorID, itemID string, itemType ItemType) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cartFor(operatorID)
	if !c.Remove(itemID, itemType) {
		return CartView{}, ErrNotFound
	}
	return s.view(c), nil
}

func (s *Service) ClearCart(operatorID string) CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cartFor(operatorID)
	c.Clear()
	return s.view(c)
}

// StockShortage detalla por qué se abortó un checkout.
type StockShortage struct {
	ItemID    string `json:"item_id"`
	ItemName  string `json:"item_name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// CheckoutError envuelve ErrInsufficientStock con el detalle por línea.
type CheckoutError struct {
	Shortages []StockShortage
}

func (e *CheckoutError) Error() string { return ErrInsufficientStock.Error() }
func (e *CheckoutError) Unwrap() error { return ErrInsufficientStock }

// Checkout confirma la venta del carrito del operador.
//
// Contrato heredado del POS original:
//  1. relee stock de cada línea de producto y aborta TODO el checkout (sin
//     fila de transacción) si alguna pide más de lo que hay — check no atómico
//     con el descuento posterior, una venta concurrente igual puede oversellear;
//  2. inserta la transacción, después una fila por línea, después un
//     descuento de stock por producto; un fallo pasado el insert de la
//     transacción deja lo anterior sin compensar (solo se loguea).
func (s *Service) Checkout(ctx context.Context, by auth.Claims, paymentMethod string) (Transaction, []TransactionItem, error) {
	operatorID := strings.TrimSpace(by.UserID)
	if operatorID == "" {
		return Transaction{}, nil, ErrInvalidInput
	}
	paymentMethod = strings.TrimSpace(paymentMethod)
	if paymentMethod == "" {
		paymentMethod = "cash"
	}

	s.mu.Lock()
	c := s.cartFor(operatorID)
	if c.IsEmpty() {
		s.mu.Unlock()
		return Transaction{}, nil, ErrEmptyCart
	}
	lines := make([]Line, len(c.Lines))
	copy(lines, c.Lines)
	subtotal, tax, total := c.Subtotal(), c.Tax(), c.Total()
	s.mu.Unlock()

	// Paso 1: releer stock fresco por cada producto. Cualquier faltante
	// aborta entero, sin ningún write.
	var shortages []StockShortage
	for _, l := range lines {
		if l.ItemType != ItemTypeProduct {
			continue
		}
		stock, err := s.catalog.ProductStock(ctx, l.ItemID)
		if err != nil {
			return Transaction{}, nil, fmt.Errorf("stock check for %s: %w", l.ItemID, err)
		}
		if l.Qty > stock {
			shortages = append(shortages, StockShortage{
				ItemID:    l.ItemID,
				ItemName:  l.ItemName,
				Requested: l.Qty,
				Available: stock,
			})
		}
	}
	if len(shortages) > 0 {
		return Transaction{}, nil, &CheckoutError{Shortages: shortages}
	}

	now := s.now()
	tx := Transaction{
		ID:            uuid.NewString(),
		Code:          newTransactionCode(now),
		OperatorID:    operatorID,
		SubtotalCents: subtotal,
		TaxCents:      tax,
		TotalCents:    total,
		PaymentMethod: paymentMethod,
		Status:        "completed",
		CreatedAt:     now,
	}

	// Paso 2: transacción primero. Si esto falla, no pasó nada.
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return Transaction{}, nil, err
	}

	// Pasos 3 y 4: líneas y descuentos, best-effort sin rollback.
	items := make([]TransactionItem, 0, len(lines))
	for _, l := range lines {
		it := TransactionItem{
			ID:             uuid.NewString(),
			TransactionID:  tx.ID,
			ItemID:         l.ItemID,
			ItemType:       l.ItemType,
			ItemName:       l.ItemName,
			Qty:            l.Qty,
			UnitPriceCents: l.UnitPriceCents,
		}
		if err := s.repo.AddItem(ctx, it); err != nil {
			s.log.Error("transaction item insert failed", map[string]any{
				"transaction_id": tx.ID,
				"item_id":        l.ItemID,
				"err":            err.Error(),
			})
			continue
		}
		items = append(items, it)
	}

	for _, l := range lines {
		if l.ItemType != ItemTypeProduct {
			continue
		}
		remaining, err := s.catalog.DecrementStock(ctx, l.ItemID, l.Qty)
		if err != nil {
			s.log.Error("stock decrement failed", map[string]any{
				"transaction_id": tx.ID,
				"item_id":        l.ItemID,
				"err":            err.Error(),
			})
			continue
		}
		if remaining < s.lowStockThreshold && s.notifier != nil {
			err := s.notifier.BroadcastToAdmins(ctx, notifications.TypeLowStock, notifications.TemplateData{
				ProductName: l.ItemName,
				Stock:       remaining,
			})
			if err != nil {
				s.log.Warn("low stock notification failed", map[string]any{"item_id": l.ItemID, "err": err.Error()})
			}
		}
	}

	if s.audit != nil {
		err := s.audit.RecordDetails(ctx, operatorID, string(by.Role), audit.ActionCheckoutCompleted, "transaction", tx.ID, map[string]any{
			"code":        tx.Code,
			"total_cents": tx.TotalCents,
			"lines":       len(lines),
		})
		if err != nil {
			s.log.Warn("audit record failed", map[string]any{"transaction_id": tx.ID, "err": err.Error()})
		}
	}

	// Venta cerrada: el carrito se vacía recién acá.
	s.ClearCart(operatorID)

	return tx, items, nil
}

func (s *Service) GetTransaction(ctx context.Context, id string) (Transaction, []TransactionItem, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Transaction{}, nil, ErrInvalidInput
	}
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) ListRecent(ctx context.Context, limit int) ([]Transaction, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.ListRecent(ctx, limit)
}
