package pos

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SeanKennethDMS/PetPal-sub000/internal/domain/catalog"
	"github.com/SeanKennethDMS/PetPal-sub000/internal/domain/notifications"
	"github.com/SeanKennethDMS/PetPal-sub000/internal/ports/auth"
)

// -------------------------
// Fakes
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	txs     map[string]Transaction
	items   map[string][]TransactionItem
	itemErr error
}

func newTestRepo() *testRepo {
	return &testRepo{
		txs:   map[string]Transaction{},
		items: map[string][]TransactionItem{},
	}
}

func (r *testRepo) CreateTransaction(ctx context.Context, t Transaction) error {
	r.txs[t.ID] = t
	return nil
}

func (r *testRepo) AddItem(ctx context.Context, it TransactionItem) error {
	if r.itemErr != nil {
		return r.itemErr
	}
	r.items[it.TransactionID] = append(r.items[it.TransactionID], it)
	return nil
}

func (r *testRepo) GetTransaction(ctx context.Context, id string) (Transaction, []TransactionItem, error) {
	t, ok := r.txs[id]
	if !ok {
		return Transaction{}, nil, errRepoNotFound
	}
	return t, r.items[id], nil
}

func (r *testRepo) ListRecent(ctx context.Context, limit int) ([]Transaction, error) {
	out := make([]Transaction, 0, len(r.txs))
	for _, t := range r.txs {
		out = append(out, t)
	}
	return out, nil
}

type testCatalog struct {
	products map[string]catalog.Product
	services map[string]catalog.GroomService
}

func (c *testCatalog) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	p, ok := c.products[id]
	if !ok {
		return catalog.Product{}, errRepoNotFound
	}
	return p, nil
}

func (c *testCatalog) GetService(ctx context.Context, id string) (catalog.GroomService, error) {
	s, ok := c.services[id]
	if !ok {
		return catalog.GroomService{}, errRepoNotFound
	}
	return s, nil
}

func (c *testCatalog) ProductStock(ctx context.Context, id string) (int, error) {
	p, ok := c.products[id]
	if !ok {
		return 0, errRepoNotFound
	}
	return p.Stock, nil
}

func (c *testCatalog) DecrementStock(ctx context.Context, id string, qty int) (int, error) {
	p, ok := c.products[id]
	if !ok {
		return 0, errRepoNotFound
	}
	if p.Stock < qty {
		return 0, catalog.ErrInsufficientStock
	}
	p.Stock -= qty
	c.products[id] = p
	return p.Stock, nil
}

type testNotifier struct {
	broadcasts []notifications.TemplateData
}

func (n *testNotifier) BroadcastToAdmins(ctx context.Context, t notifications.Type, d notifications.TemplateData) error {
	n.broadcasts = append(n.broadcasts, d)
	return nil
}

// -------------------------
// Setup
// -------------------------

type testEnv struct {
	svc      *Service
	repo     *testRepo
	catalog  *testCatalog
	notifier *testNotifier
}

func newTestEnv() *testEnv {
	repo := newTestRepo()
	cat := &testCatalog{
		products: map[string]catalog.Product{
			"shampoo": {ID: "shampoo", Name: "Shampoo", PriceCents: 1500, Stock: 10},
			"collar":  {ID: "collar", Name: "Collar", PriceCents: 2500, Stock: 3},
		},
		services: map[string]catalog.GroomService{
			"bath": {ID: "bath", Name: "Bath", Prices: map[string]int{"default": 50000, "large": 70000}},
		},
	}
	notifier := &testNotifier{}
	svc := NewService(Deps{
		Repo:              repo,
		Catalog:           cat,
		Notifier:          notifier,
		LowStockThreshold: 5,
	})
	svc.now = func() time.Time { return time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC) }
	return &testEnv{svc: svc, repo: repo, catalog: cat, notifier: notifier}
}

var operator = auth.Claims{UserID: "op-1", Role: auth.RoleAdmin}

// -------------------------
// Carrito
// -------------------------

func TestService_AddItem_ResolvesPriceFromCatalog(t *testing.T) {
	env := newTestEnv()

	view, err := env.svc.AddItem(context.Background(), "op-1", AddItemInput{
		ItemID: "shampoo", ItemType: ItemTypeProduct, Qty: 2,
	})
	if err != nil {
		t.Fatalf("AddItem error: %v", err)
	}
	if len(view.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(view.Lines))
	}
	if view.Lines[0].UnitPriceCents != 1500 || view.Lines[0].ItemName != "Shampoo" {
		t.Fatalf("expected catalog price and name, got %+v", view.Lines[0])
	}
	if view.SubtotalCents != 3000 {
		t.Fatalf("subtotal = %d, want 3000", view.SubtotalCents)
	}
}

func TestService_AddItem_ServiceOption(t *testing.T) {
	env := newTestEnv()

	view, err := env.svc.AddItem(context.Background(), "op-1", AddItemInput{
		ItemID: "bath", ItemType: ItemTypeService, ServiceOption: "large",
	})
	if err != nil {
		t.Fatalf("AddItem error: %v", err)
	}
	if view.Lines[0].UnitPriceCents != 70000 {
		t.Fatalf("expected option price 70000, got %d", view.Lines[0].UnitPriceCents)
	}
	if view.Lines[0].ItemName != "Bath (large)" {
		t.Fatalf("expected option name, got %q", view.Lines[0].ItemName)
	}

	if _, err := env.svc.AddItem(context.Background(), "op-1", AddItemInput{
		ItemID: "bath", ItemType: ItemTypeService, ServiceOption: "gigantic",
	}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for unknown option, got %v", err)
	}
}

func TestService_CartsArePerOperator(t *testing.T) {
	env := newTestEnv()

	if _, err := env.svc.AddItem(context.Background(), "op-1", AddItemInput{
		ItemID: "shampoo", ItemType: ItemTypeProduct,
	}); err != nil {
		t.Fatalf("AddItem error: %v", err)
	}

	if other := env.svc.Cart("op-2"); len(other.Lines) != 0 {
		t.Fatalf("expected op-2 cart empty, got %d lines", len(other.Lines))
	}
}

// -------------------------
// Checkout
// -------------------------

func fillCart(t *testing.T, env *testEnv) {
	t.Helper()
	if _, err := env.svc.AddItem(context.Background(), "op-1", AddItemInput{
		ItemID: "shampoo", ItemType: ItemTypeProduct, Qty: 2,
	}); err != nil {
		t.Fatalf("AddItem error: %v", err)
	}
	if _, err := env.svc.AddItem(context.Background(), "op-1", AddItemInput{
		ItemID: "bath", ItemType: ItemTypeService,
	}); err != nil {
		t.Fatalf("AddItem error: %v", err)
	}
}

func TestService_Checkout_HappyPath(t *testing.T) {
	env := newTestEnv()
	fillCart(t, env)

	tx, items, err := env.svc.Checkout(context.Background(), operator, "")
	if err != nil {
		t.Fatalf("Checkout error: %v", err)
	}
	// subtotal 2*1500 + 50000 = 53000, tax 6360, total 59360
	if tx.SubtotalCents != 53000 || tx.TaxCents != 6360 || tx.TotalCents != 59360 {
		t.Fatalf("unexpected totals: %+v", tx)
	}
	if tx.PaymentMethod != "cash" {
		t.Fatalf("expected default payment method cash, got %q", tx.PaymentMethod)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items written, got %d", len(items))
	}
	if got := env.catalog.products["shampoo"].Stock; got != 8 {
		t.Fatalf("expected stock decremented to 8, got %d", got)
	}
	// la venta cierra el carrito
	if view := env.svc.Cart("op-1"); len(view.Lines) != 0 {
		t.Fatalf("expected cart cleared after checkout")
	}
}

func TestService_Checkout_EmptyCart(t *testing.T) {
	env := newTestEnv()
	if _, _, err := env.svc.Checkout(context.Background(), operator, "cash"); err != ErrEmptyCart {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestService_Checkout_ShortageAbortsEverything(t *testing.T) {
	env := newTestEnv()
	if _, err := env.svc.AddItem(context.Background(), "op-1", AddItemInput{
		ItemID: "collar", ItemType: ItemTypeProduct, Qty: 5, // stock: 3
	}); err != nil {
		t.Fatalf("AddItem error: %v", err)
	}

	_, _, err := env.svc.Checkout(context.Background(), operator, "cash")
	if err == nil {
		t.Fatalf("expected shortage error")
	}
	var ce *CheckoutError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CheckoutError, got %T", err)
	}
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected errors.Is ErrInsufficientStock")
	}
	if len(ce.Shortages) != 1 || ce.Shortages[0].Available != 3 || ce.Shortages[0].Requested != 5 {
		t.Fatalf("unexpected shortage detail: %+v", ce.Shortages)
	}

	// aborta entero: ni transacción, ni descuento, y el carrito queda intacto
	if len(env.repo.txs) != 0 {
		t.Fatalf("expected no transaction written on shortage")
	}
	if env.catalog.products["collar"].Stock != 3 {
		t.Fatalf("expected stock untouched on shortage")
	}
	if view := env.svc.Cart("op-1"); len(view.Lines) != 1 {
		t.Fatalf("expected cart preserved for correction")
	}
}

func TestService_Checkout_LowStockBroadcast(t *testing.T) {
	env := newTestEnv()
	if _, err := env.svc.AddItem(context.Background(), "op-1", AddItemInput{
		ItemID: "collar", ItemType: ItemTypeProduct, Qty: 2, // deja 1 < umbral 5
	}); err != nil {
		t.Fatalf("AddItem error: %v", err)
	}

	if _, _, err := env.svc.Checkout(context.Background(), operator, "cash"); err != nil {
		t.Fatalf("Checkout error: %v", err)
	}
	if len(env.notifier.broadcasts) != 1 {
		t.Fatalf("expected 1 low stock broadcast, got %d", len(env.notifier.broadcasts))
	}
	if d := env.notifier.broadcasts[0]; d.ProductName != "Collar" || d.Stock != 1 {
		t.Fatalf("unexpected broadcast data: %+v", d)
	}
}

func TestService_Checkout_ItemInsertFailureDoesNotAbort(t *testing.T) {
	env := newTestEnv()
	fillCart(t, env)

	env.repo.itemErr = errors.New("disk full")
	tx, items, err := env.svc.Checkout(context.Background(), operator, "cash")
	if err != nil {
		t.Fatalf("Checkout should survive item insert failure, got %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items written, got %d", len(items))
	}
	// la transacción quedó igual, sin compensación
	if _, ok := env.repo.txs[tx.ID]; !ok {
		t.Fatalf("expected transaction row to remain")
	}
}
