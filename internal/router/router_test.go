package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SeanKennethDMS/PetPal-sub000/internal/router"
)

// UUIDs fijos para el modo dev (las notificaciones validan el formato).
const (
	ownerID = "7c4dc3e0-93b1-4a77-9f05-d2b6f1f0a001"
	adminID = "9e1fb2a4-5cd0-4f3b-8a16-e7c8d9b0a002"
)

func doReq(t *testing.T, baseURL, method, path, userID, role string, body any) (int, []byte) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Debug-User-ID", userID)
	if role != "" {
		req.Header.Set("X-Debug-Role", role)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out
}

func mustDecode(t *testing.T, body []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("decode %s: %v", string(body), err)
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	ts := httptest.NewServer(router.NewRouter(ctx, router.Options{}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_AppointmentLifecycle(t *testing.T) {
	ts := newTestServer(t)

	// 1) Admin carga el catálogo
	var svcResp struct {
		ID string `json:"id"`
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/catalog/services", adminID, "admin", map[string]any{
			"name":     "Full Groom",
			"category": "grooming",
			"prices":   map[string]int{"default": 50000, "large": 70000},
		})
		if st != http.StatusCreated {
			t.Fatalf("create service: expected 201, got %d body=%s", st, body)
		}
		mustDecode(t, body, &svcResp)
	}

	// 2) Customer no puede cargar catálogo
	{
		st, _ := doReq(t, ts.URL, "POST", "/catalog/services", ownerID, "", map[string]any{
			"name": "Hack", "prices": map[string]int{"default": 1},
		})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for customer catalog write, got %d", st)
		}
	}

	// 3) Owner registra su mascota
	var petResp struct {
		ID string `json:"id"`
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/pets/", ownerID, "", map[string]any{
			"name": "Milo", "species": "dog", "breed": "mixed", "weight_kg": 12.5,
		})
		if st != http.StatusCreated {
			t.Fatalf("create pet: expected 201, got %d body=%s", st, body)
		}
		mustDecode(t, body, &petResp)
	}

	// 4) Owner reserva
	var apptResp struct {
		ID          string `json:"id"`
		BookingCode string `json:"booking_code"`
		Status      string `json:"status"`
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/appointments/", ownerID, "", map[string]any{
			"pet_id":     petResp.ID,
			"service_id": svcResp.ID,
			"date":       "2099-05-20",
			"time":       "10:30",
		})
		if st != http.StatusCreated {
			t.Fatalf("book: expected 201, got %d body=%s", st, body)
		}
		mustDecode(t, body, &apptResp)
		if apptResp.Status != "pending" || apptResp.BookingCode == "" {
			t.Fatalf("unexpected booking response: %+v", apptResp)
		}
	}

	// 5) Segunda reserva para la misma mascota rebota con 409
	{
		st, _ := doReq(t, ts.URL, "POST", "/appointments/", ownerID, "", map[string]any{
			"pet_id":     petResp.ID,
			"service_id": svcResp.ID,
			"date":       "2099-05-21",
			"time":       "11:00",
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 on second pending, got %d", st)
		}
	}

	// 6) El admin ve el tab pending
	{
		st, body := doReq(t, ts.URL, "GET", "/appointments/?status=pending", adminID, "admin", nil)
		if st != http.StatusOK {
			t.Fatalf("list pending: expected 200, got %d body=%s", st, body)
		}
		var list []struct {
			ID string `json:"id"`
		}
		mustDecode(t, body, &list)
		if len(list) != 1 || list[0].ID != apptResp.ID {
			t.Fatalf("expected the booked appointment in pending tab, got %s", body)
		}
	}

	// 7) Transiciones: customer no puede, admin sí
	{
		st, _ := doReq(t, ts.URL, "POST", "/appointments/"+apptResp.ID+"/accept", ownerID, "", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for customer transition, got %d", st)
		}
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/appointments/"+apptResp.ID+"/accept", adminID, "admin", nil)
		if st != http.StatusOK {
			t.Fatalf("accept: expected 200, got %d body=%s", st, body)
		}
	}

	// 8) Reschedule y revert
	{
		st, body := doReq(t, ts.URL, "POST", "/appointments/"+apptResp.ID+"/reschedule", adminID, "admin", map[string]any{
			"date": "2099-05-25", "time": "14:00",
		})
		if st != http.StatusOK {
			t.Fatalf("reschedule: expected 200, got %d body=%s", st, body)
		}
		var got struct {
			Date         string `json:"date"`
			OriginalDate string `json:"original_date"`
		}
		mustDecode(t, body, &got)
		if got.Date != "2099-05-25" || got.OriginalDate != "2099-05-20" {
			t.Fatalf("unexpected reschedule response: %s", body)
		}
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/appointments/"+apptResp.ID+"/revert-reschedule", adminID, "admin", nil)
		if st != http.StatusOK {
			t.Fatalf("revert: expected 200, got %d body=%s", st, body)
		}
		var got struct {
			Date   string `json:"date"`
			Status string `json:"status"`
		}
		mustDecode(t, body, &got)
		if got.Date != "2099-05-20" || got.Status != "accepted" {
			t.Fatalf("unexpected revert response: %s", body)
		}
	}

	// 9) Complete; transición inválida después rebota con 409
	{
		st, _ := doReq(t, ts.URL, "POST", "/appointments/"+apptResp.ID+"/complete", adminID, "admin", nil)
		if st != http.StatusOK {
			t.Fatalf("complete: expected 200, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "POST", "/appointments/"+apptResp.ID+"/cancel", adminID, "admin", nil)
		if st != http.StatusConflict {
			t.Fatalf("expected 409 cancelling a completed appointment, got %d", st)
		}
	}

	// 10) El owner recibió las notificaciones de cada transición
	{
		st, body := doReq(t, ts.URL, "GET", "/notifications/", ownerID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("list notifications: expected 200, got %d", st)
		}
		var list []struct {
			Type string `json:"type"`
		}
		mustDecode(t, body, &list)
		// accept + reschedule + revert + complete
		if len(list) != 4 {
			t.Fatalf("expected 4 notifications, got %d: %s", len(list), body)
		}
	}
}

func TestHTTP_EndToEnd_POSCheckout(t *testing.T) {
	ts := newTestServer(t)

	// catálogo: un producto con poco stock
	var prodResp struct {
		ID string `json:"id"`
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/catalog/products", adminID, "admin", map[string]any{
			"name": "Shampoo", "category": "supplies", "price_cents": 1500, "stock": 4,
		})
		if st != http.StatusCreated {
			t.Fatalf("create product: expected 201, got %d body=%s", st, body)
		}
		mustDecode(t, body, &prodResp)
	}

	// el POS es solo staff
	{
		st, _ := doReq(t, ts.URL, "GET", "/pos/cart", ownerID, "", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for customer POS access, got %d", st)
		}
	}

	// cargar más de lo que hay y confirmar: 409 con detalle y sin venta
	{
		st, body := doReq(t, ts.URL, "POST", "/pos/cart/items", adminID, "admin", map[string]any{
			"item_id": prodResp.ID, "item_type": "product", "qty": 6,
		})
		if st != http.StatusOK {
			t.Fatalf("add item: expected 200, got %d body=%s", st, body)
		}
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/pos/checkout", adminID, "admin", nil)
		if st != http.StatusConflict {
			t.Fatalf("expected 409 on shortage, got %d body=%s", st, body)
		}
		var got struct {
			Shortages []struct {
				Requested int `json:"requested"`
				Available int `json:"available"`
			} `json:"shortages"`
		}
		mustDecode(t, body, &got)
		if len(got.Shortages) != 1 || got.Shortages[0].Available != 4 {
			t.Fatalf("unexpected shortage payload: %s", body)
		}
	}

	// corregir cantidad y confirmar
	{
		st, body := doReq(t, ts.URL, "PATCH", "/pos/cart/items/product/"+prodResp.ID, adminID, "admin", map[string]any{
			"qty": 2,
		})
		if st != http.StatusOK {
			t.Fatalf("set qty: expected 200, got %d body=%s", st, body)
		}
	}
	var txResp struct {
		ID            string `json:"id"`
		Code          string `json:"code"`
		SubtotalCents int    `json:"subtotal_cents"`
		TaxCents      int    `json:"tax_cents"`
		TotalCents    int    `json:"total_cents"`
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/pos/checkout", adminID, "admin", map[string]any{
			"payment_method": "card",
		})
		if st != http.StatusCreated {
			t.Fatalf("checkout: expected 201, got %d body=%s", st, body)
		}
		mustDecode(t, body, &txResp)
		// 2 * 1500 = 3000, 12% = 360
		if txResp.SubtotalCents != 3000 || txResp.TaxCents != 360 || txResp.TotalCents != 3360 {
			t.Fatalf("unexpected totals: %+v", txResp)
		}
		if txResp.Code == "" {
			t.Fatalf("expected transaction code")
		}
	}

	// stock descontado
	{
		st, body := doReq(t, ts.URL, "GET", "/catalog/products", adminID, "admin", nil)
		if st != http.StatusOK {
			t.Fatalf("list products: expected 200, got %d", st)
		}
		var list []struct {
			Stock int `json:"stock"`
		}
		mustDecode(t, body, &list)
		if len(list) != 1 || list[0].Stock != 2 {
			t.Fatalf("expected stock 2 after checkout, got %s", body)
		}
	}

	// el carrito quedó vacío y la venta consultable
	{
		st, body := doReq(t, ts.URL, "GET", "/pos/cart", adminID, "admin", nil)
		if st != http.StatusOK {
			t.Fatalf("get cart: expected 200, got %d", st)
		}
		var cart struct {
			Lines []any `json:"lines"`
		}
		mustDecode(t, body, &cart)
		if len(cart.Lines) != 0 {
			t.Fatalf("expected empty cart after checkout")
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/pos/transactions/"+txResp.ID, adminID, "admin", nil)
		if st != http.StatusOK {
			t.Fatalf("get transaction: expected 200, got %d", st)
		}
		var got struct {
			Items []any `json:"items"`
		}
		mustDecode(t, body, &got)
		if len(got.Items) != 1 {
			t.Fatalf("expected 1 line in stored transaction, got %s", body)
		}
	}
}

func TestHTTP_PetOwnershipEnforced(t *testing.T) {
	ts := newTestServer(t)

	var petResp struct {
		ID string `json:"id"`
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/pets/", ownerID, "", map[string]any{
			"name": "Milo", "species": "dog",
		})
		if st != http.StatusCreated {
			t.Fatalf("create pet: expected 201, got %d", st)
		}
		mustDecode(t, body, &petResp)
	}

	stranger := "0b1c2d3e-4f50-4a6b-8c7d-9e0f1a2b3c99"
	{
		st, _ := doReq(t, ts.URL, "GET", "/pets/"+petResp.ID, stranger, "", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for stranger, got %d", st)
		}
	}
	// el staff sí puede (ficha de recepción)
	{
		st, _ := doReq(t, ts.URL, "GET", "/pets/"+petResp.ID, adminID, "admin", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 for admin, got %d", st)
		}
	}
}
