package pos

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/SeanKennethDMS/PetPal-sub000/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// Todo el POS es de staff: la caja vive en el mostrador.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pos", func(pr chi.Router) {
		pr.Use(middleware.RequireAdmin)

		pr.Get("/cart", cartHandler(svc))
		pr.Post("/cart/items", addItemHandler(svc))
		pr.Patch("/cart/items/{itemType}/{itemID}", setQtyHandler(svc))
		pr.Delete("/cart/items/{itemType}/{itemID}", removeItemHandler(svc))
		pr.Delete("/cart", clearCartHandler(svc))

		pr.Post("/checkout", checkoutHandler(svc))
		pr.Get("/transactions", listTransactionsHandler(svc))
		pr.Get("/transactions/{txID}", getTransactionHandler(svc))
	})
}

type addItemRequest struct {
	ItemID        string `json:"item_id"`
	ItemType      string `json:"item_type"`
	ServiceOption string `json:"service_option"`
	Qty           int    `json:"qty"`
}

type setQtyRequest struct {
	Qty int `json:"qty"`
}

type checkoutRequest struct {
	PaymentMethod string `json:"payment_method"`
}

type transactionResponse struct {
	ID            string    `json:"id"`
	Code          string    `json:"code"`
	OperatorID    string    `json:"operator_id"`
	SubtotalCents int       `json:"subtotal_cents"`
	TaxCents      int       `json:"tax_cents"`
	TotalCents    int       `json:"total_cents"`
	PaymentMethod string    `json:"payment_method"`
	Status        string    `json:"status"`
	Items         []Line    `json:"items,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func cartHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		writeJSON(w, http.StatusOK, svc.Cart(claims.UserID))
	}
}

func addItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req addItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		view, err := svc.AddItem(r.Context(), claims.UserID, AddItemInput{
			ItemID:        req.ItemID,
			ItemType:      ItemType(req.ItemType),
			ServiceOption: req.ServiceOption,
			Qty:           req.Qty,
		})
		if err != nil {
			writeCartError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func setQtyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req setQtyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		view, err := svc.SetQty(claims.UserID, chi.URLParam(r, "itemID"), ItemType(chi.URLParam(r, "itemType")), req.Qty)
		if err != nil {
			writeCartError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func removeItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		view, err := svc.RemoveItem(claims.UserID, chi.URLParam(r, "itemID"), ItemType(chi.URLParam(r, "itemType")))
		if err != nil {
			writeCartError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func clearCartHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		writeJSON(w, http.StatusOK, svc.ClearCart(claims.UserID))
	}
}

func checkoutHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req checkoutRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req) // body opcional, default cash
		}

		tx, items, err := svc.Checkout(r.Context(), claims, req.PaymentMethod)
		if err != nil {
			var ce *CheckoutError
			switch {
			case errors.As(err, &ce):
				writeJSON(w, http.StatusConflict, map[string]any{
					"error":     ErrInsufficientStock.Error(),
					"shortages": ce.Shortages,
				})
			case errors.Is(err, ErrEmptyCart):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toTransactionResponse(tx, items))
	}
}

func listTransactionsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		txs, err := svc.ListRecent(r.Context(), limit)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]transactionResponse, 0, len(txs))
		for _, tx := range txs {
			out = append(out, toTransactionResponse(tx, nil))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getTransactionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tx, items, err := svc.GetTransaction(r.Context(), chi.URLParam(r, "txID"))
		if err != nil {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toTransactionResponse(tx, items))
	}
}

func writeCartError(w http.ResponseWriter, err error) {
	switch err {
	case ErrInvalidInput:
		http.Error(w, err.Error(), http.StatusBadRequest)
	case ErrNotFound:
		http.Error(w, "item not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toTransactionResponse(tx Transaction, items []TransactionItem) transactionResponse {
	resp := transactionResponse{
		ID:            tx.ID,
		Code:          tx.Code,
		OperatorID:    tx.OperatorID,
		SubtotalCents: tx.SubtotalCents,
		TaxCents:      tx.TaxCents,
		TotalCents:    tx.TotalCents,
		PaymentMethod: tx.PaymentMethod,
		Status:        tx.Status,
		CreatedAt:     tx.CreatedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, Line{
			ItemID:         it.ItemID,
			ItemType:       it.ItemType,
			ItemName:       it.ItemName,
			Qty:            it.Qty,
			UnitPriceCents: it.UnitPriceCents,
		})
	}
	return resp
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
