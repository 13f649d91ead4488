package catalog

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/SeanKennethDMS/PetPal-sub000/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/catalog", func(cr chi.Router) {
		cr.Get("/services", listServicesHandler(svc))
		cr.Get("/products", listProductsHandler(svc))

		// Alta de catálogo: solo staff.
		cr.Group(func(ar chi.Router) {
			ar.Use(middleware.RequireAdmin)
			ar.Post("/services", createServiceHandler(svc))
			ar.Post("/products", createProductHandler(svc))
		})
	})
}

type createServiceRequest struct {
	Name     string         `json:"name"`
	Category string         `json:"category"`
	Prices   map[string]int `json:"prices"`
}

type serviceResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Category  string         `json:"category"`
	Prices    map[string]int `json:"prices"`
	CreatedAt time.Time      `json:"created_at"`
}

type createProductRequest struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	PriceCents int    `json:"price_cents"`
	Stock      int    `json:"stock"`
}

type productResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	PriceCents int       `json:"price_cents"`
	Stock      int       `json:"stock"`
	CreatedAt  time.Time `json:"created_at"`
}

func listServicesHandler(svc *Service) http.HandlerFunc {
	// Catálogo visible para cualquiera con sesión o sin ella (la landing lo muestra).
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListServices(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		out := make([]serviceResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toServiceResponse(it))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func listProductsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListProducts(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		out := make([]productResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toProductResponse(it))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func createServiceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createServiceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		it, err := svc.CreateService(r.Context(), CreateServiceInput(req))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, toServiceResponse(it))
	}
}

func createProductHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		it, err := svc.CreateProduct(r.Context(), CreateProductInput(req))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, toProductResponse(it))
	}
}

func toServiceResponse(s GroomService) serviceResponse {
	return serviceResponse{
		ID:        s.ID,
		Name:      s.Name,
		Category:  s.Category,
		Prices:    s.Prices,
		CreatedAt: s.CreatedAt,
	}
}

func toProductResponse(p Product) productResponse {
	return productResponse{
		ID:         p.ID,
		Name:       p.Name,
		Category:   p.Category,
		PriceCents: p.PriceCents,
		Stock:      p.Stock,
		CreatedAt:  p.CreatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
