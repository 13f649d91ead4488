package catalog

import "time"

// Todos los precios van en centavos (int) para no arrastrar floats.

// GroomService es un servicio del catálogo (baño, corte, consulta...).
// Prices mapea sub-opción -> precio; servicios de precio único usan "default".
type GroomService struct {
	ID       string
	Name     string
	Category string
	Prices   map[string]int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultOption es la sub-opción implícita de un servicio de precio único.
const DefaultOption = "default"

// PriceFor devuelve el precio de una sub-opción ("" = default).
func (s GroomService) PriceFor(option string) (int, bool) {
	if option == "" {
		option = DefaultOption
	}
	p, ok := s.Prices[option]
	return p, ok
}

// Product es un ítem de inventario vendible en el POS.
type Product struct {
	ID         string
	Name       string
	Category   string
	PriceCents int
	Stock      int

	CreatedAt time.Time
	UpdatedAt time.Time
}
