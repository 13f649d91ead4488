package pets

import "time"

// Species define las especies soportadas.
type Species string

const (
	SpeciesDog   Species = "dog"
	SpeciesCat   Species = "cat"
	SpeciesOther Species = "other"
)

// Pet representa el perfil de una mascota registrada en el sistema.
type Pet struct {
	ID          string
	OwnerUserID string

	Name    string
	Species Species
	Breed   string

	// Peso en kg, lo captura recepción. 0 = sin registrar.
	WeightKg  float64
	BirthDate *time.Time

	// URL pública de la foto; el object storage queda fuera de este servicio.
	ImageURL string

	CreatedAt time.Time
	UpdatedAt time.Time
}
