package appointments

import "context"

type Repository interface {
	Create(ctx context.Context, a Appointment) error
	GetByID(ctx context.Context, id string) (Appointment, error)

	// Update es un write incondicional keyed por ID: sin check de concurrencia,
	// last write wins (contrato heredado del sistema original).
	Update(ctx context.Context, a Appointment) error

	ListByStatus(ctx context.Context, st Status) ([]Appointment, error)
	ListByOwner(ctx context.Context, userID string) ([]Appointment, error)

	// HasPendingForPet es el existence-check (modo count) previo al insert.
	HasPendingForPet(ctx context.Context, petID string) (bool, error)

	// CopyToCompleted duplica la fila en el store de completados.
	CopyToCompleted(ctx context.Context, a Appointment) error
}
