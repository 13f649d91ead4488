package appointments

import "time"

// Appointment es un turno en la tabla activa.
// Date/Time se guardan como strings ("2006-01-02" / "15:04") igual que los
// cargaba la UI original; la validación vive en el service.
type Appointment struct {
	ID string

	// BookingCode es el código legible (URN) que ve el cliente, ej APPT-20250110-4F2A9C.
	BookingCode string

	UserID        string
	PetID         string
	ServiceID     string
	ServiceOption string

	Date string
	Time string

	Status Status

	// Seteados solo mientras el turno está rescheduled; el revert los consume.
	OriginalDate string
	OriginalTime string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}
