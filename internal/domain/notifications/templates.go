package notifications

import (
	"errors"
	"fmt"
)

var ErrUnknownType = errors.New("unknown notification type")

type Type string

const (
	// Dirigidas a admins
	TypeAppointmentPending Type = "appointment_pending"
	TypeLowStock           Type = "low_stock"

	// Dirigidas al dueño de la mascota
	TypeAppointmentAccepted    Type = "appointment_accepted"
	TypeAppointmentCancelled   Type = "appointment_cancelled"
	TypeAppointmentNoShow      Type = "appointment_no_show"
	TypeAppointmentRescheduled Type = "appointment_rescheduled"
	TypeAppointmentReverted    Type = "appointment_reverted"
	TypeAppointmentCompleted   Type = "appointment_completed"
)

// TemplateData es el payload estructurado que alimenta las plantillas.
// Campos no usados por un tipo quedan en cero y no se renderizan.
type TemplateData struct {
	BookingCode string `json:"booking_code,omitempty"`
	PetName     string `json:"pet_name,omitempty"`
	ServiceName string `json:"service_name,omitempty"`
	Date        string `json:"date,omitempty"`
	Time        string `json:"time,omitempty"`
	OldDate     string `json:"old_date,omitempty"`
	OldTime     string `json:"old_time,omitempty"`

	ProductName string `json:"product_name,omitempty"`
	Stock       int    `json:"stock,omitempty"`
}

// Render arma el mensaje desde la plantilla fija del tipo.
// Mapeo (acción -> tipo -> plantilla) cerrado: tipo desconocido es error,
// nunca un mensaje vacío silencioso.
func Render(t Type, d TemplateData) (string, error) {
	switch t {
	case TypeAppointmentPending:
		return fmt.Sprintf("New booking request %s: %s for %s on %s at %s.",
			d.BookingCode, d.ServiceName, d.PetName, d.Date, d.Time), nil
	case TypeAppointmentAccepted:
		return fmt.Sprintf("Your appointment %s for %s was accepted for %s at %s.",
			d.BookingCode, d.PetName, d.Date, d.Time), nil
	case TypeAppointmentCancelled:
		return fmt.Sprintf("Your appointment %s for %s on %s at %s was cancelled.",
			d.BookingCode, d.PetName, d.Date, d.Time), nil
	case TypeAppointmentNoShow:
		return fmt.Sprintf("Your appointment %s for %s on %s at %s was marked as no-show.",
			d.BookingCode, d.PetName, d.Date, d.Time), nil
	case TypeAppointmentRescheduled:
		return fmt.Sprintf("Your appointment %s for %s was moved from %s %s to %s %s.",
			d.BookingCode, d.PetName, d.OldDate, d.OldTime, d.Date, d.Time), nil
	case TypeAppointmentReverted:
		return fmt.Sprintf("Your appointment %s for %s is back to its original schedule: %s at %s.",
			d.BookingCode, d.PetName, d.Date, d.Time), nil
	case TypeAppointmentCompleted:
		return fmt.Sprintf("Your appointment %s for %s is completed. Thank you!",
			d.BookingCode, d.PetName), nil
	case TypeLowStock:
		return fmt.Sprintf("Low stock alert: %s has %d left.", d.ProductName, d.Stock), nil
	default:
		return "", ErrUnknownType
	}
}
