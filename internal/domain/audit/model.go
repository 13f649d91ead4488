package audit

import (
	"encoding/json"
	"time"
)

// Action identifica qué hizo el actor.
type Action string

const (
	ActionAppointmentBooked     Action = "appointment.booked"
	ActionAppointmentTransition Action = "appointment.transition"
	ActionCheckoutCompleted     Action = "pos.checkout"
	ActionUserRegistered        Action = "user.registered"
)

// Entry es un registro inmutable de auditoría.
// Details guarda el payload libre (estado anterior/nuevo, totales...).
type Entry struct {
	ID string

	ActorID   string
	ActorRole string

	Action     Action
	TargetType string
	TargetID   string

	Details json.RawMessage

	CreatedAt time.Time
}
