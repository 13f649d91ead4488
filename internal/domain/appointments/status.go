package appointments

import "strings"

type Status string

const (
	StatusPending     Status = "pending"
	StatusAccepted    Status = "accepted"
	StatusRescheduled Status = "rescheduled"
	StatusCancelled   Status = "cancelled"
	StatusNoShow      Status = "no_show"
	StatusCompleted   Status = "completed"
)

// Tabla de transiciones del turno. completed / cancelled / no_show son
// terminales para la tabla activa.
var validNext = map[Status]map[Status]bool{
	StatusPending:     {StatusAccepted: true, StatusCancelled: true},
	StatusAccepted:    {StatusCancelled: true, StatusNoShow: true, StatusRescheduled: true, StatusCompleted: true},
	StatusRescheduled: {StatusAccepted: true},
	StatusCancelled:   {},
	StatusNoShow:      {},
	StatusCompleted:   {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// ParseStatus normaliza el valor que llega por query/body.
// Acepta "no show" como alias del dato legacy.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending, true
	case "accepted":
		return StatusAccepted, true
	case "rescheduled":
		return StatusRescheduled, true
	case "cancelled":
		return StatusCancelled, true
	case "no_show", "no show", "no-show":
		return StatusNoShow, true
	case "completed":
		return StatusCompleted, true
	default:
		return "", false
	}
}
