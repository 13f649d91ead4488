package changefeed

import (
	"context"
	"time"
)

// Tablas con feed de cambios. El feed es señal de invalidación, no delta:
// los consumidores vuelven a correr su query completa.
const (
	TableAppointments  = "appointments"
	TableNotifications = "notifications"
)

type Action string

const (
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Event es un cambio row-level sobre una tabla suscrita.
type Event struct {
	Table  string    `json:"table"`
	Action Action    `json:"action"`
	RowID  string    `json:"row_id"`
	At     time.Time `json:"at"`
}

// Publisher publica eventos fire-and-forget.
// Los writers no dependen del resultado: un publish fallido se loguea y ya.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Subscriber entrega eventos de una tabla. El canal se cierra cuando el
// ctx muere; cada Subscribe es una suscripción independiente.
type Subscriber interface {
	Subscribe(ctx context.Context, table string) (<-chan Event, error)
}

// Bus combina ambos lados (los adapters implementan los dos).
type Bus interface {
	Publisher
	Subscriber
}
