package notifications

import (
	"encoding/json"
	"time"
)

// Notification es una fila dirigida a un usuario concreto.
// Message va pre-renderizado; Payload guarda el dato estructurado por si la UI
// quiere linkear (booking code, producto, etc).
type Notification struct {
	ID     string
	UserID string

	Type    Type
	Message string
	Payload json.RawMessage

	Read      bool
	CreatedAt time.Time
}
