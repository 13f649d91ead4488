package appointments

import (
	"net/http"
	"strings"

	"github.com/SeanKennethDMS/PetPal-sub000/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// El dashboard es same-origin detrás del mismo chi router.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RegisterWS monta el stream del dashboard: un socket por tab de estado.
// Cada mensaje es el snapshot completo del tab (invalidate-and-refetch);
// el cliente reemplaza su lista entera, nunca parchea.
func RegisterWS(r chi.Router, svc *Service, listener *RefreshListener) {
	r.Get("/ws/appointments", wsHandler(svc, listener))
}

func wsHandler(svc *Service, listener *RefreshListener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !claims.Role.IsAdminVariant() {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		status, okSt := ParseStatus(r.URL.Query().Get("status"))
		if !okSt {
			status = StatusPending
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return // Upgrade ya respondió el error
		}

		watcher := listener.Attach(status)
		// El detach va atado a la vida del socket: cerró el cliente, murió la
		// suscripción. Así no quedan subs duplicadas entre recargas de página.
		defer func() {
			listener.Detach(watcher)
			_ = conn.Close()
		}()

		// Snapshot inicial para no esperar al primer evento.
		if items, err := svc.ListByStatus(r.Context(), status); err == nil {
			if err := writeSnapshot(conn, items); err != nil {
				return
			}
		}

		// Read-loop solo para detectar el close del peer.
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-closed:
				return
			case <-r.Context().Done():
				return
			case items := <-watcher.Updates():
				if err := writeSnapshot(conn, items); err != nil {
					return
				}
			}
		}
	}
}

func writeSnapshot(conn *websocket.Conn, items []Appointment) error {
	out := make([]appointmentResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toAppointmentResponse(a))
	}
	return conn.WriteJSON(out)
}
