package appointments

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/SeanKennethDMS/PetPal-sub000/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/appointments", func(ar chi.Router) {
		ar.Post("/", bookHandler(svc))
		ar.Get("/", listHandler(svc))
		ar.Get("/{apptID}", getHandler(svc))

		// Transiciones: solo staff (el dashboard de turnos).
		ar.Group(func(op chi.Router) {
			op.Use(middleware.RequireAdmin)
			op.Post("/{apptID}/accept", transitionHandler(svc, actionAccept))
			op.Post("/{apptID}/cancel", transitionHandler(svc, actionCancel))
			op.Post("/{apptID}/no-show", transitionHandler(svc, actionNoShow))
			op.Post("/{apptID}/complete", transitionHandler(svc, actionComplete))
			op.Post("/{apptID}/reschedule", rescheduleHandler(svc))
			op.Post("/{apptID}/revert-reschedule", transitionHandler(svc, actionRevert))
		})
	})
}

type bookRequest struct {
	PetID         string `json:"pet_id"`
	ServiceID     string `json:"service_id"`
	ServiceOption string `json:"service_option"`
	Date          string `json:"date"` // YYYY-MM-DD
	Time          string `json:"time"` // HH:MM 24h
}

type rescheduleRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type appointmentResponse struct {
	ID            string     `json:"id"`
	BookingCode   string     `json:"booking_code"`
	UserID        string     `json:"user_id"`
	PetID         string     `json:"pet_id"`
	ServiceID     string     `json:"service_id"`
	ServiceOption string     `json:"service_option"`
	Date          string     `json:"date"`
	Time          string     `json:"time"`
	Status        string     `json:"status"`
	OriginalDate  string     `json:"original_date,omitempty"`
	OriginalTime  string     `json:"original_time,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

type transitionAction int

const (
	actionAccept transitionAction = iota
	actionCancel
	actionNoShow
	actionComplete
	actionRevert
)

func bookHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req bookRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.Book(r.Context(), claims.UserID, BookInput{
			PetID:         req.PetID,
			ServiceID:     req.ServiceID,
			ServiceOption: req.ServiceOption,
			Date:          req.Date,
			Time:          req.Time,
		})
		if err != nil {
			writeBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(a))
	}
}

func listHandler(svc *Service) http.HandlerFunc {
	// Staff lista por tab de estado (?status=); customers ven solo lo suyo.
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var (
			items []Appointment
			err   error
		)
		if claims.Role.IsAdminVariant() {
			st, okSt := ParseStatus(r.URL.Query().Get("status"))
			if !okSt {
				st = StatusPending
			}
			items, err = svc.ListByStatus(r.Context(), st)
		} else {
			items, err = svc.ListByOwner(r.Context(), claims.UserID)
		}
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]appointmentResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAppointmentResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "apptID"))
		if err != nil {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}

		if a.UserID != claims.UserID && !claims.Role.IsAdminVariant() {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

func transitionHandler(svc *Service, action transitionAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		id := chi.URLParam(r, "apptID")

		var (
			a   Appointment
			err error
		)
		switch action {
		case actionAccept:
			a, err = svc.Accept(r.Context(), id, claims)
		case actionCancel:
			a, err = svc.Cancel(r.Context(), id, claims)
		case actionNoShow:
			a, err = svc.NoShow(r.Context(), id, claims)
		case actionComplete:
			a, err = svc.Complete(r.Context(), id, claims)
		case actionRevert:
			a, err = svc.RevertReschedule(r.Context(), id, claims)
		}
		if err != nil {
			writeTransitionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

func rescheduleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req rescheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.Reschedule(r.Context(), chi.URLParam(r, "apptID"), req.Date, req.Time, claims)
		if err != nil {
			writeTransitionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

func writeBookingError(w http.ResponseWriter, err error) {
	switch err {
	case ErrInvalidInput:
		http.Error(w, err.Error(), http.StatusBadRequest)
	case ErrPendingExists:
		http.Error(w, err.Error(), http.StatusConflict)
	case ErrForbidden:
		http.Error(w, "forbidden", http.StatusForbidden)
	case ErrNotFound:
		http.Error(w, "pet or service not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeTransitionError(w http.ResponseWriter, err error) {
	switch err {
	case ErrInvalidInput:
		http.Error(w, err.Error(), http.StatusBadRequest)
	case ErrNotFound:
		http.Error(w, "appointment not found", http.StatusNotFound)
	case ErrBadState, ErrNoOriginal:
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toAppointmentResponse(a Appointment) appointmentResponse {
	return appointmentResponse{
		ID:            a.ID,
		BookingCode:   a.BookingCode,
		UserID:        a.UserID,
		PetID:         a.PetID,
		ServiceID:     a.ServiceID,
		ServiceOption: a.ServiceOption,
		Date:          a.Date,
		Time:          a.Time,
		Status:        string(a.Status),
		OriginalDate:  a.OriginalDate,
		OriginalTime:  a.OriginalTime,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
		CompletedAt:   a.CompletedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
