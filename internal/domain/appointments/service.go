package appointments

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/SeanKennethDMS/PetPal-sub000/internal/domain/audit"
	"github.com/SeanKennethDMS/PetPal-sub000/internal/domain/catalog"
	"github.com/SeanKennethDMS/PetPal-sub000/internal/domain/notifications"
	"github.com/SeanKennethDMS/PetPal-sub000/internal/domain/pets"
	"github.com/SeanKennethDMS/PetPal-sub000/internal/platform/changefeed"
	"github.com/SeanKennethDMS/PetPal-sub000/internal/platform/logger"
	"github.com/SeanKennethDMS/PetPal-sub000/internal/ports/auth"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrBadState      = errors.New("invalid status transition")
	ErrPendingExists = errors.New("pending appointment exists for this pet")
	ErrNoOriginal    = errors.New("no original schedule to revert to")
)

// HH:MM de 24 horas, estricto.
var timeRe = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

const dateLayout = "2006-01-02"

// PetDirectory resuelve la mascota del turno (dueño + nombre para el mensaje).
type PetDirectory interface {
	GetByID(ctx context.Context, id string) (pets.Pet, error)
}

// ServiceCatalog valida servicio + sub-opción al reservar.
type ServiceCatalog interface {
	GetService(ctx context.Context, id string) (catalog.GroomService, error)
}

// Notifier es el fan-out post-transición. Los errores NUNCA revierten el
// cambio de estado: se loguean y el sistema acepta la divergencia.
type Notifier interface {
	Send(ctx context.Context, userID string, t notifications.Type, d notifications.TemplateData) (notifications.Notification, error)
	BroadcastToAdmins(ctx context.Context, t notifications.Type, d notifications.TemplateData) error
}

type Service struct {
	repo     Repository
	pets     PetDirectory
	catalog  ServiceCatalog
	notifier Notifier
	audit    *audit.Service
	feed     changefeed.Publisher
	log      logger.Logger
	now      func() time.Time
}

type Deps struct {
	Repo     Repository
	Pets     PetDirectory
	Catalog  ServiceCatalog
	Notifier Notifier
	Audit    *audit.Service
	Feed     changefeed.Publisher
	Log      logger.Logger
}

func NewService(d Deps) *Service {
	log := d.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:     d.Repo,
		pets:     d.Pets,
		catalog:  d.Catalog,
		notifier: d.Notifier,
		audit:    d.Audit,
		feed:     d.Feed,
		log:      log,
		now:      time.Now,
	}
}

type BookInput struct {
	PetID         string
	ServiceID     string
	ServiceOption string
	Date          string
	Time          string
}

// Book es el intake de reservas (§ booking form de la UI original):
// valida campos, chequea que la mascota no tenga otro pending y recién ahí
// inserta. El check-then-act no es atómico: dos reservas casi simultáneas
// pueden pasar ambas; es una carrera aceptada, no un invariante.
func (s *Service) Book(ctx context.Context, userID string, in BookInput) (Appointment, error) {
	userID = strings.TrimSpace(userID)
	petID := strings.TrimSpace(in.PetID)
	serviceID := strings.TrimSpace(in.ServiceID)
	date := strings.TrimSpace(in.Date)
	hhmm := strings.TrimSpace(in.Time)

	if userID == "" || petID == "" || serviceID == "" || date == "" || hhmm == "" {
		return Appointment{}, ErrInvalidInput
	}
	if !timeRe.MatchString(hhmm) {
		return Appointment{}, ErrInvalidInput
	}
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return Appointment{}, ErrInvalidInput
	}
	// No reservamos para ayer.
	today, _ := time.Parse(dateLayout, s.now().Format(dateLayout))
	if day.Before(today) {
		return Appointment{}, ErrInvalidInput
	}

	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return Appointment{}, ErrNotFound
	}
	if pet.OwnerUserID != userID {
		return Appointment{}, ErrForbidden
	}

	gs, err := s.catalog.GetService(ctx, serviceID)
	if err != nil {
		return Appointment{}, ErrNotFound
	}
	option := strings.TrimSpace(in.ServiceOption)
	if option == "" {
		option = catalog.DefaultOption
	}
	if _, ok := gs.PriceFor(option); !ok {
		return Appointment{}, ErrInvalidInput
	}

	// Existence-check previo al insert (modo count). Carrera aceptada.
	exists, err := s.repo.HasPendingForPet(ctx, petID)
	if err != nil {
		return Appointment{}, err
	}
	if exists {
		return Appointment{}, ErrPendingExists
	}

	now := s.now()
	a := Appointment{
		ID:            uuid.NewString(),
		BookingCode:   newBookingCode(now),
		UserID:        userID,
		PetID:         petID,
		ServiceID:     serviceID,
		ServiceOption: option,
		Date:          date,
		Time:          hhmm,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Appointment{}, err
	}

	s.recordAudit(ctx, userID, string(auth.RoleCustomer), audit.ActionAppointmentBooked, a.ID, map[string]string{
		"booking_code": a.BookingCode,
		"date":         a.Date,
		"time":         a.Time,
	})
	s.publish(ctx, changefeed.ActionInsert, a.ID)

	// Aviso a admins, aparte del insert del turno. Si falla, solo log.
	if s.notifier != nil {
		err := s.notifier.BroadcastToAdmins(ctx, notifications.TypeAppointmentPending, notifications.TemplateData{
			BookingCode: a.BookingCode,
			PetName:     pet.Name,
			ServiceName: gs.Name,
			Date:        a.Date,
			Time:        a.Time,
		})
		if err != nil {
			s.log.Error("admin notification failed after booking", map[string]any{
				"appointment_id": a.ID,
				"err":            err.Error(),
			})
		}
	}

	return a, nil
}

// Accept: pending -> accepted, o rescheduled -> accepted quedándose con la
// fecha nueva (los originales guardados se descartan).
func (s *Service) Accept(ctx context.Context, id string, by auth.Claims) (Appointment, error) {
	return s.applyTransition(ctx, id, by, StatusAccepted, notifications.TypeAppointmentAccepted, func(a *Appointment) error {
		a.OriginalDate = ""
		a.OriginalTime = ""
		return nil
	})
}

func (s *Service) Cancel(ctx context.Context, id string, by auth.Claims) (Appointment, error) {
	return s.applyTransition(ctx, id, by, StatusCancelled, notifications.TypeAppointmentCancelled, nil)
}

func (s *Service) NoShow(ctx context.Context, id string, by auth.Claims) (Appointment, error) {
	return s.applyTransition(ctx, id, by, StatusNoShow, notifications.TypeAppointmentNoShow, nil)
}

// Complete marca el turno y copia la fila al store de completados.
// La copia es posterior al update y best-effort (igual que la notificación).
func (s *Service) Complete(ctx context.Context, id string, by auth.Claims) (Appointment, error) {
	a, err := s.applyTransition(ctx, id, by, StatusCompleted, notifications.TypeAppointmentCompleted, func(a *Appointment) error {
		t := s.now()
		a.CompletedAt = &t
		return nil
	})
	if err != nil {
		return Appointment{}, err
	}

	if err := s.repo.CopyToCompleted(ctx, a); err != nil {
		s.log.Error("copy to completed store failed", map[string]any{
			"appointment_id": a.ID,
			"err":            err.Error(),
		})
	}
	return a, nil
}

// Reschedule guarda la fecha/hora vigente como original y pisa la viva.
func (s *Service) Reschedule(ctx context.Context, id, newDate, newTime string, by auth.Claims) (Appointment, error) {
	newDate = strings.TrimSpace(newDate)
	newTime = strings.TrimSpace(newTime)
	if newDate == "" || !timeRe.MatchString(newTime) {
		return Appointment{}, ErrInvalidInput
	}
	if _, err := time.Parse(dateLayout, newDate); err != nil {
		return Appointment{}, ErrInvalidInput
	}

	return s.applyTransition(ctx, id, by, StatusRescheduled, notifications.TypeAppointmentRescheduled, func(a *Appointment) error {
		a.OriginalDate = a.Date
		a.OriginalTime = a.Time
		a.Date = newDate
		a.Time = newTime
		return nil
	})
}

// RevertReschedule es la transición compensatoria: restaura la fecha/hora
// original, limpia los campos original_* y vuelve a accepted. Si no hay
// originales guardados, rechaza sin escribir nada.
func (s *Service) RevertReschedule(ctx context.Context, id string, by auth.Claims) (Appointment, error) {
	return s.applyTransition(ctx, id, by, StatusAccepted, notifications.TypeAppointmentReverted, func(a *Appointment) error {
		if a.OriginalDate == "" || a.OriginalTime == "" {
			return ErrNoOriginal
		}
		a.Date = a.OriginalDate
		a.Time = a.OriginalTime
		a.OriginalDate = ""
		a.OriginalTime = ""
		return nil
	})
}

func (s *Service) GetByID(ctx context.Context, id string) (Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Appointment{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByStatus(ctx context.Context, st Status) ([]Appointment, error) {
	return s.repo.ListByStatus(ctx, st)
}

func (s *Service) ListByOwner(ctx context.Context, userID string) ([]Appointment, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByOwner(ctx, userID)
}

// applyTransition es el contrato común de todas las transiciones:
// update incondicional keyed por ID (last write wins) + exactamente un intento
// de notificación al dueño. mutate corre antes del write y puede vetarlo.
func (s *Service) applyTransition(ctx context.Context, id string, by auth.Claims, to Status, ntype notifications.Type, mutate func(*Appointment) error) (Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Appointment{}, ErrInvalidInput
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, ErrNotFound
	}

	// Mismo estado = no-op: sin write y sin notificación duplicada.
	if a.Status == to {
		return a, nil
	}
	if !CanTransition(a.Status, to) {
		return Appointment{}, ErrBadState
	}

	from := a.Status
	oldDate, oldTime := a.Date, a.Time

	if mutate != nil {
		if err := mutate(&a); err != nil {
			return Appointment{}, err
		}
	}

	a.Status = to
	a.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, a); err != nil {
		return Appointment{}, err
	}

	s.recordAudit(ctx, by.UserID, string(by.Role), audit.ActionAppointmentTransition, a.ID, map[string]string{
		"from": string(from),
		"to":   string(to),
	})
	s.publish(ctx, changefeed.ActionUpdate, a.ID)
	s.notifyOwner(ctx, a, ntype, oldDate, oldTime)

	return a, nil
}

// notifyOwner intenta exactamente una notificación al cliente dueño del turno.
// Falla => log y nada más; el status ya cambió y no se revierte.
func (s *Service) notifyOwner(ctx context.Context, a Appointment, t notifications.Type, oldDate, oldTime string) {
	if s.notifier == nil {
		return
	}

	petName := ""
	if p, err := s.pets.GetByID(ctx, a.PetID); err == nil {
		petName = p.Name
	}

	_, err := s.notifier.Send(ctx, a.UserID, t, notifications.TemplateData{
		BookingCode: a.BookingCode,
		PetName:     petName,
		Date:        a.Date,
		Time:        a.Time,
		OldDate:     oldDate,
		OldTime:     oldTime,
	})
	if err != nil {
		s.log.Error("customer notification failed after transition", map[string]any{
			"appointment_id": a.ID,
			"type":           string(t),
			"err":            err.Error(),
		})
	}
}

func (s *Service) recordAudit(ctx context.Context, actorID, actorRole string, action audit.Action, targetID string, details any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.RecordDetails(ctx, actorID, actorRole, action, "appointment", targetID, details); err != nil {
		s.log.Warn("audit record failed", map[string]any{"action": string(action), "err": err.Error()})
	}
}

func (s *Service) publish(ctx context.Context, action changefeed.Action, rowID string) {
	if s.feed == nil {
		return
	}
	e := changefeed.Event{
		Table:  changefeed.TableAppointments,
		Action: action,
		RowID:  rowID,
		At:     s.now(),
	}
	if err := s.feed.Publish(ctx, e); err != nil {
		s.log.Warn("changefeed publish failed", map[string]any{"table": e.Table, "err": err.Error()})
	}
}
