package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/SeanKennethDMS/PetPal-sub000/internal/platform/changefeed"
	"github.com/SeanKennethDMS/PetPal-sub000/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// AdminDirectory resuelve los destinatarios del broadcast a admins.
// Interface local para no importar el módulo users desde acá.
type AdminDirectory interface {
	ListAdminIDs(ctx context.Context) ([]string, error)
}

type Service struct {
	repo   Repository
	admins AdminDirectory
	feed   changefeed.Publisher
	log    logger.Logger
	now    func() time.Time
}

func NewService(repo Repository, admins AdminDirectory, feed changefeed.Publisher, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:   repo,
		admins: admins,
		feed:   feed,
		log:    log,
		now:    time.Now,
	}
}

// Send inserta una notificación para un destinatario.
// El caller típico (transición de turno, checkout) NO revierte su write si esto
// falla: el error sube para que lo loguee y siga.
func (s *Service) Send(ctx context.Context, userID string, t Type, d TemplateData) (Notification, error) {
	userID = strings.TrimSpace(userID)
	if _, err := uuid.Parse(userID); err != nil {
		return Notification{}, ErrInvalidInput
	}

	msg, err := Render(t, d)
	if err != nil {
		return Notification{}, err
	}

	payload, err := json.Marshal(d)
	if err != nil {
		return Notification{}, err
	}

	n := Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      t,
		Message:   msg,
		Payload:   payload,
		Read:      false,
		CreatedAt: s.now(),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return Notification{}, err
	}

	s.publish(ctx, changefeed.ActionInsert, n.ID)
	return n, nil
}

// BroadcastToAdmins inserta una fila por admin con el mismo mensaje renderizado.
// Best-effort por destinatario: un insert fallido se loguea y no frena al resto.
func (s *Service) BroadcastToAdmins(ctx context.Context, t Type, d TemplateData) error {
	if s.admins == nil {
		return errors.New("admin directory not configured")
	}

	ids, err := s.admins.ListAdminIDs(ctx)
	if err != nil {
		return err
	}

	msg, err := Render(t, d)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(d)
	if err != nil {
		return err
	}

	now := s.now()
	for _, id := range ids {
		n := Notification{
			ID:        uuid.NewString(),
			UserID:    id,
			Type:      t,
			Message:   msg,
			Payload:   payload,
			CreatedAt: now,
		}
		if err := s.repo.Create(ctx, n); err != nil {
			s.log.Error("notification insert failed", map[string]any{
				"user_id": id,
				"type":    string(t),
				"err":     err.Error(),
			})
			continue
		}
		s.publish(ctx, changefeed.ActionInsert, n.ID)
	}
	return nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Notification, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, id, userID string) error {
	id = strings.TrimSpace(id)
	userID = strings.TrimSpace(userID)
	if id == "" || userID == "" {
		return ErrInvalidInput
	}
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		return err
	}
	s.publish(ctx, changefeed.ActionUpdate, id)
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrInvalidInput
	}
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return err
	}
	s.publish(ctx, changefeed.ActionUpdate, "")
	return nil
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, ErrInvalidInput
	}
	return s.repo.CountUnread(ctx, userID)
}

// publish es fire-and-forget: el feed es señal, no parte de la transacción.
func (s *Service) publish(ctx context.Context, action changefeed.Action, rowID string) {
	if s.feed == nil {
		return
	}
	e := changefeed.Event{
		Table:  changefeed.TableNotifications,
		Action: action,
		RowID:  rowID,
		At:     s.now(),
	}
	if err := s.feed.Publish(ctx, e); err != nil {
		s.log.Warn("changefeed publish failed", map[string]any{"table": e.Table, "err": err.Error()})
	}
}
