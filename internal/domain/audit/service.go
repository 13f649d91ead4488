package audit

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidInput = errors.New("invalid input")

const defaultListLimit = 100

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Record inserta una entrada. Los callers la tratan como best-effort:
// un audit fallido se loguea y la operación de negocio sigue.
func (s *Service) Record(ctx context.Context, e Entry) error {
	if strings.TrimSpace(string(e.Action)) == "" {
		return ErrInvalidInput
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	return s.repo.Create(ctx, e)
}

// RecordDetails arma el Entry serializando details como JSON.
func (s *Service) RecordDetails(ctx context.Context, actorID, actorRole string, action Action, targetType, targetID string, details any) error {
	var raw json.RawMessage
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			return err
		}
		raw = b
	}
	return s.Record(ctx, Entry{
		ActorID:    actorID,
		ActorRole:  actorRole,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    raw,
	})
}

func (s *Service) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = defaultListLimit
	}
	return s.repo.ListRecent(ctx, limit)
}
