package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/SeanKennethDMS/PetPal-sub000/internal/domain/pos"
)

type posRepo struct {
	mu    sync.RWMutex
	byID  map[string]pos.Transaction
	items map[string][]pos.TransactionItem // transaction_id -> líneas
}

func NewPOSRepo() pos.Repository {
	return &posRepo{
		byID:  make(map[string]pos.Transaction),
		items: make(map[string][]pos.TransactionItem),
	}
}

func (r *posRepo) CreateTransaction(ctx context.Context, t pos.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(t.ID) == "" {
		return errors.New("transaction id required")
	}
	if _, exists := r.byID[t.ID]; exists {
		return errors.New("transaction already exists")
	}
	r.byID[t.ID] = t
	return nil
}

func (r *posRepo) AddItem(ctx context.Context, it pos.TransactionItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[it.TransactionID]; !exists {
		return ErrNotFound
	}
	r.items[it.TransactionID] = append(r.items[it.TransactionID], it)
	return nil
}

func (r *posRepo) GetTransaction(ctx context.Context, id string) (pos.Transaction, []pos.TransactionItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	if !ok {
		return pos.Transaction{}, nil, ErrNotFound
	}

	items := make([]pos.TransactionItem, len(r.items[id]))
	copy(items, r.items[id])
	return t, items, nil
}

func (r *posRepo) ListRecent(ctx context.Context, limit int) ([]pos.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pos.Transaction, 0, len(r.byID))
	for _, t := range r.byID {
		out = append(out, t)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
