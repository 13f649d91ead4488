package changefeed

import (
	"context"
	"sync"
)

// MemoryBus es el bus in-process para dev y tests.
// Mismo split que los repos postgres/memory: si no hay Redis, corre esto.
type MemoryBus struct {
	mu   sync.Mutex
	subs map[string]map[chan Event]struct{} // table -> set de subs
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		subs: make(map[string]map[chan Event]struct{}),
	}
}

func (b *MemoryBus) Publish(ctx context.Context, e Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs[e.Table] {
		// Entrega non-blocking: un subscriber lento pierde eventos.
		// Está bien: el feed es invalidación, el próximo evento lo despierta igual.
		select {
		case ch <- e:
		default:
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(ctx context.Context, table string) (<-chan Event, error) {
	ch := make(chan Event, 16)

	b.mu.Lock()
	if b.subs[table] == nil {
		b.subs[table] = make(map[chan Event]struct{})
	}
	b.subs[table][ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs[table], ch)
		b.mu.Unlock()
		close(ch)
	}()

	return ch, nil
}
