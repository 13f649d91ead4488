package changefeed

import (
	"context"
	"testing"
	"time"
)

func TestMemoryBus_PublishReachesSubscribers(t *testing.T) {
	bus := NewMemoryBus()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch1, err := bus.Subscribe(ctx, TableAppointments)
	if err != nil {
		t.Fatalf("Subscribe error: %v", err)
	}
	ch2, err := bus.Subscribe(ctx, TableAppointments)
	if err != nil {
		t.Fatalf("Subscribe error: %v", err)
	}
	other, err := bus.Subscribe(ctx, TableNotifications)
	if err != nil {
		t.Fatalf("Subscribe error: %v", err)
	}

	e := Event{Table: TableAppointments, Action: ActionInsert, RowID: "row-1"}
	if err := bus.Publish(ctx, e); err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case got := <-ch:
			if got.RowID != "row-1" || got.Action != ActionInsert {
				t.Fatalf("sub %d: unexpected event %+v", i, got)
			}
		case <-time.After(time.Second):
			t.Fatalf("sub %d: timed out", i)
		}
	}

	// la otra tabla no ve nada
	select {
	case got := <-other:
		t.Fatalf("notifications sub should not receive %+v", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemoryBus_SubscribeClosesOnCancel(t *testing.T) {
	bus := NewMemoryBus()

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := bus.Subscribe(ctx, TableAppointments)
	if err != nil {
		t.Fatalf("Subscribe error: %v", err)
	}

	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatalf("expected closed channel, got event")
		}
	case <-time.After(time.Second):
		t.Fatalf("channel not closed after cancel")
	}

	// publicar después de la baja no debe panicar ni llegar a nadie
	if err := bus.Publish(context.Background(), Event{Table: TableAppointments, RowID: "x"}); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
}

func TestMemoryBus_SlowSubscriberDropsNotBlocks(t *testing.T) {
	bus := NewMemoryBus()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := bus.Subscribe(ctx, TableAppointments); err != nil {
		t.Fatalf("Subscribe error: %v", err)
	}

	// llenar más allá del buffer: Publish nunca debe bloquear
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			_ = bus.Publish(ctx, Event{Table: TableAppointments, RowID: "x"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Publish blocked on slow subscriber")
	}
}
