package changefeed

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisBus(t *testing.T) *RedisBus {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisBus(rdb)
}

func TestRedisBus_PublishSubscribe(t *testing.T) {
	bus := newTestRedisBus(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := bus.Subscribe(ctx, TableAppointments)
	if err != nil {
		t.Fatalf("Subscribe error: %v", err)
	}

	at := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	e := Event{Table: TableAppointments, Action: ActionUpdate, RowID: "row-1", At: at}
	if err := bus.Publish(ctx, e); err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	select {
	case got := <-ch:
		if got.Table != TableAppointments || got.Action != ActionUpdate || got.RowID != "row-1" {
			t.Fatalf("unexpected event %+v", got)
		}
		if !got.At.Equal(at) {
			t.Fatalf("expected At round-tripped, got %v", got.At)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event")
	}
}

func TestRedisBus_TablesAreIsolated(t *testing.T) {
	bus := newTestRedisBus(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notifCh, err := bus.Subscribe(ctx, TableNotifications)
	if err != nil {
		t.Fatalf("Subscribe error: %v", err)
	}

	if err := bus.Publish(ctx, Event{Table: TableAppointments, Action: ActionInsert, RowID: "row-1"}); err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	select {
	case got := <-notifCh:
		t.Fatalf("notifications channel should not receive %+v", got)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRedisBus_ChannelClosesOnCancel(t *testing.T) {
	bus := newTestRedisBus(t)

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := bus.Subscribe(ctx, TableAppointments)
	if err != nil {
		t.Fatalf("Subscribe error: %v", err)
	}

	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatalf("expected closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("channel not closed after cancel")
	}
}
