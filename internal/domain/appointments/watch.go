package appointments

import (
	"context"
	"sync"
	"time"

	"github.com/SeanKennethDMS/PetPal-sub000/internal/platform/changefeed"
	"github.com/SeanKennethDMS/PetPal-sub000/internal/platform/logger"
)

// RefreshListener replica el patrón de la UI original: cualquier evento del
// feed de appointments invalida y se vuelve a correr la query completa del
// tab activo de cada watcher. Nunca aplica deltas incrementales (el feed no
// garantiza orden ni entrega completa); solo agrega la ventana de debounce
// para coalescer ráfagas.
type RefreshListener struct {
	svc      *Service
	sub      changefeed.Subscriber
	debounce time.Duration
	log      logger.Logger

	mu       sync.Mutex
	watchers map[*Watcher]struct{}
}

// Watcher es una suscripción de un dashboard: un tab de estado, un canal de
// snapshots. Se descarta al cerrar la conexión, así no quedan suscripciones
// duplicadas entre recargas.
type Watcher struct {
	status Status
	ch     chan []Appointment
}

func (w *Watcher) Updates() <-chan []Appointment { return w.ch }

func NewRefreshListener(svc *Service, sub changefeed.Subscriber, debounce time.Duration, log logger.Logger) *RefreshListener {
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RefreshListener{
		svc:      svc,
		sub:      sub,
		debounce: debounce,
		log:      log,
		watchers: make(map[*Watcher]struct{}),
	}
}

// Attach registra un watcher para un tab. El caller debe llamar a Detach.
func (l *RefreshListener) Attach(status Status) *Watcher {
	w := &Watcher{
		status: status,
		ch:     make(chan []Appointment, 1),
	}
	l.mu.Lock()
	l.watchers[w] = struct{}{}
	l.mu.Unlock()
	return w
}

func (l *RefreshListener) Detach(w *Watcher) {
	l.mu.Lock()
	delete(l.watchers, w)
	l.mu.Unlock()
}

// Run consume el feed hasta que el ctx muera.
// Eventos dentro de la ventana de debounce colapsan en un solo refetch.
func (l *RefreshListener) Run(ctx context.Context) error {
	events, err := l.sub.Subscribe(ctx, changefeed.TableAppointments)
	if err != nil {
		return err
	}

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-events:
			if !ok {
				return nil
			}
			if timer == nil {
				timer = time.NewTimer(l.debounce)
				fire = timer.C
			}
			// Timer ya pendiente: el evento se coalesce en el mismo refetch.
		case <-fire:
			timer = nil
			fire = nil
			l.refreshAll(ctx)
		}
	}
}

// refreshAll corre la query completa una vez por estado distinto y reparte
// el snapshot a cada watcher de ese tab.
func (l *RefreshListener) refreshAll(ctx context.Context) {
	l.mu.Lock()
	byStatus := make(map[Status][]*Watcher)
	for w := range l.watchers {
		byStatus[w.status] = append(byStatus[w.status], w)
	}
	l.mu.Unlock()

	for st, ws := range byStatus {
		items, err := l.svc.ListByStatus(ctx, st)
		if err != nil {
			l.log.Error("refresh query failed", map[string]any{"status": string(st), "err": err.Error()})
			continue
		}
		for _, w := range ws {
			// Entrega non-blocking: si el watcher tiene un snapshot sin leer,
			// lo reemplazamos por el fresco.
			select {
			case w.ch <- items:
			default:
				select {
				case <-w.ch:
				default:
				}
				select {
				case w.ch <- items:
				default:
				}
			}
		}
	}
}
