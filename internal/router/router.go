package router

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"time"

	mem "github.com/SeanKennethDMS/PetPal-sub000/internal/adapters/storage/memory"
	pg "github.com/SeanKennethDMS/PetPal-sub000/internal/adapters/storage/postgres"
	"github.com/SeanKennethDMS/PetPal-sub000/internal/domain/appointments"
	"github.com/SeanKennethDMS/PetPal-sub000/internal/domain/audit"
	"github.com/SeanKennethDMS/PetPal-sub000/internal/domain/catalog"
	"github.com/SeanKennethDMS/PetPal-sub000/internal/domain/notifications"
	"github.com/SeanKennethDMS/PetPal-sub000/internal/domain/pets"
	"github.com/SeanKennethDMS/PetPal-sub000/internal/domain/pos"
	"github.com/SeanKennethDMS/PetPal-sub000/internal/domain/users"
	"github.com/SeanKennethDMS/PetPal-sub000/internal/middleware"
	"github.com/SeanKennethDMS/PetPal-sub000/internal/platform/changefeed"
	"github.com/SeanKennethDMS/PetPal-sub000/internal/platform/logger"
	"github.com/SeanKennethDMS/PetPal-sub000/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
)

type Options struct {
	AuthVerifier auth.Verifier     // puede ser nil (modo dev)
	TokenIssuer  users.TokenIssuer // puede ser nil (login sin token)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: si viene, el change feed va por Redis pub/sub.
	// Si no, bus in-process (una sola instancia).
	Redis *redis.Client

	Log logger.Logger

	RefreshDebounce   time.Duration
	LowStockThreshold int
}

// NewRouter arma repos, services y rutas. El ctx gobierna el listener del
// change feed: al cancelarlo se cae la suscripción y los websockets dejan de
// recibir snapshots.
func NewRouter(ctx context.Context, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}

	var (
		petRepo     pets.Repository
		apptRepo    appointments.Repository
		notifRepo   notifications.Repository
		userRepo    users.Repository
		catalogRepo catalog.Repository
		posRepo     pos.Repository
		auditRepo   audit.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		petRepo = pg.NewPetsRepo(db)
		apptRepo = pg.NewAppointmentsRepo(db)
		notifRepo = pg.NewNotificationsRepo(db)
		userRepo = pg.NewUsersRepo(db)
		catalogRepo = pg.NewCatalogRepo(db)
		posRepo = pg.NewPOSRepo(db)
		auditRepo = pg.NewAuditRepo(db)
	} else {
		petRepo = mem.NewPetRepo()
		apptRepo = mem.NewAppointmentRepo()
		notifRepo = mem.NewNotificationRepo()
		userRepo = mem.NewUserRepo()
		catalogRepo = mem.NewCatalogRepo()
		posRepo = mem.NewPOSRepo()
		auditRepo = mem.NewAuditRepo()
	}

	// Bus de invalidación: Redis entre instancias, in-process en dev.
	var feed changefeed.Bus
	if opts.Redis != nil {
		feed = changefeed.NewRedisBus(opts.Redis)
	} else {
		feed = changefeed.NewMemoryBus()
	}

	// Services por módulo
	usersSvc := users.NewService(userRepo, opts.TokenIssuer)
	petsSvc := pets.NewService(petRepo)
	catalogSvc := catalog.NewService(catalogRepo)
	auditSvc := audit.NewService(auditRepo)
	notifSvc := notifications.NewService(notifRepo, usersSvc, feed, log)

	apptSvc := appointments.NewService(appointments.Deps{
		Repo:     apptRepo,
		Pets:     petsSvc,
		Catalog:  catalogSvc,
		Notifier: notifSvc,
		Audit:    auditSvc,
		Feed:     feed,
		Log:      log,
	})

	posSvc := pos.NewService(pos.Deps{
		Repo:              posRepo,
		Catalog:           catalogSvc,
		Notifier:          notifSvc,
		Audit:             auditSvc,
		Log:               log,
		LowStockThreshold: opts.LowStockThreshold,
	})

	// El listener refetchea listas por status cuando llega un evento del feed
	// y empuja snapshots a los websockets del dashboard.
	listener := appointments.NewRefreshListener(apptSvc, feed, opts.RefreshDebounce, log)
	go func() {
		if err := listener.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("refresh listener stopped", map[string]any{"error": err.Error()})
		}
	}()

	// Rutas por módulo
	users.RegisterRoutes(r, usersSvc)
	pets.RegisterRoutes(r, petsSvc)
	catalog.RegisterRoutes(r, catalogSvc)
	notifications.RegisterRoutes(r, notifSvc)
	appointments.RegisterRoutes(r, apptSvc)
	appointments.RegisterWS(r, apptSvc, listener)
	pos.RegisterRoutes(r, posSvc)
	audit.RegisterRoutes(r, auditSvc)

	return r
}
