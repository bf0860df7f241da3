package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"go-ats/internal/applicant"
	"go-ats/internal/assignment"
	"go-ats/internal/audit"
	"go-ats/internal/auth"
	"go-ats/internal/authz"
	"go-ats/internal/config"
	"go-ats/internal/events"
	"go-ats/internal/manpower"
	"go-ats/internal/settings"
	"go-ats/internal/shared/connection"
	"go-ats/internal/store"
	"go-ats/internal/upload"
	"go-ats/internal/user"
)

// Registry holds every constructed component. Wiring lives here so the
// entrypoint stays a thin shell.
type Registry struct {
	Store     store.Store
	Redis     *redis.Client
	Gate      *authz.Gate
	Publisher events.Publisher

	AuthService       auth.Service
	AuditService      audit.Service
	UserService       user.Service
	ApplicantService  applicant.Service
	ManpowerService   manpower.Service
	AssignmentService assignment.Service
	SettingsService   settings.Service
	UploadService     upload.Service

	AuthHandler       *auth.Handler
	AuditHandler      *audit.Handler
	UserHandler       *user.Handler
	ApplicantHandler  *applicant.Handler
	ManpowerHandler   *manpower.Handler
	AssignmentHandler *assignment.Handler
	SettingsHandler   *settings.Handler
	UploadHandler     *upload.Handler
}

// NewRegistry builds the dependency graph for the API process.
func NewRegistry(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Registry, error) {
	st, err := buildStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	rdb, err := connection.OpenRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
	if err != nil {
		return nil, err
	}

	gate, err := authz.NewGate()
	if err != nil {
		return nil, fmt.Errorf("build authorization gate: %w", err)
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, logger)
	}

	uploadService, err := upload.NewService(cfg.UploadDir, logger)
	if err != nil {
		return nil, err
	}

	auditService := audit.NewService(st, logger)
	authService := auth.NewService(st, []byte(cfg.JWTSecret), logger)
	userService := user.NewService(st, auditService, logger)
	applicantService := applicant.NewService(st, auditService, logger)
	manpowerService := manpower.NewService(st, auditService, logger)
	assignmentService := assignment.NewService(st, auditService, publisher, logger)
	settingsService := settings.NewService(st, auditService, logger)

	return &Registry{
		Store:     st,
		Redis:     rdb,
		Gate:      gate,
		Publisher: publisher,

		AuthService:       authService,
		AuditService:      auditService,
		UserService:       userService,
		ApplicantService:  applicantService,
		ManpowerService:   manpowerService,
		AssignmentService: assignmentService,
		SettingsService:   settingsService,
		UploadService:     uploadService,

		AuthHandler:       auth.NewHandler(authService, logger),
		AuditHandler:      audit.NewHandler(auditService, logger),
		UserHandler:       user.NewHandler(userService, logger),
		ApplicantHandler:  applicant.NewHandler(applicantService, logger),
		ManpowerHandler:   manpower.NewHandler(manpowerService, logger),
		AssignmentHandler: assignment.NewHandler(assignmentService, rdb, logger),
		SettingsHandler:   settings.NewHandler(settingsService, logger),
		UploadHandler:     upload.NewHandler(uploadService, logger),
	}, nil
}

// buildStore selects the persistence backing from configuration. Both
// backings satisfy the same contract; everything above this point is
// unaware of which one is running.
func buildStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (store.Store, error) {
	switch cfg.StoreBacking {
	case "postgres":
		db, err := connection.OpenPostgres(cfg.DatabaseDSN, logger)
		if err != nil {
			return nil, err
		}
		gs := store.NewGormStore(db, logger)
		if err := gs.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return gs, nil
	default:
		return store.NewFileStore(cfg.StoreFile, logger), nil
	}
}

// Close releases held connections.
func (r *Registry) Close() error {
	if r.Publisher != nil {
		if err := r.Publisher.Close(); err != nil {
			return err
		}
	}
	if r.Redis != nil {
		return r.Redis.Close()
	}
	return nil
}
