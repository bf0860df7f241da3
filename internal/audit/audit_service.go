package audit

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"go-ats/internal/domain"
	"go-ats/internal/store"
)

// Actions recorded in the trail.
const (
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionAssign  = "assign"
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// Recorder appends immutable before/after snapshots of mutations. The
// trail is append-only; nothing in the core edits or deletes entries.
type Recorder interface {
	Record(ctx context.Context, actor domain.Actor, action, entity string, entityID int, before, after any) error
}

type Service interface {
	Recorder
	// List returns the trail most-recent-first. Read access is
	// admin-only, enforced at the route.
	List(ctx context.Context) ([]domain.AuditLog, error)
}

type service struct {
	store  store.Store
	logger *zap.Logger
}

func NewService(st store.Store, logger ...*zap.Logger) Service {
	l := zap.L().Named("audit.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.service")
	}
	return &service{store: st, logger: l}
}

func (s *service) Record(ctx context.Context, actor domain.Actor, action, entity string, entityID int, before, after any) error {
	entry := domain.AuditLog{
		ActorUserID: actor.ID,
		ActorEmail:  actor.Email,
		ActorRole:   actor.Role,
		Action:      action,
		Entity:      entity,
		EntityID:    entityID,
		BeforeData:  before,
		AfterData:   after,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}

	rec, err := store.Encode(entry)
	if err != nil {
		return err
	}
	delete(rec, "id")

	if _, err := s.store.Create(ctx, store.AuditLogs, rec); err != nil {
		s.logger.Error("append audit record failed",
			zap.String("action", action),
			zap.String("entity", entity),
			zap.Int("entity_id", entityID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) List(ctx context.Context) ([]domain.AuditLog, error) {
	recs, err := s.store.List(ctx, store.AuditLogs)
	if err != nil {
		return nil, err
	}
	logs, err := store.DecodeAll[domain.AuditLog](recs)
	if err != nil {
		return nil, err
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].ID > logs[j].ID })
	return logs, nil
}
