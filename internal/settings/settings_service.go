package settings

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"go-ats/internal/audit"
	"go-ats/internal/domain"
	"go-ats/internal/shared/apperror"
	"go-ats/internal/store"
)

var errNegativeLimit = apperror.New(
	apperror.CodeInvalidInput,
	"Manpower limit must be zero or greater",
	http.StatusBadRequest,
)

type Service interface {
	Get(ctx context.Context) (domain.Settings, error)
	Update(ctx context.Context, actor domain.Actor, req UpdateSettingsRequest) (domain.Settings, error)
}

type service struct {
	store  store.Store
	audit  audit.Recorder
	logger *zap.Logger
}

func NewService(st store.Store, recorder audit.Recorder, logger ...*zap.Logger) Service {
	l := zap.L().Named("settings.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("settings.service")
	}
	return &service{store: st, audit: recorder, logger: l}
}

func (s *service) Get(ctx context.Context) (domain.Settings, error) {
	rec, err := s.store.Settings(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	var out domain.Settings
	if err := store.Decode(rec, &out); err != nil {
		return domain.Settings{}, err
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, actor domain.Actor, req UpdateSettingsRequest) (domain.Settings, error) {
	patch := store.Record{}
	if req.ManPowerLimit != nil {
		if *req.ManPowerLimit < 0 {
			return domain.Settings{}, errNegativeLimit
		}
		patch["manPowerLimit"] = *req.ManPowerLimit
	}

	var before, updated domain.Settings
	err := s.store.Transact(ctx, func(tx store.Store) error {
		rec, err := tx.Settings(ctx)
		if err != nil {
			return err
		}
		if err := store.Decode(rec, &before); err != nil {
			return err
		}

		saved, err := tx.UpdateSettings(ctx, patch)
		if err != nil {
			return err
		}
		return store.Decode(saved, &updated)
	})
	if err != nil {
		return domain.Settings{}, err
	}

	if err := s.audit.Record(ctx, actor, audit.ActionUpdate, "settings", 0, before, updated); err != nil {
		s.logger.Warn("audit record failed", zap.Error(err))
	}

	s.logger.Info("settings updated", zap.Int("man_power_limit", updated.ManPowerLimit))
	return updated, nil
}
