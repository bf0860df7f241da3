package user

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"go-ats/internal/audit"
	"go-ats/internal/domain"
	"go-ats/internal/store"
	usererrors "go-ats/internal/user/errors"
)

type Service interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id int) (domain.User, error)
	Create(ctx context.Context, actor domain.Actor, req CreateUserRequest) (domain.User, error)
	Update(ctx context.Context, actor domain.Actor, id int, req UpdateUserRequest) (domain.User, error)
	Delete(ctx context.Context, actor domain.Actor, id int) error
}

type service struct {
	store  store.Store
	audit  audit.Recorder
	logger *zap.Logger
}

func NewService(st store.Store, recorder audit.Recorder, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{store: st, audit: recorder, logger: l}
}

func validRole(role string) bool {
	switch role {
	case domain.RoleBoss, domain.RoleHR, domain.RoleTeamLead, domain.RoleAdmin:
		return true
	}
	return false
}

func (s *service) List(ctx context.Context) ([]domain.User, error) {
	recs, err := s.store.List(ctx, store.Users)
	if err != nil {
		return nil, err
	}
	return store.DecodeAll[domain.User](recs)
}

func (s *service) Get(ctx context.Context, id int) (domain.User, error) {
	rec, err := s.store.Get(ctx, store.Users, id)
	if err != nil {
		if err == store.ErrNotFound {
			return domain.User{}, usererrors.ErrUserNotFound
		}
		return domain.User{}, err
	}
	var u domain.User
	if err := store.Decode(rec, &u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (s *service) Create(ctx context.Context, actor domain.Actor, req CreateUserRequest) (domain.User, error) {
	email := domain.NormalizeEmail(req.Email)
	if !domain.IsAllowedCompanyEmail(email) {
		return domain.User{}, usererrors.ErrCompanyEmailRequired
	}
	if !validRole(req.Role) {
		return domain.User{}, usererrors.ErrInvalidRole
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	var created domain.User
	err = s.store.Transact(ctx, func(tx store.Store) error {
		taken, err := emailTaken(ctx, tx, email, 0)
		if err != nil {
			return err
		}
		if taken {
			return usererrors.ErrEmailTaken
		}

		next := domain.User{
			Email:             email,
			Password:          string(hashed),
			Role:              req.Role,
			CreatedAt:         time.Now().UTC().Format(time.RFC3339),
			TLAssignmentLimit: req.TLAssignmentLimit,
		}
		rec := store.MustEncode(next)
		delete(rec, "id")

		saved, err := tx.Create(ctx, store.Users, rec)
		if err != nil {
			return err
		}
		return store.Decode(saved, &created)
	})
	if err != nil {
		return domain.User{}, err
	}

	if err := s.audit.Record(ctx, actor, audit.ActionCreate, string(store.Users), created.ID, nil, toResponse(created)); err != nil {
		s.logger.Warn("audit record failed", zap.Int("user_id", created.ID), zap.Error(err))
	}

	s.logger.Info("user created", zap.Int("user_id", created.ID), zap.String("role", created.Role))
	return created, nil
}

func (s *service) Update(ctx context.Context, actor domain.Actor, id int, req UpdateUserRequest) (domain.User, error) {
	patch := store.Record{}
	if req.Email != nil {
		email := domain.NormalizeEmail(*req.Email)
		if !domain.IsAllowedCompanyEmail(email) {
			return domain.User{}, usererrors.ErrCompanyEmailRequired
		}
		patch["email"] = email
	}
	if req.Password != nil && *req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return domain.User{}, err
		}
		patch["password"] = string(hashed)
	}
	if req.Role != nil {
		if !validRole(*req.Role) {
			return domain.User{}, usererrors.ErrInvalidRole
		}
		patch["role"] = *req.Role
	}
	if req.TLAssignmentLimit != nil {
		patch["tlAssignmentLimit"] = *req.TLAssignmentLimit
	}

	var before, updated domain.User
	err := s.store.Transact(ctx, func(tx store.Store) error {
		rec, err := tx.Get(ctx, store.Users, id)
		if err != nil {
			if err == store.ErrNotFound {
				return usererrors.ErrUserNotFound
			}
			return err
		}
		if err := store.Decode(rec, &before); err != nil {
			return err
		}

		if email, ok := patch["email"].(string); ok && email != domain.NormalizeEmail(before.Email) {
			taken, err := emailTaken(ctx, tx, email, id)
			if err != nil {
				return err
			}
			if taken {
				return usererrors.ErrEmailTaken
			}
		}

		saved, err := tx.Update(ctx, store.Users, id, patch)
		if err != nil {
			return err
		}
		return store.Decode(saved, &updated)
	})
	if err != nil {
		return domain.User{}, err
	}

	if err := s.audit.Record(ctx, actor, audit.ActionUpdate, string(store.Users), id, toResponse(before), toResponse(updated)); err != nil {
		s.logger.Warn("audit record failed", zap.Int("user_id", id), zap.Error(err))
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, actor domain.Actor, id int) error {
	var before domain.User
	err := s.store.Transact(ctx, func(tx store.Store) error {
		rec, err := tx.Get(ctx, store.Users, id)
		if err != nil {
			if err == store.ErrNotFound {
				return usererrors.ErrUserNotFound
			}
			return err
		}
		if err := store.Decode(rec, &before); err != nil {
			return err
		}

		ok, err := tx.Delete(ctx, store.Users, id)
		if err != nil {
			return err
		}
		if !ok {
			return usererrors.ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.audit.Record(ctx, actor, audit.ActionDelete, string(store.Users), id, toResponse(before), nil); err != nil {
		s.logger.Warn("audit record failed", zap.Int("user_id", id), zap.Error(err))
	}

	s.logger.Info("user deleted", zap.Int("user_id", id))
	return nil
}

func emailTaken(ctx context.Context, tx store.Store, email string, excludeID int) (bool, error) {
	recs, err := tx.List(ctx, store.Users)
	if err != nil {
		return false, err
	}
	users, err := store.DecodeAll[domain.User](recs)
	if err != nil {
		return false, err
	}
	for _, u := range users {
		if u.ID != excludeID && domain.NormalizeEmail(u.Email) == email {
			return true, nil
		}
	}
	return false, nil
}
