package assignment

import (
	"context"

	"go.uber.org/zap"

	assignmenterrors "go-ats/internal/assignment/errors"
	"go-ats/internal/audit"
	"go-ats/internal/domain"
	"go-ats/internal/events"
	"go-ats/internal/store"
)

type Service interface {
	// List returns assignments; team leads only receive their own rows.
	List(ctx context.Context, actor domain.Actor) ([]domain.Assignment, error)
	Get(ctx context.Context, actor domain.Actor, id int) (domain.Assignment, error)
	Claim(ctx context.Context, actor domain.Actor, applicantID int, teamLeadEmail string) (ClaimResult, error)
	Update(ctx context.Context, actor domain.Actor, id int, req UpdateAssignmentRequest) (domain.Assignment, error)
	Delete(ctx context.Context, actor domain.Actor, id int) error
}

type service struct {
	store     store.Store
	audit     audit.Recorder
	publisher events.Publisher
	logger    *zap.Logger
}

func NewService(st store.Store, recorder audit.Recorder, publisher events.Publisher, logger ...*zap.Logger) Service {
	l := zap.L().Named("assignment.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("assignment.service")
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &service{store: st, audit: recorder, publisher: publisher, logger: l}
}

func validAssignmentStatus(status string) bool {
	switch status {
	case domain.AssignmentActive, domain.AssignmentCompleted, domain.AssignmentCancelled:
		return true
	}
	return false
}

func (s *service) List(ctx context.Context, actor domain.Actor) ([]domain.Assignment, error) {
	recs, err := s.store.List(ctx, store.Assignments)
	if err != nil {
		return nil, err
	}
	assignments, err := store.DecodeAll[domain.Assignment](recs)
	if err != nil {
		return nil, err
	}

	if actor.Role == domain.RoleTeamLead {
		own := assignments[:0]
		for _, a := range assignments {
			if domain.NormalizeEmail(a.TLEmail) == domain.NormalizeEmail(actor.Email) {
				own = append(own, a)
			}
		}
		assignments = own
	}
	return assignments, nil
}

func (s *service) Get(ctx context.Context, actor domain.Actor, id int) (domain.Assignment, error) {
	rec, err := s.store.Get(ctx, store.Assignments, id)
	if err != nil {
		if err == store.ErrNotFound {
			return domain.Assignment{}, assignmenterrors.ErrAssignmentNotFound
		}
		return domain.Assignment{}, err
	}
	var a domain.Assignment
	if err := store.Decode(rec, &a); err != nil {
		return domain.Assignment{}, err
	}

	if actor.Role == domain.RoleTeamLead &&
		domain.NormalizeEmail(a.TLEmail) != domain.NormalizeEmail(actor.Email) {
		return domain.Assignment{}, assignmenterrors.ErrAssignmentNotFound
	}
	return a, nil
}

// Update changes an assignment's status. Cancelling or completing an
// assignment frees the team lead's ledger capacity on the next read;
// the applicant record is left untouched, reverting it is a separate
// administrative decision.
func (s *service) Update(ctx context.Context, actor domain.Actor, id int, req UpdateAssignmentRequest) (domain.Assignment, error) {
	patch := store.Record{}
	if req.Status != nil {
		if !validAssignmentStatus(*req.Status) {
			return domain.Assignment{}, assignmenterrors.ErrInvalidStatus
		}
		patch["status"] = *req.Status
	}

	var before, updated domain.Assignment
	err := s.store.Transact(ctx, func(tx store.Store) error {
		rec, err := tx.Get(ctx, store.Assignments, id)
		if err != nil {
			if err == store.ErrNotFound {
				return assignmenterrors.ErrAssignmentNotFound
			}
			return err
		}
		if err := store.Decode(rec, &before); err != nil {
			return err
		}

		saved, err := tx.Update(ctx, store.Assignments, id, patch)
		if err != nil {
			return err
		}
		return store.Decode(saved, &updated)
	})
	if err != nil {
		return domain.Assignment{}, err
	}

	if err := s.audit.Record(ctx, actor, audit.ActionUpdate, string(store.Assignments), id, before, updated); err != nil {
		s.logger.Warn("audit record failed", zap.Int("assignment_id", id), zap.Error(err))
	}

	if req.Status != nil && before.Status != updated.Status {
		s.logger.Info("assignment status changed",
			zap.Int("assignment_id", id),
			zap.String("from", before.Status),
			zap.String("to", updated.Status),
		)
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, actor domain.Actor, id int) error {
	var before domain.Assignment
	err := s.store.Transact(ctx, func(tx store.Store) error {
		rec, err := tx.Get(ctx, store.Assignments, id)
		if err != nil {
			if err == store.ErrNotFound {
				return assignmenterrors.ErrAssignmentNotFound
			}
			return err
		}
		if err := store.Decode(rec, &before); err != nil {
			return err
		}

		ok, err := tx.Delete(ctx, store.Assignments, id)
		if err != nil {
			return err
		}
		if !ok {
			return assignmenterrors.ErrAssignmentNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.audit.Record(ctx, actor, audit.ActionDelete, string(store.Assignments), id, before, nil); err != nil {
		s.logger.Warn("audit record failed", zap.Int("assignment_id", id), zap.Error(err))
	}
	return nil
}
