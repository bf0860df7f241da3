package manpower

import (
	"context"
	"time"

	"go.uber.org/zap"

	"go-ats/internal/audit"
	"go-ats/internal/domain"
	manpowererrors "go-ats/internal/manpower/errors"
	"go-ats/internal/store"
)

type Service interface {
	// List returns requests with live assignedCount. Team leads only
	// receive their own rows.
	List(ctx context.Context, actor domain.Actor) ([]domain.ManpowerRequest, error)
	Get(ctx context.Context, actor domain.Actor, id int) (domain.ManpowerRequest, error)
	// Create files a request under the caller's own identity; the body
	// cannot impersonate another team lead.
	Create(ctx context.Context, actor domain.Actor, req CreateRequestRequest) (domain.ManpowerRequest, error)
	Update(ctx context.Context, actor domain.Actor, id int, req UpdateRequestRequest) (domain.ManpowerRequest, error)
	Delete(ctx context.Context, actor domain.Actor, id int) error
}

type service struct {
	store  store.Store
	audit  audit.Recorder
	logger *zap.Logger
}

func NewService(st store.Store, recorder audit.Recorder, logger ...*zap.Logger) Service {
	l := zap.L().Named("manpower.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("manpower.service")
	}
	return &service{store: st, audit: recorder, logger: l}
}

func validRequestStatus(status string) bool {
	switch status {
	case domain.RequestPending, domain.RequestApproved, domain.RequestRejected:
		return true
	}
	return false
}

func (s *service) List(ctx context.Context, actor domain.Actor) ([]domain.ManpowerRequest, error) {
	requests, assignments, err := s.load(ctx, s.store)
	if err != nil {
		return nil, err
	}

	if actor.Role == domain.RoleTeamLead {
		own := requests[:0]
		for _, r := range requests {
			if domain.NormalizeEmail(r.TeamLeadEmail) == domain.NormalizeEmail(actor.Email) {
				own = append(own, r)
			}
		}
		requests = own
	}

	return Annotate(requests, assignments), nil
}

func (s *service) Get(ctx context.Context, actor domain.Actor, id int) (domain.ManpowerRequest, error) {
	rec, err := s.store.Get(ctx, store.ManpowerRequests, id)
	if err != nil {
		if err == store.ErrNotFound {
			return domain.ManpowerRequest{}, manpowererrors.ErrRequestNotFound
		}
		return domain.ManpowerRequest{}, err
	}
	var req domain.ManpowerRequest
	if err := store.Decode(rec, &req); err != nil {
		return domain.ManpowerRequest{}, err
	}

	if actor.Role == domain.RoleTeamLead &&
		domain.NormalizeEmail(req.TeamLeadEmail) != domain.NormalizeEmail(actor.Email) {
		// Hidden rather than forbidden; team leads cannot probe other
		// leads' requests.
		return domain.ManpowerRequest{}, manpowererrors.ErrRequestNotFound
	}

	assignmentRecs, err := s.store.List(ctx, store.Assignments)
	if err != nil {
		return domain.ManpowerRequest{}, err
	}
	assignments, err := store.DecodeAll[domain.Assignment](assignmentRecs)
	if err != nil {
		return domain.ManpowerRequest{}, err
	}

	req.AssignedCount = AssignedCount(req, assignments)
	return req, nil
}

func (s *service) Create(ctx context.Context, actor domain.Actor, req CreateRequestRequest) (domain.ManpowerRequest, error) {
	if !domain.IsKnownPosition(req.Position) {
		return domain.ManpowerRequest{}, manpowererrors.ErrUnknownPosition
	}

	next := domain.ManpowerRequest{
		TeamLeadID:    actor.ID,
		TeamLeadName:  domain.EmailLocalPart(actor.Email),
		TeamLeadEmail: domain.NormalizeEmail(actor.Email),
		Position:      req.Position,
		Count:         req.Count,
		Status:        domain.RequestPending,
		RequestDate:   time.Now().UTC().Format(time.RFC3339),
	}
	rec := store.MustEncode(next)
	delete(rec, "id")
	// assignedCount is derived at read time, never stored.
	delete(rec, "assignedCount")

	saved, err := s.store.Create(ctx, store.ManpowerRequests, rec)
	if err != nil {
		return domain.ManpowerRequest{}, err
	}
	var created domain.ManpowerRequest
	if err := store.Decode(saved, &created); err != nil {
		return domain.ManpowerRequest{}, err
	}

	if err := s.audit.Record(ctx, actor, audit.ActionCreate, string(store.ManpowerRequests), created.ID, nil, created); err != nil {
		s.logger.Warn("audit record failed", zap.Int("request_id", created.ID), zap.Error(err))
	}

	s.logger.Info("manpower request filed",
		zap.Int("request_id", created.ID),
		zap.String("position", created.Position),
		zap.Int("count", created.Count),
	)
	return created, nil
}

func (s *service) Update(ctx context.Context, actor domain.Actor, id int, req UpdateRequestRequest) (domain.ManpowerRequest, error) {
	patch := store.Record{}
	if req.Position != nil {
		if !domain.IsKnownPosition(*req.Position) {
			return domain.ManpowerRequest{}, manpowererrors.ErrUnknownPosition
		}
		patch["position"] = *req.Position
	}
	if req.Count != nil {
		patch["count"] = *req.Count
	}
	if req.Limit != nil {
		if *req.Limit < 0 {
			return domain.ManpowerRequest{}, manpowererrors.ErrNegativeLimit
		}
		patch["limit"] = *req.Limit
	}
	if req.Status != nil {
		if !validRequestStatus(*req.Status) {
			return domain.ManpowerRequest{}, manpowererrors.ErrInvalidStatus
		}
		patch["status"] = *req.Status
	}

	var before, updated domain.ManpowerRequest
	err := s.store.Transact(ctx, func(tx store.Store) error {
		rec, err := tx.Get(ctx, store.ManpowerRequests, id)
		if err != nil {
			if err == store.ErrNotFound {
				return manpowererrors.ErrRequestNotFound
			}
			return err
		}
		if err := store.Decode(rec, &before); err != nil {
			return err
		}

		saved, err := tx.Update(ctx, store.ManpowerRequests, id, patch)
		if err != nil {
			return err
		}
		return store.Decode(saved, &updated)
	})
	if err != nil {
		return domain.ManpowerRequest{}, err
	}

	action := audit.ActionUpdate
	if req.Status != nil && before.Status != *req.Status {
		switch *req.Status {
		case domain.RequestApproved:
			action = audit.ActionApprove
		case domain.RequestRejected:
			action = audit.ActionReject
		}
	}
	if err := s.audit.Record(ctx, actor, action, string(store.ManpowerRequests), id, before, updated); err != nil {
		s.logger.Warn("audit record failed", zap.Int("request_id", id), zap.Error(err))
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, actor domain.Actor, id int) error {
	var before domain.ManpowerRequest
	err := s.store.Transact(ctx, func(tx store.Store) error {
		rec, err := tx.Get(ctx, store.ManpowerRequests, id)
		if err != nil {
			if err == store.ErrNotFound {
				return manpowererrors.ErrRequestNotFound
			}
			return err
		}
		if err := store.Decode(rec, &before); err != nil {
			return err
		}

		ok, err := tx.Delete(ctx, store.ManpowerRequests, id)
		if err != nil {
			return err
		}
		if !ok {
			return manpowererrors.ErrRequestNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.audit.Record(ctx, actor, audit.ActionDelete, string(store.ManpowerRequests), id, before, nil); err != nil {
		s.logger.Warn("audit record failed", zap.Int("request_id", id), zap.Error(err))
	}
	return nil
}

func (s *service) load(ctx context.Context, st store.Store) ([]domain.ManpowerRequest, []domain.Assignment, error) {
	requestRecs, err := st.List(ctx, store.ManpowerRequests)
	if err != nil {
		return nil, nil, err
	}
	requests, err := store.DecodeAll[domain.ManpowerRequest](requestRecs)
	if err != nil {
		return nil, nil, err
	}

	assignmentRecs, err := st.List(ctx, store.Assignments)
	if err != nil {
		return nil, nil, err
	}
	assignments, err := store.DecodeAll[domain.Assignment](assignmentRecs)
	if err != nil {
		return nil, nil, err
	}
	return requests, assignments, nil
}
