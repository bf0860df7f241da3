package applicant

import (
	"context"
	"time"

	"go.uber.org/zap"

	applicanterrors "go-ats/internal/applicant/errors"
	"go-ats/internal/audit"
	"go-ats/internal/domain"
	"go-ats/internal/store"
)

type Service interface {
	List(ctx context.Context) ([]domain.Applicant, error)
	Get(ctx context.Context, id int) (domain.Applicant, error)
	Create(ctx context.Context, actor domain.Actor, req CreateApplicantRequest) (domain.Applicant, error)
	Update(ctx context.Context, actor domain.Actor, id int, req UpdateApplicantRequest) (domain.Applicant, error)
	// Delete removes the applicant and cascades to its assignments so
	// the manpower ledger does not keep counting a vanished hire.
	Delete(ctx context.Context, actor domain.Actor, id int) error
}

type service struct {
	store  store.Store
	audit  audit.Recorder
	logger *zap.Logger
}

func NewService(st store.Store, recorder audit.Recorder, logger ...*zap.Logger) Service {
	l := zap.L().Named("applicant.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("applicant.service")
	}
	return &service{store: st, audit: recorder, logger: l}
}

func validApplicantStatus(status string) bool {
	switch status {
	case domain.ApplicantPending, domain.ApplicantApproved, domain.ApplicantRejected, domain.ApplicantAssigned:
		return true
	}
	return false
}

func (s *service) List(ctx context.Context) ([]domain.Applicant, error) {
	recs, err := s.store.List(ctx, store.Applicants)
	if err != nil {
		return nil, err
	}
	return store.DecodeAll[domain.Applicant](recs)
}

func (s *service) Get(ctx context.Context, id int) (domain.Applicant, error) {
	rec, err := s.store.Get(ctx, store.Applicants, id)
	if err != nil {
		if err == store.ErrNotFound {
			return domain.Applicant{}, applicanterrors.ErrApplicantNotFound
		}
		return domain.Applicant{}, err
	}
	var a domain.Applicant
	if err := store.Decode(rec, &a); err != nil {
		return domain.Applicant{}, err
	}
	return a, nil
}

func (s *service) Create(ctx context.Context, actor domain.Actor, req CreateApplicantRequest) (domain.Applicant, error) {
	next := domain.Applicant{
		Name:                 req.Name,
		Age:                  req.Age,
		Education:            req.Education,
		Course:               req.Course,
		PositionAppliedFor:   req.PositionAppliedFor,
		CollectionExperience: req.CollectionExperience,
		Referral:             req.Referral,
		ResumeData:           req.ResumeData,
		PictureData:          req.PictureData,
		Status:               domain.ApplicantPending,
		AddedDate:            time.Now().UTC().Format(time.RFC3339),
	}
	rec := store.MustEncode(next)
	delete(rec, "id")

	saved, err := s.store.Create(ctx, store.Applicants, rec)
	if err != nil {
		return domain.Applicant{}, err
	}
	var created domain.Applicant
	if err := store.Decode(saved, &created); err != nil {
		return domain.Applicant{}, err
	}

	if err := s.audit.Record(ctx, actor, audit.ActionCreate, string(store.Applicants), created.ID, nil, created); err != nil {
		s.logger.Warn("audit record failed", zap.Int("applicant_id", created.ID), zap.Error(err))
	}

	s.logger.Info("applicant created",
		zap.Int("applicant_id", created.ID),
		zap.String("position", created.PositionAppliedFor),
	)
	return created, nil
}

func (s *service) Update(ctx context.Context, actor domain.Actor, id int, req UpdateApplicantRequest) (domain.Applicant, error) {
	patch := store.Record{}
	if req.Name != nil {
		patch["name"] = *req.Name
	}
	if req.Age != nil {
		patch["age"] = *req.Age
	}
	if req.Education != nil {
		patch["education"] = *req.Education
	}
	if req.Course != nil {
		patch["course"] = *req.Course
	}
	if req.PositionAppliedFor != nil {
		patch["positionAppliedFor"] = *req.PositionAppliedFor
	}
	if req.CollectionExperience != nil {
		patch["collectionExperience"] = *req.CollectionExperience
	}
	if req.Referral != nil {
		patch["referral"] = *req.Referral
	}
	if req.ResumeData != nil {
		patch["resumeData"] = *req.ResumeData
	}
	if req.PictureData != nil {
		patch["pictureData"] = *req.PictureData
	}
	if req.Status != nil {
		if !validApplicantStatus(*req.Status) {
			return domain.Applicant{}, applicanterrors.ErrInvalidStatus
		}
		patch["status"] = *req.Status
	}

	var before, updated domain.Applicant
	err := s.store.Transact(ctx, func(tx store.Store) error {
		rec, err := tx.Get(ctx, store.Applicants, id)
		if err != nil {
			if err == store.ErrNotFound {
				return applicanterrors.ErrApplicantNotFound
			}
			return err
		}
		if err := store.Decode(rec, &before); err != nil {
			return err
		}

		saved, err := tx.Update(ctx, store.Applicants, id, patch)
		if err != nil {
			return err
		}
		return store.Decode(saved, &updated)
	})
	if err != nil {
		return domain.Applicant{}, err
	}

	action := audit.ActionUpdate
	if req.Status != nil && before.Status != *req.Status {
		switch *req.Status {
		case domain.ApplicantApproved:
			action = audit.ActionApprove
		case domain.ApplicantRejected:
			action = audit.ActionReject
		}
	}
	if err := s.audit.Record(ctx, actor, action, string(store.Applicants), id, before, updated); err != nil {
		s.logger.Warn("audit record failed", zap.Int("applicant_id", id), zap.Error(err))
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, actor domain.Actor, id int) error {
	var before domain.Applicant
	var removedAssignments []int

	err := s.store.Transact(ctx, func(tx store.Store) error {
		rec, err := tx.Get(ctx, store.Applicants, id)
		if err != nil {
			if err == store.ErrNotFound {
				return applicanterrors.ErrApplicantNotFound
			}
			return err
		}
		if err := store.Decode(rec, &before); err != nil {
			return err
		}

		assignmentRecs, err := tx.List(ctx, store.Assignments)
		if err != nil {
			return err
		}
		assignments, err := store.DecodeAll[domain.Assignment](assignmentRecs)
		if err != nil {
			return err
		}
		for _, a := range assignments {
			if a.ApplicantID != id {
				continue
			}
			if _, err := tx.Delete(ctx, store.Assignments, a.ID); err != nil {
				return err
			}
			removedAssignments = append(removedAssignments, a.ID)
		}

		ok, err := tx.Delete(ctx, store.Applicants, id)
		if err != nil {
			return err
		}
		if !ok {
			return applicanterrors.ErrApplicantNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.audit.Record(ctx, actor, audit.ActionDelete, string(store.Applicants), id, before, nil); err != nil {
		s.logger.Warn("audit record failed", zap.Int("applicant_id", id), zap.Error(err))
	}

	s.logger.Info("applicant deleted",
		zap.Int("applicant_id", id),
		zap.Ints("cascaded_assignments", removedAssignments),
	)
	return nil
}
