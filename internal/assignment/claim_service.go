package assignment

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	assignmenterrors "go-ats/internal/assignment/errors"
	"go-ats/internal/audit"
	"go-ats/internal/domain"
	"go-ats/internal/events"
	"go-ats/internal/manpower"
	"go-ats/internal/store"
)

// Claim assigns one approved applicant to a team lead against the
// lead's pooled manpower quota. Every check and both writes run inside
// one store transaction; the applicant row is read under lock first so
// two concurrent claims for the same applicant cannot both pass the
// already-assigned check.
func (s *service) Claim(ctx context.Context, actor domain.Actor, applicantID int, teamLeadEmail string) (ClaimResult, error) {
	tlEmail := domain.NormalizeEmail(teamLeadEmail)
	if actor.Role == domain.RoleTeamLead {
		tlEmail = domain.NormalizeEmail(actor.Email)
	}

	var (
		result          ClaimResult
		applicantBefore domain.Applicant
	)

	err := s.store.Transact(ctx, func(tx store.Store) error {
		applicantRec, err := tx.GetLocked(ctx, store.Applicants, applicantID)
		if err != nil {
			if err == store.ErrNotFound {
				return assignmenterrors.ErrApplicantNotFound
			}
			return err
		}
		var applicant domain.Applicant
		if err := store.Decode(applicantRec, &applicant); err != nil {
			return err
		}
		applicantBefore = applicant
		position := strings.TrimSpace(applicant.PositionAppliedFor)

		teamLead, err := findTeamLead(ctx, tx, tlEmail)
		if err != nil {
			return err
		}
		if teamLead == nil {
			return assignmenterrors.ErrTeamLeadNotFound
		}

		if position == "" {
			return assignmenterrors.ErrNoPositionField
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
			if a.ApplicantID == applicantID && a.IsActive() {
				return assignmenterrors.ErrAlreadyAssigned
			}
		}
		if applicant.Status == domain.ApplicantAssigned || applicant.AssignedUserID != 0 {
			return assignmenterrors.ErrAlreadyAssigned
		}

		if applicant.Status != domain.ApplicantApproved {
			return assignmenterrors.ErrNotApproved
		}

		requestRecs, err := tx.List(ctx, store.ManpowerRequests)
		if err != nil {
			return err
		}
		requests, err := store.DecodeAll[domain.ManpowerRequest](requestRecs)
		if err != nil {
			return err
		}

		matching := matchingRequests(requests, tlEmail, position)
		if len(matching) == 0 {
			return assignmenterrors.NoApprovedRequest(position)
		}

		totalLimit := 0
		for _, r := range matching {
			totalLimit += *r.Limit
		}
		// The cap pools across every matching request, so usage is
		// counted by (tlEmail, position), not by requestId.
		currentAssigned := manpower.CountActiveByTL(tlEmail, position, assignments)
		if currentAssigned >= totalLimit {
			return assignmenterrors.LimitReached(position)
		}

		// Most recently created request gets the bookkeeping credit.
		attributed := matching[len(matching)-1]

		now := time.Now().UTC().Format(time.RFC3339)
		tlName := domain.EmailLocalPart(tlEmail)

		updatedRec, err := tx.Update(ctx, store.Applicants, applicantID, store.Record{
			"status":         domain.ApplicantAssigned,
			"assignedUserId": teamLead.ID,
			"assignedTL":     tlEmail,
			"assignedTLName": tlName,
			"assignedDate":   now,
		})
		if err != nil {
			return err
		}
		if err := store.Decode(updatedRec, &result.Applicant); err != nil {
			return err
		}

		newAssignment := domain.Assignment{
			ApplicantID:          applicantID,
			ApplicantName:        applicant.Name,
			Age:                  applicant.Age,
			Education:            applicant.Education,
			Course:               applicant.Course,
			PositionAppliedFor:   applicant.PositionAppliedFor,
			CollectionExperience: applicant.CollectionExperience,
			Referral:             applicant.Referral,
			ResumeData:           applicant.ResumeData,
			PictureData:          applicant.PictureData,
			TLEmail:              tlEmail,
			TLName:               tlName,
			RequestID:            attributed.ID,
			AssignedBy:           actor.Email,
			AssignedDate:         now,
			Status:               domain.AssignmentActive,
		}
		rec := store.MustEncode(newAssignment)
		delete(rec, "id")

		savedRec, err := tx.Create(ctx, store.Assignments, rec)
		if err != nil {
			return err
		}
		return store.Decode(savedRec, &result.Assignment)
	})
	if err != nil {
		return ClaimResult{}, err
	}

	if err := s.audit.Record(ctx, actor, audit.ActionAssign, string(store.Applicants), applicantID, applicantBefore, result.Applicant); err != nil {
		s.logger.Warn("audit record failed", zap.Int("applicant_id", applicantID), zap.Error(err))
	}
	if err := s.audit.Record(ctx, actor, audit.ActionCreate, string(store.Assignments), result.Assignment.ID, nil, result.Assignment); err != nil {
		s.logger.Warn("audit record failed", zap.Int("assignment_id", result.Assignment.ID), zap.Error(err))
	}

	s.publisher.PublishAssignmentClaimed(ctx, events.AssignmentClaimed{
		AssignmentID:  result.Assignment.ID,
		ApplicantID:   result.Applicant.ID,
		ApplicantName: result.Applicant.Name,
		Position:      result.Assignment.PositionAppliedFor,
		TLEmail:       result.Assignment.TLEmail,
		TLName:        result.Assignment.TLName,
		RequestID:     result.Assignment.RequestID,
		AssignedBy:    result.Assignment.AssignedBy,
		AssignedDate:  result.Assignment.AssignedDate,
	})

	s.logger.Info("applicant claimed",
		zap.Int("applicant_id", result.Applicant.ID),
		zap.Int("assignment_id", result.Assignment.ID),
		zap.String("tl_email", result.Assignment.TLEmail),
		zap.Int("request_id", result.Assignment.RequestID),
	)
	return result, nil
}

// findTeamLead returns the team-lead user with the given email, nil
// when absent or when the user holds another role.
func findTeamLead(ctx context.Context, tx store.Store, email string) (*domain.User, error) {
	recs, err := tx.List(ctx, store.Users)
	if err != nil {
		return nil, err
	}
	users, err := store.DecodeAll[domain.User](recs)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if domain.NormalizeEmail(users[i].Email) == email && users[i].Role == domain.RoleTeamLead {
			return &users[i], nil
		}
	}
	return nil, nil
}

// matchingRequests filters approved requests with a decided limit for
// the team lead and position, sorted by id ascending.
func matchingRequests(requests []domain.ManpowerRequest, tlEmail, position string) []domain.ManpowerRequest {
	var matching []domain.ManpowerRequest
	for _, r := range requests {
		if r.Status != domain.RequestApproved || !r.HasLimit() {
			continue
		}
		if domain.NormalizeEmail(r.TeamLeadEmail) != tlEmail || r.Position != position {
			continue
		}
		matching = append(matching, r)
	}
	sort.Slice(matching, func(i, j int) bool { return matching[i].ID < matching[j].ID })
	return matching
}
