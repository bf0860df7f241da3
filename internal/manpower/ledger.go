package manpower

import "go-ats/internal/domain"

// AssignedCount computes a request's live usage from the assignment
// collection. Assignments carrying the request's id count directly.
// Assignments written before requestId existed carry none, so they
// count when their (tlEmail, positionAppliedFor) pair matches the
// request. Requiring requestId unconditionally would undercount those
// legacy records.
func AssignedCount(req domain.ManpowerRequest, assignments []domain.Assignment) int {
	count := 0
	for _, a := range assignments {
		if !a.IsActive() {
			continue
		}
		if a.RequestID == req.ID {
			count++
			continue
		}
		if a.RequestID == 0 && a.TLEmail == req.TeamLeadEmail && a.PositionAppliedFor == req.Position {
			count++
		}
	}
	return count
}

// Annotate returns a copy of each request with its AssignedCount
// recomputed. Stored requests are never mutated; the count must always
// reflect live assignment state, including cancellations.
func Annotate(requests []domain.ManpowerRequest, assignments []domain.Assignment) []domain.ManpowerRequest {
	out := make([]domain.ManpowerRequest, len(requests))
	for i, req := range requests {
		annotated := req
		annotated.AssignedCount = AssignedCount(req, assignments)
		out[i] = annotated
	}
	return out
}

// CountActiveByTL counts active assignments held by a team lead for a
// position, regardless of which request they were attributed to. The
// claim limit is pooled across all matching requests, so the usage side
// must pool the same way.
func CountActiveByTL(tlEmail, position string, assignments []domain.Assignment) int {
	count := 0
	for _, a := range assignments {
		if a.IsActive() && a.TLEmail == tlEmail && a.PositionAppliedFor == position {
			count++
		}
	}
	return count
}
