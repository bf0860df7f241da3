// Package domain holds the typed views of the persisted record shapes.
// JSON field names match the stored document exactly; fields that may be
// absent in legacy records use pointers or zero values so absence stays
// observable after a round-trip.
package domain

// Roles recognized by the system. A user's role never changes after
// creation.
const (
	RoleBoss     = "boss"
	RoleHR       = "hr"
	RoleTeamLead = "team-lead"
	RoleAdmin    = "admin"
)

// Applicant statuses.
const (
	ApplicantPending  = "pending"
	ApplicantApproved = "approved"
	ApplicantRejected = "rejected"
	ApplicantAssigned = "assigned"
)

// Manpower request statuses.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// Assignment statuses. An empty status on a stored assignment means
// active; records written before the status field existed rely on this.
const (
	AssignmentActive    = "active"
	AssignmentCompleted = "completed"
	AssignmentCancelled = "cancelled"
)

// Actor identifies the authenticated user performing an operation.
type Actor struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type User struct {
	ID                int    `json:"id"`
	Email             string `json:"email"`
	Password          string `json:"password,omitempty"`
	Role              string `json:"role"`
	CreatedAt         string `json:"createdAt,omitempty"`
	LastLogin         string `json:"lastLogin,omitempty"`
	TLAssignmentLimit *int   `json:"tlAssignmentLimit,omitempty"`
}

type Applicant struct {
	ID                   int    `json:"id"`
	Name                 string `json:"name"`
	Age                  int    `json:"age,omitempty"`
	Education            string `json:"education,omitempty"`
	Course               string `json:"course,omitempty"`
	PositionAppliedFor   string `json:"positionAppliedFor,omitempty"`
	CollectionExperience string `json:"collectionExperience,omitempty"`
	Referral             string `json:"referral,omitempty"`
	ResumeData           string `json:"resumeData,omitempty"`
	PictureData          string `json:"pictureData,omitempty"`
	Status               string `json:"status,omitempty"`
	AddedDate            string `json:"addedDate,omitempty"`
	AssignedUserID       int    `json:"assignedUserId,omitempty"`
	AssignedTL           string `json:"assignedTL,omitempty"`
	AssignedTLName       string `json:"assignedTLName,omitempty"`
	AssignedDate         string `json:"assignedDate,omitempty"`
}

type Assignment struct {
	ID                   int    `json:"id"`
	ApplicantID          int    `json:"applicantId"`
	ApplicantName        string `json:"applicantName,omitempty"`
	Age                  int    `json:"age,omitempty"`
	Education            string `json:"education,omitempty"`
	Course               string `json:"course,omitempty"`
	PositionAppliedFor   string `json:"positionAppliedFor,omitempty"`
	CollectionExperience string `json:"collectionExperience,omitempty"`
	Referral             string `json:"referral,omitempty"`
	ResumeData           string `json:"resumeData,omitempty"`
	PictureData          string `json:"pictureData,omitempty"`
	TLEmail              string `json:"tlEmail"`
	TLName               string `json:"tlName,omitempty"`
	RequestID            int    `json:"requestId,omitempty"`
	AssignedBy           string `json:"assignedBy,omitempty"`
	AssignedDate         string `json:"assignedDate,omitempty"`
	Status               string `json:"status,omitempty"`
}

// IsActive reports whether the assignment counts toward manpower usage.
// An absent status field is treated as active; records created before
// the status field existed must keep counting.
func (a Assignment) IsActive() bool {
	return a.Status == "" || a.Status == AssignmentActive
}

type ManpowerRequest struct {
	ID            int    `json:"id"`
	TeamLeadID    int    `json:"teamLeadId,omitempty"`
	TeamLeadName  string `json:"teamLeadName,omitempty"`
	TeamLeadEmail string `json:"teamLeadEmail"`
	Position      string `json:"position"`
	Count         int    `json:"count,omitempty"`
	Limit         *int   `json:"limit,omitempty"` // nil until an admin decides
	Status        string `json:"status,omitempty"`
	RequestDate   string `json:"requestDate,omitempty"`
	AssignedCount int    `json:"assignedCount,omitempty"` // derived, never stored truth
}

// HasLimit reports whether an admin has set the request's limit.
func (r ManpowerRequest) HasLimit() bool {
	return r.Limit != nil
}

type Session struct {
	ID        int    `json:"id"`
	UserID    int    `json:"userId"`
	Token     string `json:"token"`
	CreatedAt string `json:"createdAt"`
	ExpiresAt string `json:"expiresAt"`
}

type AuditLog struct {
	ID          int    `json:"id"`
	ActorUserID int    `json:"actorUserId"`
	ActorEmail  string `json:"actorEmail"`
	ActorRole   string `json:"actorRole"`
	Action      string `json:"action"`
	Entity      string `json:"entity"`
	EntityID    int    `json:"entityId"`
	BeforeData  any    `json:"beforeData,omitempty"`
	AfterData   any    `json:"afterData,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

// Settings is the singleton global configuration record. The global
// manpower ceiling predates per-request limits but dashboards still
// read it.
type Settings struct {
	ManPowerLimit int `json:"manPowerLimit"`
}
