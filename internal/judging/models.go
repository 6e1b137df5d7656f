package judging

// Hackathon lifecycle states. The lifecycle itself is owned elsewhere;
// this engine only reads status as a scoring precondition.
const (
	HackathonDraft     = "draft"
	HackathonActive    = "active"
	HackathonCompleted = "completed"
	HackathonCancelled = "cancelled"
)

// Project judging states. The reviewed transition is one-way and owned by
// the aggregation recompute.
const (
	ProjectSubmitted = "submitted"
	ProjectReviewed  = "reviewed"
)

// Score sync states. Anything other than draft counts toward the average.
const (
	SyncDraft   = "draft"
	SyncPending = "pending"
	SyncSynced  = "synced"
)

type Hackathon struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Status      string `json:"status"`
	OrganizerID string `json:"organizer_id,omitempty"`
	EndDate     int64  `json:"end_date,omitempty"`
	CreatedAt   int64  `json:"created_at,omitempty"`
}

type Project struct {
	ID           string  `json:"id"`
	HackathonID  string  `json:"hackathon_id"`
	Title        string  `json:"title"`
	Status       string  `json:"status"`
	AverageScore float64 `json:"average_score"`
}

type Criterion struct {
	ID          string  `json:"id"`
	HackathonID string  `json:"hackathon_id,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Weight      float64 `json:"weight"`
	MaxScore    float64 `json:"max_score"`
	MinScore    float64 `json:"min_score"`
	IsRequired  bool    `json:"is_required"`
	IsActive    bool    `json:"is_active"`

	DisplayOrder int   `json:"display_order"`
	CreatedAt    int64 `json:"created_at,omitempty"`
}

type Assignment struct {
	ID          string   `json:"id"`
	HackathonID string   `json:"hackathon_id"`
	UserID      string   `json:"user_id"`
	Role        string   `json:"role"`
	Expertise   string   `json:"expertise,omitempty"`
	ProjectIDs  []string `json:"project_ids"`
	CreatedAt   int64    `json:"created_at,omitempty"`
}

// Score is the ledger row for one (project, judge) pair. Values are keyed
// by the normalized criterion name (see NormalizeKey).
type Score struct {
	ID          string             `json:"id"`
	ProjectID   string             `json:"project_id"`
	JudgeID     string             `json:"judge_id"`
	HackathonID string             `json:"hackathon_id"`
	Values      map[string]float64 `json:"values"`
	TotalScore  float64            `json:"total_score"`
	Comments    string             `json:"comments,omitempty"`
	SyncStatus  string             `json:"sync_status"`
	CreatedAt   int64              `json:"created_at,omitempty"`
	UpdatedAt   int64              `json:"updated_at,omitempty"`
}

// ---- operation inputs/outputs ----

type SubmitInput struct {
	ProjectID   string
	HackathonID string
	JudgeID     string
	Role        string
	Values      map[string]float64
	Comments    string
	IsDraft     bool
}

type SubmitResult struct {
	ScoreID      string  `json:"score_id"`
	TotalScore   float64 `json:"total_score"`
	IsDraft      bool    `json:"is_draft"`
	ProjectTitle string  `json:"project_title"`
}

type CriteriaQuery struct {
	HackathonID     string
	CallerID        string
	CallerRole      string
	IncludeInactive bool
}

type CriteriaStats struct {
	Total       int     `json:"total"`
	Active      int     `json:"active"`
	Required    int     `json:"required"`
	WeightSum   float64 `json:"weight_sum"`
	MaxScoreSum float64 `json:"max_score_sum"`
}

type CriteriaPermissions struct {
	CanEdit         bool `json:"can_edit"`
	CanViewInactive bool `json:"can_view_inactive"`
}

type CriteriaResult struct {
	Hackathon   Hackathon           `json:"hackathon"`
	Criteria    []Criterion         `json:"criteria"`
	IsCustom    bool                `json:"is_custom"`
	Stats       CriteriaStats       `json:"statistics"`
	Permissions CriteriaPermissions `json:"permissions"`
}

type AssignmentQuery struct {
	HackathonID string
	JudgeID     string
	CallerID    string
	CallerRole  string
}

type ProjectBrief struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Status       string  `json:"status"`
	AverageScore float64 `json:"average_score"`
}

type AssignmentReport struct {
	Assignment    Assignment     `json:"assignment"`
	Scored        []ProjectBrief `json:"scored"`
	Pending       []ProjectBrief `json:"pending"`
	TotalAssigned int            `json:"total_assigned"`
	CompletionPct int            `json:"completion_rate"`
}

type AssignmentSummary struct {
	Assignments   int `json:"total_assignments"`
	Projects      int `json:"total_projects"`
	Scored        int `json:"total_scored"`
	Pending       int `json:"total_pending"`
	CompletionPct int `json:"completion_rate"`
}

type AssignmentsResult struct {
	Reports    []AssignmentReport `json:"assignments"`
	Summary    AssignmentSummary  `json:"summary"`
	CanViewAll bool               `json:"can_view_all"`
}
