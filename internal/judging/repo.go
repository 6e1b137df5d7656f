package judging

import "context"

type AssignmentListOpts struct {
	HackathonID string // optional
	JudgeID     string // optional
}

// Store is the judging engine's view of persistent state. Hackathons,
// projects, criteria and assignments are created by other subsystems; the
// Put methods exist for those writers and for tests.
type Store interface {
	GetHackathon(ctx context.Context, id string) (Hackathon, error)
	GetProject(ctx context.Context, id string) (Project, error)

	// ListCriteria returns criteria ordered by display_order then created_at.
	ListCriteria(ctx context.Context, hackathonID string, includeInactive bool) ([]Criterion, error)

	GetAssignment(ctx context.Context, hackathonID, userID string) (Assignment, error)
	ListAssignments(ctx context.Context, opts AssignmentListOpts) ([]Assignment, error)

	// ListProjectsByIDs resolves ids preserving input order; unknown ids are
	// skipped.
	ListProjectsByIDs(ctx context.Context, ids []string) ([]Project, error)

	// ScoredProjectIDs reports which of the judge's assigned projects have a
	// Score row, whatever its sync status.
	ScoredProjectIDs(ctx context.Context, judgeID string) (map[string]bool, error)

	GetScore(ctx context.Context, projectID, judgeID string) (Score, error)

	// UpsertScore writes the single Score row for (project, judge) via an
	// atomic conditional upsert. When finalize is true the same transaction
	// re-scans every non-draft score for the project, rewrites the project's
	// average_score and marks it reviewed; a recompute failure rolls the
	// score write back too.
	UpsertScore(ctx context.Context, s Score, finalize bool) (Score, error)

	PutHackathon(ctx context.Context, h Hackathon) error
	PutProject(ctx context.Context, p Project) error
	PutCriterion(ctx context.Context, c Criterion) error
	PutAssignment(ctx context.Context, a Assignment) error
}
