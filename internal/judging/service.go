package judging

import (
	"context"
	"errors"
	"log"
	"math"

	"github.com/google/uuid"

	"github.com/hackforge/hackforge/internal/rbac"
)

// Archiver receives the accepted submission payload after commit.
// Failures are logged, never surfaced: the ledger write already happened.
type Archiver interface {
	ArchiveScore(ctx context.Context, s Score) (string, error)
}

// EventSink receives score.finalized notifications after commit.
type EventSink interface {
	ScoreFinalized(ctx context.Context, s Score) error
}

type Option func(*Service)

func WithChecker(c *rbac.Checker) Option { return func(s *Service) { s.checker = c } }
func WithArchiver(a Archiver) Option     { return func(s *Service) { s.archiver = a } }
func WithEventSink(e EventSink) Option   { return func(s *Service) { s.events = e } }
func WithLogger(l *log.Logger) Option    { return func(s *Service) { s.log = l } }

// Service is the judging engine: criteria retrieval with defaulting, score
// submission with validation and aggregation, assignment progress.
type Service struct {
	store    Store
	checker  *rbac.Checker
	archiver Archiver
	events   EventSink
	log      *log.Logger
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:   store,
		checker: rbac.NewChecker(nil),
		log:     log.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// GetCriteria returns the hackathon's rubric ordered by display order, or
// the synthetic default rubric when none is defined. Statistics and
// permissions are derived on every call.
func (s *Service) GetCriteria(ctx context.Context, q CriteriaQuery) (CriteriaResult, error) {
	h, err := s.store.GetHackathon(ctx, q.HackathonID)
	if err != nil {
		return CriteriaResult{}, err
	}

	isOrganizer := q.CallerID != "" && q.CallerID == h.OrganizerID
	canViewInactive := isOrganizer || s.checker.Has(q.CallerRole, "criteria:view-inactive")
	if q.IncludeInactive && !canViewInactive {
		return CriteriaResult{}, ErrUnauthorized
	}

	criteria, err := s.store.ListCriteria(ctx, q.HackathonID, q.IncludeInactive)
	if err != nil {
		return CriteriaResult{}, err
	}
	isCustom := len(criteria) > 0
	if !isCustom {
		criteria = DefaultRubric(q.HackathonID)
	}

	return CriteriaResult{
		Hackathon: h,
		Criteria:  criteria,
		IsCustom:  isCustom,
		Stats:     Stats(criteria),
		Permissions: CriteriaPermissions{
			CanEdit:         isOrganizer || s.checker.Has(q.CallerRole, "criteria:edit"),
			CanViewInactive: canViewInactive,
		},
	}, nil
}

// SubmitScore validates and writes one judge's score for one project.
// Preconditions run in a fixed order; the first failure wins and nothing
// is written. A non-draft submission triggers the aggregation recompute
// inside the same transaction as the ledger write.
func (s *Service) SubmitScore(ctx context.Context, in SubmitInput) (SubmitResult, error) {
	// 1. capability
	if !s.checker.Has(in.Role, "score:submit") {
		return SubmitResult{}, ErrUnauthorized
	}

	// 2. explicit assignment, unless the role bypasses it
	if !s.checker.Has(in.Role, "score:submit-any") {
		if _, err := s.store.GetAssignment(ctx, in.HackathonID, in.JudgeID); err != nil {
			if errors.Is(err, ErrAssignmentNotFound) {
				return SubmitResult{}, ErrNotAssigned
			}
			return SubmitResult{}, err
		}
	}

	// 3. project exists and belongs to the stated hackathon
	project, err := s.store.GetProject(ctx, in.ProjectID)
	if err != nil {
		return SubmitResult{}, err
	}
	if project.HackathonID != in.HackathonID {
		return SubmitResult{}, ErrProjectNotFound
	}

	// 4. hackathon stage gate
	h, err := s.store.GetHackathon(ctx, in.HackathonID)
	if err != nil {
		return SubmitResult{}, err
	}
	if h.Status != HackathonActive && h.Status != HackathonCompleted {
		return SubmitResult{}, ErrHackathonNotScorable
	}

	// 5. criteria validation; whole submission rejected on first failure
	criteria, err := s.store.ListCriteria(ctx, in.HackathonID, false)
	if err != nil {
		return SubmitResult{}, err
	}
	if len(criteria) == 0 {
		criteria = DefaultRubric(in.HackathonID)
	}
	values, err := validateValues(criteria, in.Values)
	if err != nil {
		return SubmitResult{}, err
	}

	status := SyncSynced
	if in.IsDraft {
		status = SyncDraft
	}
	saved, err := s.store.UpsertScore(ctx, Score{
		ID:          uuid.NewString(),
		ProjectID:   in.ProjectID,
		JudgeID:     in.JudgeID,
		HackathonID: in.HackathonID,
		Values:      values,
		TotalScore:  TotalScore(values),
		Comments:    in.Comments,
		SyncStatus:  status,
	}, !in.IsDraft)
	if err != nil {
		return SubmitResult{}, err
	}

	if !in.IsDraft {
		if s.events != nil {
			if err := s.events.ScoreFinalized(ctx, saved); err != nil {
				s.log.Printf("event log append failed for score %s: %v", saved.ID, err)
			}
		}
		if s.archiver != nil {
			if _, err := s.archiver.ArchiveScore(ctx, saved); err != nil {
				s.log.Printf("score archive failed for score %s: %v", saved.ID, err)
			}
		}
	}

	return SubmitResult{
		ScoreID:      saved.ID,
		TotalScore:   saved.TotalScore,
		IsDraft:      in.IsDraft,
		ProjectTitle: project.Title,
	}, nil
}

// validateValues matches submitted keys against active criteria by
// normalized name, enforces per-criterion bounds and the required set, and
// returns the values re-keyed by normalized criterion name.
func validateValues(criteria []Criterion, submitted map[string]float64) (map[string]float64, error) {
	byKey := make(map[string]Criterion, len(criteria))
	for _, c := range criteria {
		if c.IsActive {
			byKey[NormalizeKey(c.Name)] = c
		}
	}

	out := make(map[string]float64, len(submitted))
	for k, v := range submitted {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrMalformedPayload
		}
		nk := NormalizeKey(k)
		c, ok := byKey[nk]
		if !ok {
			return nil, &UnknownCriterionError{Key: k}
		}
		if v < c.MinScore || v > c.MaxScore {
			return nil, &OutOfRangeError{Name: c.Name, Value: v, Min: c.MinScore, Max: c.MaxScore}
		}
		out[nk] = v
	}

	for nk, c := range byKey {
		if !c.IsRequired {
			continue
		}
		if _, ok := out[nk]; !ok {
			return nil, &MissingCriterionError{Name: c.Name}
		}
	}
	return out, nil
}

// GetAssignments reports per-judge assignment progress. Non-elevated
// callers are scoped to their own assignments; everything in the result is
// derived from current ledger state on each call.
func (s *Service) GetAssignments(ctx context.Context, q AssignmentQuery) (AssignmentsResult, error) {
	if !s.checker.Any(q.CallerRole, "assignment:view-own", "assignment:view-any") {
		return AssignmentsResult{}, ErrUnauthorized
	}
	canViewAll := s.checker.Has(q.CallerRole, "assignment:view-any")

	judgeID := q.JudgeID
	if !canViewAll {
		if judgeID == "" {
			judgeID = q.CallerID
		}
		if judgeID != q.CallerID {
			return AssignmentsResult{}, ErrUnauthorized
		}
	}

	assignments, err := s.store.ListAssignments(ctx, AssignmentListOpts{
		HackathonID: q.HackathonID,
		JudgeID:     judgeID,
	})
	if err != nil {
		return AssignmentsResult{}, err
	}

	res := AssignmentsResult{Reports: make([]AssignmentReport, 0, len(assignments)), CanViewAll: canViewAll}
	for _, a := range assignments {
		projects, err := s.store.ListProjectsByIDs(ctx, a.ProjectIDs)
		if err != nil {
			return AssignmentsResult{}, err
		}
		scoredSet, err := s.store.ScoredProjectIDs(ctx, a.UserID)
		if err != nil {
			return AssignmentsResult{}, err
		}

		rep := AssignmentReport{Assignment: a, Scored: []ProjectBrief{}, Pending: []ProjectBrief{}}
		for _, p := range projects {
			brief := ProjectBrief{ID: p.ID, Title: p.Title, Status: p.Status, AverageScore: p.AverageScore}
			if scoredSet[p.ID] {
				rep.Scored = append(rep.Scored, brief)
			} else {
				rep.Pending = append(rep.Pending, brief)
			}
		}
		rep.TotalAssigned = len(projects)
		rep.CompletionPct = CompletionPct(len(rep.Scored), rep.TotalAssigned)
		res.Reports = append(res.Reports, rep)

		res.Summary.Projects += rep.TotalAssigned
		res.Summary.Scored += len(rep.Scored)
		res.Summary.Pending += len(rep.Pending)
	}
	res.Summary.Assignments = len(res.Reports)
	res.Summary.CompletionPct = CompletionPct(res.Summary.Scored, res.Summary.Projects)
	return res, nil
}
