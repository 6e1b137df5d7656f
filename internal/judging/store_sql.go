package judging

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"
)

// SQLStore implements Store over database/sql. Queries use $1-style
// placeholders, which both the pgx stdlib driver and modernc sqlite accept.
type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) GetHackathon(ctx context.Context, id string) (Hackathon, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, status, organizer_id, COALESCE(end_date,0), created_at
		 FROM hackathons WHERE id=$1`, id)
	var h Hackathon
	if err := row.Scan(&h.ID, &h.Title, &h.Status, &h.OrganizerID, &h.EndDate, &h.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Hackathon{}, ErrHackathonNotFound
		}
		return Hackathon{}, err
	}
	return h, nil
}

func (s *SQLStore) GetProject(ctx context.Context, id string) (Project, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, hackathon_id, title, status, average_score FROM projects WHERE id=$1`, id)
	var p Project
	if err := row.Scan(&p.ID, &p.HackathonID, &p.Title, &p.Status, &p.AverageScore); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Project{}, ErrProjectNotFound
		}
		return Project{}, err
	}
	return p, nil
}

func (s *SQLStore) ListCriteria(ctx context.Context, hackathonID string, includeInactive bool) ([]Criterion, error) {
	q := `SELECT id, hackathon_id, name, description, weight, max_score, min_score,
	             is_required, is_active, display_order, created_at
	      FROM scoring_criteria WHERE hackathon_id=$1`
	if !includeInactive {
		q += ` AND is_active` // boolean column in postgres, 0/1 in sqlite; both truthy here
	}
	q += ` ORDER BY display_order, created_at`
	rows, err := s.db.QueryContext(ctx, q, hackathonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Criterion{}
	for rows.Next() {
		var c Criterion
		if err := rows.Scan(&c.ID, &c.HackathonID, &c.Name, &c.Description, &c.Weight,
			&c.MaxScore, &c.MinScore, &c.IsRequired, &c.IsActive, &c.DisplayOrder, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetAssignment(ctx context.Context, hackathonID, userID string) (Assignment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, hackathon_id, user_id, role, expertise, project_ids_json, created_at
		 FROM judge_assignments WHERE hackathon_id=$1 AND user_id=$2`, hackathonID, userID)
	return scanAssignment(row)
}

func (s *SQLStore) ListAssignments(ctx context.Context, opts AssignmentListOpts) ([]Assignment, error) {
	q := `SELECT id, hackathon_id, user_id, role, expertise, project_ids_json, created_at
	      FROM judge_assignments WHERE 1=1`
	args := []any{}
	if opts.HackathonID != "" {
		args = append(args, opts.HackathonID)
		q += ` AND hackathon_id=` + placeholder(len(args))
	}
	if opts.JudgeID != "" {
		args = append(args, opts.JudgeID)
		q += ` AND user_id=` + placeholder(len(args))
	}
	q += ` ORDER BY created_at, id`
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Assignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) ListProjectsByIDs(ctx context.Context, ids []string) ([]Project, error) {
	out := make([]Project, 0, len(ids))
	for _, id := range ids {
		p, err := s.GetProject(ctx, id)
		if errors.Is(err, ErrProjectNotFound) {
			continue // stale assignment entry
		}
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *SQLStore) ScoredProjectIDs(ctx context.Context, judgeID string) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT project_id FROM scores WHERE judge_id=$1`, judgeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}

func (s *SQLStore) GetScore(ctx context.Context, projectID, judgeID string) (Score, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, project_id, judge_id, hackathon_id, criteria_json, total_score,
		        comments, sync_status, created_at, updated_at
		 FROM scores WHERE project_id=$1 AND judge_id=$2`, projectID, judgeID)
	return scanScore(row)
}

// UpsertScore relies on UNIQUE(project_id, judge_id): a race between two
// submissions from the same judge collapses into one row instead of two.
// The aggregation recompute runs in the same transaction so no reader can
// see a score write without the matching project average.
func (s *SQLStore) UpsertScore(ctx context.Context, sc Score, finalize bool) (Score, error) {
	vj, err := json.Marshal(sc.Values)
	if err != nil {
		return Score{}, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Score{}, err
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO scores (id, project_id, judge_id, hackathon_id, criteria_json,
		                     total_score, comments, sync_status, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		 ON CONFLICT (project_id, judge_id) DO UPDATE SET
		   criteria_json=excluded.criteria_json,
		   total_score=excluded.total_score,
		   comments=excluded.comments,
		   sync_status=excluded.sync_status,
		   updated_at=excluded.updated_at`,
		sc.ID, sc.ProjectID, sc.JudgeID, sc.HackathonID, string(vj),
		sc.TotalScore, sc.Comments, sc.SyncStatus, now, now)
	if err != nil {
		return Score{}, err
	}

	if finalize {
		// Full re-scan, not a running average: rows get overwritten, not
		// appended, so an incremental update would drift.
		var avg sql.NullFloat64
		err = tx.QueryRowContext(ctx,
			`SELECT AVG(total_score) FROM scores
			 WHERE project_id=$1 AND sync_status != 'draft'`, sc.ProjectID).Scan(&avg)
		if err != nil {
			return Score{}, err
		}
		if _, err = tx.ExecContext(ctx,
			`UPDATE projects SET average_score=$1, status='reviewed' WHERE id=$2`,
			Round1(avg.Float64), sc.ProjectID); err != nil {
			return Score{}, err
		}
	}

	row := tx.QueryRowContext(ctx,
		`SELECT id, project_id, judge_id, hackathon_id, criteria_json, total_score,
		        comments, sync_status, created_at, updated_at
		 FROM scores WHERE project_id=$1 AND judge_id=$2`, sc.ProjectID, sc.JudgeID)
	saved, err := scanScore(row)
	if err != nil {
		return Score{}, err
	}
	if err := tx.Commit(); err != nil {
		return Score{}, err
	}
	return saved, nil
}

// ---- writers for the out-of-scope subsystems and tests ----

func (s *SQLStore) PutHackathon(ctx context.Context, h Hackathon) error {
	created := h.CreatedAt
	if created == 0 {
		created = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO hackathons (id, title, status, organizer_id, end_date, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (id) DO UPDATE SET title=excluded.title, status=excluded.status,
		   organizer_id=excluded.organizer_id, end_date=excluded.end_date`,
		h.ID, h.Title, h.Status, h.OrganizerID, h.EndDate, created)
	return err
}

func (s *SQLStore) PutProject(ctx context.Context, p Project) error {
	status := p.Status
	if status == "" {
		status = ProjectSubmitted
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (id, hackathon_id, title, status, average_score)
		 VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT (id) DO UPDATE SET title=excluded.title`,
		p.ID, p.HackathonID, p.Title, status, p.AverageScore)
	return err
}

func (s *SQLStore) PutCriterion(ctx context.Context, c Criterion) error {
	created := c.CreatedAt
	if created == 0 {
		created = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scoring_criteria (id, hackathon_id, name, description, weight,
		   max_score, min_score, is_required, is_active, display_order, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		 ON CONFLICT (id) DO UPDATE SET name=excluded.name, description=excluded.description,
		   weight=excluded.weight, max_score=excluded.max_score, min_score=excluded.min_score,
		   is_required=excluded.is_required, is_active=excluded.is_active,
		   display_order=excluded.display_order`,
		c.ID, c.HackathonID, c.Name, c.Description, c.Weight,
		c.MaxScore, c.MinScore, c.IsRequired, c.IsActive, c.DisplayOrder, created)
	return err
}

func (s *SQLStore) PutAssignment(ctx context.Context, a Assignment) error {
	pj, err := json.Marshal(a.ProjectIDs)
	if err != nil {
		return err
	}
	created := a.CreatedAt
	if created == 0 {
		created = time.Now().Unix()
	}
	role := a.Role
	if role == "" {
		role = "judge"
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO judge_assignments (id, hackathon_id, user_id, role, expertise, project_ids_json, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 ON CONFLICT (hackathon_id, user_id) DO UPDATE SET role=excluded.role,
		   expertise=excluded.expertise, project_ids_json=excluded.project_ids_json`,
		a.ID, a.HackathonID, a.UserID, role, a.Expertise, string(pj), created)
	return err
}

// ---- scan helpers ----

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssignment(row rowScanner) (Assignment, error) {
	var a Assignment
	var pj string
	if err := row.Scan(&a.ID, &a.HackathonID, &a.UserID, &a.Role, &a.Expertise, &pj, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Assignment{}, ErrAssignmentNotFound
		}
		return Assignment{}, err
	}
	if err := json.Unmarshal([]byte(pj), &a.ProjectIDs); err != nil {
		a.ProjectIDs = nil
	}
	return a, nil
}

func scanScore(row rowScanner) (Score, error) {
	var sc Score
	var vj string
	if err := row.Scan(&sc.ID, &sc.ProjectID, &sc.JudgeID, &sc.HackathonID, &vj,
		&sc.TotalScore, &sc.Comments, &sc.SyncStatus, &sc.CreatedAt, &sc.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Score{}, ErrScoreNotFound
		}
		return Score{}, err
	}
	if err := json.Unmarshal([]byte(vj), &sc.Values); err != nil {
		sc.Values = map[string]float64{}
	}
	return sc, nil
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}
