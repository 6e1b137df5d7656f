package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	api "github.com/hackforge/hackforge/internal/api/http"
	"github.com/hackforge/hackforge/internal/db"
	"github.com/hackforge/hackforge/internal/judging"
	"github.com/hackforge/hackforge/internal/rbac"
)

var handlerDBSeq int

func newTestRouter(t *testing.T) (*chi.Mux, *judging.SQLStore) {
	t.Helper()
	ctx := context.Background()
	handlerDBSeq++
	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", handlerDBSeq)
	dbh, err := db.Open(ctx, db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = dbh.Close() })

	store := judging.NewSQLStore(dbh, "sqlite")
	if err := store.PutHackathon(ctx, judging.Hackathon{ID: "hack-1", Title: "Spring Hack", Status: judging.HackathonActive, OrganizerID: "org-1"}); err != nil {
		t.Fatal(err)
	}
	if err := store.PutProject(ctx, judging.Project{ID: "proj-1", HackathonID: "hack-1", Title: "Project One"}); err != nil {
		t.Fatal(err)
	}
	if err := store.PutAssignment(ctx, judging.Assignment{ID: "as-1", HackathonID: "hack-1", UserID: "judge-1", ProjectIDs: []string{"proj-1"}}); err != nil {
		t.Fatal(err)
	}
	svc := judging.NewService(store)

	r := chi.NewRouter()
	r.With(rbac.Require("criteria:view")).
		Get("/hackathons/{hackathonID}/criteria", api.GetCriteriaHandler(svc))
	r.With(rbac.Require("score:submit")).
		Post("/projects/{projectID}/scores", api.SubmitScoreHandler(svc))
	r.With(rbac.RequireAny("assignment:view-own", "assignment:view-any")).
		Get("/judging/assignments", api.GetAssignmentsHandler(svc))
	return r, store
}

// as stands in for the JWT middleware: subject + role straight into context.
func as(r *http.Request, sub, role string) *http.Request {
	ctx := rbac.WithSubject(r.Context(), sub)
	ctx = rbac.WithRole(ctx, role)
	return r.WithContext(ctx)
}

const fullPayload = `{"hackathon_id":"hack-1","criterion_values":{
	"innovation":8,"technicalComplexity":8,"userExperience":8,
	"businessPotential":8,"presentation":8},"comments":"nice"}`

func TestSubmitScoreHandler(t *testing.T) {
	router, store := newTestRouter(t)

	req := httptest.NewRequest("POST", "/projects/proj-1/scores", strings.NewReader(fullPayload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, as(req, "judge-1", "judge"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var res judging.SubmitResult
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res.TotalScore != 8.0 || res.IsDraft || res.ProjectTitle != "Project One" {
		t.Fatalf("result = %+v", res)
	}

	p, err := store.GetProject(context.Background(), "proj-1")
	if err != nil {
		t.Fatal(err)
	}
	if p.AverageScore != 8.0 || p.Status != judging.ProjectReviewed {
		t.Fatalf("project = %+v", p)
	}
}

func TestSubmitScoreHandler_Forbidden(t *testing.T) {
	router, _ := newTestRouter(t)

	// participant is stopped by the route middleware
	req := httptest.NewRequest("POST", "/projects/proj-1/scores", strings.NewReader(fullPayload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, as(req, "user-1", "participant"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("participant: status = %d", rec.Code)
	}

	// unassigned judge is stopped by the service
	req = httptest.NewRequest("POST", "/projects/proj-1/scores", strings.NewReader(fullPayload))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, as(req, "judge-9", "judge"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("unassigned judge: status = %d", rec.Code)
	}
}

func TestSubmitScoreHandler_Validation(t *testing.T) {
	router, _ := newTestRouter(t)

	// missing required criterion
	partial := `{"hackathon_id":"hack-1","criterion_values":{"innovation":8}}`
	req := httptest.NewRequest("POST", "/projects/proj-1/scores", strings.NewReader(partial))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, as(req, "judge-1", "judge"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Technical Complexity") &&
		!strings.Contains(rec.Body.String(), "required criterion") {
		t.Fatalf("body does not name the failing criterion: %s", rec.Body.String())
	}

	// unknown project
	req = httptest.NewRequest("POST", "/projects/nope/scores", strings.NewReader(fullPayload))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, as(req, "mod-1", "moderator"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown project: status = %d", rec.Code)
	}

	// bad json
	req = httptest.NewRequest("POST", "/projects/proj-1/scores", strings.NewReader("{"))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, as(req, "judge-1", "judge"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad json: status = %d", rec.Code)
	}
}

func TestSubmitScoreHandler_HackathonGate(t *testing.T) {
	router, store := newTestRouter(t)
	if err := store.PutHackathon(context.Background(), judging.Hackathon{ID: "hack-1", Title: "Spring Hack", Status: judging.HackathonDraft}); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("POST", "/projects/proj-1/scores", strings.NewReader(fullPayload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, as(req, "admin-1", "admin"))
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "not active") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestGetCriteriaHandler(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/hackathons/hack-1/criteria", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, as(req, "judge-1", "judge"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var res judging.CriteriaResult
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res.IsCustom || len(res.Criteria) != 5 {
		t.Fatalf("custom=%v n=%d", res.IsCustom, len(res.Criteria))
	}

	// judges cannot ask for inactive criteria
	req = httptest.NewRequest("GET", "/hackathons/hack-1/criteria?include_inactive=true", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, as(req, "judge-1", "judge"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("include_inactive: status = %d", rec.Code)
	}

	// unknown hackathon
	req = httptest.NewRequest("GET", "/hackathons/nope/criteria", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, as(req, "judge-1", "judge"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown hackathon: status = %d", rec.Code)
	}
}

func TestGetAssignmentsHandler(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/judging/assignments?hackathon_id=hack-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, as(req, "judge-1", "judge"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var res judging.AssignmentsResult
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if len(res.Reports) != 1 || res.Reports[0].TotalAssigned != 1 {
		t.Fatalf("reports = %+v", res.Reports)
	}
	if res.CanViewAll {
		t.Fatalf("judge flagged can_view_all")
	}

	// participants have no assignment surface
	req = httptest.NewRequest("GET", "/judging/assignments", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, as(req, "user-1", "participant"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("participant: status = %d", rec.Code)
	}
}
