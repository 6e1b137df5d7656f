package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hackforge/hackforge/internal/judging"
	"github.com/hackforge/hackforge/internal/rbac"
)

// GET /hackathons/{hackathonID}/criteria?include_inactive=true
func GetCriteriaHandler(svc *judging.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hackathonID := strings.TrimSpace(chi.URLParam(r, "hackathonID"))
		if hackathonID == "" {
			http.Error(w, "hackathonID required", http.StatusBadRequest)
			return
		}
		include := r.URL.Query().Get("include_inactive") == "true"
		res, err := svc.GetCriteria(r.Context(), judging.CriteriaQuery{
			HackathonID:     hackathonID,
			CallerID:        rbac.SubjectFromContext(r.Context()),
			CallerRole:      rbac.RoleFromContext(r.Context()),
			IncludeInactive: include,
		})
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(res)
	}
}

type submitScoreReq struct {
	HackathonID string             `json:"hackathon_id"`
	Values      map[string]float64 `json:"criterion_values"`
	Comments    string             `json:"comments,omitempty"`
	IsDraft     bool               `json:"is_draft,omitempty"`
}

// POST /projects/{projectID}/scores
func SubmitScoreHandler(svc *judging.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := strings.TrimSpace(chi.URLParam(r, "projectID"))
		if projectID == "" {
			http.Error(w, "projectID required", http.StatusBadRequest)
			return
		}
		var req submitScoreReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if req.HackathonID == "" {
			http.Error(w, "hackathon_id required", http.StatusBadRequest)
			return
		}
		res, err := svc.SubmitScore(r.Context(), judging.SubmitInput{
			ProjectID:   projectID,
			HackathonID: req.HackathonID,
			JudgeID:     rbac.SubjectFromContext(r.Context()),
			Role:        rbac.RoleFromContext(r.Context()),
			Values:      req.Values,
			Comments:    req.Comments,
			IsDraft:     req.IsDraft,
		})
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(res)
	}
}

// GET /judging/assignments?hackathon_id=...&judge_id=...
func GetAssignmentsHandler(svc *judging.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.GetAssignments(r.Context(), judging.AssignmentQuery{
			HackathonID: strings.TrimSpace(r.URL.Query().Get("hackathon_id")),
			JudgeID:     strings.TrimSpace(r.URL.Query().Get("judge_id")),
			CallerID:    rbac.SubjectFromContext(r.Context()),
			CallerRole:  rbac.RoleFromContext(r.Context()),
		})
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(res)
	}
}

func statusFor(err error) int {
	var missing *judging.MissingCriterionError
	var unknown *judging.UnknownCriterionError
	var outOfRange *judging.OutOfRangeError
	switch {
	case errors.Is(err, judging.ErrUnauthorized),
		errors.Is(err, judging.ErrNotAssigned):
		return http.StatusForbidden
	case errors.Is(err, judging.ErrProjectNotFound),
		errors.Is(err, judging.ErrHackathonNotFound):
		return http.StatusNotFound
	case errors.Is(err, judging.ErrHackathonNotScorable):
		return http.StatusConflict
	case errors.Is(err, judging.ErrMalformedPayload),
		errors.As(err, &missing),
		errors.As(err, &unknown),
		errors.As(err, &outOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
