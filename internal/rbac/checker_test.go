package rbac

import (
	"context"
	"testing"
)

func TestCheckerHas(t *testing.T) {
	c := NewChecker(nil)

	cases := []struct {
		role, perm string
		want       bool
	}{
		{"judge", "score:submit", true},
		{"judge", "score:submit-any", false},
		{"judge", "assignment:view-any", false},
		{"moderator", "score:submit-any", true},
		{"moderator", "assignment:view-any", true},
		{"participant", "score:submit", false},
		{"participant", "criteria:view", true},
		{"admin", "score:submit", true}, // wildcard
		{"admin", "anything:at-all", true},
		{"", "score:submit", false},
		{"unknown-role", "score:submit", false},
	}
	for _, tc := range cases {
		if got := c.Has(tc.role, tc.perm); got != tc.want {
			t.Errorf("Has(%q, %q) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
}

func TestCheckerAnyAll(t *testing.T) {
	c := NewChecker(nil)
	if !c.Any("judge", "assignment:view-any", "assignment:view-own") {
		t.Fatalf("judge should match view-own")
	}
	if c.All("judge", "score:submit", "score:submit-any") {
		t.Fatalf("judge should not hold submit-any")
	}
	if !c.All("admin", "score:submit", "score:submit-any") {
		t.Fatalf("admin wildcard should satisfy All")
	}
}

func TestPrefixPattern(t *testing.T) {
	c := NewChecker(map[string][]string{"ops": {"score:*"}})
	if !c.Has("ops", "score:submit") || !c.Has("ops", "score:submit-any") {
		t.Fatalf("prefix pattern did not match")
	}
	if c.Has("ops", "criteria:view") {
		t.Fatalf("prefix pattern matched wrong namespace")
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := WithRole(context.Background(), "judge")
	ctx = WithSubject(ctx, "judge-1")
	if RoleFromContext(ctx) != "judge" {
		t.Fatalf("role = %q", RoleFromContext(ctx))
	}
	if SubjectFromContext(ctx) != "judge-1" {
		t.Fatalf("subject = %q", SubjectFromContext(ctx))
	}
	if RoleFromContext(context.Background()) != "" {
		t.Fatalf("empty context should yield empty role")
	}
}
