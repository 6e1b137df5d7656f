package judging

import "testing"

func TestDefaultRubric(t *testing.T) {
	rubric := DefaultRubric("hack-1")
	if len(rubric) != 5 {
		t.Fatalf("default rubric has %d criteria, want 5", len(rubric))
	}
	wantNames := []string{"Innovation", "Technical Complexity", "User Experience", "Business Potential", "Presentation"}
	for i, c := range rubric {
		if c.Name != wantNames[i] {
			t.Errorf("criterion %d: name %q, want %q", i, c.Name, wantNames[i])
		}
		if c.Weight != 20 {
			t.Errorf("criterion %q: weight %v, want 20", c.Name, c.Weight)
		}
		if c.MinScore != 0 || c.MaxScore != 10 {
			t.Errorf("criterion %q: range [%v, %v], want [0, 10]", c.Name, c.MinScore, c.MaxScore)
		}
		if !c.IsRequired || !c.IsActive {
			t.Errorf("criterion %q: required=%v active=%v, want both true", c.Name, c.IsRequired, c.IsActive)
		}
		if c.HackathonID != "hack-1" {
			t.Errorf("criterion %q: hackathon %q", c.Name, c.HackathonID)
		}
		if c.DisplayOrder != i {
			t.Errorf("criterion %q: display order %d, want %d", c.Name, c.DisplayOrder, i)
		}
	}
}

func TestStats(t *testing.T) {
	s := Stats(DefaultRubric("h"))
	if s.Total != 5 || s.Active != 5 || s.Required != 5 {
		t.Fatalf("counts = %+v", s)
	}
	if s.WeightSum != 100 {
		t.Fatalf("weight sum = %v, want 100", s.WeightSum)
	}
	if s.MaxScoreSum != 50 {
		t.Fatalf("max score sum = %v, want 50", s.MaxScoreSum)
	}
}

func TestStatsMixed(t *testing.T) {
	s := Stats([]Criterion{
		{Name: "A", Weight: 30, MaxScore: 10, IsActive: true, IsRequired: true},
		{Name: "B", Weight: 10, MaxScore: 5, IsActive: false, IsRequired: false},
	})
	if s.Total != 2 || s.Active != 1 || s.Required != 1 {
		t.Fatalf("counts = %+v", s)
	}
	if s.WeightSum != 40 || s.MaxScoreSum != 15 {
		t.Fatalf("sums = %+v", s)
	}
}
