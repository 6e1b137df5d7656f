package judging

// DefaultRubric is the synthetic rubric served when a hackathon has no
// criteria of its own. It is never persisted; callers can tell it apart
// from custom criteria via CriteriaResult.IsCustom == false.
func DefaultRubric(hackathonID string) []Criterion {
	names := []struct {
		id, name, desc string
	}{
		{"default-innovation", "Innovation", "Originality and creativity of the idea"},
		{"default-technical-complexity", "Technical Complexity", "Depth and difficulty of the technical work"},
		{"default-user-experience", "User Experience", "Usability and polish of the product"},
		{"default-business-potential", "Business Potential", "Viability and market opportunity"},
		{"default-presentation", "Presentation", "Clarity and quality of the demo and pitch"},
	}
	out := make([]Criterion, 0, len(names))
	for i, n := range names {
		out = append(out, Criterion{
			ID:           n.id,
			HackathonID:  hackathonID,
			Name:         n.name,
			Description:  n.desc,
			Weight:       20,
			MaxScore:     10,
			MinScore:     0,
			IsRequired:   true,
			IsActive:     true,
			DisplayOrder: i,
		})
	}
	return out
}

// Stats recomputes the aggregate criterion statistics. Always derived per
// call, never cached.
func Stats(criteria []Criterion) CriteriaStats {
	s := CriteriaStats{Total: len(criteria)}
	for _, c := range criteria {
		if c.IsActive {
			s.Active++
		}
		if c.IsRequired {
			s.Required++
		}
		s.WeightSum += c.Weight
		s.MaxScoreSum += c.MaxScore
	}
	return s
}
