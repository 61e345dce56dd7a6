package analyzer

// maxImprovements caps the aggregated improvement list.
const maxImprovements = 10

// AggregateImprovements merges the per-dimension issues into one actionable
// list. Ordering is by dimension priority (security first, then performance
// and SEO, then the rest), intra-dimension order is preserved, duplicates are
// dropped by exact match, and the result is capped at maxImprovements.
func AggregateImprovements(s *Scores) []string {
	ordered := []*DimensionScore{
		&s.Security,
		&s.Performance,
		&s.SEO,
		&s.Accessibility,
		&s.Mobile,
		&s.Sustainability,
		&s.ContentQuality,
		&s.ScriptOptimization,
	}

	improvements := []string{}
	seen := make(map[string]bool)
	for _, dim := range ordered {
		for _, issue := range dim.Issues {
			if seen[issue] {
				continue
			}
			seen[issue] = true
			improvements = append(improvements, issue)
			if len(improvements) == maxImprovements {
				return improvements
			}
		}
	}
	return improvements
}
