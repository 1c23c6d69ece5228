package query

import (
	"sort"

	"github.com/coolbeans/notegraph/pkg/store"
)

// Planner reorders triple patterns using index statistics so the most
// selective pattern runs first and the working binding set stays
// small.
type Planner struct {
	stats store.IndexStats
}

// NewPlanner creates a planner from a snapshot of store statistics.
func NewPlanner(stats store.IndexStats) *Planner {
	return &Planner{stats: stats}
}

// ReorderPatterns returns a copy of the query with WHERE patterns
// sorted by estimated selectivity. The original query is not modified.
func (p *Planner) ReorderPatterns(query *SelectQuery) *SelectQuery {
	if len(query.Where) <= 1 {
		return query
	}

	optimized := &SelectQuery{
		Variables: query.Variables,
		Distinct:  query.Distinct,
		Where:     make([]TriplePattern, len(query.Where)),
		Optional:  query.Optional,
		Filters:   query.Filters,
		OrderBy:   query.OrderBy,
		Limit:     query.Limit,
		Offset:    query.Offset,
		Prefixes:  query.Prefixes,
	}
	copy(optimized.Where, query.Where)

	type rankedPattern struct {
		pattern     TriplePattern
		selectivity float64
	}

	ranked := make([]rankedPattern, len(optimized.Where))
	for i, pattern := range optimized.Where {
		ranked[i] = rankedPattern{
			pattern:     pattern,
			selectivity: p.estimateSelectivity(pattern),
		}
	}

	// Stable sort keeps the written order for equally selective
	// patterns.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].selectivity < ranked[j].selectivity
	})

	for i, r := range ranked {
		optimized.Where[i] = r.pattern
	}

	return optimized
}

// estimateSelectivity estimates how many rows a pattern will produce.
// Lower values mean fewer expected results.
func (p *Planner) estimateSelectivity(pattern TriplePattern) float64 {
	if p.stats.TotalTriples == 0 {
		return 1.0
	}

	selectivity := float64(p.stats.TotalTriples)
	boundCount := 0

	if !IsVariable(pattern.Subject) {
		boundCount++
		if count, ok := p.stats.SubjectCounts[StripURI(pattern.Subject)]; ok {
			selectivity = float64(count)
		} else {
			// A subject the index has never seen matches little.
			selectivity = 0.1
		}
	}

	if !IsVariable(pattern.Predicate) {
		boundCount++
		if count, ok := p.stats.PredicateCounts[StripURI(pattern.Predicate)]; ok {
			if boundCount == 1 {
				selectivity = float64(count)
			} else {
				selectivity *= float64(count) / float64(p.stats.TotalTriples)
			}
		} else {
			selectivity *= 0.1
		}
	}

	if !IsVariable(pattern.Object) {
		boundCount++
		if count, ok := p.stats.ObjectCounts[stripTerm(pattern.Object)]; ok {
			if boundCount == 1 {
				selectivity = float64(count)
			} else {
				selectivity *= float64(count) / float64(p.stats.TotalTriples)
			}
		} else {
			selectivity *= 0.1
		}
	}

	if selectivity < 0.1 {
		selectivity = 0.1
	}

	return selectivity
}

// stripTerm removes URI brackets or literal quotes so the term matches
// the raw values held by the store indexes.
func stripTerm(term string) string {
	if IsURI(term) {
		return StripURI(term)
	}
	if IsLiteral(term) {
		return StripLiteral(term)
	}
	return term
}
