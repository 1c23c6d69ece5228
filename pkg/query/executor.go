package query

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/coolbeans/notegraph/pkg/store"
)

// DefaultTimeout bounds query execution when no other timeout is set.
const DefaultTimeout = 30 * time.Second

// Executor runs parsed queries against a triple store.
type Executor struct {
	store          *store.TripleStore
	planner        *Planner
	enablePlanning bool
	timeout        time.Duration
}

// ExecutorOption configures an executor.
type ExecutorOption func(*Executor)

// WithPlanning enables or disables pattern reordering.
func WithPlanning(enabled bool) ExecutorOption {
	return func(e *Executor) {
		e.enablePlanning = enabled
	}
}

// WithTimeout sets the query execution timeout. A zero duration
// disables the timeout.
func WithTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.timeout = d
	}
}

// NewExecutor creates a query executor over the given store.
func NewExecutor(tripleStore *store.TripleStore, opts ...ExecutorOption) *Executor {
	e := &Executor{
		store:          tripleStore,
		planner:        NewPlanner(tripleStore.Stats()),
		enablePlanning: true,
		timeout:        DefaultTimeout,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// RefreshStats updates the planner with current store statistics.
// Call it after bulk changes to the store so selectivity estimates
// stay useful.
func (e *Executor) RefreshStats() {
	e.planner = NewPlanner(e.store.Stats())
}

// Result holds the rows produced by a query.
type Result struct {
	Variables []string            // Projected variable names without the ? prefix
	Bindings  []map[string]string // One map of variable values per row
	Count     int                 // Number of rows
	Metrics   Metrics             // Execution metrics
}

// Metrics records how long each phase of an execution took.
type Metrics struct {
	ParseTime     time.Duration `json:"parse_time"`
	PlanTime      time.Duration `json:"plan_time"`
	ExecuteTime   time.Duration `json:"execute_time"`
	TotalTime     time.Duration `json:"total_time"`
	PatternsCount int           `json:"patterns_count"`
	ResultCount   int           `json:"result_count"`
}

// Execute executes a parsed query.
func (e *Executor) Execute(query *SelectQuery) (*Result, error) {
	return e.ExecuteWithContext(context.Background(), query)
}

// ExecuteWithContext executes a parsed query, honoring ctx for
// cancellation.
func (e *Executor) ExecuteWithContext(ctx context.Context, query *SelectQuery) (*Result, error) {
	startTime := time.Now()

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	metrics := Metrics{}
	result, err := e.executeSelect(ctx, query, &metrics)
	if err != nil {
		return nil, err
	}

	metrics.TotalTime = time.Since(startTime)
	result.Metrics = metrics
	return result, nil
}

// ExecuteString parses and executes a SPARQL query string.
func (e *Executor) ExecuteString(queryStr string) (*Result, error) {
	return e.ExecuteStringWithContext(context.Background(), queryStr)
}

// ExecuteStringWithContext parses and executes a SPARQL query string,
// honoring ctx for cancellation.
func (e *Executor) ExecuteStringWithContext(ctx context.Context, queryStr string) (*Result, error) {
	startTime := time.Now()

	query, err := ParseQuery(queryStr)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	result, err := e.ExecuteWithContext(ctx, query)
	if err != nil {
		return nil, err
	}

	result.Metrics.ParseTime = time.Since(startTime) - result.Metrics.PlanTime - result.Metrics.ExecuteTime
	return result, nil
}

// executeSelect runs the phases of a SELECT query in order: required
// patterns, OPTIONAL groups, filters, ORDER BY, DISTINCT, OFFSET, and
// LIMIT.
func (e *Executor) executeSelect(ctx context.Context, query *SelectQuery, metrics *Metrics) (*Result, error) {
	planStart := time.Now()

	optimizedQuery := query
	if e.enablePlanning && len(query.Where) > 1 {
		optimizedQuery = e.planner.ReorderPatterns(query)
	}
	metrics.PlanTime = time.Since(planStart)
	metrics.PatternsCount = len(optimizedQuery.Where)

	executeStart := time.Now()

	// Each pattern extends the working set of bindings; an empty set
	// means the query can never match.
	bindings := []map[string]string{{}}
	for _, pattern := range optimizedQuery.Where {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		bindings = e.matchPattern(pattern, bindings)
		if len(bindings) == 0 {
			break
		}
	}

	for _, optPatterns := range query.Optional {
		bindings = e.matchOptional(ctx, optPatterns, bindings)
	}

	for _, filter := range query.Filters {
		bindings = e.applyFilter(filter, bindings)
	}

	// Sort before DISTINCT so duplicate removal keeps the first row in
	// sorted order.
	if len(query.OrderBy) > 0 {
		bindings = e.applyOrderBy(query.OrderBy, bindings)
	}

	if query.Distinct {
		bindings = e.applyDistinct(bindings, query.Variables)
	}

	if query.Offset > 0 {
		if query.Offset < len(bindings) {
			bindings = bindings[query.Offset:]
		} else {
			bindings = []map[string]string{}
		}
	}

	if query.Limit > 0 && query.Limit < len(bindings) {
		bindings = bindings[:query.Limit]
	}

	metrics.ExecuteTime = time.Since(executeStart)
	metrics.ResultCount = len(bindings)

	result := &Result{
		Bindings: bindings,
		Count:    len(bindings),
	}

	if len(query.Variables) == 1 && query.Variables[0] == "*" {
		varSet := make(map[string]bool)
		for _, binding := range bindings {
			for v := range binding {
				varSet[v] = true
			}
		}
		for v := range varSet {
			result.Variables = append(result.Variables, v)
		}
		sort.Strings(result.Variables)
	} else {
		for _, v := range query.Variables {
			result.Variables = append(result.Variables, StripVariable(v))
		}
	}

	return result, nil
}

// matchPattern extends each current binding with the triples matching
// a pattern. Variables already bound must agree with the triple, so
// repeated variables join across patterns.
func (e *Executor) matchPattern(pattern TriplePattern, currentBindings []map[string]string) []map[string]string {
	var newBindings []map[string]string

	for _, binding := range currentBindings {
		subject := e.resolveTerm(pattern.Subject, binding)
		predicate := e.resolveTerm(pattern.Predicate, binding)
		object := e.resolveTerm(pattern.Object, binding)

		for _, triple := range e.store.Find(subject, predicate, object) {
			newBinding := make(map[string]string, len(binding)+3)
			for k, v := range binding {
				newBinding[k] = v
			}

			if !bindTerm(newBinding, pattern.Subject, triple.Subject) {
				continue
			}
			if !bindTerm(newBinding, pattern.Predicate, triple.Predicate) {
				continue
			}
			if !bindTerm(newBinding, pattern.Object, triple.Object) {
				continue
			}

			newBindings = append(newBindings, newBinding)
		}
	}

	return newBindings
}

// bindTerm records value for a variable term. It reports false when
// the variable is already bound to a different value.
func bindTerm(binding map[string]string, term, value string) bool {
	if !IsVariable(term) {
		return true
	}

	varName := StripVariable(term)
	if existing, ok := binding[varName]; ok {
		return existing == value
	}
	binding[varName] = value
	return true
}

// matchOptional left-joins an OPTIONAL group: bindings that match are
// extended, bindings that do not are kept unchanged.
func (e *Executor) matchOptional(ctx context.Context, patterns []TriplePattern, currentBindings []map[string]string) []map[string]string {
	var result []map[string]string

	for _, binding := range currentBindings {
		optBindings := []map[string]string{binding}
		for _, pattern := range patterns {
			select {
			case <-ctx.Done():
				return currentBindings
			default:
			}
			optBindings = e.matchPattern(pattern, optBindings)
		}

		if len(optBindings) > 0 {
			result = append(result, optBindings...)
		} else {
			result = append(result, binding)
		}
	}

	return result
}

// resolveTerm turns a pattern term into a store lookup value. Bound
// variables use their value, unbound variables become the wildcard,
// and URI brackets and literal quotes are stripped.
func (e *Executor) resolveTerm(term string, binding map[string]string) string {
	if IsVariable(term) {
		if boundValue, ok := binding[StripVariable(term)]; ok {
			return boundValue
		}
		return ""
	}

	if IsLiteral(term) {
		return StripLiteral(term)
	}
	if IsURI(term) {
		return StripURI(term)
	}

	return term
}

// applyOrderBy sorts bindings by the sort keys in priority order.
// The sort is stable so ties keep their match order.
func (e *Executor) applyOrderBy(orderBys []OrderBy, bindings []map[string]string) []map[string]string {
	if len(orderBys) == 0 {
		return bindings
	}

	sort.SliceStable(bindings, func(i, j int) bool {
		for _, ob := range orderBys {
			varName := StripVariable(ob.Variable)
			valI := bindings[i][varName]
			valJ := bindings[j][varName]

			if valI == valJ {
				continue
			}

			if ob.Descending {
				return valI > valJ
			}
			return valI < valJ
		}
		return false
	})

	return bindings
}

// applyDistinct removes rows that repeat the projected variable
// values, keeping the first occurrence.
func (e *Executor) applyDistinct(bindings []map[string]string, variables []string) []map[string]string {
	seen := make(map[string]bool)
	var unique []map[string]string

	for _, binding := range bindings {
		var key string
		if len(variables) == 1 && variables[0] == "*" {
			var pairs []string
			for k, v := range binding {
				pairs = append(pairs, k+"="+v)
			}
			sort.Strings(pairs)
			key = strings.Join(pairs, "|")
		} else {
			var values []string
			for _, v := range variables {
				values = append(values, binding[StripVariable(v)])
			}
			key = strings.Join(values, "|")
		}

		if !seen[key] {
			seen[key] = true
			unique = append(unique, binding)
		}
	}

	return unique
}
