// Package query implements a SPARQL SELECT subset over the triple
// store: basic graph patterns with OPTIONAL groups, FILTER
// expressions, ORDER BY, DISTINCT, LIMIT, and OFFSET.
package query

import (
	"fmt"
	"strings"
)

// SelectQuery is a parsed SELECT query.
type SelectQuery struct {
	Variables []string          // Projected variables, or ["*"] for all
	Distinct  bool              // DISTINCT modifier
	Where     []TriplePattern   // WHERE clause triple patterns
	Optional  [][]TriplePattern // OPTIONAL groups, each a list of patterns
	Filters   []Filter          // FILTER clauses
	OrderBy   []OrderBy         // Sort keys in priority order
	Limit     int               // LIMIT (0 = no limit)
	Offset    int               // OFFSET (0 = no offset)
	Prefixes  map[string]string // PREFIX declarations
}

// TriplePattern is one pattern in a WHERE clause. Each term is a
// variable (?var), a URI (<uri>), a literal ("text"), or a prefixed
// name (onto:DomainConcept).
type TriplePattern struct {
	Subject   string
	Predicate string
	Object    string
}

// Filter holds the expression of a FILTER clause.
type Filter struct {
	Expression string
}

// OrderBy is a single ORDER BY sort key.
type OrderBy struct {
	Variable   string
	Descending bool
}

// IsVariable checks if a term is a SPARQL variable.
func IsVariable(s string) bool {
	return len(s) > 0 && s[0] == '?'
}

// IsURI checks if a term is a URI reference in angle brackets. The
// empty URI (<>) is not considered valid.
func IsURI(s string) bool {
	return len(s) > 2 && s[0] == '<' && s[len(s)-1] == '>'
}

// IsLiteral checks if a term is a quoted literal. The empty literal
// ("") is not considered valid.
func IsLiteral(s string) bool {
	return len(s) > 2 && s[0] == '"' && s[len(s)-1] == '"'
}

// StripVariable removes the ? prefix from a variable.
func StripVariable(s string) string {
	if IsVariable(s) {
		return s[1:]
	}
	return s
}

// StripURI removes the angle brackets from a URI.
func StripURI(s string) string {
	if IsURI(s) {
		return s[1 : len(s)-1]
	}
	return s
}

// StripLiteral removes the quotes from a literal.
func StripLiteral(s string) string {
	if IsLiteral(s) {
		return s[1 : len(s)-1]
	}
	return s
}

// Validate checks that the query is well-formed and returns every
// problem found.
func (q *SelectQuery) Validate() []error {
	var errs []error

	if len(q.Variables) == 0 {
		errs = append(errs, fmt.Errorf("SELECT clause has no variables"))
	}
	if len(q.Where) == 0 {
		errs = append(errs, fmt.Errorf("WHERE clause has no triple patterns"))
	}

	// Every projected variable must be bound somewhere in WHERE or an
	// OPTIONAL group.
	if len(q.Variables) > 0 && q.Variables[0] != "*" {
		boundVars := make(map[string]bool)
		collect := func(patterns []TriplePattern) {
			for _, p := range patterns {
				if IsVariable(p.Subject) {
					boundVars[p.Subject] = true
				}
				if IsVariable(p.Predicate) {
					boundVars[p.Predicate] = true
				}
				if IsVariable(p.Object) {
					boundVars[p.Object] = true
				}
			}
		}
		collect(q.Where)
		for _, opt := range q.Optional {
			collect(opt)
		}

		for _, v := range q.Variables {
			if !boundVars[v] {
				errs = append(errs, fmt.Errorf("variable %s in SELECT is not bound in WHERE clause", v))
			}
		}
	}

	for _, ob := range q.OrderBy {
		found := false
		for _, v := range q.Variables {
			if v == "*" || v == ob.Variable {
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, fmt.Errorf("ORDER BY variable %s is not in SELECT clause", ob.Variable))
		}
	}

	if q.Limit < 0 {
		errs = append(errs, fmt.Errorf("LIMIT cannot be negative"))
	}
	if q.Offset < 0 {
		errs = append(errs, fmt.Errorf("OFFSET cannot be negative"))
	}

	return errs
}

// String renders the query back to SPARQL text for debugging.
func (q *SelectQuery) String() string {
	var sb strings.Builder

	for prefix, uri := range q.Prefixes {
		sb.WriteString(fmt.Sprintf("PREFIX %s: <%s>\n", prefix, uri))
	}

	sb.WriteString("SELECT ")
	if q.Distinct {
		sb.WriteString("DISTINCT ")
	}
	sb.WriteString(strings.Join(q.Variables, " "))

	sb.WriteString(" WHERE {\n")
	for _, p := range q.Where {
		sb.WriteString(fmt.Sprintf("  %s %s %s .\n", p.Subject, p.Predicate, p.Object))
	}
	for _, f := range q.Filters {
		sb.WriteString(fmt.Sprintf("  FILTER(%s)\n", f.Expression))
	}
	for _, opt := range q.Optional {
		sb.WriteString("  OPTIONAL {\n")
		for _, p := range opt {
			sb.WriteString(fmt.Sprintf("    %s %s %s .\n", p.Subject, p.Predicate, p.Object))
		}
		sb.WriteString("  }\n")
	}
	sb.WriteString("}")

	if len(q.OrderBy) > 0 {
		sb.WriteString(" ORDER BY")
		for _, ob := range q.OrderBy {
			if ob.Descending {
				sb.WriteString(fmt.Sprintf(" DESC(%s)", ob.Variable))
			} else {
				sb.WriteString(fmt.Sprintf(" %s", ob.Variable))
			}
		}
	}

	if q.Limit > 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT %d", q.Limit))
	}
	if q.Offset > 0 {
		sb.WriteString(fmt.Sprintf(" OFFSET %d", q.Offset))
	}

	return sb.String()
}
