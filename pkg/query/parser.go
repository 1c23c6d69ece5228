package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/coolbeans/notegraph/pkg/store"
)

// ParseQuery parses a SPARQL SELECT query string. Prefixed names in
// the parsed patterns are expanded from the query's PREFIX
// declarations before the query is returned, so executors only see
// variables, full URIs, and literals.
func ParseQuery(queryStr string) (*SelectQuery, error) {
	queryStr = strings.TrimSpace(queryStr)
	if queryStr == "" {
		return nil, fmt.Errorf("empty query")
	}

	if !strings.Contains(strings.ToUpper(queryStr), "SELECT") {
		return nil, fmt.Errorf("unsupported query type: only SELECT queries are supported")
	}

	query, err := parseSelectQuery(queryStr)
	if err != nil {
		return nil, err
	}
	query.ExpandPrefixes()
	return query, nil
}

// parseSelectQuery parses the clauses of a SELECT query.
func parseSelectQuery(queryStr string) (*SelectQuery, error) {
	query := &SelectQuery{
		Prefixes: make(map[string]string),
	}

	// PREFIX declarations come out first so the remaining clauses are
	// easier to match.
	prefixRegex := regexp.MustCompile(`(?i)PREFIX\s+(\w+):\s*<([^>]+)>`)
	for _, match := range prefixRegex.FindAllStringSubmatch(queryStr, -1) {
		query.Prefixes[match[1]] = match[2]
	}
	queryStr = prefixRegex.ReplaceAllString(queryStr, "")

	distinctRegex := regexp.MustCompile(`(?i)\bSELECT\s+DISTINCT\b`)
	if distinctRegex.MatchString(queryStr) {
		query.Distinct = true
		queryStr = regexp.MustCompile(`(?i)\bDISTINCT\b`).ReplaceAllString(queryStr, "")
	}

	selectRegex := regexp.MustCompile(`(?i)SELECT\s+([\s\S]*?)\s+WHERE`)
	selectMatch := selectRegex.FindStringSubmatch(queryStr)
	if selectMatch == nil {
		return nil, fmt.Errorf("invalid SELECT query: missing WHERE clause")
	}

	varsStr := strings.TrimSpace(selectMatch[1])
	if varsStr == "*" {
		query.Variables = []string{"*"}
	} else {
		varRegex := regexp.MustCompile(`\?(\w+)`)
		varMatches := varRegex.FindAllString(varsStr, -1)
		if len(varMatches) == 0 {
			return nil, fmt.Errorf("no variables found in SELECT clause")
		}
		query.Variables = varMatches
	}

	whereRegex := regexp.MustCompile(`(?i)WHERE\s*\{([\s\S]*)\}`)
	whereMatch := whereRegex.FindStringSubmatch(queryStr)
	if whereMatch == nil {
		return nil, fmt.Errorf("invalid WHERE clause: missing braces")
	}
	whereClause := whereMatch[1]

	// OPTIONAL groups are parsed separately and removed before the
	// main patterns are read.
	optionalRegex := regexp.MustCompile(`(?i)OPTIONAL\s*\{([^}]+)\}`)
	for _, match := range optionalRegex.FindAllStringSubmatch(whereClause, -1) {
		optionalPatterns, err := parseTriplePatterns(match[1])
		if err != nil {
			return nil, fmt.Errorf("error parsing OPTIONAL clause: %w", err)
		}
		query.Optional = append(query.Optional, optionalPatterns)
	}
	mainWhereClause := optionalRegex.ReplaceAllString(whereClause, "")

	query.Filters = extractFilters(mainWhereClause)
	mainWhereClause = removeFilters(mainWhereClause)

	patterns, err := parseTriplePatterns(mainWhereClause)
	if err != nil {
		return nil, err
	}
	query.Where = patterns

	orderByRegex := regexp.MustCompile(`(?i)ORDER\s+BY\s+((?:(?:ASC|DESC)\s*\(\s*\?\w+\s*\)|\?\w+)(?:\s+(?:ASC|DESC)\s*\(\s*\?\w+\s*\)|\s+\?\w+)*)`)
	if orderByMatch := orderByRegex.FindStringSubmatch(queryStr); orderByMatch != nil {
		query.OrderBy = parseOrderBy(orderByMatch[1])
	}

	limitRegex := regexp.MustCompile(`(?i)LIMIT\s+(\d+)`)
	if limitMatch := limitRegex.FindStringSubmatch(queryStr); limitMatch != nil {
		query.Limit, _ = strconv.Atoi(limitMatch[1])
	}

	offsetRegex := regexp.MustCompile(`(?i)OFFSET\s+(\d+)`)
	if offsetMatch := offsetRegex.FindStringSubmatch(queryStr); offsetMatch != nil {
		query.Offset, _ = strconv.Atoi(offsetMatch[1])
	}

	return query, nil
}

// parseOrderBy parses the sort keys of an ORDER BY clause. Both the
// ASC(?var)/DESC(?var) form and bare ?var are accepted.
func parseOrderBy(orderByStr string) []OrderBy {
	var orderBys []OrderBy

	funcRegex := regexp.MustCompile(`(?i)(ASC|DESC)\s*\(\s*\?(\w+)\s*\)`)
	for _, match := range funcRegex.FindAllStringSubmatch(orderByStr, -1) {
		orderBys = append(orderBys, OrderBy{
			Variable:   "?" + match[2],
			Descending: strings.EqualFold(match[1], "DESC"),
		})
	}

	if len(orderBys) == 0 {
		varRegex := regexp.MustCompile(`\?(\w+)`)
		for _, match := range varRegex.FindAllStringSubmatch(orderByStr, -1) {
			orderBys = append(orderBys, OrderBy{Variable: "?" + match[1]})
		}
	}

	return orderBys
}

// extractFilters pulls FILTER expressions out of a WHERE clause,
// walking to the balanced closing parenthesis so nested calls like
// REGEX(STR(?s), "x") survive intact.
func extractFilters(whereClause string) []Filter {
	var filters []Filter

	filterKeyword := regexp.MustCompile(`(?i)\bFILTER\s*\(`)
	for _, match := range filterKeyword.FindAllStringIndex(whereClause, -1) {
		startIdx := match[1]

		depth := 1
		endIdx := startIdx
		for endIdx < len(whereClause) && depth > 0 {
			switch whereClause[endIdx] {
			case '(':
				depth++
			case ')':
				depth--
			}
			endIdx++
		}

		if depth == 0 {
			expression := strings.TrimSpace(whereClause[startIdx : endIdx-1])
			filters = append(filters, Filter{Expression: expression})
		}
	}

	return filters
}

// removeFilters strips FILTER expressions from a WHERE clause with the
// same balanced-parenthesis walk as extractFilters, so nested calls do
// not leave fragments behind.
func removeFilters(whereClause string) string {
	filterKeyword := regexp.MustCompile(`(?i)\bFILTER\s*\(`)
	for {
		match := filterKeyword.FindStringIndex(whereClause)
		if match == nil {
			return whereClause
		}

		depth := 1
		endIdx := match[1]
		for endIdx < len(whereClause) && depth > 0 {
			switch whereClause[endIdx] {
			case '(':
				depth++
			case ')':
				depth--
			}
			endIdx++
		}

		whereClause = whereClause[:match[0]] + whereClause[endIdx:]
	}
}

// splitTriples splits a WHERE clause on periods, ignoring periods
// inside URIs and literals.
func splitTriples(whereClause string) []string {
	var triples []string
	var current strings.Builder
	inURI := false
	inLiteral := false

	for i := 0; i < len(whereClause); i++ {
		ch := whereClause[i]
		switch {
		case ch == '<' && !inLiteral:
			inURI = true
			current.WriteByte(ch)
		case ch == '>' && inURI:
			inURI = false
			current.WriteByte(ch)
		case ch == '"' && !inURI:
			inLiteral = !inLiteral
			current.WriteByte(ch)
		case ch == '.' && !inURI && !inLiteral:
			if current.Len() > 0 {
				triples = append(triples, current.String())
				current.Reset()
			}
		default:
			current.WriteByte(ch)
		}
	}

	if current.Len() > 0 {
		triples = append(triples, current.String())
	}

	return triples
}

// parseTriplePatterns parses the triple patterns of a WHERE clause,
// handling semicolon continuations and the "a" shorthand for rdf:type.
func parseTriplePatterns(whereClause string) ([]TriplePattern, error) {
	var patterns []TriplePattern

	for _, line := range splitTriples(whereClause) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// FILTER text has already been extracted.
		if strings.HasPrefix(strings.ToUpper(line), "FILTER") {
			continue
		}

		parts := strings.Split(line, ";")

		var currentSubject string
		for _, part := range parts {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}

			tokens := tokenizePattern(part)
			if len(tokens) < 3 {
				// Two tokens continue the previous subject.
				if len(tokens) == 2 && currentSubject != "" {
					tokens = append([]string{currentSubject}, tokens...)
				} else {
					continue
				}
			}

			subject := tokens[0]
			predicate := tokens[1]

			// "a" is rdf:type regardless of declared prefixes.
			if predicate == "a" {
				predicate = "<" + store.RDFType + ">"
			}

			// The object may span several tokens when it is an
			// unquoted multi-word value.
			object := strings.Join(tokens[2:], " ")

			patterns = append(patterns, TriplePattern{
				Subject:   subject,
				Predicate: predicate,
				Object:    object,
			})

			currentSubject = subject
		}
	}

	return patterns, nil
}

// tokenizePattern splits a triple pattern into terms, keeping URIs and
// literals whole.
func tokenizePattern(s string) []string {
	var tokens []string
	var current strings.Builder
	inURI := false
	inLiteral := false

	for i := 0; i < len(s); i++ {
		ch := s[i]

		switch {
		case ch == '<' && !inLiteral:
			inURI = true
			current.WriteByte(ch)
		case ch == '>' && inURI:
			inURI = false
			current.WriteByte(ch)
			tokens = append(tokens, current.String())
			current.Reset()
		case ch == '"':
			inLiteral = !inLiteral
			current.WriteByte(ch)
			if !inLiteral {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		case (ch == ' ' || ch == '\t' || ch == '\n') && !inURI && !inLiteral:
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteByte(ch)
		}
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// ExpandPrefixes rewrites prefixed names in all patterns into full
// URIs using the query's PREFIX declarations.
func (q *SelectQuery) ExpandPrefixes() {
	for i := range q.Where {
		q.Where[i].Subject = expandPrefix(q.Where[i].Subject, q.Prefixes)
		q.Where[i].Predicate = expandPrefix(q.Where[i].Predicate, q.Prefixes)
		q.Where[i].Object = expandPrefix(q.Where[i].Object, q.Prefixes)
	}

	for i := range q.Optional {
		for j := range q.Optional[i] {
			q.Optional[i][j].Subject = expandPrefix(q.Optional[i][j].Subject, q.Prefixes)
			q.Optional[i][j].Predicate = expandPrefix(q.Optional[i][j].Predicate, q.Prefixes)
			q.Optional[i][j].Object = expandPrefix(q.Optional[i][j].Object, q.Prefixes)
		}
	}
}

// expandPrefix expands one prefixed name. Variables, full URIs,
// literals, and names with undeclared prefixes pass through unchanged.
func expandPrefix(term string, prefixes map[string]string) string {
	term = strings.TrimSpace(term)

	if term == "" || term[0] == '?' || term[0] == '<' || term[0] == '"' {
		return term
	}

	colonIdx := strings.Index(term, ":")
	if colonIdx > 0 && colonIdx < len(term)-1 {
		prefix := term[:colonIdx]
		localName := term[colonIdx+1:]

		if baseURI, ok := prefixes[prefix]; ok {
			return "<" + baseURI + localName + ">"
		}
	}

	return term
}
