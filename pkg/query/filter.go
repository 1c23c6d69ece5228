package query

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// applyFilter keeps the bindings for which the filter expression
// evaluates to true.
func (e *Executor) applyFilter(filter Filter, bindings []map[string]string) []map[string]string {
	var filtered []map[string]string

	for _, binding := range bindings {
		if evaluateFilter(filter.Expression, binding) {
			filtered = append(filtered, binding)
		}
	}

	return filtered
}

// evaluateFilter evaluates one FILTER expression against a binding.
// Supported forms are BOUND/!BOUND, REGEX, CONTAINS, STRSTARTS,
// STRENDS, STR, numeric comparisons, and string equality. An
// expression that matches none of these evaluates to true so an
// unsupported filter never silently drops rows.
func evaluateFilter(expression string, binding map[string]string) bool {
	// BOUND checks read the raw expression since the substitution
	// below rewrites variables into quoted values. !BOUND has to be
	// tried first because the BOUND pattern also matches inside it.
	notBoundPattern := regexp.MustCompile(`(?i)!\s*BOUND\s*\(\s*\?(\w+)\s*\)`)
	if match := notBoundPattern.FindStringSubmatch(expression); match != nil {
		_, ok := binding[match[1]]
		return !ok
	}

	boundPattern := regexp.MustCompile(`(?i)\bBOUND\s*\(\s*\?(\w+)\s*\)`)
	if match := boundPattern.FindStringSubmatch(expression); match != nil {
		_, ok := binding[match[1]]
		return ok
	}

	expr := substituteVariables(expression, binding)

	// STR() just unwraps to the string value.
	strPattern := regexp.MustCompile(`STR\s*\(\s*"([^"]+)"\s*\)`)
	expr = strPattern.ReplaceAllString(expr, `"$1"`)

	regexPattern := regexp.MustCompile(`(?i)REGEX\s*\(\s*"([^"]+)"\s*,\s*"([^"]+)"\s*\)`)
	if match := regexPattern.FindStringSubmatch(expr); match != nil {
		matched, _ := regexp.MatchString(match[2], match[1])
		return matched
	}

	containsPattern := regexp.MustCompile(`(?i)CONTAINS\s*\(\s*"([^"]+)"\s*,\s*"([^"]+)"\s*\)`)
	if match := containsPattern.FindStringSubmatch(expr); match != nil {
		return strings.Contains(match[1], match[2])
	}

	strstartsPattern := regexp.MustCompile(`(?i)STRSTARTS\s*\(\s*"([^"]+)"\s*,\s*"([^"]+)"\s*\)`)
	if match := strstartsPattern.FindStringSubmatch(expr); match != nil {
		return strings.HasPrefix(match[1], match[2])
	}

	strendsPattern := regexp.MustCompile(`(?i)STRENDS\s*\(\s*"([^"]+)"\s*,\s*"([^"]+)"\s*\)`)
	if match := strendsPattern.FindStringSubmatch(expr); match != nil {
		return strings.HasSuffix(match[1], match[2])
	}

	// Numeric comparison against an unquoted number.
	numComparePattern := regexp.MustCompile(`"([^"]+)"\s*(>=|<=|!=|>|<|=)\s*(\d+)`)
	if match := numComparePattern.FindStringSubmatch(expr); match != nil {
		value, err := strconv.Atoi(match[1])
		if err != nil {
			return false
		}
		threshold, _ := strconv.Atoi(match[3])
		switch match[2] {
		case ">":
			return value > threshold
		case "<":
			return value < threshold
		case ">=":
			return value >= threshold
		case "<=":
			return value <= threshold
		case "=":
			return value == threshold
		case "!=":
			return value != threshold
		}
	}

	neqPattern := regexp.MustCompile(`"([^"]+)"\s*!=\s*"([^"]+)"`)
	if match := neqPattern.FindStringSubmatch(expr); match != nil {
		return match[1] != match[2]
	}

	eqPattern := regexp.MustCompile(`"([^"]+)"\s*=\s*"([^"]+)"`)
	if match := eqPattern.FindStringSubmatch(expr); match != nil {
		return match[1] == match[2]
	}

	return true
}

// substituteVariables replaces each bound variable in the expression
// with its quoted value. Longer names go first so ?title does not
// clobber ?titleLong.
func substituteVariables(expression string, binding map[string]string) string {
	names := make([]string, 0, len(binding))
	for varName := range binding {
		names = append(names, varName)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	expr := expression
	for _, varName := range names {
		expr = strings.ReplaceAll(expr, "?"+varName, `"`+binding[varName]+`"`)
	}
	return expr
}
