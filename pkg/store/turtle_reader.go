package store

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTurtle parses Turtle text into triples, preserving statement order.
// It understands the subset the serializer emits: @prefix declarations,
// prefixed names, <...> IRIs, quoted and triple-quoted literals, "a" for
// rdf:type, comments, and ";" / "," continuations. Datatype and language
// suffixes on literals are accepted and discarded since the store holds
// plain strings. Dots inside prefixed local names are not supported.
func ParseTurtle(input string) ([]Triple, error) {
	tokens, err := tokenizeTurtle(input)
	if err != nil {
		return nil, err
	}

	prefixes := make(map[string]string)
	var triples []Triple

	statement := make([]string, 0, 8)
	for _, token := range tokens {
		if token != "." {
			statement = append(statement, token)
			continue
		}

		if len(statement) == 0 {
			continue
		}

		if statement[0] == "@prefix" {
			if err := parsePrefixDirective(statement, prefixes); err != nil {
				return nil, err
			}
		} else if strings.HasPrefix(statement[0], "@") {
			return nil, fmt.Errorf("unsupported directive: %s", statement[0])
		} else {
			parsed, err := parseTurtleStatement(statement, prefixes)
			if err != nil {
				return nil, err
			}
			triples = append(triples, parsed...)
		}

		statement = statement[:0]
	}

	if len(statement) > 0 {
		return nil, fmt.Errorf("unterminated statement: %s", strings.Join(statement, " "))
	}

	return triples, nil
}

// parsePrefixDirective handles "@prefix name: <uri>".
func parsePrefixDirective(statement []string, prefixes map[string]string) error {
	if len(statement) != 3 {
		return fmt.Errorf("malformed @prefix directive: %s", strings.Join(statement, " "))
	}

	name := statement[1]
	if !strings.HasSuffix(name, ":") {
		return fmt.Errorf("malformed @prefix name: %s", name)
	}
	name = strings.TrimSuffix(name, ":")

	uriToken := statement[2]
	if !strings.HasPrefix(uriToken, "<") || !strings.HasSuffix(uriToken, ">") {
		return fmt.Errorf("malformed @prefix namespace: %s", uriToken)
	}

	uri, err := unescapeTurtleString(uriToken[1 : len(uriToken)-1])
	if err != nil {
		return fmt.Errorf("malformed @prefix namespace %s: %w", uriToken, err)
	}

	prefixes[name] = uri
	return nil
}

// parseTurtleStatement expands one subject group into triples, walking the
// "pred obj (, obj)* (; pred obj ...)*" shape.
func parseTurtleStatement(statement []string, prefixes map[string]string) ([]Triple, error) {
	if len(statement) < 3 {
		return nil, fmt.Errorf("incomplete statement: %s", strings.Join(statement, " "))
	}

	subject, subjectIsLiteral, err := resolveTurtleTerm(statement[0], prefixes)
	if err != nil {
		return nil, err
	}
	if subjectIsLiteral {
		return nil, fmt.Errorf("literal subject in statement: %s", statement[0])
	}

	var triples []Triple

	i := 1
	for i < len(statement) {
		predicate, predicateIsLiteral, err := resolveTurtleTerm(statement[i], prefixes)
		if err != nil {
			return nil, err
		}
		if predicateIsLiteral {
			return nil, fmt.Errorf("literal predicate in statement: %s", statement[i])
		}
		i++

		for {
			if i >= len(statement) {
				return nil, fmt.Errorf("statement ends without object: %s", strings.Join(statement, " "))
			}
			object, _, err := resolveTurtleTerm(statement[i], prefixes)
			if err != nil {
				return nil, err
			}
			i++

			triples = append(triples, NewTriple(subject, predicate, object))

			if i < len(statement) && statement[i] == "," {
				i++
				continue
			}
			break
		}

		if i < len(statement) && statement[i] == ";" {
			i++
			// A trailing semicolon before the dot is legal.
			continue
		}
		if i < len(statement) {
			return nil, fmt.Errorf("unexpected token %q in statement: %s",
				statement[i], strings.Join(statement, " "))
		}
	}

	return triples, nil
}

// resolveTurtleTerm converts a token into a stored value and reports whether
// it was a literal.
func resolveTurtleTerm(token string, prefixes map[string]string) (string, bool, error) {
	switch {
	case token == "a":
		return RDFType, false, nil

	case strings.HasPrefix(token, "<"):
		if !strings.HasSuffix(token, ">") {
			return "", false, fmt.Errorf("unterminated IRI: %s", token)
		}
		uri, err := unescapeTurtleString(token[1 : len(token)-1])
		if err != nil {
			return "", false, fmt.Errorf("malformed IRI %s: %w", token, err)
		}
		return uri, false, nil

	case strings.HasPrefix(token, `"`):
		body, ok := stripLiteralQuotes(token)
		if !ok {
			return "", false, fmt.Errorf("unterminated literal: %s", token)
		}
		value, err := unescapeTurtleString(body)
		if err != nil {
			return "", false, fmt.Errorf("malformed literal %s: %w", token, err)
		}
		return value, true, nil

	default:
		colonIndex := strings.Index(token, ":")
		if colonIndex <= 0 {
			return "", false, fmt.Errorf("unrecognized term: %s", token)
		}
		prefix := token[:colonIndex]
		localName := token[colonIndex+1:]
		namespace, ok := prefixes[prefix]
		if !ok {
			return "", false, fmt.Errorf("undeclared prefix %q in term: %s", prefix, token)
		}
		return namespace + localName, false, nil
	}
}

// stripLiteralQuotes removes surrounding quotes along with any datatype or
// language suffix, returning the raw (still escaped) body.
func stripLiteralQuotes(token string) (string, bool) {
	quote := `"`
	if strings.HasPrefix(token, `"""`) {
		quote = `"""`
	}

	rest := token[len(quote):]
	end := findClosingQuote(rest, quote)
	if end < 0 {
		return "", false
	}

	// Anything after the closing quote is ^^datatype or @lang; drop it.
	return rest[:end], true
}

// findClosingQuote locates the closing quote sequence, skipping escaped
// quotes.
func findClosingQuote(s, quote string) int {
	for i := 0; i+len(quote) <= len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		if s[i:i+len(quote)] == quote {
			return i
		}
	}
	return -1
}

// unescapeTurtleString reverses the escapes the serializer produces,
// including \uXXXX and \UXXXXXXXX sequences.
func unescapeTurtleString(s string) (string, error) {
	if !strings.Contains(s, "\\") {
		return s, nil
	}

	var builder strings.Builder
	builder.Grow(len(s))

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch != '\\' {
			builder.WriteByte(ch)
			continue
		}

		i++
		if i >= len(s) {
			return "", fmt.Errorf("dangling escape")
		}

		switch s[i] {
		case 'n':
			builder.WriteByte('\n')
		case 'r':
			builder.WriteByte('\r')
		case 't':
			builder.WriteByte('\t')
		case '"':
			builder.WriteByte('"')
		case '\\':
			builder.WriteByte('\\')
		case 'u':
			r, err := decodeHexEscape(s, i+1, 4)
			if err != nil {
				return "", err
			}
			builder.WriteRune(r)
			i += 4
		case 'U':
			r, err := decodeHexEscape(s, i+1, 8)
			if err != nil {
				return "", err
			}
			builder.WriteRune(r)
			i += 8
		default:
			return "", fmt.Errorf("unknown escape sequence \\%c", s[i])
		}
	}

	return builder.String(), nil
}

func decodeHexEscape(s string, start, width int) (rune, error) {
	if start+width > len(s) {
		return 0, fmt.Errorf("truncated unicode escape")
	}
	value, err := strconv.ParseUint(s[start:start+width], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid unicode escape: %w", err)
	}
	return rune(value), nil
}

// tokenizeTurtle splits Turtle text into tokens, keeping IRI brackets and
// literal quotes attached and emitting ".", ";", and "," as standalone
// tokens. Comments run from "#" to end of line outside quoted regions.
func tokenizeTurtle(input string) ([]string, error) {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	i := 0
	for i < len(input) {
		ch := input[i]

		switch {
		case ch == '#':
			flush()
			for i < len(input) && input[i] != '\n' {
				i++
			}

		case ch == '<':
			flush()
			end := i + 1
			for end < len(input) && input[end] != '>' {
				end++
			}
			if end >= len(input) {
				return nil, fmt.Errorf("unterminated IRI near: %s", snippet(input[i:]))
			}
			tokens = append(tokens, input[i:end+1])
			i = end + 1

		case ch == '"':
			flush()
			token, next, err := scanLiteralToken(input, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token)
			i = next

		case ch == '.' || ch == ';' || ch == ',':
			flush()
			tokens = append(tokens, string(ch))
			i++

		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			flush()
			i++

		default:
			current.WriteByte(ch)
			i++
		}
	}
	flush()

	return tokens, nil
}

// scanLiteralToken consumes a quoted literal starting at input[start],
// including any ^^datatype or @lang suffix, and returns the token and the
// index after it.
func scanLiteralToken(input string, start int) (string, int, error) {
	quote := `"`
	if strings.HasPrefix(input[start:], `"""`) {
		quote = `"""`
	}

	i := start + len(quote)
	for i < len(input) {
		if input[i] == '\\' {
			i += 2
			continue
		}
		if strings.HasPrefix(input[i:], quote) {
			i += len(quote)
			// Consume a datatype or language suffix attached to the quote.
			for i < len(input) && !isTurtleDelimiter(input[i]) {
				i++
			}
			return input[start:i], i, nil
		}
		i++
	}

	return "", 0, fmt.Errorf("unterminated literal near: %s", snippet(input[start:]))
}

func isTurtleDelimiter(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '.', ';', ',':
		return true
	}
	return false
}

// snippet truncates text for error messages.
func snippet(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > 40 {
		return s[:40] + "..."
	}
	return s
}
