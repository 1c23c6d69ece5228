package store

import (
	"fmt"
	"sort"
	"strings"
)

// PrefixMapping associates a short prefix label with its full namespace URI.
type PrefixMapping struct {
	Prefix    string
	Namespace string
}

// TurtleSerializer converts a TripleStore into W3C-compliant Turtle (TTL) format.
type TurtleSerializer struct {
	prefixMappings []PrefixMapping
	prefixIndex    map[string]string // prefix -> namespace
	namespaceIndex map[string]string // namespace -> prefix
}

// TurtleOption is a functional option for configuring the TurtleSerializer.
type TurtleOption func(*TurtleSerializer)

// NewTurtleSerializer creates a TurtleSerializer with standard prefix declarations.
func NewTurtleSerializer(options ...TurtleOption) *TurtleSerializer {
	serializer := &TurtleSerializer{
		prefixMappings: defaultPrefixMappings(),
	}

	for _, option := range options {
		option(serializer)
	}

	serializer.rebuildIndexes()

	return serializer
}

// WithPrefix adds a prefix mapping, replacing any existing mapping that uses
// the same prefix label.
func WithPrefix(prefix, namespace string) TurtleOption {
	return func(serializer *TurtleSerializer) {
		for i, mapping := range serializer.prefixMappings {
			if mapping.Prefix == prefix {
				serializer.prefixMappings[i].Namespace = namespace
				return
			}
		}
		serializer.prefixMappings = append(serializer.prefixMappings, PrefixMapping{
			Prefix:    prefix,
			Namespace: namespace,
		})
	}
}

// WithVocabulary maps the "sources" and "onto" prefixes onto the vocabulary's
// namespaces so instance URIs compact under the caller's configuration.
func WithVocabulary(v Vocabulary) TurtleOption {
	return func(serializer *TurtleSerializer) {
		WithPrefix("sources", string(v.Sources))(serializer)
		WithPrefix("onto", string(v.Ontology))(serializer)
	}
}

// WithoutDefaultPrefixes clears default prefixes so only custom ones are used.
func WithoutDefaultPrefixes() TurtleOption {
	return func(serializer *TurtleSerializer) {
		serializer.prefixMappings = nil
	}
}

func defaultPrefixMappings() []PrefixMapping {
	return []PrefixMapping{
		{Prefix: "rdf", Namespace: NamespaceRDF},
		{Prefix: "rdfs", Namespace: NamespaceRDFS},
		{Prefix: "owl", Namespace: NamespaceOWL},
		{Prefix: "skos", Namespace: NamespaceSKOS},
		{Prefix: "dct", Namespace: NamespaceDCT},
		{Prefix: "xsd", Namespace: NamespaceXSD},
		{Prefix: "sources", Namespace: string(DefaultSourcesNamespace)},
		{Prefix: "onto", Namespace: string(DefaultOntologyNamespace)},
	}
}

func (serializer *TurtleSerializer) rebuildIndexes() {
	serializer.prefixIndex = make(map[string]string, len(serializer.prefixMappings))
	serializer.namespaceIndex = make(map[string]string, len(serializer.prefixMappings))

	for _, mapping := range serializer.prefixMappings {
		serializer.prefixIndex[mapping.Prefix] = mapping.Namespace
		serializer.namespaceIndex[mapping.Namespace] = mapping.Prefix
	}
}

// Serialize converts all triples in the store to Turtle format.
func (serializer *TurtleSerializer) Serialize(store *TripleStore) string {
	var builder strings.Builder

	serializer.writePrefixDeclarations(&builder)

	subjectGroups := serializer.groupTriplesBySubject(store)
	sortedSubjects := sortedKeys(subjectGroups)

	for subjectIndex, subject := range sortedSubjects {
		if subjectIndex > 0 {
			builder.WriteString("\n")
		}
		serializer.writeSubjectGroup(&builder, subject, subjectGroups[subject])
	}

	return builder.String()
}

func (serializer *TurtleSerializer) writePrefixDeclarations(builder *strings.Builder) {
	sortedPrefixes := make([]PrefixMapping, len(serializer.prefixMappings))
	copy(sortedPrefixes, serializer.prefixMappings)
	sort.Slice(sortedPrefixes, func(i, j int) bool {
		return sortedPrefixes[i].Prefix < sortedPrefixes[j].Prefix
	})

	for _, mapping := range sortedPrefixes {
		fmt.Fprintf(builder, "@prefix %s: <%s> .\n", mapping.Prefix, mapping.Namespace)
	}

	if len(serializer.prefixMappings) > 0 {
		builder.WriteString("\n")
	}
}

// groupTriplesBySubject organizes triples into subject -> predicate -> []object.
func (serializer *TurtleSerializer) groupTriplesBySubject(store *TripleStore) map[string]map[string][]string {
	allTriples := store.All()

	subjectGroups := make(map[string]map[string][]string)

	for _, triple := range allTriples {
		if _, exists := subjectGroups[triple.Subject]; !exists {
			subjectGroups[triple.Subject] = make(map[string][]string)
		}
		subjectGroups[triple.Subject][triple.Predicate] = append(
			subjectGroups[triple.Subject][triple.Predicate],
			triple.Object,
		)
	}

	return subjectGroups
}

func (serializer *TurtleSerializer) writeSubjectGroup(
	builder *strings.Builder,
	subject string,
	predicateObjectMap map[string][]string,
) {
	builder.WriteString(serializer.formatResource(subject))

	sortedPredicates := serializer.sortPredicatesTypeFirst(predicateObjectMap)

	for predicateIndex, predicate := range sortedPredicates {
		objects := predicateObjectMap[predicate]
		sort.Strings(objects)

		if predicateIndex == 0 {
			builder.WriteString(" ")
		} else {
			builder.WriteString(" ;\n    ")
		}

		formattedPredicate := serializer.formatPredicate(predicate)
		builder.WriteString(formattedPredicate)

		for objectIndex, object := range objects {
			if objectIndex > 0 {
				builder.WriteString(" ,\n        ")
			} else {
				builder.WriteString(" ")
			}
			builder.WriteString(serializer.formatObject(object))
		}
	}

	builder.WriteString(" .\n")
}

// formatResource formats a subject or predicate, which is always a URI.
func (serializer *TurtleSerializer) formatResource(value string) string {
	if isFullURI(value) {
		if compacted, ok := serializer.compactURI(value); ok {
			return compacted
		}
		return "<" + escapeIRI(value) + ">"
	}
	return value
}

// formatPredicate formats a predicate, using "a" shorthand for rdf:type.
func (serializer *TurtleSerializer) formatPredicate(predicate string) string {
	if predicate == RDFType {
		return "a"
	}
	return serializer.formatResource(predicate)
}

// formatObject formats an object, which is either a URI or a plain literal.
func (serializer *TurtleSerializer) formatObject(value string) string {
	if isFullURI(value) {
		if compacted, ok := serializer.compactURI(value); ok {
			return compacted
		}
		return "<" + escapeIRI(value) + ">"
	}

	return formatLiteral(value)
}

// compactURI replaces a full namespace URI with its prefix form.
func (serializer *TurtleSerializer) compactURI(fullURI string) (string, bool) {
	// Try longest namespace match first for correctness
	bestPrefix := ""
	bestNamespace := ""
	for namespace, prefix := range serializer.namespaceIndex {
		if strings.HasPrefix(fullURI, namespace) && len(namespace) > len(bestNamespace) {
			localName := fullURI[len(namespace):]
			if isValidLocalName(localName) {
				bestPrefix = prefix
				bestNamespace = namespace
			}
		}
	}

	if bestNamespace != "" {
		return bestPrefix + ":" + fullURI[len(bestNamespace):], true
	}
	return "", false
}

// sortPredicatesTypeFirst sorts predicates with rdf:type first, then alphabetically.
func (serializer *TurtleSerializer) sortPredicatesTypeFirst(predicateObjectMap map[string][]string) []string {
	predicates := make([]string, 0, len(predicateObjectMap))
	hasRDFType := false

	for predicate := range predicateObjectMap {
		if predicate == RDFType {
			hasRDFType = true
		} else {
			predicates = append(predicates, predicate)
		}
	}

	sort.Strings(predicates)

	if hasRDFType {
		predicates = append([]string{RDFType}, predicates...)
	}

	return predicates
}

// isFullURI checks if a value is a full URI. Literal text can begin with a
// scheme (a chunk quoting a bare link), so anything containing whitespace is
// treated as a literal.
func isFullURI(value string) bool {
	if strings.ContainsAny(value, " \t\n\r") {
		return false
	}
	return strings.HasPrefix(value, "http://") ||
		strings.HasPrefix(value, "https://") ||
		strings.HasPrefix(value, "urn:")
}

// isValidLocalName checks if a string is a valid Turtle local name.
func isValidLocalName(localName string) bool {
	if localName == "" {
		return false
	}
	return !strings.ContainsAny(localName, " \t\n\r<>\"{}|^`\\")
}

// formatLiteral wraps a string value in Turtle-compliant double quotes.
func formatLiteral(value string) string {
	escaped := escapeLiteralString(value)

	if strings.Contains(value, "\n") {
		return `"""` + escaped + `"""`
	}

	return `"` + escaped + `"`
}

// escapeLiteralString escapes special characters for Turtle literal syntax.
func escapeLiteralString(value string) string {
	var builder strings.Builder
	builder.Grow(len(value) + len(value)/8)

	for _, char := range value {
		switch char {
		case '\\':
			builder.WriteString(`\\`)
		case '"':
			builder.WriteString(`\"`)
		case '\n':
			builder.WriteString(`\n`)
		case '\r':
			builder.WriteString(`\r`)
		case '\t':
			builder.WriteString(`\t`)
		default:
			builder.WriteRune(char)
		}
	}

	return builder.String()
}

// escapeIRI escapes characters not allowed in IRIs within angle brackets.
func escapeIRI(iri string) string {
	var builder strings.Builder
	builder.Grow(len(iri))

	for _, char := range iri {
		switch char {
		case '<', '>', '"', '{', '}', '|', '^', '`', '\\', ' ':
			fmt.Fprintf(&builder, `\u%04X`, char)
		default:
			builder.WriteRune(char)
		}
	}

	return builder.String()
}

// sortedKeys returns the keys of a map sorted alphabetically.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
