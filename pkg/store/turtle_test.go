package store

import (
	"strings"
	"testing"
)

// --- Constructor tests ---

func TestNewTurtleSerializer(t *testing.T) {
	serializer := NewTurtleSerializer()

	if serializer == nil {
		t.Fatal("NewTurtleSerializer returned nil")
	}

	if len(serializer.prefixMappings) != 8 {
		t.Errorf("Expected 8 default prefix mappings, got %d", len(serializer.prefixMappings))
	}

	if serializer.prefixIndex["rdf"] != NamespaceRDF {
		t.Errorf("Expected rdf prefix to map to %s, got %s", NamespaceRDF, serializer.prefixIndex["rdf"])
	}

	if serializer.namespaceIndex[string(DefaultOntologyNamespace)] != "onto" {
		t.Errorf("Expected ontology namespace to reverse-map to 'onto', got %s",
			serializer.namespaceIndex[string(DefaultOntologyNamespace)])
	}
}

func TestNewTurtleSerializer_WithCustomPrefix(t *testing.T) {
	serializer := NewTurtleSerializer(
		WithPrefix("ex", "https://example.org/ns#"),
	)

	if len(serializer.prefixMappings) != 9 {
		t.Errorf("Expected 9 prefix mappings (8 default + 1 custom), got %d", len(serializer.prefixMappings))
	}

	if serializer.prefixIndex["ex"] != "https://example.org/ns#" {
		t.Error("Custom prefix 'ex' not found in prefix index")
	}
}

func TestNewTurtleSerializer_PrefixOverride(t *testing.T) {
	serializer := NewTurtleSerializer(
		WithPrefix("onto", "https://example.org/custom-onto/"),
	)

	// Overriding must replace the default, not add a second mapping.
	if len(serializer.prefixMappings) != 8 {
		t.Errorf("Expected 8 prefix mappings after override, got %d", len(serializer.prefixMappings))
	}

	if serializer.prefixIndex["onto"] != "https://example.org/custom-onto/" {
		t.Errorf("Expected onto prefix to map to custom namespace, got %s", serializer.prefixIndex["onto"])
	}

	output := serializer.Serialize(NewTripleStore())
	if strings.Count(output, "@prefix onto:") != 1 {
		t.Errorf("Expected exactly one onto prefix declaration, output:\n%s", output)
	}
}

func TestNewTurtleSerializer_WithVocabulary(t *testing.T) {
	v := NewVocabulary("http://example.org/src/", "http://example.org/onto/")
	serializer := NewTurtleSerializer(WithVocabulary(v))

	if serializer.prefixIndex["sources"] != "http://example.org/src/" {
		t.Errorf("Expected sources prefix to track the vocabulary, got %s", serializer.prefixIndex["sources"])
	}
	if serializer.prefixIndex["onto"] != "http://example.org/onto/" {
		t.Errorf("Expected onto prefix to track the vocabulary, got %s", serializer.prefixIndex["onto"])
	}
}

func TestNewTurtleSerializer_WithoutDefaults(t *testing.T) {
	serializer := NewTurtleSerializer(
		WithoutDefaultPrefixes(),
		WithPrefix("custom", "https://example.org/ns#"),
	)

	if len(serializer.prefixMappings) != 1 {
		t.Errorf("Expected 1 prefix mapping (defaults cleared), got %d", len(serializer.prefixMappings))
	}

	if serializer.prefixIndex["custom"] != "https://example.org/ns#" {
		t.Error("Custom prefix not found after clearing defaults")
	}
}

// --- Escaping tests ---

func TestEscapeLiteralString(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "hello world", "hello world"},
		{"backslash", `path\to\file`, `path\\to\\file`},
		{"double_quote", `say "hello"`, `say \"hello\"`},
		{"newline", "line1\nline2", `line1\nline2`},
		{"carriage_return", "text\rmore", `text\rmore`},
		{"tab", "col1\tcol2", `col1\tcol2`},
		{"combined", "a\"b\\c\nd", `a\"b\\c\nd`},
		{"empty", "", ""},
		{"unicode", "Grundlagen der Wissensgraphen", "Grundlagen der Wissensgraphen"},
		{"single_quotes", "'term' means something", "'term' means something"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := escapeLiteralString(testCase.input)
			if result != testCase.expected {
				t.Errorf("escapeLiteralString(%q) = %q, want %q", testCase.input, result, testCase.expected)
			}
		})
	}
}

func TestEscapeIRI(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"normal_uri", "https://example.org/resource", "https://example.org/resource"},
		{"angle_brackets", "https://example.org/<test>", `https://example.org/\u003Ctest\u003E`},
		{"space", "https://example.org/my resource", `https://example.org/my\u0020resource`},
		{"curly_braces", "https://example.org/{id}", `https://example.org/\u007Bid\u007D`},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := escapeIRI(testCase.input)
			if result != testCase.expected {
				t.Errorf("escapeIRI(%q) = %q, want %q", testCase.input, result, testCase.expected)
			}
		})
	}
}

func TestFormatLiteral(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "hello", `"hello"`},
		{"with_quotes", `say "hi"`, `"say \"hi\""`},
		{"multiline", "line1\nline2", `"""line1\nline2"""`},
		{"empty", "", `""`},
		{"number_string", "17", `"17"`},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := formatLiteral(testCase.input)
			if result != testCase.expected {
				t.Errorf("formatLiteral(%q) = %q, want %q", testCase.input, result, testCase.expected)
			}
		})
	}
}

// --- URI detection tests ---

func TestIsFullURI(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected bool
	}{
		{"http", "http://notegraph.local/sources/Note", true},
		{"https", "https://example.org/thing", true},
		{"urn", "urn:isbn:0451450523", true},
		{"literal_text", "a plain sentence", false},
		{"literal_starting_with_url", "http://example.org is a good read", false},
		{"literal_with_newline", "http://example.org\nsecond line", false},
		{"empty", "", false},
		{"prefixed_name", "onto:Document", false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := isFullURI(testCase.input)
			if result != testCase.expected {
				t.Errorf("isFullURI(%q) = %v, want %v", testCase.input, result, testCase.expected)
			}
		})
	}
}

// --- URI compaction tests ---

func TestCompactURI(t *testing.T) {
	serializer := NewTurtleSerializer()

	testCases := []struct {
		name           string
		inputURI       string
		expectedResult string
		expectedOK     bool
	}{
		{"sources_namespace", "http://notegraph.local/sources/My_Note", "sources:My_Note", true},
		{"ontology_namespace", "http://notegraph.local/ontology/Document", "onto:Document", true},
		{"rdf_namespace", "http://www.w3.org/1999/02/22-rdf-syntax-ns#type", "rdf:type", true},
		{"dct_namespace", "http://purl.org/dc/terms/title", "dct:title", true},
		{"skos_namespace", "http://www.w3.org/2004/02/skos/core#prefLabel", "skos:prefLabel", true},
		{"no_match", "https://unknown.example.org/something", "", false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result, ok := serializer.compactURI(testCase.inputURI)
			if ok != testCase.expectedOK {
				t.Errorf("compactURI(%q) ok = %v, want %v", testCase.inputURI, ok, testCase.expectedOK)
			}
			if result != testCase.expectedResult {
				t.Errorf("compactURI(%q) = %q, want %q", testCase.inputURI, result, testCase.expectedResult)
			}
		})
	}
}

// --- Predicate formatting tests ---

func TestFormatPredicate(t *testing.T) {
	serializer := NewTurtleSerializer()

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"rdf_type", RDFType, "a"},
		{"rdfs_label", RDFSLabel, "rdfs:label"},
		{"ontology_property", string(DefaultOntologyNamespace) + "hasChunk", "onto:hasChunk"},
		{"unknown_namespace", "https://example.org/vocab#prop", "<https://example.org/vocab#prop>"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := serializer.formatPredicate(testCase.input)
			if result != testCase.expected {
				t.Errorf("formatPredicate(%q) = %q, want %q", testCase.input, result, testCase.expected)
			}
		})
	}
}

// --- Sort predicates tests ---

func TestSortPredicatesTypeFirst(t *testing.T) {
	serializer := NewTurtleSerializer()

	predicateObjectMap := map[string][]string{
		DCTTitle:  {"Test"},
		RDFType:   {"onto:Document"},
		RDFSLabel: {"Test"},
	}

	result := serializer.sortPredicatesTypeFirst(predicateObjectMap)

	if len(result) != 3 {
		t.Fatalf("Expected 3 predicates, got %d", len(result))
	}

	if result[0] != RDFType {
		t.Errorf("Expected rdf:type first, got %q", result[0])
	}

	// Remaining predicates sort alphabetically by full URI.
	if result[1] != DCTTitle {
		t.Errorf("Expected dct:title second, got %q", result[1])
	}
	if result[2] != RDFSLabel {
		t.Errorf("Expected rdfs:label third, got %q", result[2])
	}
}

// --- Serialization tests ---

func TestTurtleSerializer_Serialize(t *testing.T) {
	ts := NewTripleStore()
	v := DefaultVocabulary()

	doc := v.DocumentURI("My Note")
	chunk := v.ChunkURI("My Note", 0)

	ts.Add(doc, RDFType, v.ClassDocument)
	ts.Add(doc, DCTTitle, "My Note")
	ts.Add(doc, v.PropHasChunk, chunk)
	ts.Add(chunk, RDFType, v.ClassChunk)
	ts.Add(chunk, v.PropChunkText, "First paragraph.\n\nSecond paragraph.")

	serializer := NewTurtleSerializer()
	output := serializer.Serialize(ts)

	expectations := []string{
		"@prefix onto: <http://notegraph.local/ontology/> .",
		"@prefix sources: <http://notegraph.local/sources/> .",
		"sources:My_Note a onto:Document",
		"dct:title \"My Note\"",
		"onto:hasChunk sources:My_Note_chunk_0",
		`"""First paragraph.\n\nSecond paragraph."""`,
	}

	for _, expected := range expectations {
		if !strings.Contains(output, expected) {
			t.Errorf("Expected output to contain %q, got:\n%s", expected, output)
		}
	}
}

func TestTurtleSerializer_Serialize_SortedSubjects(t *testing.T) {
	ts := NewTripleStore()
	ts.Add("http://notegraph.local/sources/Zebra", RDFType, "http://notegraph.local/ontology/Document")
	ts.Add("http://notegraph.local/sources/Alpha", RDFType, "http://notegraph.local/ontology/Document")

	output := NewTurtleSerializer().Serialize(ts)

	alphaIndex := strings.Index(output, "sources:Alpha")
	zebraIndex := strings.Index(output, "sources:Zebra")

	if alphaIndex == -1 || zebraIndex == -1 {
		t.Fatalf("Expected both subjects in output, got:\n%s", output)
	}
	if alphaIndex > zebraIndex {
		t.Error("Expected subjects sorted alphabetically")
	}
}

func TestTurtleSerializer_Serialize_Deterministic(t *testing.T) {
	ts := NewTripleStore()
	v := DefaultVocabulary()
	for _, title := range []string{"Gamma", "Alpha", "Beta"} {
		ts.Add(v.DocumentURI(title), RDFType, v.ClassDocument)
		ts.Add(v.DocumentURI(title), DCTTitle, title)
	}

	serializer := NewTurtleSerializer()
	first := serializer.Serialize(ts)
	second := serializer.Serialize(ts)

	if first != second {
		t.Error("Expected identical output across repeated serializations")
	}
}

func TestTurtleSerializer_Serialize_EmptyStore(t *testing.T) {
	output := NewTurtleSerializer().Serialize(NewTripleStore())

	if !strings.Contains(output, "@prefix rdf:") {
		t.Error("Expected prefix declarations even for an empty store")
	}
	if strings.Contains(output, " a ") {
		t.Error("Expected no subject groups for an empty store")
	}
}
