package output

import (
	"encoding/json"
	"fmt"
	"testing"
)

// TestIPuzFormatExampleOutput creates a sample ipuz file for manual verification.
func TestIPuzFormatExampleOutput(t *testing.T) {
	p := buildFilledPuzzle(t)

	ipuzPuzzle, err := FormatIPuz(p)
	if err != nil {
		t.Fatalf("FormatIPuz failed: %v", err)
	}

	jsonBytes, err := json.MarshalIndent(ipuzPuzzle, "", "  ")
	if err != nil {
		t.Fatalf("JSON marshal failed: %v", err)
	}

	fmt.Println("Sample ipuz output:")
	fmt.Println(string(jsonBytes))

	var parsed map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	requiredFields := []string{"version", "kind", "dimensions", "puzzle", "solution", "clues"}
	for _, field := range requiredFields {
		if _, ok := parsed[field]; !ok {
			t.Errorf("Required field '%s' is missing from ipuz output", field)
		}
	}

	if parsed["version"] != "http://ipuz.org/v2" {
		t.Errorf("Expected version 'http://ipuz.org/v2', got '%v'", parsed["version"])
	}

	kind, ok := parsed["kind"].([]interface{})
	if !ok || len(kind) == 0 {
		t.Fatal("Expected kind to be a non-empty array")
	}
	if kind[0] != "http://ipuz.org/crossword#1" {
		t.Errorf("Expected kind[0] to be 'http://ipuz.org/crossword#1', got '%v'", kind[0])
	}
}
