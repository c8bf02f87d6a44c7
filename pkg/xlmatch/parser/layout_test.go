package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleLayout = `{
  "apiVersion": "2024-11-30",
  "content": "この道路の長さは1kmである",
  "pages": [
    {
      "pageNumber": 1,
      "width": 8.2639,
      "height": 11.6806,
      "unit": "inch",
      "lines": [
        {"content": "この道路の長さは1kmである", "polygon": [1, 1, 4, 1, 4, 1.25, 1, 1.25]}
      ],
      "words": [
        {"content": "この", "polygon": [1, 1, 1.3, 1, 1.3, 1.25, 1, 1.25], "confidence": 0.99},
        {"content": "1km", "polygon": [2.5, 1, 2.9, 1, 2.9, 1.25, 2.5, 1.25], "confidence": 0.98}
      ]
    }
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadLayout(t *testing.T) {
	path := writeFile(t, "source.json", sampleLayout)

	result, err := LoadLayout(path)
	if err != nil {
		t.Fatalf("LoadLayout failed: %v", err)
	}
	if len(result.Pages) != 1 {
		t.Fatalf("Expected 1 page, got %d", len(result.Pages))
	}
	page := result.Pages[0]
	if page.PageNumber != 1 || page.Unit != "inch" {
		t.Errorf("Unexpected page header: %+v", page)
	}
	if len(page.Lines) != 1 || page.Lines[0].Content != "この道路の長さは1kmである" {
		t.Errorf("Unexpected lines: %+v", page.Lines)
	}
	if len(page.Words) != 2 || page.Words[1].Polygon[0] != 2.5 || page.Words[1].Polygon[7] != 1.25 {
		t.Errorf("Unexpected words: %+v", page.Words)
	}
}

func TestLoadLayoutMissingFile(t *testing.T) {
	_, err := LoadLayout(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}
}

func TestLoadLayoutMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
		op      string
	}{
		{"not json", "{", "decode"},
		{"short polygon", `{"pages":[{"pageNumber":1,"lines":[{"content":"x","polygon":[1,2,3]}]}]}`, "validate"},
	}

	for _, tt := range tests {
		path := writeFile(t, "bad.json", tt.content)
		_, err := LoadLayout(path)
		var fe *FileError
		if !errors.As(err, &fe) {
			t.Errorf("%s: expected *FileError, got %v", tt.name, err)
			continue
		}
		if fe.Op != tt.op {
			t.Errorf("%s: expected op %q, got %q", tt.name, tt.op, fe.Op)
		}
	}
}
