package services

import (
	"strings"
	"testing"

	"jarvis-rag-backend/models"
)

func match(source string, index int, text string) models.RetrievalMatch {
	return models.RetrievalMatch{
		ID:    ChunkID(source, index, text),
		Score: 0.9,
		Metadata: map[string]any{
			"source":      source,
			"chunk_index": float64(index), // JSON numbers decode as float64
			"text":        text,
		},
	}
}

func TestAssembleContextEmpty(t *testing.T) {
	text, citations := AssembleContext(nil, 5)
	if text != "" {
		t.Fatalf("context = %q, want empty", text)
	}
	if len(citations) != 0 {
		t.Fatalf("citations = %v, want none", citations)
	}
}

func TestAssembleContextCitationFormat(t *testing.T) {
	text, citations := AssembleContext([]models.RetrievalMatch{match("a.pdf", 3, "hello")}, 5)
	if text != "[a.pdf#3]\nhello" {
		t.Fatalf("context = %q", text)
	}
	if len(citations) != 1 || citations[0] != "a.pdf#3" {
		t.Fatalf("citations = %v", citations)
	}
}

func TestAssembleContextBound(t *testing.T) {
	matches := []models.RetrievalMatch{
		match("d.txt", 0, "one"),
		match("d.txt", 1, "two"),
		match("d.txt", 2, "three"),
		match("d.txt", 3, "four"),
	}
	text, citations := AssembleContext(matches, 2)
	if len(citations) != 2 {
		t.Fatalf("citations = %v, want 2", citations)
	}
	if citations[0] != "d.txt#0" || citations[1] != "d.txt#1" {
		t.Fatalf("citation order = %v", citations)
	}
	if strings.Contains(text, "three") || strings.Contains(text, "four") {
		t.Fatalf("truncated matches leaked into context: %q", text)
	}
	if !strings.Contains(text, "\n\n") {
		t.Fatalf("blocks not separated by blank line: %q", text)
	}
}

func TestAssembleContextSkipsEmptyText(t *testing.T) {
	matches := []models.RetrievalMatch{
		match("d.txt", 0, "keep"),
		{ID: "x", Metadata: map[string]any{"source": "d.txt", "chunk_index": float64(1), "text": "   "}},
		{ID: "y", Metadata: map[string]any{"source": "d.txt", "chunk_index": float64(2)}},
		match("d.txt", 3, "also keep"),
	}
	_, citations := AssembleContext(matches, 10)
	if len(citations) != 2 {
		t.Fatalf("citations = %v, want the two non-empty matches", citations)
	}
	if citations[1] != "d.txt#3" {
		t.Fatalf("order not preserved: %v", citations)
	}
}

func TestAssembleContextDefaultsMissingMetadata(t *testing.T) {
	matches := []models.RetrievalMatch{
		{ID: "m", Metadata: map[string]any{"text": "orphan chunk"}},
		{ID: "n", Metadata: nil},
	}
	text, citations := AssembleContext(matches, 5)
	if len(citations) != 1 || citations[0] != "unknown#-1" {
		t.Fatalf("citations = %v, want [unknown#-1]", citations)
	}
	if text != "[unknown#-1]\norphan chunk" {
		t.Fatalf("context = %q", text)
	}
}
