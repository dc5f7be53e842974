package services

import (
	"strings"
	"testing"
)

func TestChunkTextEmpty(t *testing.T) {
	if got := ChunkText("", 900, 150); got != nil {
		t.Fatalf("expected no chunks for empty input, got %d", len(got))
	}
	if got := ChunkText("   \n\t  ", 900, 150); got != nil {
		t.Fatalf("expected no chunks for whitespace-only input, got %d", len(got))
	}
}

func TestChunkTextSingleWindow(t *testing.T) {
	chunks := ChunkText("hello   world", 900, 150)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "hello world" {
		t.Fatalf("expected normalized text, got %q", chunks[0])
	}
}

func TestChunkTextOverlapWindows(t *testing.T) {
	text := strings.Repeat("A", 1000)
	chunks := ChunkText(text, 900, 150)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks for 1000 chars at size=900 overlap=150, got %d", len(chunks))
	}
	if len(chunks[0]) != 900 {
		t.Fatalf("first chunk length = %d, want 900", len(chunks[0]))
	}
	// second window starts at 900-150=750 and runs to the end
	if len(chunks[1]) != 250 {
		t.Fatalf("second chunk length = %d, want 250", len(chunks[1]))
	}
}

func TestChunkTextReconstruction(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog. " + strings.Repeat("pack my box with five dozen liquor jugs. ", 30)
	normalized := strings.Join(strings.Fields(text), " ")

	const size, overlap = 64, 16
	chunks := ChunkText(text, size, overlap)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	var b strings.Builder
	b.WriteString(chunks[0])
	for _, c := range chunks[1:] {
		if len(c) < overlap {
			t.Fatalf("non-final chunk shorter than overlap: %d", len(c))
		}
		b.WriteString(c[overlap:])
	}
	if b.String() != normalized {
		t.Fatalf("chunks with overlaps dropped do not reconstruct normalized text")
	}

	for i, c := range chunks[:len(chunks)-1] {
		if c[len(c)-overlap:] != chunks[i+1][:overlap] {
			t.Fatalf("chunk %d does not share %d-char overlap with its successor", i, overlap)
		}
	}
}

func TestChunkTextDeterministic(t *testing.T) {
	text := strings.Repeat("determinism matters for content addressing ", 50)
	a := ChunkText(text, 200, 40)
	b := ChunkText(text, 200, 40)
	if len(a) != len(b) {
		t.Fatalf("chunk counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("chunk %d differs between runs", i)
		}
	}
}

func TestChunkID(t *testing.T) {
	id := ChunkID("doc.txt", 0, "hello")
	if len(id) != ChunkIDLength {
		t.Fatalf("id length = %d, want %d", len(id), ChunkIDLength)
	}
	if id != ChunkID("doc.txt", 0, "hello") {
		t.Fatal("identical inputs produced different ids")
	}
	if id == ChunkID("doc.txt", 1, "hello") {
		t.Fatal("different chunk index produced identical id")
	}
	if id == ChunkID("other.txt", 0, "hello") {
		t.Fatal("different source produced identical id")
	}
	for _, r := range id {
		if !strings.ContainsRune("0123456789abcdef", r) {
			t.Fatalf("id contains non-hex character %q", r)
		}
	}
}
