package services

import (
	"testing"

	"jarvis-rag-backend/models"
)

func TestWindowHistoryBound(t *testing.T) {
	history := []models.ChatTurn{
		{Role: "user", Content: "one"},
		{Role: "assistant", Content: "two"},
		{Role: "user", Content: "three"},
		{Role: "assistant", Content: "four"},
	}
	windowed := WindowHistory(history, 2)
	if len(windowed) != 2 {
		t.Fatalf("len = %d, want 2", len(windowed))
	}
	if windowed[0].Content != "three" || windowed[1].Content != "four" {
		t.Fatalf("expected most recent turns in order, got %v", windowed)
	}
}

func TestWindowHistoryFiltersMalformed(t *testing.T) {
	history := []models.ChatTurn{
		{Role: "user", Content: "fine"},
		{Role: "", Content: "no role"},
		{Role: "assistant", Content: ""},
		{Role: "assistant", Content: "also fine"},
	}
	windowed := WindowHistory(history, 10)
	if len(windowed) != 2 {
		t.Fatalf("len = %d, want 2 well-formed turns", len(windowed))
	}
	if windowed[0].Content != "fine" || windowed[1].Content != "also fine" {
		t.Fatalf("got %v", windowed)
	}
}

func TestWindowHistoryEmpty(t *testing.T) {
	if got := WindowHistory(nil, 6); len(got) != 0 {
		t.Fatalf("expected empty window, got %v", got)
	}
	if got := WindowHistory([]models.ChatTurn{{Role: "user", Content: "hi"}}, 0); len(got) != 0 {
		t.Fatalf("limit 0 should drop everything, got %v", got)
	}
}
