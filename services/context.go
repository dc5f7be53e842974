package services

import (
	"fmt"
	"strings"

	"jarvis-rag-backend/models"
)

// AssembleContext turns ranked retrieval matches into a citation-tagged
// context block plus the matching citation list.
//
// Matches beyond maxChunks are dropped before any other processing.
// Matches with missing metadata get defaults (source "unknown", index -1);
// matches with no text are skipped. Citations come back in the store's
// ranking order, one per surviving match, formatted "{source}#{index}".
func AssembleContext(matches []models.RetrievalMatch, maxChunks int) (string, []string) {
	if maxChunks >= 0 && len(matches) > maxChunks {
		matches = matches[:maxChunks]
	}

	var blocks []string
	var citations []string
	for _, m := range matches {
		source := metadataString(m.Metadata, "source", "unknown")
		index := metadataInt(m.Metadata, "chunk_index", -1)
		text := strings.TrimSpace(metadataString(m.Metadata, "text", ""))
		if text == "" {
			continue
		}
		cite := fmt.Sprintf("%s#%d", source, index)
		citations = append(citations, cite)
		blocks = append(blocks, fmt.Sprintf("[%s]\n%s", cite, text))
	}
	return strings.Join(blocks, "\n\n"), citations
}

func metadataString(md map[string]any, key, fallback string) string {
	if md == nil {
		return fallback
	}
	if v, ok := md[key].(string); ok {
		return v
	}
	return fallback
}

// metadataInt handles the numeric types JSON decoding may hand back for
// what was written as an integer.
func metadataInt(md map[string]any, key string, fallback int) int {
	if md == nil {
		return fallback
	}
	switch v := md[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case float32:
		return int(v)
	default:
		return fallback
	}
}
