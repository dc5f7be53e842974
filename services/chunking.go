package services

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// ChunkIDLength is the number of hex characters kept from the sha256
// digest. Records already persisted in the index were written with this
// truncation, so changing it breaks idempotent re-ingestion.
const ChunkIDLength = 32

// ChunkText splits text into overlapping fixed-size windows.
//
// Whitespace runs are collapsed to single spaces and the ends trimmed
// before splitting, so chunk boundaries do not depend on the source
// formatting. Each window spans chunkSize characters; consecutive windows
// share overlap characters, except the final window which may be shorter.
// Callers must ensure 0 <= overlap < chunkSize (enforced at config load).
func ChunkText(text string, chunkSize, overlap int) []string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return nil
	}

	var chunks []string
	n := len(text)
	start := 0
	for start < n {
		end := start + chunkSize
		if end > n {
			end = n
		}
		chunks = append(chunks, text[start:end])
		if end == n {
			break
		}
		start = end - overlap
		if start < 0 {
			start = 0
		}
	}
	return chunks
}

// ChunkID derives the content-addressed identifier for a chunk. Identical
// (source, index, text) always hashes to the same id, which is what makes
// vector-store upserts idempotent across re-ingestions.
func ChunkID(source string, index int, text string) string {
	h := sha256.New()
	h.Write([]byte(source))
	h.Write([]byte(strconv.Itoa(index)))
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))[:ChunkIDLength]
}
