package services

import "jarvis-rag-backend/models"

// WindowHistory bounds the conversation history sent to the chat model:
// only the most recent limit turns are kept, in their original order, and
// turns missing a role or content are dropped rather than failing the
// request. The full history stays with the caller, so dropping older
// turns here loses nothing.
func WindowHistory(history []models.ChatTurn, limit int) []models.ChatTurn {
	if limit < 0 {
		limit = 0
	}
	if len(history) > limit {
		history = history[len(history)-limit:]
	}

	windowed := make([]models.ChatTurn, 0, len(history))
	for _, turn := range history {
		if turn.Role == "" || turn.Content == "" {
			continue
		}
		windowed = append(windowed, turn)
	}
	return windowed
}
