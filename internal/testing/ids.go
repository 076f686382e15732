package testing

import "social-media-api/internal/storage"

// MessageIDs extracts ids of provided messages preserving order
func MessageIDs(messages []storage.Message) []int64 {
	ids := make([]int64, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.ID)
	}
	return ids
}
