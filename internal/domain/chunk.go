package domain

// ChunkLimit is the Telegram message size budget for the full schedule.
const ChunkLimit = 4000

// Chunk packs a header plus per-day entries into messages no longer than
// limit characters each. Entries are never split: a day that would overflow
// the current chunk starts the next one. An entry longer than limit becomes
// its own (oversized caller error) chunk rather than being dropped.
func Chunk(header string, entries []string, limit int) []string {
	var chunks []string
	current := header
	for _, e := range entries {
		if current != "" && len(current)+len(e) > limit {
			chunks = append(chunks, current)
			current = ""
		}
		current += e
	}
	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}
