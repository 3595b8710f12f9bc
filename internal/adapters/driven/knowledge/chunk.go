package knowledge

import "strings"

// Chunk slices text into consecutive pieces of size runes. Each piece is
// whitespace-trimmed and empty pieces are dropped. Offsets are fixed, so a
// piece may end mid-word.
func Chunk(text string, size int) []string {
	if size <= 0 {
		return nil
	}
	runes := []rune(text)
	var chunks []string
	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		if c := strings.TrimSpace(string(runes[start:end])); c != "" {
			chunks = append(chunks, c)
		}
	}
	return chunks
}
