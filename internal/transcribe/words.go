package transcribe

import "strings"

// Word is one transcribed token with its aligned time span in seconds.
type Word struct {
	Text  string
	Start float64
	End   float64
}

// Chunk groups consecutive words into one caption. Timing spans the first
// word's start to the last word's end.
type Chunk struct {
	Words []Word
	Start float64
	End   float64
}

// Text renders the chunk as the caption line.
func (c Chunk) Text() string {
	parts := make([]string, 0, len(c.Words))
	for _, word := range c.Words {
		if trimmed := strings.TrimSpace(word.Text); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " ")
}

func newChunk(words []Word) Chunk {
	chunk := Chunk{Words: words}
	if len(words) > 0 {
		chunk.Start = words[0].Start
		chunk.End = words[len(words)-1].End
	}
	return chunk
}

// ChunkWords groups words into fixed-size chunks, the short-form caption
// style. A size below 1 falls back to 2. The trailing partial group becomes
// its own chunk, so every word is captioned.
func ChunkWords(words []Word, size int) []Chunk {
	if size < 1 {
		size = 2
	}
	if len(words) == 0 {
		return nil
	}
	chunks := make([]Chunk, 0, (len(words)+size-1)/size)
	for start := 0; start < len(words); start += size {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, newChunk(words[start:end]))
	}
	return chunks
}

// ChunkSentences groups words into whole sentences, the classic caption
// style. A sentence ends at a word whose text ends with terminal
// punctuation; a trailing unterminated run forms the final chunk.
func ChunkSentences(words []Word) []Chunk {
	if len(words) == 0 {
		return nil
	}
	var chunks []Chunk
	start := 0
	for i, word := range words {
		if endsSentence(word.Text) {
			chunks = append(chunks, newChunk(words[start:i+1]))
			start = i + 1
		}
	}
	if start < len(words) {
		chunks = append(chunks, newChunk(words[start:]))
	}
	return chunks
}

func endsSentence(text string) bool {
	text = strings.TrimSpace(text)
	for _, suffix := range []string{"...", ".", "!", "?", "…", "。", "！", "？"} {
		if strings.HasSuffix(text, suffix) {
			return true
		}
	}
	return false
}
