// Package subtitles renders caption chunks to SubRip (SRT) files.
package subtitles

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"voxreel/internal/services"
	"voxreel/internal/transcribe"
)

// FormatTimestamp converts seconds to the SRT wall-clock form
// HH:MM:SS,mmm. Negative inputs clamp to zero.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalMillis := int64(seconds*1000 + 0.5)
	millis := totalMillis % 1000
	totalSeconds := totalMillis / 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d",
		totalSeconds/3600, (totalSeconds%3600)/60, totalSeconds%60, millis)
}

// Render produces the full SRT document for the chunks. Chunks with no
// renderable text are skipped; indices stay sequential from 1.
func Render(chunks []transcribe.Chunk) string {
	var sb strings.Builder
	index := 1
	for _, chunk := range chunks {
		text := chunk.Text()
		if text == "" {
			continue
		}
		fmt.Fprintf(&sb, "%d\n%s --> %s\n%s\n\n",
			index, FormatTimestamp(chunk.Start), FormatTimestamp(chunk.End), text)
		index++
	}
	return sb.String()
}

// Write renders the chunks and writes the SRT file at path. An empty chunk
// list still produces the file, empty, so assembly can skip the caption
// filter on a zero-length subtitle input.
func Write(path string, chunks []transcribe.Chunk) error {
	if path == "" {
		return services.Wrap(services.ErrValidation, "subtitles", "write", "path is empty", nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return services.Wrap(services.ErrValidation, "subtitles", "write", "create directory", err)
	}
	if err := os.WriteFile(path, []byte(Render(chunks)), 0o644); err != nil {
		return services.Wrap(services.ErrValidation, "subtitles", "write", "write file", err)
	}
	return nil
}

// Validate checks that content parses as a minimally well-formed SRT
// document: numbered cues with a timing line whose end is not before its
// start. Empty content is valid (a caption-less run).
func Validate(content string) error {
	blocks := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n\n")
	cue := 0
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		cue++
		lines := strings.Split(block, "\n")
		if len(lines) < 3 {
			return services.Wrap(services.ErrValidation, "subtitles", "validate",
				fmt.Sprintf("cue %d has %d lines, want at least 3", cue, len(lines)), nil)
		}
		var start, end string
		if _, err := fmt.Sscanf(lines[1], "%s --> %s", &start, &end); err != nil {
			return services.Wrap(services.ErrValidation, "subtitles", "validate",
				fmt.Sprintf("cue %d has a malformed timing line %q", cue, lines[1]), nil)
		}
		if end < start {
			return services.Wrap(services.ErrValidation, "subtitles", "validate",
				fmt.Sprintf("cue %d ends before it starts", cue), nil)
		}
	}
	return nil
}
