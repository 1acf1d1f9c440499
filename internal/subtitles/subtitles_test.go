package subtitles

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"voxreel/internal/services"
	"voxreel/internal/transcribe"
)

func chunk(text string, start, end float64) transcribe.Chunk {
	return transcribe.Chunk{
		Words: []transcribe.Word{{Text: text, Start: start, End: end}},
		Start: start,
		End:   end,
	}
}

func TestFormatTimestamp(t *testing.T) {
	cases := map[float64]string{
		0:        "00:00:00,000",
		0.5:      "00:00:00,500",
		61.25:    "00:01:01,250",
		3661.999: "01:01:01,999",
		-1:       "00:00:00,000",
	}
	for seconds, want := range cases {
		if got := FormatTimestamp(seconds); got != want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", seconds, got, want)
		}
	}
}

func TestRender(t *testing.T) {
	got := Render([]transcribe.Chunk{
		chunk("Hello world", 0.1, 0.9),
		chunk("", 1.0, 1.2),
		chunk("Goodbye", 1.2, 1.8),
	})
	want := "1\n00:00:00,100 --> 00:00:00,900\nHello world\n\n" +
		"2\n00:00:01,200 --> 00:00:01,800\nGoodbye\n\n"
	if got != want {
		t.Fatalf("Render mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderEmpty(t *testing.T) {
	if got := Render(nil); got != "" {
		t.Fatalf("empty chunk list should render nothing, got %q", got)
	}
}

func TestWriteAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "captions.srt")
	chunks := []transcribe.Chunk{chunk("One", 0, 0.5), chunk("Two", 0.5, 1.0)}
	if err := Write(path, chunks); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := Validate(string(data)); err != nil {
		t.Fatalf("written file should validate: %v", err)
	}
	if !strings.Contains(string(data), "00:00:00,500 --> 00:00:01,000") {
		t.Fatalf("timing line missing: %s", data)
	}
}

func TestWriteEmptyChunksProducesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "captions.srt")
	if err := Write(path, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 0 {
		t.Fatalf("expected empty file, got %q", data)
	}
}

func TestValidateRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"missing text":     "1\n00:00:00,000 --> 00:00:01,000\n",
		"bad timing":       "1\nnot a timing line\nText\n",
		"end before start": "1\n00:00:02,000 --> 00:00:01,000\nText\n",
	}
	for name, content := range cases {
		if err := Validate(content); !errors.Is(err, services.ErrValidation) {
			t.Errorf("%s: expected validation error, got %v", name, err)
		}
	}
	if err := Validate(""); err != nil {
		t.Errorf("empty document should validate, got %v", err)
	}
}
