package assemble

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"voxreel/internal/background"
	"voxreel/internal/hardware"
	"voxreel/internal/logging"
	"voxreel/internal/services"
)

func TestToBGR(t *testing.T) {
	cases := map[string]string{
		"white":   "FFFFFF",
		"black":   "000000",
		"red":     "0000FF",
		"blue":    "FF0000",
		"#1a2b3c": "3C2B1A",
		"bogus":   "FFFFFF",
	}
	for input, want := range cases {
		if got := toBGR(input); got != want {
			t.Errorf("toBGR(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestAlignmentCode(t *testing.T) {
	cases := map[string]int{PositionBottom: 2, PositionCenter: 5, PositionTop: 8, "weird": 5}
	for position, want := range cases {
		if got := alignmentCode(position); got != want {
			t.Errorf("alignmentCode(%q) = %d, want %d", position, got, want)
		}
	}
}

func TestSubtitleFilterEscapesPath(t *testing.T) {
	got := subtitleFilter(`C:\videos\captions.srt`, DefaultStyle())
	if !strings.Contains(got, `subtitles='C\:/videos/captions.srt'`) {
		t.Fatalf("path not escaped for the filter parser: %s", got)
	}
	for _, want := range []string{
		"FontSize=28", "PrimaryColour=&H00FFFFFF", "OutlineColour=&H00000000",
		"Outline=3", "Alignment=5", "MarginV=100", "Bold=1",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("filter missing %q: %s", want, got)
		}
	}
}

func TestEncodingArgs(t *testing.T) {
	if got := strings.Join(encodingArgs(hardware.EncoderVAAPI, 8), " "); got != "-c:v h264_vaapi -qp 23" {
		t.Errorf("vaapi args = %q", got)
	}
	if got := strings.Join(encodingArgs(hardware.EncoderNVENC, 8), " "); got != "-c:v h264_nvenc -preset p4 -cq 23" {
		t.Errorf("nvenc args = %q", got)
	}
	if got := strings.Join(encodingArgs(hardware.EncoderNone, 9), " "); got != "-c:v libx264 -preset fast -crf 23 -threads 9" {
		t.Errorf("software args = %q", got)
	}
}

func TestBuildCommandVideoBackground(t *testing.T) {
	req := Request{
		Background:    background.Asset{Kind: background.KindVideo, Path: "/bg/clip.mp4"},
		NarrationPath: "/run/narration.wav",
		Style:         DefaultStyle(),
	}
	args := buildCommand(req, hardware.EncoderNone, 6, "subtitles='x'", 12.5, "/out/.video.mp4.tmp")
	joined := strings.Join(args, " ")
	for _, want := range []string{
		"-stream_loop -1 -i /bg/clip.mp4",
		"-i /run/narration.wav",
		"scale=1080:1920:force_original_aspect_ratio=increase,crop=1080:1920,subtitles='x'[v]",
		"-map [v] -map 1:a",
		"-c:a aac -b:a 192k",
		"-shortest -t 12.500",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("command missing %q:\n%s", want, joined)
		}
	}
}

func TestBuildCommandImageBackgroundKenBurns(t *testing.T) {
	req := Request{
		Background:    background.Asset{Kind: background.KindImage, Path: "/bg/photo.jpg"},
		NarrationPath: "/run/narration.wav",
	}
	args := buildCommand(req, hardware.EncoderNone, 4, "", 10, "/out/.v.tmp")
	joined := strings.Join(args, " ")
	for _, want := range []string{
		"-loop 1 -i /bg/photo.jpg",
		"scale=2160:3840",
		"zoompan=z='min(zoom+0.0003,1.15)':x='iw/2-(iw/zoom/2)':y='ih/2-(ih/zoom/2)':d=300:s=1080x1920:fps=30",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("command missing %q:\n%s", want, joined)
		}
	}
}

func TestBuildCommandColorBackground(t *testing.T) {
	req := Request{
		Background:    background.Asset{Kind: background.KindColor, Color: "#1a1a2e"},
		NarrationPath: "/run/narration.wav",
	}
	args := buildCommand(req, hardware.EncoderNone, 4, "subtitles='x'", 8, "/out/.v.tmp")
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-f lavfi -i color=c=0x1a1a2e:s=1080x1920:d=8.000:r=30") {
		t.Fatalf("lavfi source wrong:\n%s", joined)
	}
	if strings.Contains(joined, "-t 8.000") {
		t.Error("color source already carries the duration, -t must not repeat it")
	}
}

func TestBuildCommandVAAPIUploadsAfterFilters(t *testing.T) {
	req := Request{
		Background:    background.Asset{Kind: background.KindVideo, Path: "/bg/clip.mp4"},
		NarrationPath: "/run/narration.wav",
	}
	args := buildCommand(req, hardware.EncoderVAAPI, 4, "subtitles='x'", 5, "/out/.v.tmp")
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-vaapi_device /dev/dri/renderD128") {
		t.Fatalf("vaapi device missing:\n%s", joined)
	}
	if !strings.Contains(joined, "subtitles='x',format=nv12,hwupload[v]") {
		t.Fatalf("hwupload must come after caption burn-in:\n%s", joined)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testRequest(t *testing.T) Request {
	dir := t.TempDir()
	return Request{
		Background:    background.Asset{Kind: background.KindColor, Color: "#000000"},
		NarrationPath: writeFile(t, dir, "narration.wav", "RIFF"),
		SubtitlePath:  writeFile(t, dir, "captions.srt", "1\n00:00:00,000 --> 00:00:01,000\nHi\n\n"),
		OutputPath:    filepath.Join(dir, "video.mp4"),
		Style:         DefaultStyle(),
	}
}

func fixedDuration(seconds float64) Option {
	return WithDurationProber(func(ctx context.Context, path string) (float64, error) {
		return seconds, nil
	})
}

func TestAssembleWritesTempThenRenames(t *testing.T) {
	var sawPaths []string
	assembler := NewAssembler(logging.NewNop(), hardware.Profile{FFmpegThreads: 4}, "ffmpeg", "ffprobe", 0,
		fixedDuration(3),
		WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
			out := args[len(args)-1]
			sawPaths = append(sawPaths, out)
			return nil, os.WriteFile(out, []byte("mp4"), 0o644)
		}))

	req := testRequest(t)
	path, err := assembler.Assemble(context.Background(), req)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if path != req.OutputPath {
		t.Fatalf("returned %q, want %q", path, req.OutputPath)
	}
	if len(sawPaths) != 1 || sawPaths[0] == req.OutputPath {
		t.Fatalf("encode should target a temp name, wrote to %v", sawPaths)
	}
	if _, err := os.Stat(req.OutputPath); err != nil {
		t.Fatalf("final output missing: %v", err)
	}
}

func TestAssembleRetriesSoftwareExactlyOnce(t *testing.T) {
	var encoders []string
	assembler := NewAssembler(logging.NewNop(),
		hardware.Profile{GPU: hardware.VendorAMD, Encoder: hardware.EncoderVAAPI, FFmpegThreads: 4},
		"ffmpeg", "ffprobe", 0,
		fixedDuration(3),
		WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
			joined := strings.Join(args, " ")
			switch {
			case strings.Contains(joined, "h264_vaapi"):
				encoders = append(encoders, "vaapi")
				return []byte("Device creation failed"), errors.New("exit status 1")
			case strings.Contains(joined, "libx264"):
				encoders = append(encoders, "software")
				return nil, os.WriteFile(args[len(args)-1], []byte("mp4"), 0o644)
			default:
				t.Fatalf("unexpected command: %s", joined)
				return nil, nil
			}
		}))

	req := testRequest(t)
	if _, err := assembler.Assemble(context.Background(), req); err != nil {
		t.Fatalf("software retry should succeed: %v", err)
	}
	if len(encoders) != 2 || encoders[0] != "vaapi" || encoders[1] != "software" {
		t.Fatalf("expected hardware then one software attempt, got %v", encoders)
	}
}

func TestAssembleSecondFailureIsFatal(t *testing.T) {
	calls := 0
	assembler := NewAssembler(logging.NewNop(),
		hardware.Profile{GPU: hardware.VendorNVIDIA, Encoder: hardware.EncoderNVENC, FFmpegThreads: 4},
		"ffmpeg", "ffprobe", 0,
		fixedDuration(3),
		WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
			calls++
			return []byte("encoder exploded"), errors.New("exit status 1")
		}))

	req := testRequest(t)
	_, err := assembler.Assemble(context.Background(), req)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected exactly 2 attempts, got %d", calls)
	}
	if _, statErr := os.Stat(req.OutputPath); !os.IsNotExist(statErr) {
		t.Fatal("failed assembly must leave no partial output")
	}
}

func TestAssembleSoftwareOnlyDoesNotRetry(t *testing.T) {
	calls := 0
	assembler := NewAssembler(logging.NewNop(), hardware.Profile{FFmpegThreads: 4}, "ffmpeg", "ffprobe", 0,
		fixedDuration(3),
		WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
			calls++
			return nil, errors.New("exit status 1")
		}))

	if _, err := assembler.Assemble(context.Background(), testRequest(t)); err == nil {
		t.Fatal("expected failure")
	}
	if calls != 1 {
		t.Fatalf("software-only failure must not retry, got %d attempts", calls)
	}
}

func TestAssembleEmptySubtitlesSkipsCaptionFilter(t *testing.T) {
	var command string
	assembler := NewAssembler(logging.NewNop(), hardware.Profile{FFmpegThreads: 4}, "ffmpeg", "ffprobe", 0,
		fixedDuration(3),
		WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
			command = strings.Join(args, " ")
			return nil, os.WriteFile(args[len(args)-1], []byte("mp4"), 0o644)
		}))

	req := testRequest(t)
	if err := os.WriteFile(req.SubtitlePath, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := assembler.Assemble(context.Background(), req); err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if strings.Contains(command, "subtitles=") {
		t.Fatalf("empty SRT must not add a caption filter:\n%s", command)
	}
}

func TestAssembleValidation(t *testing.T) {
	assembler := NewAssembler(logging.NewNop(), hardware.Profile{}, "ffmpeg", "ffprobe", 0,
		fixedDuration(3),
		WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
			t.Fatal("subprocess must not run for invalid requests")
			return nil, nil
		}))

	req := testRequest(t)
	req.NarrationPath = "/no/such/narration.wav"
	if _, err := assembler.Assemble(context.Background(), req); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	req = testRequest(t)
	req.Background = background.Asset{Kind: background.KindVideo, Path: "/no/such/bg.mp4"}
	if _, err := assembler.Assemble(context.Background(), req); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for missing background, got %v", err)
	}
}
