package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gofrs/flock"

	"voxreel/internal/assemble"
	"voxreel/internal/background"
	"voxreel/internal/config"
	"voxreel/internal/hardware"
	"voxreel/internal/logging"
	"voxreel/internal/services"
	"voxreel/internal/transcribe"
	"voxreel/internal/voice"
)

type fakeResolver struct {
	asset background.Asset
	err   error
	calls int
	mu    sync.Mutex
}

func (f *fakeResolver) Resolve(ctx context.Context, req background.Request) (background.Asset, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.asset, f.err
}

type fakeSynth struct {
	err   error
	calls int
}

func (f *fakeSynth) Synthesize(ctx context.Context, req voice.Request) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if err := os.WriteFile(req.OutputPath, []byte("RIFF"), 0o644); err != nil {
		return "", err
	}
	return req.OutputPath, nil
}

type fakeTranscriber struct {
	words []transcribe.Word
	err   error
	calls int
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath string, opts transcribe.Options) ([]transcribe.Word, error) {
	f.calls++
	if _, err := os.Stat(audioPath); err != nil {
		return nil, err
	}
	return f.words, f.err
}

type fakeAssembler struct {
	err      error
	calls    int
	lastReq  assemble.Request
	lastSubs string
}

func (f *fakeAssembler) Assemble(ctx context.Context, req assemble.Request) (string, error) {
	f.calls++
	f.lastReq = req
	if data, err := os.ReadFile(req.SubtitlePath); err == nil {
		f.lastSubs = string(data)
	}
	if f.err != nil {
		return "", f.err
	}
	if err := os.WriteFile(req.OutputPath, []byte("mp4"), 0o644); err != nil {
		return "", err
	}
	return req.OutputPath, nil
}

type fixture struct {
	pipeline    *Pipeline
	cfg         *config.Config
	resolver    *fakeResolver
	synth       *fakeSynth
	transcriber *fakeTranscriber
	assembler   *fakeAssembler
	events      *[]string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.Default()
	base := t.TempDir()
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	cfg.Paths.CacheDir = filepath.Join(base, "cache")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	f := &fixture{
		cfg: &cfg,
		resolver: &fakeResolver{
			asset: background.Asset{Kind: background.KindColor, Color: "#1a1a2e"},
		},
		synth: &fakeSynth{},
		transcriber: &fakeTranscriber{
			words: []transcribe.Word{
				{Text: "hello", Start: 0, End: 0.4},
				{Text: "there", Start: 0.4, End: 0.8},
				{Text: "world.", Start: 0.8, End: 1.2},
			},
		},
		assembler: &fakeAssembler{},
		events:    new([]string),
	}

	p, err := New(&cfg, logging.NewNop(), hardware.Profile{},
		WithStages(f.resolver, f.synth, f.transcriber, f.assembler),
		WithReporter(ReporterFunc(func(stage, status, message string) {
			*f.events = append(*f.events, stage+":"+status)
		})))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f.pipeline = p
	return f
}

func validRequest(t *testing.T) Request {
	sample := filepath.Join(t.TempDir(), "sample.wav")
	if err := os.WriteFile(sample, []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}
	return Request{
		Text:           "Hello there world.",
		SamplePath:     sample,
		Language:       "en",
		BackgroundAuto: true,
		CaptionStyle:   StyleShortform,
	}
}

func TestRunEndToEnd(t *testing.T) {
	f := newFixture(t)
	result, err := f.pipeline.Run(context.Background(), validRequest(t))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.RunID == "" {
		t.Error("result missing run id")
	}
	if result.WordCount != 3 {
		t.Errorf("word count = %d, want 3", result.WordCount)
	}
	for _, path := range []string{result.VideoPath, result.NarrationPath, result.SubtitlePath} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("artifact missing after success: %s", path)
		}
	}
	if f.resolver.calls != 1 || f.synth.calls != 1 || f.transcriber.calls != 1 || f.assembler.calls != 1 {
		t.Errorf("stage call counts: resolver=%d synth=%d transcriber=%d assembler=%d",
			f.resolver.calls, f.synth.calls, f.transcriber.calls, f.assembler.calls)
	}
	// Short-form style pairs words: "hello there" then "world."
	if !strings.Contains(f.assembler.lastSubs, "hello there") {
		t.Errorf("captions not chunked in pairs:\n%s", f.assembler.lastSubs)
	}
	if f.assembler.lastReq.Background.Kind != background.KindColor {
		t.Errorf("assembler received wrong background: %+v", f.assembler.lastReq.Background)
	}

	joined := strings.Join(*f.events, " ")
	for _, want := range []string{
		"background:started", "voice:started", "voice:done", "background:done",
		"transcribe:done", "subtitles:done", "assemble:done",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing progress event %q in %q", want, joined)
		}
	}
}

func TestRunValidatesBeforeAnyStage(t *testing.T) {
	f := newFixture(t)

	req := validRequest(t)
	req.Text = "   "
	if _, err := f.pipeline.Run(context.Background(), req); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	req = validRequest(t)
	req.SamplePath = "/no/such/sample.wav"
	if _, err := f.pipeline.Run(context.Background(), req); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	req = validRequest(t)
	req.CaptionStyle = "interpretive-dance"
	if _, err := f.pipeline.Run(context.Background(), req); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if f.resolver.calls != 0 || f.synth.calls != 0 {
		t.Fatal("stages must not run for invalid requests")
	}
}

func TestRunVoiceFailureCleansUp(t *testing.T) {
	f := newFixture(t)
	f.synth.err = services.Wrap(services.ErrExternalTool, "voice", "chatterbox", "boom", nil)

	_, err := f.pipeline.Run(context.Background(), validRequest(t))
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected synthesis error, got %v", err)
	}
	entries, readErr := os.ReadDir(f.cfg.Paths.OutputDir)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if len(entries) != 0 {
		t.Fatalf("failed run left artifacts: %v", entries)
	}
	if f.transcriber.calls != 0 || f.assembler.calls != 0 {
		t.Fatal("later stages must not run after a voice failure")
	}
	if !strings.Contains(strings.Join(*f.events, " "), "voice:failed") {
		t.Fatal("failure event not reported")
	}
}

func TestRunBackgroundFailureIsFatal(t *testing.T) {
	f := newFixture(t)
	f.resolver.err = services.Wrap(services.ErrValidation, "background", "manual path", "unsupported file type", nil)

	_, err := f.pipeline.Run(context.Background(), validRequest(t))
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected background validation error, got %v", err)
	}
	if f.assembler.calls != 0 {
		t.Fatal("assembly must not run after a background failure")
	}
}

func TestRunAssembleFailureCleansUp(t *testing.T) {
	f := newFixture(t)
	f.assembler.err = services.Wrap(services.ErrExternalTool, "assemble", "ffmpeg", "encode failed", nil)

	_, err := f.pipeline.Run(context.Background(), validRequest(t))
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected assembly error, got %v", err)
	}
	entries, readErr := os.ReadDir(f.cfg.Paths.OutputDir)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if len(entries) != 0 {
		t.Fatalf("failed run left artifacts: %v", entries)
	}
}

func TestRunLockRejectsConcurrentRuns(t *testing.T) {
	f := newFixture(t)
	if err := f.cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	other := flock.New(filepath.Join(f.cfg.Paths.CacheDir, lockFileName))
	locked, err := other.TryLock()
	if err != nil || !locked {
		t.Fatalf("could not take the lock for the test: %v", err)
	}
	defer other.Unlock()

	if _, err := f.pipeline.Run(context.Background(), validRequest(t)); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected lock contention error, got %v", err)
	}
	if f.synth.calls != 0 {
		t.Fatal("no stage may run without the lock")
	}
}

func TestChunkStyles(t *testing.T) {
	f := newFixture(t)
	words := []transcribe.Word{
		{Text: "One", Start: 0, End: 1}, {Text: "two.", Start: 1, End: 2},
		{Text: "Three", Start: 2, End: 3}, {Text: "four", Start: 3, End: 4},
		{Text: "five.", Start: 4, End: 5},
	}
	if got := f.pipeline.chunk(words, Request{CaptionStyle: StyleShortform}); len(got) != 3 {
		t.Errorf("shortform chunks = %d, want 3", len(got))
	}
	if got := f.pipeline.chunk(words, Request{CaptionStyle: StyleClassic}); len(got) != 2 {
		t.Errorf("classic chunks = %d, want 2", len(got))
	}
	if got := f.pipeline.chunk(words, Request{CaptionStyle: StyleShortform, WordsPerCaption: 5}); len(got) != 1 {
		t.Errorf("explicit caption width ignored, chunks = %d", len(got))
	}
}

func TestRunEmptyTranscriptStillProducesVideo(t *testing.T) {
	f := newFixture(t)
	f.transcriber.words = nil

	result, err := f.pipeline.Run(context.Background(), validRequest(t))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.WordCount != 0 {
		t.Errorf("word count = %d, want 0", result.WordCount)
	}
	if f.assembler.lastSubs != "" {
		t.Errorf("captions should be empty, got %q", f.assembler.lastSubs)
	}
	if _, err := os.Stat(result.VideoPath); err != nil {
		t.Fatal("video missing for caption-less run")
	}
}
