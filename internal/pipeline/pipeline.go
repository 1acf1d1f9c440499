package pipeline

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"voxreel/internal/assemble"
	"voxreel/internal/background"
	"voxreel/internal/config"
	"voxreel/internal/hardware"
	"voxreel/internal/keywords"
	"voxreel/internal/logging"
	"voxreel/internal/media/ffprobe"
	"voxreel/internal/notifications"
	"voxreel/internal/services"
	"voxreel/internal/subtitles"
	"voxreel/internal/transcribe"
	"voxreel/internal/voice"
)

// Caption styles.
const (
	StyleShortform = "shortform"
	StyleClassic   = "classic"
)

// BackgroundResolver, Synthesizer, Transcriber, and Assembler are the stage
// seams. Production wiring uses the concrete stage types; tests substitute
// fakes.
type BackgroundResolver interface {
	Resolve(ctx context.Context, req background.Request) (background.Asset, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, req voice.Request) (string, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, opts transcribe.Options) ([]transcribe.Word, error)
}

type Assembler interface {
	Assemble(ctx context.Context, req assemble.Request) (string, error)
}

// Request describes one generation run.
type Request struct {
	Text            string
	SamplePath      string
	Language        string
	BackgroundPath  string
	BackgroundAuto  bool
	BackgroundColor string
	PreferPhoto     bool
	CaptionStyle    string
	WordsPerCaption int
	OutputPath      string
}

// Result summarizes a completed run. Intermediates stay beside the video.
type Result struct {
	RunID         string
	VideoPath     string
	NarrationPath string
	SubtitlePath  string
	Background    background.Asset
	WordCount     int
	Elapsed       time.Duration
}

// Pipeline sequences the stages of one video generation run.
type Pipeline struct {
	cfg      *config.Config
	logger   *slog.Logger
	resolver BackgroundResolver
	synth    Synthesizer
	scriber  Transcriber
	builder  Assembler
	notifier notifications.Service
	reporter Reporter
	cache    *background.Cache
}

type Option func(*Pipeline)

// WithReporter sets the progress sink.
func WithReporter(reporter Reporter) Option {
	return func(p *Pipeline) { p.reporter = reporter }
}

// WithStages overrides the production stage wiring, for tests.
func WithStages(resolver BackgroundResolver, synth Synthesizer, scriber Transcriber, builder Assembler) Option {
	return func(p *Pipeline) {
		p.resolver = resolver
		p.synth = synth
		p.scriber = scriber
		p.builder = builder
	}
}

// WithNotifier overrides the notification service.
func WithNotifier(notifier notifications.Service) Option {
	return func(p *Pipeline) { p.notifier = notifier }
}

// New wires a production pipeline from config and the detected hardware
// profile. The background cache opens here; call Close when done.
func New(cfg *config.Config, logger *slog.Logger, profile hardware.Profile, opts ...Option) (*Pipeline, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	p := &Pipeline{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
		notifier: notifications.NewService(cfg),
		reporter: NopReporter{},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.resolver == nil {
		cache, err := background.OpenCache(cfg.Paths.CacheDir)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "pipeline", "open cache", "", err)
		}
		p.cache = cache

		client := &http.Client{Timeout: time.Duration(cfg.Providers.RequestTimeout) * time.Second}
		providers := []background.Provider{
			background.NewPexelsVideoProvider(cfg.Providers.PexelsAPIKey, client, cfg.Providers.ResultsPerQuery, cfg.Providers.MinVideoSeconds),
			background.NewPexelsPhotoProvider(cfg.Providers.PexelsAPIKey, client, cfg.Providers.ResultsPerQuery),
			background.NewPixabayVideoProvider(cfg.Providers.PixabayAPIKey, client, cfg.Providers.ResultsPerQuery, cfg.Providers.MinVideoSeconds),
			background.NewPixabayPhotoProvider(cfg.Providers.PixabayAPIKey, client, cfg.Providers.ResultsPerQuery),
		}
		downloadClient := &http.Client{}
		p.resolver = background.NewResolver(providers, cache, downloadClient, logger,
			time.Duration(cfg.Providers.DownloadTimeout)*time.Second)

		p.synth = voice.NewSynthesizer(logger, profile, cfg.UvxBinary(),
			time.Duration(cfg.TTS.Timeout)*time.Second,
			voice.WithSampleProber(func(ctx context.Context, path string) (float64, error) {
				result, err := ffprobe.Inspect(ctx, cfg.FFprobeBinary(), path)
				if err != nil {
					return 0, err
				}
				return result.DurationSeconds(), nil
			}))
		p.scriber = transcribe.NewTranscriber(logger, profile, cfg.UvxBinary(),
			time.Duration(cfg.Transcription.Timeout)*time.Second)
		p.builder = assemble.NewAssembler(logger, profile, cfg.FFmpegBinary(), cfg.FFprobeBinary(),
			time.Duration(cfg.Assembly.Timeout)*time.Second)
	}
	return p, nil
}

// Close releases the background cache.
func (p *Pipeline) Close() error {
	if p.cache != nil {
		return p.cache.Close()
	}
	return nil
}

// Run executes the full generation sequence. Background resolution overlaps
// voice synthesis; everything else is strictly ordered. On a fatal error the
// run directory and any partial artifacts are removed.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	started := time.Now()
	if err := p.validate(&req); err != nil {
		return Result{}, err
	}

	runID := strings.Split(uuid.NewString(), "-")[0]
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, p.logger)
	logger.Info("run starting", logging.String("run_id", runID))

	if err := p.cfg.EnsureDirectories(); err != nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "pipeline", "prepare directories", "", err)
	}
	lock, err := acquireRunLock(p.cfg.Paths.CacheDir)
	if err != nil {
		return Result{}, err
	}
	defer func() { _ = lock.Unlock() }()

	runDir := filepath.Join(p.cfg.Paths.OutputDir, runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "pipeline", "prepare run directory", "", err)
	}

	_ = p.notifier.NotifyRunStarted(ctx, runID)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Background resolution never needs the narration, so it overlaps the
	// synthesis stage. The buffered channel lets the goroutine finish even
	// if the consumer bails first.
	type backgroundResult struct {
		asset background.Asset
		err   error
	}
	bgCh := make(chan backgroundResult, 1)
	p.reporter.Stage(StageBackground, StatusStarted, "resolving background")
	go func() {
		asset, bgErr := p.resolver.Resolve(runCtx, background.Request{
			Keywords:      keywords.Extract(req.Text, keywords.DefaultMax),
			ManualPath:    req.BackgroundPath,
			AutoEnabled:   req.BackgroundAuto,
			FallbackColor: req.BackgroundColor,
			PreferPhoto:   req.PreferPhoto,
			Orientation:   background.OrientationPortrait,
		})
		bgCh <- backgroundResult{asset: asset, err: bgErr}
	}()

	bgReceived := false
	fail := func(stage string, stageErr error) (Result, error) {
		p.reporter.Stage(stage, StatusFailed, stageErr.Error())
		cancel()
		if !bgReceived {
			<-bgCh
		}
		_ = os.RemoveAll(runDir)
		_ = p.notifier.NotifyError(context.WithoutCancel(ctx), stageErr, stage)
		logger.Error("run failed", logging.String("stage", stage), logging.Error(stageErr))
		return Result{}, stageErr
	}

	p.reporter.Stage(StageVoice, StatusStarted, "synthesizing narration")
	narrationPath := filepath.Join(runDir, "narration.wav")
	if _, err := p.synth.Synthesize(services.WithStage(runCtx, StageVoice), voice.Request{
		Text:         req.Text,
		SamplePath:   req.SamplePath,
		Language:     req.Language,
		Exaggeration: p.cfg.TTS.Exaggeration,
		CFGWeight:    p.cfg.TTS.CFGWeight,
		Mode:         p.cfg.TTS.Mode,
		OutputPath:   narrationPath,
	}); err != nil {
		return fail(StageVoice, err)
	}
	p.reporter.Stage(StageVoice, StatusDone, narrationPath)

	bg := <-bgCh
	bgReceived = true
	if bg.err != nil {
		return fail(StageBackground, bg.err)
	}
	p.reporter.Stage(StageBackground, StatusDone, backgroundLabel(bg.asset))

	p.reporter.Stage(StageTranscribe, StatusStarted, "aligning word timestamps")
	words, err := p.scriber.Transcribe(services.WithStage(runCtx, StageTranscribe), narrationPath, transcribe.Options{
		Model:    p.cfg.Transcription.Model,
		Language: req.Language,
	})
	if err != nil {
		return fail(StageTranscribe, err)
	}
	p.reporter.Stage(StageTranscribe, StatusDone, "")
	if len(words) == 0 {
		logger.Warn("transcription produced no words, captions will be empty")
	}

	p.reporter.Stage(StageSubtitles, StatusStarted, "writing captions")
	chunks := p.chunk(words, req)
	subtitlePath := filepath.Join(runDir, "captions.srt")
	if err := subtitles.Write(subtitlePath, chunks); err != nil {
		return fail(StageSubtitles, err)
	}
	p.reporter.Stage(StageSubtitles, StatusDone, subtitlePath)

	videoPath := req.OutputPath
	if videoPath == "" {
		videoPath = filepath.Join(runDir, "video.mp4")
	}
	p.reporter.Stage(StageAssemble, StatusStarted, "encoding video")
	if _, err := p.builder.Assemble(services.WithStage(runCtx, StageAssemble), assemble.Request{
		Background:    bg.asset,
		NarrationPath: narrationPath,
		SubtitlePath:  subtitlePath,
		OutputPath:    videoPath,
		Style: assemble.Style{
			FontSize:     p.cfg.Assembly.FontSize,
			FontColor:    p.cfg.Assembly.FontColor,
			OutlineColor: p.cfg.Assembly.OutlineColor,
			OutlineWidth: p.cfg.Assembly.OutlineWidth,
			Position:     p.cfg.Assembly.Position,
		},
	}); err != nil {
		return fail(StageAssemble, err)
	}
	p.reporter.Stage(StageAssemble, StatusDone, videoPath)

	elapsed := time.Since(started)
	result := Result{
		RunID:         runID,
		VideoPath:     videoPath,
		NarrationPath: narrationPath,
		SubtitlePath:  subtitlePath,
		Background:    bg.asset,
		WordCount:     len(words),
		Elapsed:       elapsed,
	}
	_ = p.notifier.NotifyVideoReady(ctx, runID, videoPath, elapsed)
	logger.Info("run complete",
		logging.String("video", videoPath),
		logging.Int("words", len(words)),
		logging.Duration("elapsed", elapsed))
	return result, nil
}

// validate rejects obviously broken requests before any lock or tool work.
func (p *Pipeline) validate(req *Request) error {
	if strings.TrimSpace(req.Text) == "" {
		return services.Wrap(services.ErrValidation, "pipeline", "validate", "script text is empty", nil)
	}
	if _, err := os.Stat(req.SamplePath); err != nil {
		return services.Wrap(services.ErrValidation, "pipeline", "validate", "voice sample not readable", err)
	}
	if req.CaptionStyle == "" {
		req.CaptionStyle = p.cfg.Assembly.CaptionStyle
	}
	if req.CaptionStyle != StyleShortform && req.CaptionStyle != StyleClassic {
		return services.Wrap(services.ErrValidation, "pipeline", "validate",
			"caption style must be shortform or classic", nil)
	}
	if req.BackgroundColor == "" {
		req.BackgroundColor = "#1a1a2e"
	}
	return nil
}

func (p *Pipeline) chunk(words []transcribe.Word, req Request) []transcribe.Chunk {
	if req.CaptionStyle == StyleClassic {
		return transcribe.ChunkSentences(words)
	}
	size := req.WordsPerCaption
	if size < 1 {
		size = 2
	}
	return transcribe.ChunkWords(words, size)
}

func backgroundLabel(asset background.Asset) string {
	if asset.Kind == background.KindColor {
		return "solid color " + asset.Color
	}
	return string(asset.Kind) + " " + asset.Path
}
