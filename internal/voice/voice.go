// Package voice synthesizes narration audio by cloning a reference voice
// sample with the chatterbox TTS tool, invoked through uvx as a subprocess.
package voice

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"voxreel/internal/hardware"
	"voxreel/internal/language"
	"voxreel/internal/logging"
	"voxreel/internal/services"
	"voxreel/internal/textutil"
)

const (
	// ModeTurbo uses the small single-step decoder model; ModeQuality uses
	// the full multilingual model.
	ModeTurbo   = "turbo"
	ModeQuality = "quality"

	chatterboxTool = "chatterbox-tts"

	// Reference sample bounds in seconds. Outside them cloning quality
	// degrades, but the model still runs, so they are advisory only.
	sampleMinSeconds = 5.0
	sampleMaxSeconds = 15.0
)

// Request carries everything one synthesis run needs.
type Request struct {
	Text         string
	SamplePath   string
	Language     string
	Exaggeration float64
	CFGWeight    float64
	Mode         string
	OutputPath   string
}

// SampleProber reports the duration in seconds of an audio file. Optional;
// when absent the advisory sample-length check is skipped.
type SampleProber func(ctx context.Context, path string) (float64, error)

// Synthesizer runs chatterbox through uvx. The uvx binary is resolved once,
// on first use, so construction stays free of tool lookups.
type Synthesizer struct {
	logger    *slog.Logger
	runner    services.CommandRunner
	profile   hardware.Profile
	uvxBinary string
	timeout   time.Duration
	prober    SampleProber

	resolveOnce  sync.Once
	resolvedPath string
	resolveErr   error
}

type Option func(*Synthesizer)

// WithCommandRunner substitutes the subprocess runner, for tests.
func WithCommandRunner(runner services.CommandRunner) Option {
	return func(s *Synthesizer) { s.runner = runner }
}

// WithSampleProber enables the advisory duration check on reference samples.
func WithSampleProber(prober SampleProber) Option {
	return func(s *Synthesizer) { s.prober = prober }
}

func NewSynthesizer(logger *slog.Logger, profile hardware.Profile, uvxBinary string, timeout time.Duration, opts ...Option) *Synthesizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	if uvxBinary == "" {
		uvxBinary = "uvx"
	}
	if timeout <= 0 {
		timeout = 15 * time.Minute
	}
	s := &Synthesizer{
		logger:    logging.NewComponentLogger(logger, "voice"),
		runner:    services.RunCommand,
		profile:   profile,
		uvxBinary: uvxBinary,
		timeout:   timeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize validates the request, then runs chatterbox to produce the
// narration WAV at req.OutputPath. Validation failures never start the
// subprocess.
func (s *Synthesizer) Synthesize(ctx context.Context, req Request) (string, error) {
	normalized, err := s.validate(ctx, &req)
	if err != nil {
		return "", err
	}

	uvx, err := s.resolveUvx()
	if err != nil {
		return "", err
	}

	args := s.buildArgs(req, normalized)
	s.logger.Info("synthesizing narration",
		logging.String("mode", req.Mode),
		logging.String("language", normalized),
		logging.String("device", s.device()),
		logging.Int("text_chars", len(req.Text)),
		logging.String("preview", textutil.Truncate(req.Text, 60)))

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	started := time.Now()
	output, err := s.runner(runCtx, uvx, args...)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "voice", "chatterbox",
			services.OutputTail(output, 500), err)
	}

	if _, statErr := os.Stat(req.OutputPath); statErr != nil {
		return "", services.Wrap(services.ErrExternalTool, "voice", "chatterbox",
			"tool exited cleanly but produced no audio", statErr)
	}
	s.logger.Info("narration ready",
		logging.String("path", req.OutputPath),
		logging.Duration("elapsed", time.Since(started)))
	return req.OutputPath, nil
}

func (s *Synthesizer) validate(ctx context.Context, req *Request) (string, error) {
	if strings.TrimSpace(req.Text) == "" {
		return "", services.Wrap(services.ErrValidation, "voice", "validate", "text is empty", nil)
	}
	if req.OutputPath == "" {
		return "", services.Wrap(services.ErrValidation, "voice", "validate", "output path is empty", nil)
	}
	if req.Mode == "" {
		req.Mode = ModeTurbo
	}
	if req.Mode != ModeTurbo && req.Mode != ModeQuality {
		return "", services.Wrap(services.ErrValidation, "voice", "validate",
			fmt.Sprintf("unknown mode %q", req.Mode), nil)
	}
	if req.Exaggeration < 0 || req.Exaggeration > 1.5 {
		return "", services.Wrap(services.ErrValidation, "voice", "validate",
			fmt.Sprintf("exaggeration %.2f outside [0, 1.5]", req.Exaggeration), nil)
	}
	if req.CFGWeight < 0 || req.CFGWeight > 1 {
		return "", services.Wrap(services.ErrValidation, "voice", "validate",
			fmt.Sprintf("cfg weight %.2f outside [0, 1]", req.CFGWeight), nil)
	}

	normalized, err := language.Normalize(req.Language)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "voice", "validate", "language", err)
	}

	file, err := os.Open(req.SamplePath)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "voice", "validate", "voice sample not readable", err)
	}
	_ = file.Close()
	s.checkSampleDuration(ctx, req.SamplePath)

	return normalized, nil
}

// checkSampleDuration warns on samples outside the recommended window. Probe
// failures are ignored; the bound is advisory.
func (s *Synthesizer) checkSampleDuration(ctx context.Context, path string) {
	if s.prober == nil {
		return
	}
	seconds, err := s.prober(ctx, path)
	if err != nil || seconds <= 0 {
		return
	}
	if seconds < sampleMinSeconds || seconds > sampleMaxSeconds {
		s.logger.Warn("voice sample duration outside recommended range",
			logging.Float64("seconds", seconds),
			logging.Float64("min", sampleMinSeconds),
			logging.Float64("max", sampleMaxSeconds))
	}
}

func (s *Synthesizer) resolveUvx() (string, error) {
	s.resolveOnce.Do(func() {
		s.resolvedPath, s.resolveErr = services.LookBinary(s.uvxBinary)
		if s.resolveErr == nil {
			s.logger.Debug("resolved uvx", logging.String("path", s.resolvedPath))
		}
	})
	if s.resolveErr != nil {
		return "", services.Wrap(services.ErrConfiguration, "voice", "resolve uvx",
			"uvx is required to run chatterbox", s.resolveErr)
	}
	return s.resolvedPath, nil
}

func (s *Synthesizer) buildArgs(req Request, lang string) []string {
	args := []string{
		chatterboxTool,
		"--text", req.Text,
		"--audio-prompt", req.SamplePath,
		"--output", req.OutputPath,
		"--language-id", lang,
		"--exaggeration", strconv.FormatFloat(req.Exaggeration, 'f', 2, 64),
		"--cfg-weight", strconv.FormatFloat(req.CFGWeight, 'f', 2, 64),
		"--device", s.device(),
		"--dtype", s.dtype(),
	}
	if req.Mode == ModeQuality {
		args = append(args, "--multilingual")
	}
	return args
}

// device maps the hardware profile onto chatterbox's device flag. ROCm and
// CUDA both present as "cuda" to the model runtime.
func (s *Synthesizer) device() string {
	if s.profile.GPUAvailable() {
		return "cuda"
	}
	return "cpu"
}

func (s *Synthesizer) dtype() string {
	if s.profile.GPUAvailable() && s.profile.Precision == hardware.PrecisionReduced {
		return "float16"
	}
	return "float32"
}
