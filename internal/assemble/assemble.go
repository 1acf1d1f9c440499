// Package assemble builds the final vertical video with ffmpeg: a looped,
// zoomed, or solid background under the narration track, with captions
// burned in.
package assemble

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"voxreel/internal/background"
	"voxreel/internal/fileutil"
	"voxreel/internal/hardware"
	"voxreel/internal/logging"
	"voxreel/internal/media/ffprobe"
	"voxreel/internal/services"
)

// Request carries everything one assembly run needs. SubtitlePath may point
// at an empty file, in which case no caption filter is applied.
type Request struct {
	Background    background.Asset
	NarrationPath string
	SubtitlePath  string
	OutputPath    string
	Style         Style
}

// DurationProber reports the duration in seconds of a media file.
type DurationProber func(ctx context.Context, path string) (float64, error)

// Assembler encodes the final video. Hardware encoding is tried first when
// the profile offers it, with exactly one software retry on failure.
type Assembler struct {
	logger       *slog.Logger
	runner       services.CommandRunner
	profile      hardware.Profile
	ffmpegBinary string
	prober       DurationProber
	timeout      time.Duration
}

type Option func(*Assembler)

// WithCommandRunner substitutes the subprocess runner, for tests.
func WithCommandRunner(runner services.CommandRunner) Option {
	return func(a *Assembler) { a.runner = runner }
}

// WithDurationProber substitutes the ffprobe duration lookup, for tests.
func WithDurationProber(prober DurationProber) Option {
	return func(a *Assembler) { a.prober = prober }
}

func NewAssembler(logger *slog.Logger, profile hardware.Profile, ffmpegBinary, ffprobeBinary string, timeout time.Duration, opts ...Option) *Assembler {
	if logger == nil {
		logger = logging.NewNop()
	}
	if ffmpegBinary == "" {
		ffmpegBinary = "ffmpeg"
	}
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	a := &Assembler{
		logger:       logging.NewComponentLogger(logger, "assemble"),
		runner:       services.RunCommand,
		profile:      profile,
		ffmpegBinary: ffmpegBinary,
		timeout:      timeout,
		prober: func(ctx context.Context, path string) (float64, error) {
			result, err := ffprobe.Inspect(ctx, ffprobeBinary, path)
			if err != nil {
				return 0, err
			}
			return result.DurationSeconds(), nil
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble encodes the video described by req and returns the final path.
// The encode writes to a temporary name and renames into place only on
// success, so a failed run leaves nothing partial at req.OutputPath.
func (a *Assembler) Assemble(ctx context.Context, req Request) (string, error) {
	if err := a.validate(req); err != nil {
		return "", err
	}

	duration, err := a.prober(ctx, req.NarrationPath)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "assemble", "probe narration", "ffprobe failed", err)
	}
	if duration <= 0 {
		return "", services.Wrap(services.ErrExternalTool, "assemble", "probe narration",
			"narration has no measurable duration", nil)
	}

	subFilter := a.captionFilter(req)

	if err := os.MkdirAll(filepath.Dir(req.OutputPath), 0o755); err != nil {
		return "", services.Wrap(services.ErrValidation, "assemble", "prepare output", "create directory", err)
	}
	tmpPath := filepath.Join(filepath.Dir(req.OutputPath), "."+filepath.Base(req.OutputPath)+".tmp")
	defer os.Remove(tmpPath)

	encoder := a.profile.Encoder
	a.logger.Info("assembling video",
		logging.String("background", string(req.Background.Kind)),
		logging.String("encoder", encoderLabel(encoder)),
		logging.Float64("duration", duration))

	output, err := a.encode(ctx, req, encoder, subFilter, duration, tmpPath)
	if err != nil && encoder != hardware.EncoderNone {
		a.logger.Warn("hardware encode failed, retrying with software",
			logging.String("encoder", string(encoder)),
			logging.Error(err))
		_ = os.Remove(tmpPath)
		output, err = a.encode(ctx, req, hardware.EncoderNone, subFilter, duration, tmpPath)
	}
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "assemble", "ffmpeg",
			services.OutputTail(output, 500), err)
	}

	// MoveFile falls back to copy+remove when the output directory sits on
	// a different filesystem than the temp file.
	if err := fileutil.MoveFile(tmpPath, req.OutputPath); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "assemble", "finalize", "move output", err)
	}
	a.logger.Info("video ready", logging.String("path", req.OutputPath))
	return req.OutputPath, nil
}

func (a *Assembler) validate(req Request) error {
	if req.OutputPath == "" {
		return services.Wrap(services.ErrValidation, "assemble", "validate", "output path is empty", nil)
	}
	if _, err := os.Stat(req.NarrationPath); err != nil {
		return services.Wrap(services.ErrValidation, "assemble", "validate", "narration not readable", err)
	}
	if req.Background.Kind != background.KindColor {
		if _, err := os.Stat(req.Background.Path); err != nil {
			return services.Wrap(services.ErrValidation, "assemble", "validate", "background not readable", err)
		}
	}
	return nil
}

// captionFilter returns the subtitles filter, or empty when there is
// nothing to burn in. A missing or empty SRT file means a caption-less
// video, not a failure.
func (a *Assembler) captionFilter(req Request) string {
	if req.SubtitlePath == "" {
		return ""
	}
	info, err := os.Stat(req.SubtitlePath)
	if err != nil || info.Size() == 0 {
		return ""
	}
	return subtitleFilter(req.SubtitlePath, req.Style)
}

func (a *Assembler) encode(ctx context.Context, req Request, encoder hardware.Encoder, subFilter string, duration float64, outputPath string) ([]byte, error) {
	args := buildCommand(req, encoder, a.profile.FFmpegThreads, subFilter, duration, outputPath)
	runCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return a.runner(runCtx, a.ffmpegBinary, args...)
}

func encoderLabel(encoder hardware.Encoder) string {
	if encoder == hardware.EncoderNone {
		return "software"
	}
	return string(encoder)
}
