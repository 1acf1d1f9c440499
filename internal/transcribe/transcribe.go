// Package transcribe turns narration audio into word-level timestamps by
// running whisperx through uvx, then groups the words into caption chunks.
package transcribe

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"voxreel/internal/hardware"
	"voxreel/internal/logging"
	"voxreel/internal/services"
)

const whisperxTool = "whisperx"

// Options tunes one transcription run.
type Options struct {
	Model    string
	Language string
}

// Transcriber runs whisperx through uvx. Tool resolution is lazy, matching
// the synthesis stage; the two tools are never resident at the same time
// because the pipeline runs stages strictly in order.
type Transcriber struct {
	logger    *slog.Logger
	runner    services.CommandRunner
	profile   hardware.Profile
	uvxBinary string
	timeout   time.Duration

	resolveOnce  sync.Once
	resolvedPath string
	resolveErr   error
}

type Option func(*Transcriber)

// WithCommandRunner substitutes the subprocess runner, for tests.
func WithCommandRunner(runner services.CommandRunner) Option {
	return func(t *Transcriber) { t.runner = runner }
}

func NewTranscriber(logger *slog.Logger, profile hardware.Profile, uvxBinary string, timeout time.Duration, opts ...Option) *Transcriber {
	if logger == nil {
		logger = logging.NewNop()
	}
	if uvxBinary == "" {
		uvxBinary = "uvx"
	}
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	t := &Transcriber{
		logger:    logging.NewComponentLogger(logger, "transcribe"),
		runner:    services.RunCommand,
		profile:   profile,
		uvxBinary: uvxBinary,
		timeout:   timeout,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transcribe runs whisperx on audioPath and returns the aligned words in
// order. Silent or empty audio yields an empty slice, not an error, so the
// pipeline can still deliver a caption-less video.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string, opts Options) ([]Word, error) {
	if audioPath == "" {
		return nil, services.Wrap(services.ErrValidation, "transcribe", "validate", "audio path is empty", nil)
	}
	if _, err := os.Stat(audioPath); err != nil {
		return nil, services.Wrap(services.ErrValidation, "transcribe", "validate", "audio not readable", err)
	}
	if opts.Model == "" {
		opts.Model = "large-v3-turbo"
	}

	uvx, err := t.resolveUvx()
	if err != nil {
		return nil, err
	}

	outputDir, err := os.MkdirTemp("", "voxreel-whisperx-*")
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "transcribe", "whisperx", "create output dir", err)
	}
	defer os.RemoveAll(outputDir)

	args := t.buildArgs(audioPath, outputDir, opts)
	t.logger.Info("transcribing narration",
		logging.String("model", opts.Model),
		logging.String("device", t.device()))

	runCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	output, err := t.runner(runCtx, uvx, args...)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "transcribe", "whisperx",
			services.OutputTail(output, 500), err)
	}

	resultPath := filepath.Join(outputDir, jsonBaseName(audioPath))
	words, err := parseAlignedJSON(resultPath)
	if err != nil {
		return nil, err
	}
	t.logger.Info("transcription done", logging.Int("words", len(words)))
	return words, nil
}

func (t *Transcriber) resolveUvx() (string, error) {
	t.resolveOnce.Do(func() {
		t.resolvedPath, t.resolveErr = services.LookBinary(t.uvxBinary)
	})
	if t.resolveErr != nil {
		return "", services.Wrap(services.ErrConfiguration, "transcribe", "resolve uvx",
			"uvx is required to run whisperx", t.resolveErr)
	}
	return t.resolvedPath, nil
}

func (t *Transcriber) buildArgs(audioPath, outputDir string, opts Options) []string {
	args := []string{
		whisperxTool,
		audioPath,
		"--model", opts.Model,
		"--output_format", "json",
		"--output_dir", outputDir,
		"--device", t.device(),
		"--compute_type", t.computeType(),
	}
	if opts.Language != "" {
		args = append(args, "--language", opts.Language)
	}
	return args
}

func (t *Transcriber) device() string {
	if t.profile.GPUAvailable() {
		return "cuda"
	}
	return "cpu"
}

// computeType follows the precision ladder whisper backends expect: fp16 on
// constrained accelerators, fp32 on large ones, int8 on CPU.
func (t *Transcriber) computeType() string {
	if !t.profile.GPUAvailable() {
		return "int8"
	}
	if t.profile.Precision == hardware.PrecisionReduced {
		return "float16"
	}
	return "float32"
}

func jsonBaseName(audioPath string) string {
	base := filepath.Base(audioPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".json"
}

type alignedWord struct {
	Word  string   `json:"word"`
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
}

type alignedSegment struct {
	Words []alignedWord `json:"words"`
}

type alignedResult struct {
	Segments []alignedSegment `json:"segments"`
}

// parseAlignedJSON flattens the whisperx segment/word structure. Words the
// aligner could not time (typically bare punctuation) inherit the previous
// word's end so chunk timing stays monotonic.
func parseAlignedJSON(path string) ([]Word, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "transcribe", "whisperx",
			"tool exited cleanly but produced no transcript", err)
	}
	var result alignedResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "transcribe", "whisperx", "decode transcript", err)
	}

	var words []Word
	var lastEnd float64
	for _, segment := range result.Segments {
		for _, aligned := range segment.Words {
			text := strings.TrimSpace(aligned.Word)
			if text == "" {
				continue
			}
			word := Word{Text: text, Start: lastEnd, End: lastEnd}
			if aligned.Start != nil {
				word.Start = *aligned.Start
			}
			if aligned.End != nil {
				word.End = *aligned.End
			}
			if word.End < word.Start {
				word.End = word.Start
			}
			lastEnd = word.End
			words = append(words, word)
		}
	}
	return words, nil
}
