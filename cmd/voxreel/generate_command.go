package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"voxreel/internal/hardware"
	"voxreel/internal/pipeline"
	"voxreel/internal/preflight"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var (
		text            string
		textFile        string
		samplePath      string
		language        string
		outputPath      string
		backgroundPath  string
		noBackground    bool
		backgroundColor string
		preferPhoto     bool
		captionStyle    string
		wordsPerCaption int
		ttsMode         string
		exaggeration    float64
		cfgWeight       float64
		fontSize        int
		whisperModel    string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a vertical video from a script and a voice sample",
		Long: `Generate synthesizes the script with a voice cloned from the reference
sample, resolves a stock background from the script's keywords, burns in
word-synced captions, and assembles a 1080x1920 H.264 video.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			script, err := resolveScript(cmd.InOrStdin(), text, textFile)
			if err != nil {
				return err
			}

			// Flags override the corresponding config values for this run.
			if ttsMode != "" {
				cfg.TTS.Mode = ttsMode
			}
			if exaggeration >= 0 {
				cfg.TTS.Exaggeration = exaggeration
			}
			if cfgWeight >= 0 {
				cfg.TTS.CFGWeight = cfgWeight
			}
			if fontSize > 0 {
				cfg.Assembly.FontSize = fontSize
			}
			if whisperModel != "" {
				cfg.Transcription.Model = whisperModel
			}

			for _, status := range preflight.CheckSystemDeps(cfg) {
				if !status.Available && !status.Optional {
					return fmt.Errorf("missing required dependency: %s (%s)", status.Name, status.Detail)
				}
			}
			for _, result := range preflight.RunAll(cfg) {
				if !result.Passed {
					return fmt.Errorf("preflight failed: %s: %s", result.Name, result.Detail)
				}
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			profile := hardware.NewDetector(logger).Detect(runCtx)
			fmt.Fprintf(out, "Hardware: %s\n", profileSummary(profile))

			p, err := pipeline.New(cfg, logger, profile,
				pipeline.WithReporter(newConsoleReporter(out)))
			if err != nil {
				return err
			}
			defer p.Close()

			result, err := p.Run(runCtx, pipeline.Request{
				Text:            script,
				SamplePath:      samplePath,
				Language:        language,
				BackgroundPath:  backgroundPath,
				BackgroundAuto:  !noBackground && backgroundPath == "",
				BackgroundColor: backgroundColor,
				PreferPhoto:     preferPhoto,
				CaptionStyle:    captionStyle,
				WordsPerCaption: wordsPerCaption,
				OutputPath:      strings.TrimSpace(outputPath),
			})
			if err != nil {
				return err
			}

			size := "unknown size"
			if info, statErr := os.Stat(result.VideoPath); statErr == nil {
				size = humanize.Bytes(uint64(info.Size()))
			}
			fmt.Fprintf(out, "\nVideo ready: %s (%s, %d captioned words, %s)\n",
				result.VideoPath, size, result.WordCount, result.Elapsed.Round(humanizeRound))
			return nil
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "Script text to narrate")
	cmd.Flags().StringVar(&textFile, "text-file", "", "Read the script from a file (- for stdin)")
	cmd.Flags().StringVarP(&samplePath, "sample", "s", "", "Reference voice sample (5-15s WAV)")
	cmd.Flags().StringVarP(&language, "language", "l", "en", "Narration language (code or English name)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Video output path (default: under output_dir)")
	cmd.Flags().StringVar(&backgroundPath, "background", "", "Use this local video or image as background")
	cmd.Flags().BoolVar(&noBackground, "no-background", false, "Skip stock footage, use a solid color")
	cmd.Flags().StringVar(&backgroundColor, "background-color", "#1a1a2e", "Solid background color (hex)")
	cmd.Flags().BoolVar(&preferPhoto, "prefer-photo", false, "Prefer photo providers over video providers")
	cmd.Flags().StringVar(&captionStyle, "caption-style", "", "Caption style: shortform or classic")
	cmd.Flags().IntVar(&wordsPerCaption, "words-per-caption", 0, "Words per caption for shortform style")
	cmd.Flags().StringVar(&ttsMode, "tts-mode", "", "Voice model: turbo or quality (default from config)")
	cmd.Flags().Float64Var(&exaggeration, "exaggeration", -1, "Voice exaggeration, 0 to 1.5 (default from config)")
	cmd.Flags().Float64Var(&cfgWeight, "cfg-weight", -1, "Voice guidance weight, 0 to 1 (default from config)")
	cmd.Flags().IntVar(&fontSize, "font-size", 0, "Caption font size (default from config)")
	cmd.Flags().StringVar(&whisperModel, "whisper-model", "", "Transcription model checkpoint (default from config)")
	_ = cmd.MarkFlagRequired("sample")

	return cmd
}

// resolveScript takes the script from --text, --text-file, or stdin, in that
// order of preference.
func resolveScript(stdin io.Reader, text, textFile string) (string, error) {
	if strings.TrimSpace(text) != "" {
		return text, nil
	}
	switch strings.TrimSpace(textFile) {
	case "":
		return "", fmt.Errorf("no script provided: use --text or --text-file")
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read script from stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(textFile)
		if err != nil {
			return "", fmt.Errorf("read script file: %w", err)
		}
		return string(data), nil
	}
}

func profileSummary(profile hardware.Profile) string {
	gpu := "cpu only"
	if profile.GPUAvailable() {
		gpu = fmt.Sprintf("%s (%s)", profile.GPUName, humanize.IBytes(uint64(profile.VRAMMiB)<<20))
	}
	encoder := "software encode"
	if profile.Encoder != hardware.EncoderNone {
		encoder = string(profile.Encoder) + " encode"
	}
	return fmt.Sprintf("%s, %d threads, %s", gpu, profile.CPUThreads, encoder)
}
