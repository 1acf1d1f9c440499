package config

const (
	defaultOutputDir = "~/.local/share/voxreel/output"
	defaultCacheDir  = "~/.cache/voxreel/backgrounds"
	defaultLogDir    = "~/.local/share/voxreel/logs"

	defaultProviderRequestTimeout  = 10
	defaultProviderDownloadTimeout = 60
	defaultProviderResultsPerQuery = 5
	defaultProviderMinVideoSeconds = 5

	defaultTTSMode         = "turbo"
	defaultTTSExaggeration = 0.6
	defaultTTSCFGWeight    = 0.5
	defaultTTSTimeout      = 900

	defaultTranscriptionModel   = "large-v3-turbo"
	defaultTranscriptionTimeout = 600

	defaultFontSize        = 28
	defaultFontColor       = "white"
	defaultOutlineColor    = "black"
	defaultOutlineWidth    = 3
	defaultPosition        = "center"
	defaultCaptionStyle    = "shortform"
	defaultAssemblyTimeout = 600

	defaultNotifyRequestTimeout = 10

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			CacheDir:  defaultCacheDir,
			LogDir:    defaultLogDir,
		},
		Providers: Providers{
			RequestTimeout:  defaultProviderRequestTimeout,
			DownloadTimeout: defaultProviderDownloadTimeout,
			ResultsPerQuery: defaultProviderResultsPerQuery,
			MinVideoSeconds: defaultProviderMinVideoSeconds,
		},
		TTS: TTS{
			Mode:         defaultTTSMode,
			Exaggeration: defaultTTSExaggeration,
			CFGWeight:    defaultTTSCFGWeight,
			Timeout:      defaultTTSTimeout,
		},
		Transcription: Transcription{
			Model:   defaultTranscriptionModel,
			Timeout: defaultTranscriptionTimeout,
		},
		Assembly: Assembly{
			FontSize:     defaultFontSize,
			FontColor:    defaultFontColor,
			OutlineColor: defaultOutlineColor,
			OutlineWidth: defaultOutlineWidth,
			Position:     defaultPosition,
			CaptionStyle: defaultCaptionStyle,
			Timeout:      defaultAssemblyTimeout,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
