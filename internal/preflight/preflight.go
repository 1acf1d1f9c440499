package preflight

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"voxreel/internal/config"
	"voxreel/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every applicable check for the given config. Provider keys
// are reported but never block a run: the background resolver degrades to a
// solid color without them.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckDirectoryAccess("Cache directory", cfg.Paths.CacheDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckProviderKey("Pexels API key", cfg.Providers.PexelsAPIKey),
		CheckProviderKey("Pixabay API key", cfg.Providers.PixabayAPIKey),
	}
	return results
}

// CheckDirectoryAccess verifies that the directory exists and is
// readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckProviderKey reports whether a stock-media API key is configured. A
// missing key passes with a warning detail since the pipeline still runs.
func CheckProviderKey(name, key string) Result {
	if strings.TrimSpace(key) == "" {
		return Result{Name: name, Passed: true, Detail: "not configured (stock media from this provider disabled)"}
	}
	return Result{Name: name, Passed: true, Detail: "configured"}
}

// CheckSystemDeps evaluates the external binaries the pipeline shells out
// to. The CLI deps command and the generate preflight share this list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Required for video assembly",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Required for media inspection",
		},
		{
			Name:        "uvx",
			Command:     cfg.UvxBinary(),
			Description: "Required to run chatterbox and whisperx",
		},
		{
			Name:        "nvidia-smi",
			Command:     "nvidia-smi",
			Description: "Enables NVIDIA VRAM detection",
			Optional:    true,
		},
		{
			Name:        "rocm-smi",
			Command:     "rocm-smi",
			Description: "Enables AMD VRAM detection",
			Optional:    true,
		},
	}
	return deps.CheckBinaries(requirements)
}
