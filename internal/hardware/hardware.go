package hardware

import (
	"context"
	"log/slog"
	"runtime"

	"voxreel/internal/logging"
	"voxreel/internal/services"
)

// Vendor identifies the accelerator vendor, if any.
type Vendor string

const (
	VendorNone   Vendor = "none"
	VendorNVIDIA Vendor = "nvidia"
	VendorAMD    Vendor = "amd"
)

// Encoder names the ffmpeg hardware encoder path selected for assembly.
type Encoder string

const (
	EncoderNone  Encoder = ""
	EncoderNVENC Encoder = "nvenc"
	EncoderVAAPI Encoder = "vaapi"
)

// Precision selects the inference precision mode passed to the models.
type Precision string

const (
	PrecisionFull    Precision = "full"
	PrecisionReduced Precision = "reduced"
)

// Profile is a snapshot of local compute capability. It is computed once at
// pipeline start and consumed read-only by every stage.
type Profile struct {
	CPUThreads    int
	RAMMiB        int
	GPU           Vendor
	GPUName       string
	VRAMMiB       int
	Encoder       Encoder
	FFmpegThreads int
	Precision     Precision
}

// GPUAvailable reports whether an accelerator was detected.
func (p Profile) GPUAvailable() bool {
	return p.GPU != VendorNone && p.GPU != ""
}

// reducedPrecisionVRAMMiB is the VRAM ceiling below which accelerators run
// reduced-precision inference to stay within memory.
const reducedPrecisionVRAMMiB = 12288

// Detector probes the local machine. Probe functions are fields so tests can
// substitute them; every probe degrades silently on error.
type Detector struct {
	logger   *slog.Logger
	runner   services.CommandRunner
	ramProbe func() (int, error)
	gpuProbe func(ctx context.Context) (Vendor, string, error)
}

// NewDetector builds a Detector with the OS-backed probes.
func NewDetector(logger *slog.Logger) *Detector {
	return &Detector{
		logger:   logging.NewComponentLogger(logger, "hardware"),
		runner:   services.RunCommand,
		ramProbe: probeRAM,
		gpuProbe: probePCIGPU,
	}
}

// WithCommandRunner overrides the subprocess runner (for testing).
func (d *Detector) WithCommandRunner(runner services.CommandRunner) *Detector {
	if runner != nil {
		d.runner = runner
	}
	return d
}

// WithRAMProbe overrides the RAM probe (for testing).
func (d *Detector) WithRAMProbe(probe func() (int, error)) *Detector {
	if probe != nil {
		d.ramProbe = probe
	}
	return d
}

// WithGPUProbe overrides the PCI GPU probe (for testing).
func (d *Detector) WithGPUProbe(probe func(ctx context.Context) (Vendor, string, error)) *Detector {
	if probe != nil {
		d.gpuProbe = probe
	}
	return d
}

// Detect probes the machine and assembles a Profile. It never fails: any
// probe error degrades to the CPU-only values for that field.
func (d *Detector) Detect(ctx context.Context) Profile {
	profile := Profile{
		CPUThreads: runtime.NumCPU(),
		GPU:        VendorNone,
		Precision:  PrecisionFull,
	}
	if profile.CPUThreads <= 0 {
		profile.CPUThreads = 2
	}
	profile.FFmpegThreads = ffmpegThreadBudget(profile.CPUThreads)

	if ram, err := d.ramProbe(); err == nil {
		profile.RAMMiB = ram
	} else {
		d.logger.Debug("ram probe failed", logging.Error(err))
	}

	vendor, name, err := d.gpuProbe(ctx)
	if err != nil {
		d.logger.Debug("gpu probe failed", logging.Error(err))
	} else if vendor != VendorNone {
		profile.GPU = vendor
		profile.GPUName = name
		profile.VRAMMiB = d.probeVRAM(ctx, vendor)
	}

	profile.Encoder = d.probeEncoder(ctx, profile.GPU)
	profile.Precision = selectPrecision(profile)

	d.logger.Debug("hardware detected",
		logging.Int("cpu_threads", profile.CPUThreads),
		logging.Int("ram_mib", profile.RAMMiB),
		logging.String("gpu", string(profile.GPU)),
		logging.Int("vram_mib", profile.VRAMMiB),
		logging.String("encoder", string(profile.Encoder)),
		logging.String("precision", string(profile.Precision)),
	)
	return profile
}

// ffmpegThreadBudget leaves headroom for the rest of the system: roughly 75%
// of logical CPUs, never fewer than 2.
func ffmpegThreadBudget(cpus int) int {
	budget := cpus * 3 / 4
	if budget < 2 {
		budget = 2
	}
	return budget
}

// selectPrecision picks reduced precision only on memory-constrained
// accelerators. CPU-only and high-VRAM profiles run full precision.
func selectPrecision(p Profile) Precision {
	if !p.GPUAvailable() {
		return PrecisionFull
	}
	if p.VRAMMiB > 0 && p.VRAMMiB < reducedPrecisionVRAMMiB {
		return PrecisionReduced
	}
	return PrecisionFull
}
