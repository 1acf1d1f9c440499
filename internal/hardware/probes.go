package hardware

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pilebones/go-udev/crawler"
	"github.com/pilebones/go-udev/netlink"
	"golang.org/x/sys/unix"

	"voxreel/internal/logging"
)

const (
	probeTimeout    = 5 * time.Second
	pciCrawlTimeout = 2 * time.Second
	vaapiRenderNode = "/dev/dri/renderD128"
)

func probeRAM() (int, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, fmt.Errorf("sysinfo: %w", err)
	}
	unitBytes := uint64(info.Unit)
	if unitBytes == 0 {
		unitBytes = 1
	}
	return int(uint64(info.Totalram) * unitBytes / (1024 * 1024)), nil
}

// probePCIGPU walks the udev device tree looking for PCI display controllers
// (class 0x03xxxx). The first NVIDIA or AMD controller wins.
func probePCIGPU(ctx context.Context) (Vendor, string, error) {
	queue := make(chan crawler.Device)
	errs := make(chan error)
	matcher := &netlink.RuleDefinitions{
		Rules: []netlink.RuleDefinition{
			{Env: map[string]string{"PCI_CLASS": "^3[0-9A-Fa-f]{4}$"}},
		},
	}
	quit := crawler.ExistingDevices(queue, errs, matcher)
	defer close(quit)

	deadline := time.After(pciCrawlTimeout)
	for {
		select {
		case device := <-queue:
			vendor := vendorFromPCIID(device.Env["PCI_ID"])
			if vendor != VendorNone {
				return vendor, gpuLabel(device), nil
			}
		case err := <-errs:
			return VendorNone, "", fmt.Errorf("udev crawl: %w", err)
		case <-deadline:
			return VendorNone, "", nil
		case <-ctx.Done():
			return VendorNone, "", ctx.Err()
		}
	}
}

// vendorFromPCIID maps a udev PCI_ID ("10DE:2204") to an accelerator vendor.
func vendorFromPCIID(pciID string) Vendor {
	vendor, _, ok := strings.Cut(strings.ToLower(strings.TrimSpace(pciID)), ":")
	if !ok {
		return VendorNone
	}
	switch vendor {
	case "10de":
		return VendorNVIDIA
	case "1002", "1022":
		return VendorAMD
	default:
		return VendorNone
	}
}

func gpuLabel(device crawler.Device) string {
	if driver := strings.TrimSpace(device.Env["DRIVER"]); driver != "" {
		return driver
	}
	return strings.TrimSpace(device.Env["PCI_SLOT_NAME"])
}

// probeVRAM shells out to the vendor SMI tool; 0 on any failure.
func (d *Detector) probeVRAM(ctx context.Context, vendor Vendor) int {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	switch vendor {
	case VendorNVIDIA:
		output, err := d.runner(probeCtx, "nvidia-smi", "--query-gpu=name,memory.total", "--format=csv,noheader,nounits")
		if err != nil {
			d.logger.Debug("nvidia-smi probe failed", logging.Error(err))
			return 0
		}
		vram, err := parseNvidiaSMI(string(output))
		if err != nil {
			d.logger.Debug("nvidia-smi parse failed", logging.Error(err))
			return 0
		}
		return vram
	case VendorAMD:
		output, err := d.runner(probeCtx, "rocm-smi", "--showmeminfo", "vram")
		if err != nil {
			d.logger.Debug("rocm-smi probe failed", logging.Error(err))
			return 0
		}
		vram, err := parseRocmSMI(string(output))
		if err != nil {
			d.logger.Debug("rocm-smi parse failed", logging.Error(err))
			return 0
		}
		return vram
	default:
		return 0
	}
}

// parseNvidiaSMI reads "name, MiB" CSV lines emitted with noheader,nounits.
func parseNvidiaSMI(output string) (int, error) {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		idx := strings.LastIndex(line, ",")
		if idx < 0 {
			continue
		}
		vram, err := strconv.Atoi(strings.TrimSpace(line[idx+1:]))
		if err != nil {
			continue
		}
		return vram, nil
	}
	return 0, errors.New("no memory.total line")
}

// parseRocmSMI reads the "VRAM Total Memory (B): N" line.
func parseRocmSMI(output string) (int, error) {
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "VRAM Total Memory") {
			continue
		}
		idx := strings.LastIndex(line, ":")
		if idx < 0 {
			continue
		}
		bytes, err := strconv.ParseInt(strings.TrimSpace(line[idx+1:]), 10, 64)
		if err != nil {
			continue
		}
		return int(bytes / (1024 * 1024)), nil
	}
	return 0, errors.New("no vram total line")
}

// probeEncoder asks ffmpeg which hardware acceleration methods it was built
// with and cross-checks against the detected GPU. VAAPI additionally requires
// a render node.
func (d *Detector) probeEncoder(ctx context.Context, vendor Vendor) Encoder {
	if vendor == VendorNone {
		return EncoderNone
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	output, err := d.runner(probeCtx, "ffmpeg", "-hide_banner", "-hwaccels")
	if err != nil {
		d.logger.Debug("ffmpeg hwaccel probe failed", logging.Error(err))
		return EncoderNone
	}
	return selectEncoder(string(output), vendor, fileExists(vaapiRenderNode))
}

// selectEncoder is the pure core of probeEncoder.
func selectEncoder(hwaccels string, vendor Vendor, renderNodePresent bool) Encoder {
	listing := strings.ToLower(hwaccels)
	switch vendor {
	case VendorAMD:
		if strings.Contains(listing, "vaapi") && renderNodePresent {
			return EncoderVAAPI
		}
	case VendorNVIDIA:
		if strings.Contains(listing, "cuda") || strings.Contains(listing, "nvenc") {
			return EncoderNVENC
		}
	}
	return EncoderNone
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
