package assemble

import (
	"fmt"
	"strconv"
	"strings"

	"voxreel/internal/background"
	"voxreel/internal/hardware"
)

const (
	canvasWidth  = 1080
	canvasHeight = 1920
	canvasFPS    = 30

	vaapiRenderNode = "/dev/dri/renderD128"
)

// encodingArgs returns the codec portion of the ffmpeg command for the
// chosen encoder. Software encoding carries the thread budget explicitly.
func encodingArgs(encoder hardware.Encoder, threads int) []string {
	switch encoder {
	case hardware.EncoderVAAPI:
		return []string{"-c:v", "h264_vaapi", "-qp", "23"}
	case hardware.EncoderNVENC:
		return []string{"-c:v", "h264_nvenc", "-preset", "p4", "-cq", "23"}
	default:
		if threads < 1 {
			threads = 2
		}
		return []string{"-c:v", "libx264", "-preset", "fast", "-crf", "23", "-threads", strconv.Itoa(threads)}
	}
}

// videoFilter assembles the [0:v]...[v] filter chain. VAAPI needs the frames
// uploaded to the GPU surface after all CPU-side filtering, so its upload
// stage goes last.
func videoFilter(stages []string, encoder hardware.Encoder) string {
	if encoder == hardware.EncoderVAAPI {
		stages = append(stages, "format=nv12", "hwupload")
	}
	return "[0:v]" + strings.Join(stages, ",") + "[v]"
}

// buildCommand produces the full ffmpeg argument list for one encode
// attempt. The background kind decides the first input and its filter
// stages; everything downstream of the filter graph is shared.
func buildCommand(req Request, encoder hardware.Encoder, threads int, subFilter string, duration float64, outputPath string) []string {
	durationArg := strconv.FormatFloat(duration, 'f', 3, 64)

	args := []string{"-y"}
	if encoder == hardware.EncoderVAAPI {
		args = append(args, "-vaapi_device", vaapiRenderNode)
	}

	var stages []string
	switch req.Background.Kind {
	case background.KindVideo:
		args = append(args, "-stream_loop", "-1", "-i", req.Background.Path)
		stages = []string{
			fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase", canvasWidth, canvasHeight),
			fmt.Sprintf("crop=%d:%d", canvasWidth, canvasHeight),
		}
	case background.KindImage:
		args = append(args, "-loop", "1", "-i", req.Background.Path)
		totalFrames := int(duration * canvasFPS)
		stages = []string{
			fmt.Sprintf("scale=%d:%d", canvasWidth*2, canvasHeight*2),
			fmt.Sprintf("zoompan=z='min(zoom+0.0003,1.15)':x='iw/2-(iw/zoom/2)':y='ih/2-(ih/zoom/2)':d=%d:s=%dx%d:fps=%d",
				totalFrames, canvasWidth, canvasHeight, canvasFPS),
		}
	default:
		color := strings.TrimPrefix(req.Background.Color, "#")
		if len(color) != 6 {
			color = "000000"
		}
		args = append(args, "-f", "lavfi", "-i",
			fmt.Sprintf("color=c=0x%s:s=%dx%d:d=%s:r=%d", color, canvasWidth, canvasHeight, durationArg, canvasFPS))
	}
	args = append(args, "-i", req.NarrationPath)

	if subFilter != "" {
		stages = append(stages, subFilter)
	}
	if len(stages) == 0 && encoder != hardware.EncoderVAAPI {
		stages = []string{"null"}
	}

	args = append(args, "-filter_complex", videoFilter(stages, encoder))
	args = append(args, "-map", "[v]", "-map", "1:a")
	args = append(args, encodingArgs(encoder, threads)...)
	args = append(args, "-c:a", "aac", "-b:a", "192k", "-shortest")
	if req.Background.Kind != background.KindColor {
		args = append(args, "-t", durationArg)
	}
	args = append(args, outputPath)
	return args
}
