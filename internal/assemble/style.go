package assemble

import (
	"fmt"
	"strings"
)

// Caption positions map onto ASS numpad alignment codes.
const (
	PositionBottom = "bottom"
	PositionCenter = "center"
	PositionTop    = "top"
)

// Style controls how burned-in captions look.
type Style struct {
	FontSize     int
	FontColor    string
	OutlineColor string
	OutlineWidth int
	Position     string
}

// DefaultStyle is the short-form look: big bold text centered on screen.
func DefaultStyle() Style {
	return Style{
		FontSize:     28,
		FontColor:    "white",
		OutlineColor: "black",
		OutlineWidth: 3,
		Position:     PositionCenter,
	}
}

var namedColors = map[string]string{
	"white":  "FFFFFF",
	"black":  "000000",
	"red":    "FF0000",
	"green":  "00FF00",
	"blue":   "0000FF",
	"yellow": "FFFF00",
}

// toBGR converts a CSS color name or #RRGGBB hex into the BGR hex digits ASS
// styling expects. Unknown inputs fall back to white.
func toBGR(color string) string {
	hex, ok := namedColors[strings.ToLower(strings.TrimSpace(color))]
	if !ok {
		hex = strings.TrimPrefix(strings.TrimSpace(color), "#")
	}
	if len(hex) != 6 {
		return "FFFFFF"
	}
	return strings.ToUpper(hex[4:6] + hex[2:4] + hex[0:2])
}

func alignmentCode(position string) int {
	switch position {
	case PositionBottom:
		return 2
	case PositionTop:
		return 8
	default:
		return 5
	}
}

// subtitleFilter builds the ffmpeg subtitles filter with ASS force_style.
// The SRT path is escaped for the filter graph parser: backslashes become
// forward slashes and colons are escaped.
func subtitleFilter(srtPath string, style Style) string {
	escaped := strings.ReplaceAll(srtPath, "\\", "/")
	escaped = strings.ReplaceAll(escaped, ":", "\\:")
	return fmt.Sprintf(
		"subtitles='%s':force_style='FontSize=%d,PrimaryColour=&H00%s,OutlineColour=&H00%s,Outline=%d,Alignment=%d,MarginV=100,Bold=1'",
		escaped, style.FontSize, toBGR(style.FontColor), toBGR(style.OutlineColor),
		style.OutlineWidth, alignmentCode(style.Position))
}
