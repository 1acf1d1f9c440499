package background

import (
	"path/filepath"
	"strings"
)

// Kind discriminates the backdrop variants.
type Kind string

const (
	KindVideo Kind = "video"
	KindImage Kind = "image"
	KindColor Kind = "color"
)

// Asset is the resolved backdrop handed to the assembly stage. Exactly one
// of Path (video/image) or Color (solid fallback) is populated.
type Asset struct {
	Kind   Kind
	Path   string
	Color  string
	Source string
	Query  string
}

// ColorAsset builds the solid-color fallback asset.
func ColorAsset(color string) Asset {
	color = strings.TrimSpace(color)
	if color == "" {
		color = "#000000"
	}
	return Asset{Kind: KindColor, Color: color}
}

var videoExtensions = map[string]struct{}{
	".mp4": {}, ".mov": {}, ".avi": {}, ".webm": {}, ".mkv": {},
}

var imageExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".webp": {}, ".bmp": {},
}

// KindForPath classifies a media file by extension, returning KindColor for
// anything unrecognized so callers can reject it.
func KindForPath(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := videoExtensions[ext]; ok {
		return KindVideo
	}
	if _, ok := imageExtensions[ext]; ok {
		return KindImage
	}
	return KindColor
}
