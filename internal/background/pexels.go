package background

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"voxreel/internal/services"
)

const (
	pexelsVideoBaseURL = "https://api.pexels.com/videos"
	pexelsPhotoBaseURL = "https://api.pexels.com/v1"
)

// PexelsVideoProvider searches the Pexels video library. Requests authenticate
// with the raw API key in the Authorization header.
type PexelsVideoProvider struct {
	apiKey     string
	baseURL    string
	client     *http.Client
	perPage    int
	minSeconds int
}

func NewPexelsVideoProvider(apiKey string, client *http.Client, perPage, minSeconds int) *PexelsVideoProvider {
	if client == nil {
		client = http.DefaultClient
	}
	if perPage <= 0 {
		perPage = 10
	}
	return &PexelsVideoProvider{
		apiKey:     apiKey,
		baseURL:    pexelsVideoBaseURL,
		client:     client,
		perPage:    perPage,
		minSeconds: minSeconds,
	}
}

func (p *PexelsVideoProvider) Name() string    { return "pexels-video" }
func (p *PexelsVideoProvider) Available() bool { return p.apiKey != "" }

type pexelsVideoFile struct {
	Link   string `json:"link"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type pexelsVideo struct {
	ID         int64             `json:"id"`
	Duration   int               `json:"duration"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	VideoFiles []pexelsVideoFile `json:"video_files"`
}

type pexelsVideoResponse struct {
	Videos []pexelsVideo `json:"videos"`
}

func (p *PexelsVideoProvider) Search(ctx context.Context, query Query) ([]Candidate, error) {
	body, err := pexelsGet(ctx, p.client, p.baseURL+"/search", p.apiKey, url.Values{
		"query":       {query.Term},
		"per_page":    {strconv.Itoa(p.perPage)},
		"orientation": {orientationOrDefault(query.Orientation)},
	})
	if err != nil {
		return nil, err
	}
	var parsed pexelsVideoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "background", "pexels video search", "decode response", err)
	}
	candidates := make([]Candidate, 0, len(parsed.Videos))
	for _, video := range parsed.Videos {
		if p.minSeconds > 0 && video.Duration < p.minSeconds {
			continue
		}
		file := bestVideoFile(video.VideoFiles)
		if file.Link == "" {
			continue
		}
		candidates = append(candidates, Candidate{
			ID:       video.ID,
			URL:      file.Link,
			Kind:     KindVideo,
			Width:    file.Width,
			Height:   file.Height,
			Duration: video.Duration,
		})
	}
	return candidates, nil
}

// bestVideoFile prefers the highest-resolution rendition that is at least
// 720 px tall; a portrait canvas upscales anything smaller too visibly.
func bestVideoFile(files []pexelsVideoFile) pexelsVideoFile {
	var best pexelsVideoFile
	for _, file := range files {
		if file.Height < 720 {
			continue
		}
		if file.Height > best.Height {
			best = file
		}
	}
	if best.Link == "" {
		for _, file := range files {
			if file.Height > best.Height {
				best = file
			}
		}
	}
	return best
}

// PexelsPhotoProvider searches the Pexels photo library.
type PexelsPhotoProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
	perPage int
}

func NewPexelsPhotoProvider(apiKey string, client *http.Client, perPage int) *PexelsPhotoProvider {
	if client == nil {
		client = http.DefaultClient
	}
	if perPage <= 0 {
		perPage = 10
	}
	return &PexelsPhotoProvider{
		apiKey:  apiKey,
		baseURL: pexelsPhotoBaseURL,
		client:  client,
		perPage: perPage,
	}
}

func (p *PexelsPhotoProvider) Name() string    { return "pexels-photo" }
func (p *PexelsPhotoProvider) Available() bool { return p.apiKey != "" }

type pexelsPhoto struct {
	ID     int64 `json:"id"`
	Width  int   `json:"width"`
	Height int   `json:"height"`
	Src    struct {
		Original string `json:"original"`
		Large2x  string `json:"large2x"`
		Large    string `json:"large"`
	} `json:"src"`
}

type pexelsPhotoResponse struct {
	Photos []pexelsPhoto `json:"photos"`
}

func (p *PexelsPhotoProvider) Search(ctx context.Context, query Query) ([]Candidate, error) {
	body, err := pexelsGet(ctx, p.client, p.baseURL+"/search", p.apiKey, url.Values{
		"query":       {query.Term},
		"per_page":    {strconv.Itoa(p.perPage)},
		"orientation": {orientationOrDefault(query.Orientation)},
	})
	if err != nil {
		return nil, err
	}
	var parsed pexelsPhotoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "background", "pexels photo search", "decode response", err)
	}
	candidates := make([]Candidate, 0, len(parsed.Photos))
	for _, photo := range parsed.Photos {
		link := photo.Src.Large2x
		if link == "" {
			link = photo.Src.Large
		}
		if link == "" {
			link = photo.Src.Original
		}
		if link == "" {
			continue
		}
		candidates = append(candidates, Candidate{
			ID:     photo.ID,
			URL:    link,
			Kind:   KindImage,
			Width:  photo.Width,
			Height: photo.Height,
		})
	}
	return candidates, nil
}

func orientationOrDefault(orientation string) string {
	if orientation == "" {
		return OrientationPortrait
	}
	return orientation
}

func pexelsGet(ctx context.Context, client *http.Client, endpoint, apiKey string, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "background", "pexels search", "build request", err)
	}
	req.Header.Set("Authorization", apiKey)
	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, services.Wrap(services.ErrTimeout, "background", "pexels search", "request cancelled", ctx.Err())
		}
		return nil, services.Wrap(services.ErrExternalTool, "background", "pexels search", "request failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrExternalTool, "background", "pexels search",
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "background", "pexels search", "read response", err)
	}
	return body, nil
}
