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
	pixabayVideoBaseURL = "https://pixabay.com/api/videos/"
	pixabayPhotoBaseURL = "https://pixabay.com/api/"
)

// PixabayVideoProvider searches the Pixabay video library. Pixabay takes the
// API key as a query parameter rather than a header.
type PixabayVideoProvider struct {
	apiKey     string
	baseURL    string
	client     *http.Client
	perPage    int
	minSeconds int
}

func NewPixabayVideoProvider(apiKey string, client *http.Client, perPage, minSeconds int) *PixabayVideoProvider {
	if client == nil {
		client = http.DefaultClient
	}
	if perPage <= 0 {
		perPage = 10
	}
	return &PixabayVideoProvider{
		apiKey:     apiKey,
		baseURL:    pixabayVideoBaseURL,
		client:     client,
		perPage:    perPage,
		minSeconds: minSeconds,
	}
}

func (p *PixabayVideoProvider) Name() string    { return "pixabay-video" }
func (p *PixabayVideoProvider) Available() bool { return p.apiKey != "" }

type pixabayVideoVariant struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type pixabayVideoHit struct {
	ID       int64 `json:"id"`
	Duration int   `json:"duration"`
	Videos   struct {
		Large  pixabayVideoVariant `json:"large"`
		Medium pixabayVideoVariant `json:"medium"`
		Small  pixabayVideoVariant `json:"small"`
		Tiny   pixabayVideoVariant `json:"tiny"`
	} `json:"videos"`
}

type pixabayVideoResponse struct {
	Hits []pixabayVideoHit `json:"hits"`
}

func (p *PixabayVideoProvider) Search(ctx context.Context, query Query) ([]Candidate, error) {
	// The video endpoint has no orientation filter; portrait fit is handled
	// downstream by the crop stage.
	body, err := pixabayGet(ctx, p.client, p.baseURL, url.Values{
		"key":      {p.apiKey},
		"q":        {query.Term},
		"per_page": {strconv.Itoa(p.perPage)},
	})
	if err != nil {
		return nil, err
	}
	var parsed pixabayVideoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "background", "pixabay video search", "decode response", err)
	}
	candidates := make([]Candidate, 0, len(parsed.Hits))
	for _, hit := range parsed.Hits {
		if p.minSeconds > 0 && hit.Duration < p.minSeconds {
			continue
		}
		variant := firstVideoVariant(hit.Videos.Large, hit.Videos.Medium, hit.Videos.Small, hit.Videos.Tiny)
		if variant.URL == "" {
			continue
		}
		candidates = append(candidates, Candidate{
			ID:       hit.ID,
			URL:      variant.URL,
			Kind:     KindVideo,
			Width:    variant.Width,
			Height:   variant.Height,
			Duration: hit.Duration,
		})
	}
	return candidates, nil
}

func firstVideoVariant(variants ...pixabayVideoVariant) pixabayVideoVariant {
	for _, variant := range variants {
		if variant.URL != "" {
			return variant
		}
	}
	return pixabayVideoVariant{}
}

// PixabayPhotoProvider searches the Pixabay image library.
type PixabayPhotoProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
	perPage int
}

func NewPixabayPhotoProvider(apiKey string, client *http.Client, perPage int) *PixabayPhotoProvider {
	if client == nil {
		client = http.DefaultClient
	}
	if perPage <= 0 {
		perPage = 10
	}
	return &PixabayPhotoProvider{
		apiKey:  apiKey,
		baseURL: pixabayPhotoBaseURL,
		client:  client,
		perPage: perPage,
	}
}

func (p *PixabayPhotoProvider) Name() string    { return "pixabay-photo" }
func (p *PixabayPhotoProvider) Available() bool { return p.apiKey != "" }

type pixabayPhotoHit struct {
	ID            int64  `json:"id"`
	LargeImageURL string `json:"largeImageURL"`
	ImageWidth    int    `json:"imageWidth"`
	ImageHeight   int    `json:"imageHeight"`
}

type pixabayPhotoResponse struct {
	Hits []pixabayPhotoHit `json:"hits"`
}

func (p *PixabayPhotoProvider) Search(ctx context.Context, query Query) ([]Candidate, error) {
	body, err := pixabayGet(ctx, p.client, p.baseURL, url.Values{
		"key":         {p.apiKey},
		"q":           {query.Term},
		"per_page":    {strconv.Itoa(p.perPage)},
		"image_type":  {"photo"},
		"orientation": {pixabayOrientation(query.Orientation)},
	})
	if err != nil {
		return nil, err
	}
	var parsed pixabayPhotoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "background", "pixabay photo search", "decode response", err)
	}
	candidates := make([]Candidate, 0, len(parsed.Hits))
	for _, hit := range parsed.Hits {
		if hit.LargeImageURL == "" {
			continue
		}
		candidates = append(candidates, Candidate{
			ID:     hit.ID,
			URL:    hit.LargeImageURL,
			Kind:   KindImage,
			Width:  hit.ImageWidth,
			Height: hit.ImageHeight,
		})
	}
	return candidates, nil
}

// pixabayOrientation maps the shared orientation names onto Pixabay's
// vertical/horizontal vocabulary.
func pixabayOrientation(orientation string) string {
	if orientation == OrientationLandscape {
		return "horizontal"
	}
	return "vertical"
}

func pixabayGet(ctx context.Context, client *http.Client, endpoint string, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "background", "pixabay search", "build request", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, services.Wrap(services.ErrTimeout, "background", "pixabay search", "request cancelled", ctx.Err())
		}
		return nil, services.Wrap(services.ErrExternalTool, "background", "pixabay search", "request failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrExternalTool, "background", "pixabay search",
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "background", "pixabay search", "read response", err)
	}
	return body, nil
}
