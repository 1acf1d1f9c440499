package background

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"voxreel/internal/logging"
	"voxreel/internal/services"
	"voxreel/internal/textutil"
)

// Request describes what the resolver should produce for one run.
type Request struct {
	Keywords      []string
	ManualPath    string
	AutoEnabled   bool
	FallbackColor string
	PreferPhoto   bool
	Orientation   string
}

// Resolver turns a background request into a concrete local asset. It never
// fails the run: any provider or download problem degrades to the solid
// fallback color.
type Resolver struct {
	providers       []Provider
	cache           *Cache
	client          *http.Client
	logger          *slog.Logger
	downloadTimeout time.Duration
}

func NewResolver(providers []Provider, cache *Cache, client *http.Client, logger *slog.Logger, downloadTimeout time.Duration) *Resolver {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if downloadTimeout <= 0 {
		downloadTimeout = 5 * time.Minute
	}
	return &Resolver{
		providers:       providers,
		cache:           cache,
		client:          client,
		logger:          logger,
		downloadTimeout: downloadTimeout,
	}
}

// Resolve applies the background policy in order: an explicit local file
// wins outright, disabled auto-fetch means a solid color, otherwise the
// provider chain runs and the fallback color absorbs every failure.
func (r *Resolver) Resolve(ctx context.Context, req Request) (Asset, error) {
	if req.ManualPath != "" {
		return r.resolveManual(req.ManualPath)
	}
	if !req.AutoEnabled {
		return ColorAsset(req.FallbackColor), nil
	}

	orientation := req.Orientation
	if orientation == "" {
		orientation = OrientationPortrait
	}
	for _, term := range searchQueries(req.Keywords) {
		for _, provider := range r.orderedProviders(req.PreferPhoto) {
			asset, ok := r.tryProvider(ctx, provider, Query{Term: term, Orientation: orientation})
			if ok {
				return asset, nil
			}
		}
	}

	r.logger.Warn("no provider produced a background, using fallback color",
		slog.String(logging.FieldComponent, "background"))
	return ColorAsset(req.FallbackColor), nil
}

func (r *Resolver) resolveManual(manualPath string) (Asset, error) {
	kind := KindForPath(manualPath)
	if kind == KindColor {
		return Asset{}, services.Wrap(services.ErrValidation, "background", "manual path",
			fmt.Sprintf("unsupported file type %q", filepath.Ext(manualPath)), nil)
	}
	if _, err := os.Stat(manualPath); err != nil {
		return Asset{}, services.Wrap(services.ErrValidation, "background", "manual path", "file not accessible", err)
	}
	return Asset{Kind: kind, Path: manualPath, Source: "manual"}, nil
}

func (r *Resolver) tryProvider(ctx context.Context, provider Provider, query Query) (Asset, bool) {
	if !provider.Available() {
		return Asset{}, false
	}
	kind := providerKind(provider)

	if r.cache != nil {
		if entry, ok, err := r.cache.Lookup(ctx, query.Term, kind); err != nil {
			r.logger.Warn("background cache lookup failed",
				slog.String(logging.FieldComponent, "background"),
				slog.String("query", query.Term),
				logging.Error(err))
		} else if ok {
			r.logger.Info("background cache hit",
				slog.String(logging.FieldComponent, "background"),
				slog.String("query", query.Term),
				slog.String("path", entry.Path))
			return Asset{Kind: entry.Kind, Path: entry.Path, Source: entry.Source, Query: query.Term}, true
		}
	}

	candidates, err := provider.Search(ctx, query)
	if err != nil {
		r.logger.Warn("background provider search failed",
			slog.String(logging.FieldComponent, "background"),
			slog.String("provider", provider.Name()),
			slog.String("query", query.Term),
			logging.Error(err))
		return Asset{}, false
	}
	if len(candidates) == 0 {
		return Asset{}, false
	}
	candidate := candidates[0]

	destPath := r.assetPath(provider.Name(), query.Term, candidate)
	downloadCtx, cancel := context.WithTimeout(ctx, r.downloadTimeout)
	defer cancel()
	if err := downloadAsset(downloadCtx, r.client, candidate.URL, destPath); err != nil {
		r.logger.Warn("background download failed",
			slog.String(logging.FieldComponent, "background"),
			slog.String("provider", provider.Name()),
			logging.Error(err))
		return Asset{}, false
	}

	if r.cache != nil {
		if err := r.cache.Record(ctx, CacheEntry{
			Term:   query.Term,
			Kind:   candidate.Kind,
			Path:   destPath,
			Source: provider.Name(),
			Width:  candidate.Width,
			Height: candidate.Height,
		}); err != nil {
			r.logger.Warn("background cache record failed",
				slog.String(logging.FieldComponent, "background"),
				logging.Error(err))
		}
	}

	r.logger.Info("background resolved",
		slog.String(logging.FieldComponent, "background"),
		slog.String("provider", provider.Name()),
		slog.String("query", query.Term),
		slog.String("path", destPath))
	return Asset{Kind: candidate.Kind, Path: destPath, Source: provider.Name(), Query: query.Term}, true
}

// orderedProviders keeps the configured order unless photos are preferred,
// in which case image providers move ahead of video providers.
func (r *Resolver) orderedProviders(preferPhoto bool) []Provider {
	if !preferPhoto {
		return r.providers
	}
	ordered := make([]Provider, 0, len(r.providers))
	for _, provider := range r.providers {
		if providerKind(provider) == KindImage {
			ordered = append(ordered, provider)
		}
	}
	for _, provider := range r.providers {
		if providerKind(provider) != KindImage {
			ordered = append(ordered, provider)
		}
	}
	return ordered
}

func providerKind(provider Provider) Kind {
	if strings.Contains(provider.Name(), "photo") {
		return KindImage
	}
	return KindVideo
}

// searchQueries builds the query sequence from extracted keywords: the
// joined phrase first for relevance, then the single strongest keyword as a
// broader retry. Duplicates collapse.
func searchQueries(keywords []string) []string {
	cleaned := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		if keyword = strings.TrimSpace(keyword); keyword != "" {
			cleaned = append(cleaned, keyword)
		}
	}
	if len(cleaned) == 0 {
		return nil
	}
	joined := strings.Join(cleaned, " ")
	if len(cleaned) == 1 || joined == cleaned[0] {
		return []string{joined}
	}
	return []string{joined, cleaned[0]}
}

func (r *Resolver) assetPath(providerName, query string, candidate Candidate) string {
	dir := "."
	if r.cache != nil {
		dir = r.cache.Dir()
	}
	ext := urlExt(candidate.URL)
	if ext == "" {
		if candidate.Kind == KindImage {
			ext = ".jpg"
		} else {
			ext = ".mp4"
		}
	}
	name := fmt.Sprintf("%s-%s-%d%s", providerName, textutil.SanitizeToken(query), candidate.ID, ext)
	return filepath.Join(dir, name)
}

func urlExt(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	switch ext := strings.ToLower(path.Ext(parsed.Path)); ext {
	case ".mp4", ".mov", ".webm", ".mkv", ".jpg", ".jpeg", ".png", ".webp":
		return ext
	}
	return ""
}
