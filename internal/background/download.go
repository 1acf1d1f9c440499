package background

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"voxreel/internal/services"
)

// downloadAsset streams a candidate to destPath via a temp file in the same
// directory so readers never observe a partial asset.
func downloadAsset(ctx context.Context, client *http.Client, rawURL, destPath string) error {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "background", "download", "build request", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return services.Wrap(services.ErrTimeout, "background", "download", "request cancelled", ctx.Err())
		}
		return services.Wrap(services.ErrExternalTool, "background", "download", "request failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return services.Wrap(services.ErrExternalTool, "background", "download",
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return services.Wrap(services.ErrExternalTool, "background", "download", "create directory", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(destPath), "."+filepath.Base(destPath)+".*")
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "background", "download", "create temp file", err)
	}
	tmpPath := tmp.Name()
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		if ctx.Err() != nil {
			return services.Wrap(services.ErrTimeout, "background", "download", "stream interrupted", ctx.Err())
		}
		return services.Wrap(services.ErrExternalTool, "background", "download", "stream body", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return services.Wrap(services.ErrExternalTool, "background", "download", "close temp file", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		_ = os.Remove(tmpPath)
		return services.Wrap(services.ErrExternalTool, "background", "download", "finalize file", err)
	}
	return nil
}
