package pipeline

import (
	"path/filepath"

	"github.com/gofrs/flock"

	"voxreel/internal/services"
)

const lockFileName = "run.lock"

// acquireRunLock serializes runs that share one workspace. The background
// cache is single-writer; a second concurrent run fails fast instead of
// racing it.
func acquireRunLock(cacheDir string) (*flock.Flock, error) {
	lock := flock.New(filepath.Join(cacheDir, lockFileName))
	acquired, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "run lock", "acquire lock", err)
	}
	if !acquired {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "run lock",
			"another run is already using this workspace", nil)
	}
	return lock, nil
}
