package processing

import (
	"context"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// lockRetryDelay is how often a busy directory lock is retried.
const lockRetryDelay = 250 * time.Millisecond

// dirLockPath returns the lock file guarding the palette files of dir.
func dirLockPath(lockDir, dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(dir))
	if lockDir == "" {
		lockDir = os.TempDir()
	}
	return filepath.Join(lockDir, fmt.Sprintf("video2gif-%016x.lock", h.Sum64()))
}

// lockDirectory blocks until the palette lock for dir is held or ctx ends.
func lockDirectory(ctx context.Context, lockDir, dir string) (*flock.Flock, error) {
	fl := flock.New(dirLockPath(lockDir, dir))
	ok, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("lock %s not acquired", fl.Path())
	}
	return fl, nil
}
