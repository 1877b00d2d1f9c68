// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package runlock keeps two sort runs from writing into the same destination.
// Lock files live in a per-user state directory, never in the destination.
package runlock

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"gitlab.com/tozd/go/errors"
)

// 🔒 Lock is an advisory, cross-process lock on a destination root
type Lock struct {
	flock *flock.Flock
	path  string
}

// EnvDir overrides the directory lock files are kept in.
const EnvDir = "EXTSORT_LOCK_DIR"

// StateDir returns the directory lock files are kept in: $EXTSORT_LOCK_DIR when
// set, then the user cache dir, then the temp dir.
func StateDir() string {
	if dir := os.Getenv(EnvDir); dir != "" {
		return dir
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "extsort", "locks")
	}
	return filepath.Join(os.TempDir(), "extsort-locks")
}

// 🏭 New creates a lock for the destination root dst under StateDir.
func New(dst string) *Lock {
	return NewIn(StateDir(), dst)
}

// 🏭 NewIn creates a lock for the destination root dst under stateDir. The
// lock file is named after a hash of the cleaned destination path. Nothing is
// touched on disk until TryLock.
func NewIn(stateDir, dst string) *Lock {
	sum := sha256.Sum256([]byte(filepath.Clean(dst)))
	path := filepath.Join(stateDir, hex.EncodeToString(sum[:12])+".lock")
	return &Lock{
		flock: flock.New(path),
		path:  path,
	}
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// TryLock acquires the lock without blocking. It reports false when another
// process holds it.
func (l *Lock) TryLock() (bool, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return false, errors.Errorf("creating lock directory: %w", err)
	}
	acquired, err := l.flock.TryLock()
	if err != nil {
		return false, errors.Errorf("locking %s: %w", l.path, err)
	}
	return acquired, nil
}

// Unlock releases the lock. The lock file stays in the state directory so a
// waiting process never ends up holding an unlinked inode.
func (l *Lock) Unlock() error {
	if err := l.flock.Unlock(); err != nil {
		return errors.Errorf("unlocking %s: %w", l.path, err)
	}
	return nil
}
