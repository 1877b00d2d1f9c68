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

// Package collision picks free destination names.
//
// Resolve probes the filesystem for the first free name in the sequence
// name.ext, name_1.ext, name_2.ext, ... Two callers probing the same name
// at the same time can both be told it is free; Guard.Claim closes that gap
// by serializing resolve-then-create per (directory, base name) and creating
// the chosen name exclusively.
package collision

import (
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/walteh/extsort/pkg/classify"
	"gitlab.com/tozd/go/errors"
)

// 🔢 Suffixed returns the n-th alternative for a stem and suffix, e.g. ("a", ".txt", 2) -> "a_2.txt".
func Suffixed(stem, suffix string, n int) string {
	return stem + "_" + strconv.Itoa(n) + suffix
}

// 🔍 Resolve returns the first path in desired, desired_1, desired_2, ... (counter
// inserted between stem and suffix) that does not exist at call time.
//
// There is no retry cap. The only failure is a probe that errors for a reason
// other than non-existence.
func Resolve(desired string) (string, error) {
	dir, name := filepath.Split(desired)
	stem, suffix := classify.Split(name)

	candidate := desired
	for n := 1; ; n++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = filepath.Join(dir, Suffixed(stem, suffix, n))
	}
}

// exists uses Lstat so a dangling symlink still counts as taken.
func exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, errors.Errorf("probing %s: %w", path, err)
}

type key struct {
	dir  string
	name string
}

type latch struct {
	mu   sync.Mutex
	refs int
}

// 🔒 Guard hands out exclusive latches keyed by (directory, base name).
// Entries are dropped once nobody holds or waits on them.
type Guard struct {
	mu      sync.Mutex
	latches map[key]*latch
}

// 🏭 NewGuard creates an empty guard
func NewGuard() *Guard {
	return &Guard{latches: make(map[key]*latch)}
}

// Lock blocks until the latch for (dir, name) is held and returns its release func.
func (g *Guard) Lock(dir, name string) (unlock func()) {
	k := key{dir: filepath.Clean(dir), name: name}

	g.mu.Lock()
	l, ok := g.latches[k]
	if !ok {
		l = &latch{}
		g.latches[k] = l
	}
	l.refs++
	g.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		g.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(g.latches, k)
		}
		g.mu.Unlock()
	}
}

// held reports how many latches are currently tracked.
func (g *Guard) held() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.latches)
}

// 📌 Claim resolves desired and creates the resulting file empty, holding the
// (directory, base name) latch across both steps. The create is exclusive, so a
// name taken by anyone outside this guard in the meantime moves the claim on to
// the next free suffix. The caller owns the returned path and must remove it if
// it abandons the copy.
func (g *Guard) Claim(desired string) (string, error) {
	dir, name := filepath.Split(desired)
	unlock := g.Lock(dir, name)
	defer unlock()

	for {
		path, err := Resolve(desired)
		if err != nil {
			return "", err
		}

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", errors.Errorf("claiming %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			_ = os.Remove(path)
			return "", errors.Errorf("closing claim %s: %w", path, err)
		}
		return path, nil
	}
}
