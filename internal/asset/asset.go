// ABOUTME: Picks a uniformly random overlay asset from a directory by file suffix
// ABOUTME: Missing or unreadable directories resolve to "none", never to an error

package asset

import (
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultSuffix is the file suffix matched when none is configured.
const DefaultSuffix = ".gif"

// ErrNoAssets is returned by List-based callers when nothing matches.
var ErrNoAssets = errors.New("no matching assets")

// Resolver selects overlay assets from Dir.
type Resolver struct {
	Dir    string
	Suffix string

	// Intn returns a random int in [0, n). Nil uses math/rand/v2.
	Intn func(n int) int
}

// New returns a Resolver for dir matching suffix (DefaultSuffix if empty).
func New(dir, suffix string) *Resolver {
	return &Resolver{Dir: dir, Suffix: suffix}
}

// Resolve returns a uniformly chosen matching path, or false when the
// directory is missing, unreadable, or has no matching entries.
func (r *Resolver) Resolve() (string, bool) {
	names := r.matching()
	if len(names) == 0 {
		return "", false
	}
	intn := r.Intn
	if intn == nil {
		intn = rand.IntN
	}
	return filepath.Join(r.Dir, names[intn(len(names))]), true
}

// List returns every matching path in lexical order.
func (r *Resolver) List() []string {
	names := r.matching()
	sort.Strings(names)
	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(r.Dir, n)
	}
	return paths
}

func (r *Resolver) matching() []string {
	entries, err := os.ReadDir(r.Dir)
	if err != nil {
		return nil
	}
	suffix := strings.ToLower(r.Suffix)
	if suffix == "" {
		suffix = DefaultSuffix
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), suffix) {
			names = append(names, e.Name())
		}
	}
	return names
}
