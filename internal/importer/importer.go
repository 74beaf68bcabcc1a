// Package importer resolves `import NAME` directives (spec.md §5) to
// source bytes. Two names, "math" and "thread", are built-ins that
// package vlang binds as native Env values and need no file lookup;
// every other name is resolved from a configured library
// directory via github.com/viant/afs, preferring the highest semver
// subdirectory when a library ships more than one version. Grounded on
// analyzer/package.go's AnalyzeDir/AnalyzeAll walking pattern
// (fs.Walk/fs.DownloadWithURL/url.Join), generalized from a Go package
// walker into a single-file library resolver.
package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"golang.org/x/mod/semver"
	"golang.org/x/sync/singleflight"

	"github.com/minio/highwayhash"
)

// cacheKey is the fixed 256-bit HighwayHash key used to key the content
// cache; any fixed key works since this is a cache digest, not a MAC.
var cacheKey = make([]byte, 32)

// defaultBuiltins names the libraries implemented natively by package
// builtin/eval rather than resolved from the filesystem (spec.md
// §5.6/§5.7). A package-level set because most callers never need to
// extend it; Importer.RegisterBuiltin extends an instance's own copy.
var defaultBuiltins = map[string]bool{"math": true, "thread": true}

// Importer resolves import directives against a library root directory.
type Importer struct {
	fs         afs.Service
	libraryDir string
	builtins   map[string]bool

	group singleflight.Group

	mu    sync.Mutex
	cache map[string][]byte
}

// New creates an Importer rooted at libraryDir (spec.md §2 Config.WithLibraryDir).
func New(libraryDir string) *Importer {
	builtins := make(map[string]bool, len(defaultBuiltins))
	for name := range defaultBuiltins {
		builtins[name] = true
	}
	return &Importer{
		fs:         afs.New(),
		libraryDir: libraryDir,
		builtins:   builtins,
		cache:      map[string][]byte{},
	}
}

// RegisterBuiltin marks additional names as natively provided, so Resolve
// skips filesystem lookup for them (spec.md §2 Config.WithBuiltinRegistry).
func (im *Importer) RegisterBuiltin(names ...string) {
	for _, name := range names {
		im.builtins[name] = true
	}
}

// IsBuiltin reports whether name is one of the package-level default
// natively provided libraries ("math", "thread").
func IsBuiltin(name string) bool { return defaultBuiltins[name] }

// isBuiltin reports whether name is natively provided for this specific
// Importer instance, including any names added via RegisterBuiltin.
func (im *Importer) isBuiltin(name string) bool { return im.builtins[name] }

// Resolve returns the source bytes for a non-builtin import, deduping
// concurrent resolutions of the same name via singleflight and caching
// by content digest.
func (im *Importer) Resolve(ctx context.Context, name string) ([]byte, error) {
	if im.isBuiltin(name) {
		return nil, nil
	}
	v, err, _ := im.group.Do(name, func() (interface{}, error) {
		return im.resolveFile(ctx, name)
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (im *Importer) resolveFile(ctx context.Context, name string) ([]byte, error) {
	base := url.Join(im.libraryDir, name)

	var versions []string
	var visitor storage.OnVisit = func(_ context.Context, _ string, parent string, info os.FileInfo, _ io.Reader) (bool, error) {
		if info.IsDir() && semver.IsValid("v"+info.Name()) {
			versions = append(versions, info.Name())
		}
		return true, nil
	}
	// a missing library directory simply yields no versions, not an error —
	// the unversioned layout below is tried regardless.
	_ = im.fs.Walk(ctx, base, visitor)

	target := base
	if len(versions) > 0 {
		sort.Slice(versions, func(i, j int) bool {
			return semver.Compare("v"+versions[i], "v"+versions[j]) < 0
		})
		target = url.Join(base, versions[len(versions)-1])
	}

	fileURL := url.Join(target, name+".vlang")
	data, err := im.fs.DownloadWithURL(ctx, fileURL)
	if err != nil {
		return nil, fmt.Errorf("resolve import %q: %w", name, err)
	}

	digest := highwayhash.Sum(data, cacheKey)
	im.mu.Lock()
	im.cache[string(digest[:])] = data
	im.mu.Unlock()

	return data, nil
}

// Cached returns a previously resolved import's bytes by content digest,
// if still held.
func (im *Importer) Cached(digest [highwayhash.Size]byte) ([]byte, bool) {
	im.mu.Lock()
	defer im.mu.Unlock()
	data, ok := im.cache[string(digest[:])]
	return data, ok
}
