// Package modcache is an on-disk cache of compiled module interfaces
// (C10), keyed by module hash: a rebuild that finds an up-to-date entry
// can skip straight to C11 without re-running C5 through C9 for that
// module. Adapted from the teacher's DiskCache (internal/driver/dcache.go
// in the original): same msgpack-on-disk shape, atomic temp-file-then-
// rename write, and XDG cache directory convention, repointed at
// internal/modiface.ModuleInterface instead of the teacher's bare
// ModuleMeta payload.
package modcache

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"implicits/internal/modiface"
	"implicits/internal/project"
)

// schemaVersion guards against decoding a payload written by an
// incompatible earlier build of this package; bump it whenever Payload's
// shape changes.
const schemaVersion uint16 = 1

// Cache is a disk-backed, concurrency-safe store of compiled module
// interfaces keyed by project.Digest (a module's ModuleHash, which already
// folds in every dependency's hash — a cache hit on that key is a hit on
// the exact dependency closure too).
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Payload is what actually lands on disk: the module interface plus the
// bookkeeping needed to tell a stale entry from a fresh one.
type Payload struct {
	Schema     uint16
	ModuleHash project.Digest
	Interface  *modiface.ModuleInterface
}

// Open initializes a Cache rooted at the standard XDG cache location for
// app (e.g. "implicits"), creating it if necessary.
func Open(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "modules", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and atomically writes iface under key.
func (c *Cache) Put(key project.Digest, iface *modiface.ModuleInterface) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmpName := f.Name()
	defer os.Remove(tmpName)

	payload := Payload{Schema: schemaVersion, ModuleHash: key, Interface: iface}
	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, p)
}

// Get looks up key, reporting false (no error) on a clean miss, and
// discarding a hit whose schema doesn't match the version this build
// knows how to read.
func (c *Cache) Get(key project.Digest) (*modiface.ModuleInterface, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload Payload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != schemaVersion || payload.ModuleHash != key {
		return nil, false, nil
	}
	return payload.Interface, true, nil
}

// DropAll invalidates every cached entry, e.g. after a schema bump.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
