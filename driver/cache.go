package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// manifestFileName is the name of the cache manifest inside the cache
// directory.
const manifestFileName = "manifest.msgpack"

// cacheEntry records one cached output.
type cacheEntry struct {
	// Input is the path of the module the output was generated from.
	Input string `msgpack:"input"`

	// File is the name of the output inside the cache directory.
	File string `msgpack:"file"`

	Size    int64     `msgpack:"size"`
	Created time.Time `msgpack:"created"`
}

// manifest is the cache manifest as it is encoded on disk.
type manifest struct {
	Version int                    `msgpack:"version"`
	Entries map[string]*cacheEntry `msgpack:"entries"`
}

const manifestVersion = 1

// Cache stores generated outputs keyed by a hash of everything they were
// generated from.  It is safe for concurrent use.
type Cache struct {
	dir string

	m        sync.Mutex
	manifest manifest
	dirty    bool
}

// OpenCache opens the cache in dir, creating the directory if necessary.  A
// missing, unreadable or outdated manifest yields an empty cache.
func OpenCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	c := &Cache{dir: dir, manifest: manifest{Version: manifestVersion, Entries: make(map[string]*cacheEntry)}}

	data, err := os.ReadFile(filepath.Join(dir, manifestFileName))
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	} else if err != nil {
		return nil, err
	}

	var mf manifest
	if err := msgpack.Unmarshal(data, &mf); err != nil || mf.Version != manifestVersion || mf.Entries == nil {
		// the manifest is rebuilt from scratch
		c.dirty = true
		return c, nil
	}

	c.manifest = mf
	return c, nil
}

// CacheKey hashes the contents of a module along with every setting which
// affects the output generated from it.
func CacheKey(content []byte, settings ...string) string {
	h := sha256.New()
	h.Write(content)

	for _, s := range settings {
		// the separator keeps ("ab", "c") and ("a", "bc") apart
		h.Write([]byte{0})
		h.Write([]byte(s))
	}

	return hex.EncodeToString(h.Sum(nil))
}

// Lookup returns the path of the cached output for key if it is present and
// intact.
func (c *Cache) Lookup(key string) (string, bool) {
	c.m.Lock()
	defer c.m.Unlock()

	entry, ok := c.manifest.Entries[key]
	if !ok {
		return "", false
	}

	path := filepath.Join(c.dir, entry.File)
	if finfo, err := os.Stat(path); err != nil || finfo.Size() != entry.Size {
		delete(c.manifest.Entries, key)
		c.dirty = true
		return "", false
	}

	return path, true
}

// Store writes data to the cache under key and returns its path.  The ext is
// the file extension of the output.
func (c *Cache) Store(key, input, ext string, data []byte) (string, error) {
	file := key + ext
	path := filepath.Join(c.dir, file)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write cache entry: %w", err)
	}

	c.m.Lock()
	defer c.m.Unlock()

	c.manifest.Entries[key] = &cacheEntry{
		Input:   input,
		File:    file,
		Size:    int64(len(data)),
		Created: time.Now(),
	}

	c.dirty = true
	return path, nil
}

// Len returns the number of entries in the cache.
func (c *Cache) Len() int {
	c.m.Lock()
	defer c.m.Unlock()

	return len(c.manifest.Entries)
}

// Save writes the manifest if it changed.
func (c *Cache) Save() error {
	c.m.Lock()
	defer c.m.Unlock()

	if !c.dirty {
		return nil
	}

	data, err := msgpack.Marshal(&c.manifest)
	if err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(c.dir, manifestFileName), data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache manifest: %w", err)
	}

	c.dirty = false
	return nil
}
