// Package cache keeps fetched listing pages on disk so that re-running an
// extraction against the same URL does not hit the site again.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Entry is the metadata stored next to a cached page body.
type Entry struct {
	URL          string    `json:"url"`
	ContentType  string    `json:"content_type"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"last_modified"`
	SavedAt      time.Time `json:"saved_at"`
}

// PageCache stores pages as <sha256(url)>.json and <sha256(url)>.body under Dir.
type PageCache struct {
	Dir string
	// StrictPerms writes 0700 directories and 0600 files.
	StrictPerms bool
}

func (c *PageCache) dirMode() os.FileMode {
	if c.StrictPerms {
		return 0o700
	}
	return 0o755
}

func (c *PageCache) fileMode() os.FileMode {
	if c.StrictPerms {
		return 0o600
	}
	return 0o644
}

func (c *PageCache) ensureDir() error {
	if c == nil || strings.TrimSpace(c.Dir) == "" {
		return errors.New("cache dir not configured")
	}
	return os.MkdirAll(c.Dir, c.dirMode())
}

func key(url string) string {
	h := sha256.Sum256([]byte(url))
	return hex.EncodeToString(h[:])
}

func (c *PageCache) metaPath(url string) string { return filepath.Join(c.Dir, key(url)+".json") }
func (c *PageCache) bodyPath(url string) string { return filepath.Join(c.Dir, key(url)+".body") }

// Load returns the cached metadata and body for url. A missing entry yields
// an error satisfying errors.Is(err, fs.ErrNotExist).
func (c *PageCache) Load(_ context.Context, url string) (*Entry, []byte, error) {
	if err := c.ensureDir(); err != nil {
		return nil, nil, err
	}
	raw, err := os.ReadFile(c.metaPath(url))
	if err != nil {
		return nil, nil, err
	}
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, nil, fmt.Errorf("decode meta: %w", err)
	}
	body, err := os.ReadFile(c.bodyPath(url))
	if err != nil {
		return nil, nil, err
	}
	return &e, body, nil
}

// Save writes body then metadata; the metadata rename makes the entry visible.
func (c *PageCache) Save(_ context.Context, e Entry, body []byte) error {
	if err := c.ensureDir(); err != nil {
		return err
	}
	if e.SavedAt.IsZero() {
		e.SavedAt = time.Now().UTC()
	}
	if err := os.WriteFile(c.bodyPath(e.URL), body, c.fileMode()); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	raw, err := json.Marshal(&e)
	if err != nil {
		return fmt.Errorf("encode meta: %w", err)
	}
	tmp := c.metaPath(e.URL) + ".tmp"
	if err := os.WriteFile(tmp, raw, c.fileMode()); err != nil {
		return fmt.Errorf("write meta: %w", err)
	}
	return os.Rename(tmp, c.metaPath(e.URL))
}

// Clear removes every entry and leaves an empty cache directory behind.
func (c *PageCache) Clear() error {
	if c == nil || strings.TrimSpace(c.Dir) == "" {
		return errors.New("empty dir")
	}
	if err := os.RemoveAll(c.Dir); err != nil {
		return err
	}
	return os.MkdirAll(c.Dir, c.dirMode())
}

// PurgeByAge deletes entries saved more than maxAge ago and returns how many
// were removed. Unreadable metadata files are skipped. Entries that could not
// be deleted are not counted and their errors are joined into the result.
func (c *PageCache) PurgeByAge(maxAge time.Duration) (int, error) {
	if maxAge <= 0 || c == nil || c.Dir == "" {
		return 0, nil
	}
	cutoff := time.Now().UTC().Add(-maxAge)
	removed := 0
	var failed []error
	err := filepath.WalkDir(c.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		var e Entry
		if json.Unmarshal(raw, &e) != nil || e.SavedAt.After(cutoff) {
			return nil
		}
		// Body first: the entry stays loadable until its metadata goes.
		if err := os.Remove(strings.TrimSuffix(path, ".json") + ".body"); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("path", path).Msg("cache purge: remove body failed")
			failed = append(failed, err)
			return nil
		}
		if err := os.Remove(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("cache purge: remove metadata failed")
			failed = append(failed, err)
			return nil
		}
		removed++
		return nil
	})
	return removed, errors.Join(append([]error{err}, failed...)...)
}
