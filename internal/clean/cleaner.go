// Package clean measures and deletes disk junk for the categories defined in
// package config.
package clean

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/lakshaymaurya-felt/ramsweep/internal/config"
)

// Usage is the measured size of one category.
type Usage struct {
	Category config.Category `json:"-"`
	ID       string          `json:"category"`
	Path     string          `json:"path,omitempty"`
	Bytes    int64           `json:"bytes"`
	Files    int             `json:"files"`
	Err      error           `json:"-"`
}

// Result is the outcome of cleaning one category. Error is set only when the
// category as a whole could not be processed; skipped files are not errors.
type Result struct {
	Category     config.Category `json:"-"`
	ID           string          `json:"category"`
	BytesCleaned int64           `json:"bytes_cleaned"`
	FilesCleaned int             `json:"files_cleaned"`
	FilesSkipped int             `json:"files_skipped"`
	Error        string          `json:"error,omitempty"`
}

// Cleaner resolves categories against a set of base directories.
type Cleaner struct {
	dirs   config.Dirs
	remove func(string) error
	logger *slog.Logger
}

// Option configures a Cleaner.
type Option func(*Cleaner)

// WithRemove replaces os.Remove for file deletion.
func WithRemove(fn func(string) error) Option {
	return func(c *Cleaner) { c.remove = fn }
}

// WithLogger sets the cleaner's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cleaner) { c.logger = l }
}

// New creates a Cleaner over dirs.
func New(dirs config.Dirs, opts ...Option) *Cleaner {
	c := &Cleaner{
		dirs:   dirs,
		remove: os.Remove,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Location resolves cat against the cleaner's directories.
func (c *Cleaner) Location(cat config.Category) config.Location {
	return config.Resolve(c.dirs, cat)
}

// Measure returns the category's size in bytes, or 0 if it is missing or
// could not be read.
func (c *Cleaner) Measure(cat config.Category) int64 {
	return c.Inspect(cat).Bytes
}

// Inspect measures a category and reports why a size is zero.
func (c *Cleaner) Inspect(cat config.Category) Usage {
	loc := c.Location(cat)
	u := Usage{Category: cat, ID: cat.String()}

	if loc.Kind == config.KindCookieFile {
		path, info, ok := findCookieFile(loc)
		if ok {
			u.Path = path
			u.Bytes = info.Size()
			u.Files = 1
		}
		return u
	}

	u.Path = loc.Path
	if loc.Path == "" {
		return u
	}

	bytes, files, err := sumDir(loc.Path)
	if err != nil {
		c.logger.Debug("measure failed", "category", u.ID, "path", loc.Path, "error", err)
		u.Err = err
		return u
	}
	u.Bytes = bytes
	u.Files = files
	return u
}

// Clean deletes the category's files. Each file is deleted independently; a
// file that cannot be removed is skipped and the rest continue.
func (c *Cleaner) Clean(cat config.Category) Result {
	loc := c.Location(cat)
	res := Result{Category: cat, ID: cat.String()}

	if loc.Kind == config.KindCookieFile {
		c.cleanCookie(loc, &res)
		return res
	}
	if loc.Path == "" {
		return res
	}
	if config.IsProtected(loc.Path) {
		res.Error = fmt.Sprintf("refusing to clean protected path %s", loc.Path)
		return res
	}

	root := longPath(loc.Path)
	info, err := os.Stat(root)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			res.Error = err.Error()
		}
		return res
	}
	if !info.IsDir() {
		return res
	}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err // root inaccessible: the whole category fails
			}
			return nil // unreadable subdirectory: skip it
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			res.FilesSkipped++
			return nil
		}
		if err := c.remove(path); err != nil {
			// Locked or in use.
			res.FilesSkipped++
			c.logger.Debug("skip file", "path", path, "error", err)
			return nil
		}
		res.BytesCleaned += fi.Size()
		res.FilesCleaned++
		return nil
	})
	if walkErr != nil {
		res.Error = walkErr.Error()
	}

	c.logger.Debug("category cleaned",
		"category", res.ID,
		"files", res.FilesCleaned,
		"skipped", res.FilesSkipped,
		"bytes", res.BytesCleaned)
	return res
}

func (c *Cleaner) cleanCookie(loc config.Location, res *Result) {
	path, info, ok := findCookieFile(loc)
	if !ok {
		return
	}
	if err := c.remove(path); err != nil {
		res.Error = fmt.Sprintf("failed to delete %s: %v", path, err)
		return
	}
	res.BytesCleaned = info.Size()
	res.FilesCleaned = 1
}

// findCookieFile returns the first candidate that exists as a regular file.
func findCookieFile(loc config.Location) (string, fs.FileInfo, bool) {
	for _, cand := range loc.Candidates {
		paths := []string{cand.Path}
		if cand.Glob {
			matches, err := filepath.Glob(cand.Path)
			if err != nil {
				continue
			}
			sort.Strings(matches)
			paths = matches
		}
		for _, p := range paths {
			info, err := os.Stat(longPath(p))
			if err == nil && info.Mode().IsRegular() {
				return p, info, true
			}
		}
	}
	return "", nil, false
}

// sumDir totals regular file sizes under root without following links.
// A missing root is zero, not an error; files that vanish mid-walk are ignored.
func sumDir(root string) (int64, int, error) {
	root = longPath(root)
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, 0, nil
		}
		return 0, 0, err
	}
	if !info.IsDir() {
		return 0, 0, nil
	}

	var total int64
	var files int
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		total += fi.Size()
		files++
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return total, files, nil
}
