// Package sandbox limits the plan and subject files a long-running
// should process will read on behalf of its clients.
package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	units "github.com/docker/go-units"
)

// Sandbox enforces allowed and denied path patterns and a file size limit.
type Sandbox struct {
	allowed     []string
	denied      []string
	maxFileSize int64 // bytes, 0 means unlimited
}

// Config holds the sandbox configuration. Paths are directories or
// doublestar patterns such as plans/**/*.plan.yaml, resolved against the
// working directory.
type Config struct {
	AllowedPaths []string `yaml:"allowed_paths"`
	DeniedPaths  []string `yaml:"denied_paths"`
	MaxFileSize  string   `yaml:"max_file_size"` // e.g. "10MB", "512KiB"
}

// New creates a Sandbox from cfg.
func New(cfg Config) (*Sandbox, error) {
	s := &Sandbox{}

	var err error
	if s.allowed, err = resolve("allowed", cfg.AllowedPaths); err != nil {
		return nil, err
	}
	if s.denied, err = resolve("denied", cfg.DeniedPaths); err != nil {
		return nil, err
	}

	if cfg.MaxFileSize != "" {
		size, err := parseFileSize(cfg.MaxFileSize)
		if err != nil {
			return nil, fmt.Errorf("sandbox: parse max_file_size %q: %w", cfg.MaxFileSize, err)
		}
		s.maxFileSize = size
	}

	return s, nil
}

func resolve(what string, patterns []string) ([]string, error) {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("sandbox: resolve %s path %q: %w", what, p, err)
		}
		if !doublestar.ValidatePathPattern(abs) {
			return nil, fmt.Errorf("sandbox: invalid %s pattern %q", what, p)
		}
		out = append(out, abs)
	}
	return out, nil
}

// CheckPath reports whether path may be read. Denied patterns win over
// allowed ones; with no allowed patterns every path not denied is allowed.
func (s *Sandbox) CheckPath(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("sandbox: resolve path %q: %w", path, err)
	}

	for _, denied := range s.denied {
		if covers(denied, abs) {
			return fmt.Errorf("sandbox: path %q is under denied path %q", abs, denied)
		}
	}

	if len(s.allowed) == 0 {
		return nil
	}
	for _, allowed := range s.allowed {
		if covers(allowed, abs) {
			return nil
		}
	}
	return fmt.Errorf("sandbox: path %q is not under any allowed path %v", abs, s.allowed)
}

// covers reports whether pattern names abs itself, a directory above it,
// or matches it as a glob.
func covers(pattern, abs string) bool {
	if abs == pattern || strings.HasPrefix(abs, pattern+string(filepath.Separator)) {
		return true
	}
	ok, _ := doublestar.PathMatch(pattern, abs)
	return ok
}

// CheckFileSize reports whether size is within the limit.
func (s *Sandbox) CheckFileSize(size int64) error {
	if s.maxFileSize <= 0 {
		return nil
	}
	if size > s.maxFileSize {
		return fmt.Errorf("sandbox: file size %d bytes exceeds maximum %d bytes (%s)",
			size, s.maxFileSize, units.BytesSize(float64(s.maxFileSize)))
	}
	return nil
}

// CheckFile runs CheckPath and then checks the size of the file on disk.
func (s *Sandbox) CheckFile(path string) error {
	if err := s.CheckPath(path); err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("sandbox: %w", err)
	}
	return s.CheckFileSize(info.Size())
}

// MaxFileSize returns the limit in bytes, or 0 when there is none.
func (s *Sandbox) MaxFileSize() int64 {
	return s.maxFileSize
}

// parseFileSize parses a binary size such as 10MB (10 MiB) or 512k.
func parseFileSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty file size")
	}
	return units.RAMInBytes(s)
}
