// Package publisher owns the generated tutorial file and the derived views
// of it served to users: sanitized HTML, download names and preview stats.
package publisher

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// ErrNotGenerated is returned by Read when no tutorial has been written.
var ErrNotGenerated = errors.New("tutorial not generated")

// Publisher writes and reads the single tutorial markdown file.
type Publisher struct {
	path   string
	logger *zap.Logger
}

func New(path string, logger *zap.Logger) (*Publisher, error) {
	if path == "" {
		return nil, errors.New("output path required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{path: path, logger: logger}, nil
}

func (p *Publisher) Path() string { return p.path }

// Write replaces the tutorial file with content. Readers never observe a
// partially written file.
func (p *Publisher) Write(content string) error {
	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".tutorial-*.md")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), p.path); err != nil {
		return fmt.Errorf("replace %s: %w", p.path, err)
	}
	p.logger.Info("tutorial written", zap.String("path", p.path), zap.Int("bytes", len(content)))
	return nil
}

// Read returns the tutorial exactly as written.
func (p *Publisher) Read() (string, error) {
	data, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNotGenerated
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", p.path, err)
	}
	return string(data), nil
}
