package path

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var invalidFilenameChars = []string{"<", ">", ":", "\"", "/", "\\", "|", "?", "*"}

// Builder resolves output document paths.
type Builder struct {
	outputDir string
	uuidFunc  func() string
}

// NewBuilder ...
func NewBuilder(
	outputDir string,
	uuidFunc func() string,
) (*Builder, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("output dir %s: %w", outputDir, err)
	}
	return &Builder{
		outputDir: outputDir,
		uuidFunc:  uuidFunc,
	}, nil
}

// Document returns the output path for a document name inside the
// output directory. The name is sanitized first.
func (b *Builder) Document(name string) string {
	return filepath.Join(b.outputDir, Sanitize(name))
}

// RequestDir creates and returns a fresh uuid-scoped directory for one
// generation request.
func (b *Builder) RequestDir() (string, error) {
	dir := filepath.Join(b.outputDir, b.uuidFunc())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("request dir %s: %w", dir, err)
	}
	return dir, nil
}

// Sanitize replaces characters that are invalid in file names with "_".
func Sanitize(name string) string {
	for _, ch := range invalidFilenameChars {
		name = strings.ReplaceAll(name, ch, "_")
	}
	return name
}
