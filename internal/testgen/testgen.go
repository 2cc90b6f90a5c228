// Package testgen generates e-book fixtures with configurable metadata.
package testgen

import (
	"os"
	"path/filepath"
	"testing"
)

// EPUBOptions configures the generated EPUB file.
type EPUBOptions struct {
	Title       string
	Authors     []string
	Identifiers []string // written as-is, in order
	Language    string
	Description string // may contain HTML; it is escaped into the OPF
	Extra       map[string]string

	HasCover      bool
	CoverMimeType string // "image/jpeg" or "image/png", defaults to "image/png"
	// CoverProperty marks the cover with EPUB 3 properties="cover-image"
	// instead of an EPUB 2 <meta name="cover">.
	CoverProperty bool
	// NoContainer leaves out META-INF/container.xml.
	NoContainer bool
}

// WriteFile creates a file with the given content in the specified directory.
// Returns the full path to the created file.
func WriteFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}
