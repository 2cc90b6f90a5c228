package covers

import (
	"context"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/bookbuddy/pkg/fileutils"
)

// Fetcher retrieves the raw bytes behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// Store writes cover images into a single directory.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Dir() string {
	return s.dir
}

// Download fetches the image at rawURL and saves it under the last segment of
// the URL path. It returns the path of the written file.
func (s *Store) Download(ctx context.Context, fetcher Fetcher, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.WithStack(err)
	}

	data, err := fetcher.Fetch(ctx, u.String())
	if err != nil {
		return "", errors.WithStack(err)
	}

	name := path.Base(u.Path)
	if name == "." || name == "/" {
		name = ""
	}

	p, err := s.Save(name, data)
	if err != nil {
		return "", err
	}

	logger.FromContext(ctx).Info("downloaded cover", logger.Data{"url": rawURL, "path": p})
	return p, nil
}

// Save writes data as an image called name, replacing any cover that already
// has that name. When name has no usable characters a random one is used, and
// when it doesn't end in an extension for the content one is added.
func (s *Store) Save(name string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("cover image is empty")
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", errors.Errorf("cover data is %s, not an image", mtype.String())
	}

	name = fileutils.SanitizeFilename(name)
	if name == "" {
		name = uuid.NewString()
	}
	if !hasExtensionFor(name, mtype) {
		name += mtype.Extension()
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", errors.WithStack(err)
	}

	p := filepath.Join(s.dir, name)
	if err := os.WriteFile(p, data, 0644); err != nil { //nolint:gosec
		return "", errors.WithStack(err)
	}

	return p, nil
}

// hasExtensionFor reports whether name already ends in an extension for the
// detected type. Titles like "Mr. Mercedes" don't count.
func hasExtensionFor(name string, mtype *mimetype.MIME) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	return ext == mtype.Extension() || (ext == ".jpeg" && mtype.Is("image/jpeg"))
}

// Remove deletes a cover file. A file that's already gone is not an error.
func Remove(p string) error {
	err := os.Remove(p)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.WithStack(err)
	}
	return nil
}
