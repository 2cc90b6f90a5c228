package epub

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"path"
	"strings"

	"github.com/pkg/errors"
	"github.com/shishobooks/bookbuddy/pkg/errcodes"
)

const (
	sourceName    = "E-book"
	containerPath = "META-INF/container.xml"
)

// Metadata is the raw metadata of an EPUB. Fields maps each <metadata> child's
// local name (title, creator, identifier, ...) to its values in document
// order. Meta holds the EPUB 2 <meta name content> pairs.
type Metadata struct {
	Fields map[string][]string
	Meta   map[string]string

	PackagePath   string
	CoverPath     string
	CoverMimeType string
	CoverData     []byte
}

// First returns the first value recorded for key, or an empty string.
func (md *Metadata) First(key string) string {
	if values := md.Fields[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

type container struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type metadataElement struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
	Name    string `xml:"name,attr"`
	Content string `xml:"content,attr"`
}

type manifestItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

type packageDocument struct {
	XMLName  xml.Name `xml:"package"`
	Metadata struct {
		Elements []metadataElement `xml:",any"`
	} `xml:"metadata"`
	Manifest struct {
		Items []manifestItem `xml:"item"`
	} `xml:"manifest"`
}

// Parse reads the metadata and cover image of the EPUB at filePath. Every
// failure to read the container is a source unavailable error.
func Parse(filePath string) (*Metadata, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, errcodes.SourceUnavailable(sourceName, errors.Wrapf(err, "failed to open %s", filePath))
	}
	defer zr.Close()

	md, err := parseArchive(&zr.Reader)
	if err != nil {
		return nil, errcodes.SourceUnavailable(sourceName, err)
	}
	return md, nil
}

// ParseReader is Parse for an archive that's already in memory or open.
func ParseReader(r io.ReaderAt, size int64) (*Metadata, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, errcodes.SourceUnavailable(sourceName, errors.WithStack(err))
	}
	md, err := parseArchive(zr)
	if err != nil {
		return nil, errcodes.SourceUnavailable(sourceName, err)
	}
	return md, nil
}

func parseArchive(zr *zip.Reader) (*Metadata, error) {
	packagePath, err := findPackagePath(zr)
	if err != nil {
		return nil, err
	}

	b, err := readFile(zr, packagePath)
	if err != nil {
		return nil, err
	}

	pkg := &packageDocument{}
	if err := xml.Unmarshal(b, pkg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", packagePath)
	}

	md := &Metadata{
		Fields:      map[string][]string{},
		Meta:        map[string]string{},
		PackagePath: packagePath,
	}
	for _, el := range pkg.Metadata.Elements {
		name := el.XMLName.Local
		if name == "meta" {
			if el.Name != "" {
				md.Meta[el.Name] = strings.TrimSpace(el.Content)
			}
			continue
		}
		value := strings.TrimSpace(el.Value)
		if value == "" {
			continue
		}
		md.Fields[name] = append(md.Fields[name], value)
	}

	// Manifest hrefs are relative to the package document.
	if item := coverItem(pkg.Manifest.Items, md.Meta["cover"]); item != nil {
		md.CoverPath = path.Join(path.Dir(packagePath), item.Href)
		md.CoverMimeType = item.MediaType
		md.CoverData, err = readFile(zr, md.CoverPath)
		if err != nil {
			return nil, err
		}
	}

	return md, nil
}

// findPackagePath follows META-INF/container.xml to the package document, or
// falls back to the first .opf in the archive.
func findPackagePath(zr *zip.Reader) (string, error) {
	if b, err := readFile(zr, containerPath); err == nil {
		c := &container{}
		if err := xml.Unmarshal(b, c); err != nil {
			return "", errors.Wrapf(err, "failed to parse %s", containerPath)
		}
		for _, rf := range c.Rootfiles {
			if rf.FullPath != "" {
				return rf.FullPath, nil
			}
		}
	}

	for _, f := range zr.File {
		if strings.EqualFold(path.Ext(f.Name), ".opf") {
			return f.Name, nil
		}
	}
	return "", errors.New("no package document found")
}

func coverItem(items []manifestItem, coverID string) *manifestItem {
	if coverID != "" {
		for i := range items {
			if items[i].ID == coverID {
				return &items[i]
			}
		}
	}
	for i := range items {
		for _, p := range strings.Fields(items[i].Properties) {
			if p == "cover-image" {
				return &items[i]
			}
		}
	}
	return nil
}

func readFile(zr *zip.Reader, name string) ([]byte, error) {
	f, err := zr.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", name)
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", name)
	}
	return b, nil
}
