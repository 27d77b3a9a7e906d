package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
)

var headerFooterPartRegexp = regexp.MustCompile(`^word/(header|footer)\d+\.xml$`)

// packageReader indexes the parts of a docx container.
type packageReader struct {
	source []byte
	parts  map[string]*zip.File
}

func newPackageReader(source []byte) (*packageReader, error) {
	zr, err := zip.NewReader(bytes.NewReader(source), int64(len(source)))
	if err != nil {
		return nil, fmt.Errorf("read container: %w", err)
	}

	pr := &packageReader{
		source: source,
		parts:  make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		pr.parts[f.Name] = f
	}

	if _, ok := pr.parts[documentPart]; !ok {
		return nil, errNotDocument
	}
	return pr, nil
}

func newPackageReaderFromFile(path string) (*packageReader, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return newPackageReader(source)
}

// part returns the content of a named part.
func (pr *packageReader) part(name string) ([]byte, error) {
	f, ok := pr.parts[name]
	if !ok {
		return nil, fmt.Errorf("part %s: %w", name, errPartNotFound)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open part %s: %w", name, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read part %s: %w", name, err)
	}
	return content, nil
}

// headerFooterParts returns the names of all header and footer parts,
// sorted for deterministic traversal order.
func (pr *packageReader) headerFooterParts() []string {
	var names []string
	for name := range pr.parts {
		if headerFooterPartRegexp.MatchString(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
