package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
)

// Template is a docx document parsed for rewriting. The lifecycle is
// open, mutate, save: the tree is never read back from disk.
type Template struct {
	pkg      *packageReader
	document *Body
	extras   map[string]*Body // header and footer parts by name
}

// Open parses a docx template from a file.
func Open(path string) (*Template, error) {
	pkg, err := newPackageReaderFromFile(path)
	if err != nil {
		return nil, err
	}
	return newTemplate(pkg)
}

// OpenBytes parses a docx template from memory.
func OpenBytes(source []byte) (*Template, error) {
	pkg, err := newPackageReader(source)
	if err != nil {
		return nil, err
	}
	return newTemplate(pkg)
}

func newTemplate(pkg *packageReader) (*Template, error) {
	content, err := pkg.part(documentPart)
	if err != nil {
		return nil, err
	}
	document, err := parsePart(content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", documentPart, err)
	}

	t := &Template{
		pkg:      pkg,
		document: document,
		extras:   make(map[string]*Body),
	}
	for _, name := range pkg.headerFooterParts() {
		content, err := pkg.part(name)
		if err != nil {
			return nil, err
		}
		body, err := parsePart(content)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		t.extras[name] = body
	}
	return t, nil
}

// Body returns the document body.
func (t *Template) Body() *Body {
	return t.document
}

// EachParagraph visits every text container of the document: body
// paragraphs, body table cells, and the paragraphs and table cells of
// every header and footer.
func (t *Template) EachParagraph(fn func(*Paragraph)) {
	t.document.eachParagraph(fn)
	for _, name := range t.pkg.headerFooterParts() {
		if body, ok := t.extras[name]; ok {
			body.eachParagraph(fn)
		}
	}
}

// AppendParagraph appends a paragraph to the end of the document body.
func (t *Template) AppendParagraph(p *Paragraph) {
	t.document.Elements = append(t.document.Elements, p)
}

// AppendTable appends a table to the end of the document body.
func (t *Template) AppendTable(tbl *Table) {
	t.document.Elements = append(t.document.Elements, tbl)
}

// Write serializes the document: untouched parts are copied from the
// source container, rewritten parts are re-marshaled.
func (t *Template) Write(w io.Writer) error {
	zr, err := zip.NewReader(bytes.NewReader(t.pkg.source), int64(len(t.pkg.source)))
	if err != nil {
		return fmt.Errorf("read source container: %w", err)
	}

	zw := zip.NewWriter(w)
	for _, f := range zr.File {
		var rewritten *Body
		if f.Name == documentPart {
			rewritten = t.document
		} else if body, ok := t.extras[f.Name]; ok {
			rewritten = body
		}

		fw, err := zw.Create(f.Name)
		if err != nil {
			return fmt.Errorf("create %s: %w", f.Name, err)
		}

		if rewritten != nil {
			original, err := t.pkg.part(f.Name)
			if err != nil {
				return err
			}
			content, err := serializePart(original, rewritten)
			if err != nil {
				return fmt.Errorf("serialize %s: %w", f.Name, err)
			}
			if _, err := fw.Write(content); err != nil {
				return fmt.Errorf("write %s: %w", f.Name, err)
			}
			continue
		}

		fr, err := f.Open()
		if err != nil {
			return fmt.Errorf("open %s: %w", f.Name, err)
		}
		_, err = io.Copy(fw, fr)
		fr.Close()
		if err != nil {
			return fmt.Errorf("copy %s: %w", f.Name, err)
		}
	}
	return zw.Close()
}

// Save writes the document to a file.
func (t *Template) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := t.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
