package docx

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"
)

const documentPart = "word/document.xml"

// BodyElement is any element that can appear in a document body or a
// table cell: paragraphs, tables, and raw passthrough markup.
type BodyElement interface {
	isBodyElement()
}

// ParagraphChild is any element that can appear inside a paragraph.
type ParagraphChild interface {
	isParagraphChild()
}

// RunChild is any element that can appear inside a run.
type RunChild interface {
	isRunChild()
}

// Body holds the ordered elements of a document body, a header or a
// footer part. Unrecognized elements are kept as RawElement so the part
// round-trips without loss.
type Body struct {
	Elements          []BodyElement
	SectionProperties *RawElement
}

// Paragraph is a text container. Content preserves the original order of
// runs and of any markup this package does not model.
type Paragraph struct {
	Properties *ParagraphProperties
	Content    []ParagraphChild
}

func (p *Paragraph) isBodyElement() {}

// ParagraphProperties carries formatting of a paragraph. Paragraphs read
// from a template keep their pPr verbatim in Raw; paragraphs built by
// this package use the typed fields.
type ParagraphProperties struct {
	Alignment   *Alignment
	RunDefaults *RunProperties
	Raw         []byte
}

// Run is a formatted stretch of text.
type Run struct {
	Properties *RunProperties
	Children   []RunChild
}

func (r *Run) isParagraphChild() {}

// RunProperties carries run formatting. Runs read from a template keep
// their rPr verbatim in Raw; runs built by this package use the typed
// fields.
type RunProperties struct {
	Bold bool
	Size int // half-points
	Raw  []byte
}

// Text is a literal text node.
type Text struct {
	Space   string
	Content string
}

func (t *Text) isRunChild() {}

// Break is a line or page break inside a run.
type Break struct {
	Type string
}

func (b *Break) isRunChild() {}

// Tab is a tab character inside a run.
type Tab struct{}

func (t *Tab) isRunChild() {}

// RawElement is markup preserved verbatim from the source part.
type RawElement struct {
	Markup []byte
}

func (r *RawElement) isBodyElement()    {}
func (r *RawElement) isParagraphChild() {}
func (r *RawElement) isRunChild()       {}

// Table is a body table.
type Table struct {
	Properties *TableProperties
	Grid       *TableGrid
	Rows       []TableRow
}

func (t *Table) isBodyElement() {}

// TableProperties carries table formatting, Raw for parsed tables and
// the typed fields for tables built by this package.
type TableProperties struct {
	Style   *Style
	Width   *TableWidth
	Borders *TableBorders
	Raw     []byte
}

// TableGrid defines the table columns.
type TableGrid struct {
	Columns []GridColumn
}

// GridColumn is one table column definition.
type GridColumn struct {
	Width int
}

// TableRow is one table row. Raw keeps the original trPr.
type TableRow struct {
	Raw   []byte
	Cells []TableCell
}

// TableCell holds ordered cell content: paragraphs, nested markup kept raw.
type TableCell struct {
	Properties *TableCellProperties
	Content    []BodyElement
}

// TableCellProperties carries cell formatting.
type TableCellProperties struct {
	Width   *TableWidth
	VAlign  *VerticalAlign
	Shading *Shading
	Borders *CellBorders
	Raw     []byte
}

// TableWidth is a tblW or tcW value.
type TableWidth struct {
	Type string
	Val  int
}

// Alignment is a jc value (left, center, right).
type Alignment struct {
	Val string
}

// VerticalAlign is a vAlign value.
type VerticalAlign struct {
	Val string
}

// Shading is a cell background fill.
type Shading struct {
	Val   string
	Color string
	Fill  string
}

// Style is a style reference (pStyle, tblStyle).
type Style struct {
	Val string
}

// Border is one border edge.
type Border struct {
	Val   string
	Size  int
	Space int
	Color string
}

// TableBorders are the six table-level border edges.
type TableBorders struct {
	Top     *Border
	Left    *Border
	Bottom  *Border
	Right   *Border
	InsideH *Border
	InsideV *Border
}

// CellBorders are the four cell-level border edges.
type CellBorders struct {
	Top    *Border
	Left   *Border
	Bottom *Border
	Right  *Border
}

// Runs returns pointers to the runs of the paragraph in order.
func (p *Paragraph) Runs() []*Run {
	var runs []*Run
	for _, child := range p.Content {
		if r, ok := child.(*Run); ok {
			runs = append(runs, r)
		}
	}
	return runs
}

// Text returns the concatenated text of all runs in the paragraph.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, run := range p.Runs() {
		sb.WriteString(run.Text())
	}
	return sb.String()
}

// AppendRun appends a run to the paragraph.
func (p *Paragraph) AppendRun(r *Run) {
	p.Content = append(p.Content, r)
}

// Text returns the text content of the run. Breaks map to newlines and
// tabs to tab characters, matching what a reader sees.
func (r *Run) Text() string {
	var sb strings.Builder
	for _, child := range r.Children {
		switch c := child.(type) {
		case *Text:
			sb.WriteString(c.Content)
		case *Break:
			sb.WriteByte('\n')
		case *Tab:
			sb.WriteByte('\t')
		}
	}
	return sb.String()
}

// SetText replaces the textual content of the run with a single text
// node, keeping formatting and any non-text markup.
func (r *Run) SetText(s string) {
	children := []RunChild{&Text{Space: "preserve", Content: s}}
	for _, child := range r.Children {
		if raw, ok := child.(*RawElement); ok {
			children = append(children, raw)
		}
	}
	r.Children = children
}

// ClearText removes all textual content from the run, keeping any
// non-text markup such as drawings.
func (r *Run) ClearText() {
	var children []RunChild
	for _, child := range r.Children {
		if raw, ok := child.(*RawElement); ok {
			children = append(children, raw)
		}
	}
	r.Children = children
}

// Paragraphs returns pointers to the paragraphs of the cell in order.
func (c *TableCell) Paragraphs() []*Paragraph {
	var paras []*Paragraph
	for _, el := range c.Content {
		if p, ok := el.(*Paragraph); ok {
			paras = append(paras, p)
		}
	}
	return paras
}

// Text returns the concatenated text of the cell's paragraphs.
func (c *TableCell) Text() string {
	var texts []string
	for _, p := range c.Paragraphs() {
		texts = append(texts, p.Text())
	}
	return strings.Join(texts, "\n")
}

// Paragraphs returns the paragraphs that are direct children of the body.
func (b *Body) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, el := range b.Elements {
		if p, ok := el.(*Paragraph); ok {
			out = append(out, p)
		}
	}
	return out
}

// eachParagraph visits every paragraph of the body, including the
// paragraphs of every table cell.
func (b *Body) eachParagraph(fn func(*Paragraph)) {
	for _, el := range b.Elements {
		switch el := el.(type) {
		case *Paragraph:
			fn(el)
		case *Table:
			for i := range el.Rows {
				for j := range el.Rows[i].Cells {
					for _, p := range el.Rows[i].Cells[j].Paragraphs() {
						fn(p)
					}
				}
			}
		}
	}
}

// parsePart parses a document, header or footer part into a Body.
func parsePart(content []byte) (*Body, error) {
	d := xml.NewDecoder(bytes.NewReader(content))
	for {
		token, err := d.Token()
		if err == io.EOF {
			return nil, errMalformedXML
		}
		if err != nil {
			return nil, err
		}

		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "document":
			// Body is a child of the document root.
			continue
		case "body", "hdr", "ftr":
			return parseBody(d, start.Name.Local)
		default:
			return nil, errMalformedXML
		}
	}
}

func parseBody(d *xml.Decoder, end string) (*Body, error) {
	body := &Body{}
	for {
		token, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				var para Paragraph
				if err := para.unmarshal(d, t); err != nil {
					return nil, err
				}
				body.Elements = append(body.Elements, &para)
			case "tbl":
				var table Table
				if err := table.unmarshal(d, t); err != nil {
					return nil, err
				}
				body.Elements = append(body.Elements, &table)
			case "sectPr":
				raw, err := captureElement(d, t)
				if err != nil {
					return nil, err
				}
				body.SectionProperties = raw
			default:
				raw, err := captureElement(d, t)
				if err != nil {
					return nil, err
				}
				body.Elements = append(body.Elements, raw)
			}
		case xml.EndElement:
			if t.Name.Local == end {
				return body, nil
			}
		}
	}
	return body, nil
}

func (p *Paragraph) unmarshal(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				inner, err := captureInner(d, t)
				if err != nil {
					return err
				}
				p.Properties = &ParagraphProperties{Raw: inner}
			case "r":
				var run Run
				if err := run.unmarshal(d, t); err != nil {
					return err
				}
				p.Content = append(p.Content, &run)
			default:
				raw, err := captureElement(d, t)
				if err != nil {
					return err
				}
				p.Content = append(p.Content, raw)
			}
		case xml.EndElement:
			if t.Name.Local == "p" {
				return nil
			}
		}
	}
}

func (r *Run) unmarshal(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "rPr":
				inner, err := captureInner(d, t)
				if err != nil {
					return err
				}
				r.Properties = &RunProperties{Raw: inner}
			case "t":
				text := &Text{}
				for _, attr := range t.Attr {
					if attr.Name.Local == "space" {
						text.Space = attr.Value
					}
				}
				content, err := textContent(d, t.Name.Local)
				if err != nil {
					return err
				}
				text.Content = content
				r.Children = append(r.Children, text)
			case "br":
				br := &Break{}
				for _, attr := range t.Attr {
					if attr.Name.Local == "type" {
						br.Type = attr.Value
					}
				}
				if err := d.Skip(); err != nil {
					return err
				}
				r.Children = append(r.Children, br)
			case "tab":
				if err := d.Skip(); err != nil {
					return err
				}
				r.Children = append(r.Children, &Tab{})
			default:
				raw, err := captureElement(d, t)
				if err != nil {
					return err
				}
				r.Children = append(r.Children, raw)
			}
		case xml.EndElement:
			if t.Name.Local == "r" {
				return nil
			}
		}
	}
}

func (tbl *Table) unmarshal(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tblPr":
				inner, err := captureInner(d, t)
				if err != nil {
					return err
				}
				tbl.Properties = &TableProperties{Raw: inner}
			case "tblGrid":
				grid, err := parseGrid(d)
				if err != nil {
					return err
				}
				tbl.Grid = grid
			case "tr":
				var row TableRow
				if err := row.unmarshal(d, t); err != nil {
					return err
				}
				tbl.Rows = append(tbl.Rows, row)
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "tbl" {
				return nil
			}
		}
	}
}

func parseGrid(d *xml.Decoder) (*TableGrid, error) {
	grid := &TableGrid{}
	for {
		token, err := d.Token()
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "gridCol" {
				col := GridColumn{}
				for _, attr := range t.Attr {
					if attr.Name.Local == "w" {
						col.Width, _ = strconv.Atoi(attr.Value)
					}
				}
				grid.Columns = append(grid.Columns, col)
			}
			if err := d.Skip(); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if t.Name.Local == "tblGrid" {
				return grid, nil
			}
		}
	}
}

func (row *TableRow) unmarshal(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "trPr":
				inner, err := captureInner(d, t)
				if err != nil {
					return err
				}
				row.Raw = inner
			case "tc":
				var cell TableCell
				if err := cell.unmarshal(d, t); err != nil {
					return err
				}
				row.Cells = append(row.Cells, cell)
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "tr" {
				return nil
			}
		}
	}
}

func (c *TableCell) unmarshal(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tcPr":
				inner, err := captureInner(d, t)
				if err != nil {
					return err
				}
				c.Properties = &TableCellProperties{Raw: inner}
			case "p":
				var para Paragraph
				if err := para.unmarshal(d, t); err != nil {
					return err
				}
				c.Content = append(c.Content, &para)
			default:
				raw, err := captureElement(d, t)
				if err != nil {
					return err
				}
				c.Content = append(c.Content, raw)
			}
		case xml.EndElement:
			if t.Name.Local == "tc" {
				return nil
			}
		}
	}
}

// textContent reads character data up to the matching end element.
func textContent(d *xml.Decoder, end string) (string, error) {
	var sb strings.Builder
	for {
		token, err := d.Token()
		if err != nil {
			return "", err
		}
		switch t := token.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			if t.Name.Local == end {
				return sb.String(), nil
			}
		}
	}
}
