package docx

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// Raw markup cannot pass through encoding/xml untouched, so raw elements
// are encoded as comment markers carrying their markup base64-encoded and
// expanded again after the encoder has run.
const rawMarkerPrefix = "docx:raw:"

var rawMarkerRegexp = regexp.MustCompile(`<!--docx:raw:([A-Za-z0-9+/=]*)-->`)

// prefixByNamespace maps the namespaces that occur in wordprocessing
// documents to their conventional prefixes, for re-serializing captured
// markup.
var prefixByNamespace = map[string]string{
	"http://schemas.openxmlformats.org/wordprocessingml/2006/main":           "w",
	"http://schemas.openxmlformats.org/officeDocument/2006/relationships":    "r",
	"http://schemas.openxmlformats.org/officeDocument/2006/math":             "m",
	"http://www.w3.org/XML/1998/namespace":                                   "xml",
	"http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing": "wp",
	"http://schemas.openxmlformats.org/drawingml/2006/main":                  "a",
	"http://schemas.openxmlformats.org/drawingml/2006/picture":               "pic",
	"http://schemas.openxmlformats.org/markup-compatibility/2006":            "mc",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingDrawing":    "wp14",
	"http://schemas.microsoft.com/office/word/2010/wordml":                   "w14",
	"http://schemas.microsoft.com/office/word/2012/wordml":                   "w15",
	"http://schemas.microsoft.com/office/word/2006/wordml":                   "wne",
	"urn:schemas-microsoft-com:vml":                                          "v",
	"urn:schemas-microsoft-com:office:office":                                "o",
	"urn:schemas-microsoft-com:office:word":                                  "w10",
}

func prefixedName(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	if name.Space == "xmlns" {
		return "xmlns:" + name.Local
	}
	if prefix, ok := prefixByNamespace[name.Space]; ok {
		return prefix + ":" + name.Local
	}
	return name.Local
}

func writeStartTag(buf *bytes.Buffer, t xml.StartElement) {
	buf.WriteByte('<')
	buf.WriteString(prefixedName(t.Name))
	for _, attr := range t.Attr {
		buf.WriteByte(' ')
		buf.WriteString(prefixedName(attr.Name))
		buf.WriteString(`="`)
		xml.EscapeText(buf, []byte(attr.Value))
		buf.WriteByte('"')
	}
	buf.WriteByte('>')
}

// captureInner re-serializes the children of the current element up to
// its matching end tag.
func captureInner(d *xml.Decoder, start xml.StartElement) ([]byte, error) {
	var buf bytes.Buffer
	depth := 1
	for depth > 0 {
		token, err := d.Token()
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			writeStartTag(&buf, t)
		case xml.EndElement:
			depth--
			if depth > 0 {
				buf.WriteString("</")
				buf.WriteString(prefixedName(t.Name))
				buf.WriteByte('>')
			}
		case xml.CharData:
			xml.EscapeText(&buf, t)
		}
	}
	return buf.Bytes(), nil
}

// captureElement re-serializes the current element in full, including
// its own tags.
func captureElement(d *xml.Decoder, start xml.StartElement) (*RawElement, error) {
	var buf bytes.Buffer
	writeStartTag(&buf, start)

	inner, err := captureInner(d, start)
	if err != nil {
		return nil, err
	}
	buf.Write(inner)

	buf.WriteString("</")
	buf.WriteString(prefixedName(start.Name))
	buf.WriteByte('>')
	return &RawElement{Markup: buf.Bytes()}, nil
}

func rawComment(e *xml.Encoder, markup []byte) error {
	return e.EncodeToken(xml.Comment(rawMarkerPrefix + base64.StdEncoding.EncodeToString(markup)))
}

func expandRawMarkers(b []byte) []byte {
	return rawMarkerRegexp.ReplaceAllFunc(b, func(m []byte) []byte {
		encoded := m[len("<!--"+rawMarkerPrefix) : len(m)-len("-->")]
		markup, err := base64.StdEncoding.DecodeString(string(encoded))
		if err != nil {
			return m
		}
		return markup
	})
}

// MarshalXML emits the preserved markup as a marker comment.
func (r RawElement) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	return rawComment(e, r.Markup)
}

// MarshalXML writes the paragraph as w:p.
func (p Paragraph) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:p"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if p.Properties != nil {
		if err := e.EncodeElement(p.Properties, xml.StartElement{Name: xml.Name{Local: "w:pPr"}}); err != nil {
			return err
		}
	}
	for _, child := range p.Content {
		switch c := child.(type) {
		case *Run:
			if err := e.EncodeElement(c, xml.StartElement{Name: xml.Name{Local: "w:r"}}); err != nil {
				return err
			}
		case *RawElement:
			if err := rawComment(e, c.Markup); err != nil {
				return err
			}
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// MarshalXML writes paragraph properties as w:pPr.
func (p ParagraphProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:pPr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if len(p.Raw) > 0 {
		if err := rawComment(e, p.Raw); err != nil {
			return err
		}
	} else {
		if p.Alignment != nil {
			if err := e.EncodeElement(p.Alignment, xml.StartElement{Name: xml.Name{Local: "w:jc"}}); err != nil {
				return err
			}
		}
		if p.RunDefaults != nil {
			if err := e.EncodeElement(p.RunDefaults, xml.StartElement{Name: xml.Name{Local: "w:rPr"}}); err != nil {
				return err
			}
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// MarshalXML writes the run as w:r.
func (r Run) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:r"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if r.Properties != nil {
		if err := e.EncodeElement(r.Properties, xml.StartElement{Name: xml.Name{Local: "w:rPr"}}); err != nil {
			return err
		}
	}
	for _, child := range r.Children {
		switch c := child.(type) {
		case *Text:
			if err := c.encode(e); err != nil {
				return err
			}
		case *Break:
			br := xml.StartElement{Name: xml.Name{Local: "w:br"}}
			if c.Type != "" {
				br.Attr = []xml.Attr{{Name: xml.Name{Local: "w:type"}, Value: c.Type}}
			}
			if err := e.EncodeElement(struct{}{}, br); err != nil {
				return err
			}
		case *Tab:
			if err := e.EncodeElement(struct{}{}, xml.StartElement{Name: xml.Name{Local: "w:tab"}}); err != nil {
				return err
			}
		case *RawElement:
			if err := rawComment(e, c.Markup); err != nil {
				return err
			}
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

func (t *Text) encode(e *xml.Encoder) error {
	start := xml.StartElement{Name: xml.Name{Local: "w:t"}}
	if t.Space != "" {
		start.Attr = []xml.Attr{{Name: xml.Name{Local: "xml:space"}, Value: t.Space}}
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := e.EncodeToken(xml.CharData(t.Content)); err != nil {
		return err
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// MarshalXML writes run properties as w:rPr.
func (p RunProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:rPr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if len(p.Raw) > 0 {
		if err := rawComment(e, p.Raw); err != nil {
			return err
		}
	} else {
		if p.Bold {
			if err := e.EncodeElement(struct{}{}, xml.StartElement{Name: xml.Name{Local: "w:b"}}); err != nil {
				return err
			}
		}
		if p.Size > 0 {
			sz := strconv.Itoa(p.Size)
			for _, name := range []string{"w:sz", "w:szCs"} {
				el := xml.StartElement{
					Name: xml.Name{Local: name},
					Attr: []xml.Attr{{Name: xml.Name{Local: "w:val"}, Value: sz}},
				}
				if err := e.EncodeElement(struct{}{}, el); err != nil {
					return err
				}
			}
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// MarshalXML writes the table as w:tbl.
func (t Table) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tbl"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if t.Properties != nil {
		if err := e.EncodeElement(t.Properties, xml.StartElement{Name: xml.Name{Local: "w:tblPr"}}); err != nil {
			return err
		}
	}
	if t.Grid != nil {
		if err := e.EncodeElement(t.Grid, xml.StartElement{Name: xml.Name{Local: "w:tblGrid"}}); err != nil {
			return err
		}
	}
	for i := range t.Rows {
		if err := e.EncodeElement(&t.Rows[i], xml.StartElement{Name: xml.Name{Local: "w:tr"}}); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// MarshalXML writes table properties as w:tblPr.
func (p TableProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tblPr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if len(p.Raw) > 0 {
		if err := rawComment(e, p.Raw); err != nil {
			return err
		}
	} else {
		if p.Style != nil {
			if err := e.EncodeElement(p.Style, xml.StartElement{Name: xml.Name{Local: "w:tblStyle"}}); err != nil {
				return err
			}
		}
		if p.Width != nil {
			if err := p.Width.encode(e, "w:tblW"); err != nil {
				return err
			}
		}
		if p.Borders != nil {
			if err := e.EncodeElement(p.Borders, xml.StartElement{Name: xml.Name{Local: "w:tblBorders"}}); err != nil {
				return err
			}
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// MarshalXML writes the table grid as w:tblGrid.
func (g TableGrid) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tblGrid"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, col := range g.Columns {
		el := xml.StartElement{
			Name: xml.Name{Local: "w:gridCol"},
			Attr: []xml.Attr{{Name: xml.Name{Local: "w:w"}, Value: strconv.Itoa(col.Width)}},
		}
		if err := e.EncodeElement(struct{}{}, el); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// MarshalXML writes the row as w:tr.
func (row TableRow) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if len(row.Raw) > 0 {
		if err := e.EncodeToken(xml.StartElement{Name: xml.Name{Local: "w:trPr"}}); err != nil {
			return err
		}
		if err := rawComment(e, row.Raw); err != nil {
			return err
		}
		if err := e.EncodeToken(xml.EndElement{Name: xml.Name{Local: "w:trPr"}}); err != nil {
			return err
		}
	}
	for i := range row.Cells {
		if err := e.EncodeElement(&row.Cells[i], xml.StartElement{Name: xml.Name{Local: "w:tc"}}); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// MarshalXML writes the cell as w:tc.
func (c TableCell) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tc"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if c.Properties != nil {
		if err := e.EncodeElement(c.Properties, xml.StartElement{Name: xml.Name{Local: "w:tcPr"}}); err != nil {
			return err
		}
	}
	for _, el := range c.Content {
		switch el := el.(type) {
		case *Paragraph:
			if err := e.EncodeElement(el, xml.StartElement{Name: xml.Name{Local: "w:p"}}); err != nil {
				return err
			}
		case *RawElement:
			if err := rawComment(e, el.Markup); err != nil {
				return err
			}
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// MarshalXML writes cell properties as w:tcPr.
func (p TableCellProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tcPr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if len(p.Raw) > 0 {
		if err := rawComment(e, p.Raw); err != nil {
			return err
		}
	} else {
		if p.Width != nil {
			if err := p.Width.encode(e, "w:tcW"); err != nil {
				return err
			}
		}
		if p.Borders != nil {
			if err := e.EncodeElement(p.Borders, xml.StartElement{Name: xml.Name{Local: "w:tcBorders"}}); err != nil {
				return err
			}
		}
		if p.Shading != nil {
			if err := e.EncodeElement(p.Shading, xml.StartElement{Name: xml.Name{Local: "w:shd"}}); err != nil {
				return err
			}
		}
		if p.VAlign != nil {
			el := xml.StartElement{
				Name: xml.Name{Local: "w:vAlign"},
				Attr: []xml.Attr{{Name: xml.Name{Local: "w:val"}, Value: p.VAlign.Val}},
			}
			if err := e.EncodeElement(struct{}{}, el); err != nil {
				return err
			}
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

func (w *TableWidth) encode(e *xml.Encoder, name string) error {
	el := xml.StartElement{
		Name: xml.Name{Local: name},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "w:w"}, Value: strconv.Itoa(w.Val)},
			{Name: xml.Name{Local: "w:type"}, Value: w.Type},
		},
	}
	return e.EncodeElement(struct{}{}, el)
}

// MarshalXML writes table borders as w:tblBorders.
func (b TableBorders) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tblBorders"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	edges := []struct {
		name   string
		border *Border
	}{
		{"w:top", b.Top}, {"w:left", b.Left}, {"w:bottom", b.Bottom},
		{"w:right", b.Right}, {"w:insideH", b.InsideH}, {"w:insideV", b.InsideV},
	}
	for _, edge := range edges {
		if edge.border == nil {
			continue
		}
		if err := edge.border.encode(e, edge.name); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// MarshalXML writes cell borders as w:tcBorders.
func (b CellBorders) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tcBorders"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	edges := []struct {
		name   string
		border *Border
	}{
		{"w:top", b.Top}, {"w:left", b.Left}, {"w:bottom", b.Bottom}, {"w:right", b.Right},
	}
	for _, edge := range edges {
		if edge.border == nil {
			continue
		}
		if err := edge.border.encode(e, edge.name); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

func (b *Border) encode(e *xml.Encoder, name string) error {
	el := xml.StartElement{
		Name: xml.Name{Local: name},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "w:val"}, Value: b.Val},
			{Name: xml.Name{Local: "w:sz"}, Value: strconv.Itoa(b.Size)},
			{Name: xml.Name{Local: "w:space"}, Value: strconv.Itoa(b.Space)},
			{Name: xml.Name{Local: "w:color"}, Value: b.Color},
		},
	}
	return e.EncodeElement(struct{}{}, el)
}

// MarshalXML writes an alignment value; the element name comes from the
// enclosing context (w:jc).
func (a Alignment) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = []xml.Attr{{Name: xml.Name{Local: "w:val"}, Value: a.Val}}
	return e.EncodeElement(struct{}{}, start)
}

// MarshalXML writes a style reference; the element name comes from the
// enclosing context (w:pStyle, w:tblStyle).
func (s Style) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = []xml.Attr{{Name: xml.Name{Local: "w:val"}, Value: s.Val}}
	return e.EncodeElement(struct{}{}, start)
}

// MarshalXML writes cell shading as w:shd.
func (s Shading) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:shd"}
	start.Attr = nil
	if s.Val != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "w:val"}, Value: s.Val})
	}
	if s.Color != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "w:color"}, Value: s.Color})
	}
	if s.Fill != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "w:fill"}, Value: s.Fill})
	}
	return e.EncodeElement(struct{}{}, start)
}

// serializePart rebuilds the XML of a part around its rewritten body.
// The original root tag is kept verbatim so every namespace declaration
// survives.
func serializePart(original []byte, body *Body) ([]byte, error) {
	content := string(original)

	searchStart := 0
	if declEnd := strings.Index(content, "?>"); declEnd != -1 && strings.HasPrefix(strings.TrimSpace(content), "<?xml") {
		searchStart = declEnd + 2
	}
	rootStart := strings.Index(content[searchStart:], "<")
	if rootStart == -1 {
		return nil, errMalformedXML
	}
	rootStart += searchStart
	openEnd := strings.Index(content[rootStart:], ">")
	if openEnd == -1 {
		return nil, errMalformedXML
	}
	openEnd += rootStart

	openTag := content[rootStart : openEnd+1]
	rootName := strings.TrimPrefix(openTag, "<")
	if i := strings.IndexAny(rootName, " >"); i != -1 {
		rootName = rootName[:i]
	}
	isDocument := strings.HasSuffix(rootName, "document")

	var buf bytes.Buffer
	buf.WriteString(xmlDeclaration)
	buf.WriteString(openTag)
	if isDocument {
		buf.WriteString("<w:body>")
	}

	enc := xml.NewEncoder(&buf)
	for _, el := range body.Elements {
		switch el := el.(type) {
		case *Paragraph:
			if err := enc.EncodeElement(el, xml.StartElement{Name: xml.Name{Local: "w:p"}}); err != nil {
				return nil, fmt.Errorf("encode paragraph: %w", err)
			}
		case *Table:
			if err := enc.EncodeElement(el, xml.StartElement{Name: xml.Name{Local: "w:tbl"}}); err != nil {
				return nil, fmt.Errorf("encode table: %w", err)
			}
		case *RawElement:
			if err := enc.Flush(); err != nil {
				return nil, err
			}
			buf.Write(el.Markup)
		}
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}

	if body.SectionProperties != nil {
		buf.Write(body.SectionProperties.Markup)
	}
	if isDocument {
		buf.WriteString("</w:body>")
	}
	buf.WriteString("</" + rootName + ">")

	return expandRawMarkers(buf.Bytes()), nil
}
