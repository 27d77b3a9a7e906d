package merge

import (
	"strconv"
	"strings"

	"github.com/taotao21503/contract-generator/internal/docx"
)

const (
	headerFontSize = 24 // half-points
	headerShade    = "D9D9D9"
	borderSize     = 4
)

// NumericPolicy decides whether a cell value reads as a number after
// stripping the configured decoration.
type NumericPolicy struct {
	ThousandsSeparators []string
	CurrencySymbols     []string
}

// DefaultNumericPolicy matches common zh-CN spreadsheet formatting.
func DefaultNumericPolicy() NumericPolicy {
	return NumericPolicy{
		ThousandsSeparators: []string{","},
		CurrencySymbols:     []string{"¥", "￥", "$", "€"},
	}
}

// IsNumeric reports whether the cell value parses as a decimal once
// separators and currency symbols are removed.
func (p NumericPolicy) IsNumeric(value string) bool {
	v := strings.TrimSpace(value)
	if v == "" {
		return false
	}
	for _, sym := range p.CurrencySymbols {
		v = strings.ReplaceAll(v, sym, "")
	}
	for _, sep := range p.ThousandsSeparators {
		v = strings.ReplaceAll(v, sep, "")
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	_, err := strconv.ParseFloat(v, 64)
	return err == nil
}

// Renderer appends detail line-item tables to documents.
type Renderer struct {
	policy NumericPolicy
}

func NewRenderer(policy NumericPolicy) *Renderer {
	return &Renderer{policy: policy}
}

// Append renders rows as a bordered grid table at the end of the document,
// preceded by a spacer paragraph and, when title is non-empty, a bold
// centered title. The first row is styled as a header. No rows, no change.
func (r *Renderer) Append(t *docx.Template, rows [][]string, title string) {
	if len(rows) == 0 {
		return
	}

	cols := columnCount(rows)
	t.AppendParagraph(&docx.Paragraph{})
	if title != "" {
		t.AppendParagraph(titleParagraph(title))
	}

	tbl := &docx.Table{
		Properties: &docx.TableProperties{
			Width:   &docx.TableWidth{Type: "auto", Val: 0},
			Borders: gridBorders(),
		},
		Grid: &docx.TableGrid{Columns: make([]docx.GridColumn, cols)},
	}
	for i, row := range rows {
		tr := docx.TableRow{Cells: make([]docx.TableCell, 0, cols)}
		for j := 0; j < cols; j++ {
			var value string
			if j < len(row) {
				value = flatten(row[j])
			}
			tr.Cells = append(tr.Cells, r.cell(value, i == 0))
		}
		tbl.Rows = append(tbl.Rows, tr)
	}
	t.AppendTable(tbl)
}

// columnCount is the widest row, with trailing columns that are empty in
// every row trimmed off. At least one column remains.
func columnCount(rows [][]string) int {
	max := 0
	for _, row := range rows {
		if len(row) > max {
			max = len(row)
		}
	}
	for max > 1 {
		used := false
		for _, row := range rows {
			if max-1 < len(row) && strings.TrimSpace(row[max-1]) != "" {
				used = true
				break
			}
		}
		if used {
			break
		}
		max--
	}
	if max < 1 {
		max = 1
	}
	return max
}

func (r *Renderer) cell(value string, header bool) docx.TableCell {
	props := &docx.TableCellProperties{
		VAlign: &docx.VerticalAlign{Val: "center"},
	}
	align := "center"
	var runProps *docx.RunProperties
	if header {
		props.Shading = &docx.Shading{Val: "clear", Color: "auto", Fill: headerShade}
		runProps = &docx.RunProperties{Bold: true, Size: headerFontSize}
	} else if r.policy.IsNumeric(value) {
		align = "right"
	}

	p := &docx.Paragraph{
		Properties: &docx.ParagraphProperties{Alignment: &docx.Alignment{Val: align}},
	}
	run := &docx.Run{Properties: runProps}
	run.SetText(value)
	p.AppendRun(run)

	return docx.TableCell{
		Properties: props,
		Content:    []docx.BodyElement{p},
	}
}

func titleParagraph(title string) *docx.Paragraph {
	p := &docx.Paragraph{
		Properties: &docx.ParagraphProperties{
			Alignment:   &docx.Alignment{Val: "center"},
			RunDefaults: &docx.RunProperties{Bold: true},
		},
	}
	run := &docx.Run{Properties: &docx.RunProperties{Bold: true}}
	run.SetText(title)
	p.AppendRun(run)
	return p
}

func gridBorders() *docx.TableBorders {
	edge := func() *docx.Border {
		return &docx.Border{Val: "single", Size: borderSize, Space: 0, Color: "auto"}
	}
	return &docx.TableBorders{
		Top:     edge(),
		Left:    edge(),
		Bottom:  edge(),
		Right:   edge(),
		InsideH: edge(),
		InsideV: edge(),
	}
}

// flatten strips embedded line breaks so a cell renders as a single line.
func flatten(value string) string {
	value = strings.ReplaceAll(value, "\r\n", " ")
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	return strings.TrimSpace(value)
}
