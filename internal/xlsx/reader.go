package xlsx

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Record is a single data row keyed by header cell text.
type Record map[string]string

// Reader reads tabular data from xlsx workbooks.
type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

// Records reads the first sheet of the workbook at path. The header row
// (one-based) names the fields, rows after it become Records. Rows whose
// cells are all empty are skipped. A blank header cell gets the positional
// name Column_<i>.
func (r *Reader) Records(path string, headerRow int) (records []Record, err error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		err = fmt.Errorf("open workbook %s: %w", path, err)
		return
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		err = errNoSheet
		return
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		err = fmt.Errorf("read sheet %s: %w", sheets[0], err)
		return
	}
	if headerRow < 1 || headerRow > len(rows) {
		err = errHeaderRowMissing
		return
	}

	header := rows[headerRow-1]
	fields := make([]string, len(header))
	for i, cell := range header {
		name := strings.TrimSpace(cell)
		if name == "" {
			name = fmt.Sprintf("Column_%d", i)
		}
		fields[i] = name
	}

	records = make([]Record, 0, len(rows)-headerRow)
	for _, row := range rows[headerRow:] {
		if isBlankRow(row) {
			continue
		}
		rec := make(Record, len(fields))
		for i, name := range fields {
			if i < len(row) {
				rec[name] = row[i]
			} else {
				rec[name] = ""
			}
		}
		records = append(records, rec)
	}
	return
}

// SheetKey returns the trimmed second cell of the first row of the named
// sheet, the value detail workbooks carry as their match key.
func (r *Reader) SheetKey(path, sheet string) (key string, err error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		err = fmt.Errorf("open workbook %s: %w", path, err)
		return
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		err = fmt.Errorf("read sheet %s: %w", sheet, err)
		return
	}
	if len(rows) == 0 || len(rows[0]) < 2 {
		err = errKeyCellMissing
		return
	}
	key = strings.TrimSpace(rows[0][1])
	return
}

// SheetNames lists the sheets of the workbook at path.
func (r *Reader) SheetNames(path string) (sheets []string, err error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		err = fmt.Errorf("open workbook %s: %w", path, err)
		return
	}
	defer f.Close()
	sheets = f.GetSheetList()
	return
}

// SheetRows returns the rows of the named sheet starting from startRow
// (one-based). All-empty rows are skipped.
func (r *Reader) SheetRows(path, sheet string, startRow int) (out [][]string, err error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		err = fmt.Errorf("open workbook %s: %w", path, err)
		return
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		err = fmt.Errorf("read sheet %s: %w", sheet, err)
		return
	}
	if startRow < 1 {
		startRow = 1
	}
	if startRow > len(rows) {
		return
	}
	for _, row := range rows[startRow-1:] {
		if isBlankRow(row) {
			continue
		}
		out = append(out, row)
	}
	return
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
