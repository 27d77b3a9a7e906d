package detail

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tealeg/xlsx/v3"

	reader "github.com/taotao21503/contract-generator/internal/xlsx"
)

// SourceKind tags where a record's detail rows come from.
type SourceKind int

const (
	SourceNotFound SourceKind = iota
	SourceSingleFile
	SourceSheetMatch
)

// Source points at the located detail data for one record.
type Source struct {
	Kind  SourceKind
	Path  string
	Sheet string
}

type workbookReader interface {
	SheetNames(path string) ([]string, error)
	SheetKey(path, sheet string) (string, error)
	SheetRows(path, sheet string, startRow int) ([][]string, error)
}

// Locator finds the detail line items belonging to a contract record.
type Locator struct {
	reader workbookReader

	workbookPath string
	dataDir      string
	keyFields    []string
	nameFields   []string
	startRow     int
}

// NewLocator builds a Locator. workbookPath is the shared multi-sheet
// workbook, dataDir the directory of per-contract files; either may be
// empty to disable that strategy. keyFields are concatenated into the
// sheet match key, nameFields into single-file name candidates.
func NewLocator(
	reader workbookReader,
	workbookPath string,
	dataDir string,
	keyFields []string,
	nameFields []string,
	startRow int,
) *Locator {
	if len(keyFields) == 0 {
		keyFields = []string{"收货方名称", "合同号"}
	}
	if len(nameFields) == 0 {
		nameFields = []string{"合同号", "客户名称", "BU名称"}
	}
	if startRow < 1 {
		startRow = 2
	}
	return &Locator{
		reader:       reader,
		workbookPath: workbookPath,
		dataDir:      dataDir,
		keyFields:    keyFields,
		nameFields:   nameFields,
		startRow:     startRow,
	}
}

// Locate tries the configured strategies in order: a sheet of the shared
// workbook whose key matches the record, then a per-contract file in the
// data directory. A missing source is Source{Kind: SourceNotFound} with a
// nil error. A configured but unreadable workbook returns an error so the
// caller can tell a corrupt source from an absent one.
func (l *Locator) Locate(rec reader.Record) (src Source, err error) {
	if l.workbookPath != "" {
		if src, err = l.matchSheet(rec); err != nil || src.Kind != SourceNotFound {
			return
		}
	}
	if l.dataDir != "" {
		src = l.matchFile(rec)
	}
	return
}

func (l *Locator) matchSheet(rec reader.Record) (src Source, err error) {
	if _, err = os.Stat(l.workbookPath); err != nil {
		err = nil
		return
	}

	key := l.matchKey(rec)
	if key == "" {
		return
	}

	sheets, err := l.reader.SheetNames(l.workbookPath)
	if err != nil {
		err = fmt.Errorf("detail workbook %s: %w", l.workbookPath, err)
		return
	}
	for _, sheet := range sheets {
		sheetKey, keyErr := l.reader.SheetKey(l.workbookPath, sheet)
		if keyErr != nil {
			continue
		}
		if sheetKey == key {
			src = Source{Kind: SourceSheetMatch, Path: l.workbookPath, Sheet: sheet}
			return
		}
	}
	return
}

func (l *Locator) matchKey(rec reader.Record) string {
	var b strings.Builder
	for _, field := range l.keyFields {
		value := strings.TrimSpace(rec[field])
		if value == "" {
			return ""
		}
		b.WriteString(value)
	}
	return b.String()
}

func (l *Locator) matchFile(rec reader.Record) (src Source) {
	parts := make([]string, 0, len(l.nameFields))
	for _, field := range l.nameFields {
		value := strings.TrimSpace(rec[field])
		if value == "" {
			return
		}
		parts = append(parts, value)
	}

	for _, sep := range []string{"", "+", "-", "_"} {
		candidate := filepath.Join(l.dataDir, strings.Join(parts, sep)+".xlsx")
		if _, err := os.Stat(candidate); err == nil {
			return Source{Kind: SourceSingleFile, Path: candidate}
		}
	}
	return
}

// Rows reads the line items behind a located source, starting from the
// configured start row. Blank rows are skipped.
func (l *Locator) Rows(src Source) (rows [][]string, err error) {
	switch src.Kind {
	case SourceSheetMatch:
		return l.reader.SheetRows(src.Path, src.Sheet, l.startRow)
	case SourceSingleFile:
		return l.fileRows(src.Path)
	default:
		return
	}
}

func (l *Locator) fileRows(path string) (rows [][]string, err error) {
	wb, err := xlsx.OpenFile(path)
	if err != nil {
		err = fmt.Errorf("detail file %s: %w", path, err)
		return
	}
	if len(wb.Sheets) == 0 {
		err = fmt.Errorf("detail file %s: %w", path, errNoSheet)
		return
	}

	sheet := wb.Sheets[0]
	defer sheet.Close()

	rowIdx := 0
	err = sheet.ForEachRow(func(row *xlsx.Row) error {
		rowIdx++
		if rowIdx < l.startRow {
			return nil
		}
		var cells []string
		blank := true
		row.ForEachCell(func(cell *xlsx.Cell) error {
			value := cell.String()
			if strings.TrimSpace(value) != "" {
				blank = false
			}
			cells = append(cells, value)
			return nil
		})
		if !blank {
			rows = append(rows, cells)
		}
		return nil
	})
	return
}
