package xlsx_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/taotao21503/contract-generator/internal/xlsx"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		for j, cell := range row {
			axis, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", axis, cell))
		}
	}
	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestRecords(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"合同号", "客户名称", "", "金额"},
		{"HT001", "甲公司", "extra", "1,200.50"},
		{"", "", "", ""},
		{"HT002", "乙公司"},
	})

	records, err := xlsx.NewReader().Records(path, 1)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "HT001", records[0]["合同号"])
	assert.Equal(t, "甲公司", records[0]["客户名称"])
	assert.Equal(t, "extra", records[0]["Column_2"])
	assert.Equal(t, "1,200.50", records[0]["金额"])

	assert.Equal(t, "HT002", records[1]["合同号"])
	assert.Equal(t, "", records[1]["金额"])
}

func TestRecordsHeaderRowOffset(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"批次报表", ""},
		{"合同号", "客户名称"},
		{"HT003", "丙公司"},
	})

	records, err := xlsx.NewReader().Records(path, 2)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "HT003", records[0]["合同号"])
}

func TestRecordsEmptyDataRegion(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"合同号", "客户名称"},
	})

	records, err := xlsx.NewReader().Records(path, 1)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRecordsMissingFile(t *testing.T) {
	_, err := xlsx.NewReader().Records(filepath.Join(t.TempDir(), "absent.xlsx"), 1)
	assert.Error(t, err)
}

func TestSheetKey(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"key", " 甲公司HT001 "},
	})

	key, err := xlsx.NewReader().SheetKey(path, "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, "甲公司HT001", key)
}

func TestSheetKeyMissingCell(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"only-one-cell"},
	})

	_, err := xlsx.NewReader().SheetKey(path, "Sheet1")
	assert.Error(t, err)
}

func TestSheetRows(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"key", "甲公司HT001"},
		{"品名", "数量", "单价"},
		{"", "", ""},
		{"钢板", "10", "99.5"},
	})

	rows, err := xlsx.NewReader().SheetRows(path, "Sheet1", 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"品名", "数量", "单价"}, rows[0])
	assert.Equal(t, "钢板", rows[1][0])
}

func TestSheetRowsStartBeyondData(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"a", "b"},
	})

	rows, err := xlsx.NewReader().SheetRows(path, "Sheet1", 5)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
