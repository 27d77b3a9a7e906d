package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.HeaderRow)
	assert.Equal(t, "合同明细", cfg.Detail.Title)
	assert.Equal(t, []string{"收货方名称", "合同号"}, cfg.Detail.KeyFields)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
header_row: 3
detail:
  workbook: /data/details.xlsx
  start_row: 4
  title: 发货明细
numeric:
  currency_symbols: ["元"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.HeaderRow)
	assert.Equal(t, "/data/details.xlsx", cfg.Detail.Workbook)
	assert.Equal(t, 4, cfg.Detail.StartRow)
	assert.Equal(t, "发货明细", cfg.Detail.Title)
	assert.Equal(t, []string{"元"}, cfg.Numeric.CurrencySymbols)
	assert.Equal(t, []string{"合同号", "客户名称", "BU名称"}, cfg.FilenameFields)
}

func TestLoadEmptyTitleDisablesHeading(t *testing.T) {
	path := writeConfig(t, `
detail:
  title: ""
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Detail.Title)
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := writeConfig(t, "header_row: -2\n")
	_, err := Load(path)
	assert.Error(t, err)

	path = writeConfig(t, "header_row: [\n")
	_, err = Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(dir)
	assert.Error(t, err)
}
