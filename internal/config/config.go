package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultHeaderRow      = 1
	defaultDetailStartRow = 2
	defaultDetailTitle    = "合同明细"
)

// Detail configures where line-item data is looked up and how it is
// rendered.
type Detail struct {
	// Workbook is a shared multi-sheet workbook matched by sheet key.
	Workbook string `yaml:"workbook,omitempty"`
	// Dir holds per-contract detail files.
	Dir string `yaml:"dir,omitempty"`
	// KeyFields are concatenated into the sheet match key.
	KeyFields []string `yaml:"key_fields,omitempty"`
	// NameFields build the per-contract file name candidates.
	NameFields []string `yaml:"name_fields,omitempty"`
	// StartRow is the first data row of a detail sheet, one-based.
	StartRow int `yaml:"start_row,omitempty"`
	// Title heads the appended table; empty disables the title paragraph.
	Title string `yaml:"title"`
}

// Numeric configures which cell values count as numbers for alignment.
type Numeric struct {
	ThousandsSeparators []string `yaml:"thousands_separators,omitempty"`
	CurrencySymbols     []string `yaml:"currency_symbols,omitempty"`
}

// Config holds the generation settings.
type Config struct {
	// HeaderRow is the one-based row of the contract sheet holding
	// field names.
	HeaderRow int `yaml:"header_row,omitempty"`
	// FilenameFields name the record fields composing output file names.
	FilenameFields []string `yaml:"filename_fields,omitempty"`
	Detail         Detail   `yaml:"detail,omitempty"`
	Numeric        Numeric  `yaml:"numeric,omitempty"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		HeaderRow:      defaultHeaderRow,
		FilenameFields: []string{"合同号", "客户名称", "BU名称"},
		Detail: Detail{
			KeyFields:  []string{"收货方名称", "合同号"},
			NameFields: []string{"合同号", "客户名称", "BU名称"},
			StartRow:   defaultDetailStartRow,
			Title:      defaultDetailTitle,
		},
		Numeric: Numeric{
			ThousandsSeparators: []string{","},
			CurrencySymbols:     []string{"¥", "￥", "$", "€"},
		},
	}
}

// Load reads settings from a YAML file over the defaults. A missing file
// yields the defaults; path may be empty.
func Load(path string) (cfg Config, err error) {
	cfg = Default()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = nil
			return
		}
		err = fmt.Errorf("config: read %s: %w", path, err)
		return
	}
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		err = fmt.Errorf("config: parse %s: %w", path, err)
		return
	}

	cfg.normalize()
	err = cfg.validate()
	return
}

func (c *Config) normalize() {
	if c.HeaderRow == 0 {
		c.HeaderRow = defaultHeaderRow
	}
	if c.Detail.StartRow == 0 {
		c.Detail.StartRow = defaultDetailStartRow
	}
	c.Detail.Workbook = strings.TrimSpace(c.Detail.Workbook)
	c.Detail.Dir = strings.TrimSpace(c.Detail.Dir)
}

func (c Config) validate() error {
	if c.HeaderRow < 1 {
		return fmt.Errorf("config: header_row must be >= 1")
	}
	if c.Detail.StartRow < 1 {
		return fmt.Errorf("config: detail.start_row must be >= 1")
	}
	if len(c.FilenameFields) == 0 {
		return fmt.Errorf("config: filename_fields must not be empty")
	}
	return nil
}
