package generator

import (
	"errors"
)

var (
	// ErrNoData marks a spreadsheet with a header row but no data rows.
	ErrNoData = errors.New("no data rows in spreadsheet")
)
