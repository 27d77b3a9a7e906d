package xlsx

import "errors"

var (
	errNoSheet          = errors.New("workbook has no sheets")
	errHeaderRowMissing = errors.New("header row is outside the data region")
	errKeyCellMissing   = errors.New("sheet has no key cell in the first row")
)
