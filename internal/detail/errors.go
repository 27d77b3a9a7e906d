package detail

import "errors"

var errNoSheet = errors.New("workbook has no sheets")
