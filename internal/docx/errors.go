package docx

import (
	"errors"
)

var (
	errNotDocument  = errors.New("not a docx file: missing word/document.xml")
	errPartNotFound = errors.New("part not found")
	errMalformedXML = errors.New("malformed part xml")
)
