package parser

import (
	"regexp"
	"strings"
)

// Parser detects a file type by its name.
type Parser struct {
	typeRegexp *regexp.Regexp
}

// New ...
func New() (p *Parser, err error) {
	p = &Parser{}
	p.typeRegexp, err = regexp.Compile(typeRegexp)
	return
}

// Type returns the type of the file by filename.
func (p *Parser) Type(filename string) (string, error) {
	if m := p.typeRegexp.FindStringSubmatch(filename); len(m) == 2 {
		return strings.ToLower(m[1]), nil
	}
	return "", errTypeNotDefined
}

// Check reports whether the file is of the wanted type.
func (p *Parser) Check(filename, want string) error {
	t, err := p.Type(filename)
	if err != nil {
		return err
	}
	if t != want {
		return errWrongType
	}
	return nil
}
