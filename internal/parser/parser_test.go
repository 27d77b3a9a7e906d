package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestType(t *testing.T) {
	p, err := New()
	assert.NoError(t, err)

	typ, err := p.Type("合同台账.XLSX")
	assert.NoError(t, err)
	assert.Equal(t, "xlsx", typ)

	typ, err = p.Type("template.docx")
	assert.NoError(t, err)
	assert.Equal(t, "docx", typ)

	_, err = p.Type("no-extension")
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	p, err := New()
	assert.NoError(t, err)

	assert.NoError(t, p.Check("template.docx", "docx"))
	assert.Error(t, p.Check("template.docx", "xlsx"))
	assert.Error(t, p.Check("template", "docx"))
}
