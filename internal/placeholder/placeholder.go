package placeholder

import (
	"regexp"
	"strings"

	"github.com/taotao21503/contract-generator/internal/docx"
	"github.com/taotao21503/contract-generator/internal/xlsx"
)

// Engine substitutes {{field}} tokens with record values.
type Engine struct {
	tokenReg *regexp.Regexp
}

// New ...
func New() (e *Engine, err error) {
	e = &Engine{}
	e.tokenReg, err = regexp.Compile(tokenRegexp)
	return
}

// SubstituteParagraph replaces every {{field}} in the paragraph text with
// the record value for field. Tokens without a matching field stay literal.
// When the text changes, the first run carries the whole new text and the
// remaining runs are cleared, so the first run's formatting wins.
func (e *Engine) SubstituteParagraph(p *docx.Paragraph, rec xlsx.Record) {
	text := p.Text()
	if !strings.Contains(text, tokenOpen) {
		return
	}

	replaced := e.tokenReg.ReplaceAllStringFunc(text, func(token string) string {
		name := token[2 : len(token)-2]
		if value, ok := rec[name]; ok {
			return value
		}
		return token
	})
	if replaced == text {
		return
	}

	runs := p.Runs()
	if len(runs) == 0 {
		run := &docx.Run{}
		run.SetText(replaced)
		p.AppendRun(run)
		return
	}
	runs[0].SetText(replaced)
	for _, run := range runs[1:] {
		run.ClearText()
	}
}

// SubstituteDocument applies SubstituteParagraph to every paragraph of the
// document body, of every body-table cell, and of every header and footer.
func (e *Engine) SubstituteDocument(t *docx.Template, rec xlsx.Record) {
	t.EachParagraph(func(p *docx.Paragraph) {
		e.SubstituteParagraph(p, rec)
	})
}
