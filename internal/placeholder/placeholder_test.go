package placeholder_test

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taotao21503/contract-generator/internal/docx"
	"github.com/taotao21503/contract-generator/internal/placeholder"
	"github.com/taotao21503/contract-generator/internal/xlsx"
)

const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const rels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

func buildDocx(t *testing.T, parts map[string]string) *docx.Template {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	add := func(name, content string) {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = io.WriteString(fw, content)
		require.NoError(t, err)
	}
	add("[Content_Types].xml", contentTypes)
	add("_rels/.rels", rels)
	for name, content := range parts {
		add(name, content)
	}
	require.NoError(t, w.Close())

	tpl, err := docx.OpenBytes(buf.Bytes())
	require.NoError(t, err)
	return tpl
}

func documentXML(body string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body + `</w:body></w:document>`
}

func paragraphTexts(tpl *docx.Template) []string {
	var texts []string
	tpl.EachParagraph(func(p *docx.Paragraph) {
		texts = append(texts, p.Text())
	})
	return texts
}

func TestSubstituteParagraphAcrossRuns(t *testing.T) {
	e, err := placeholder.New()
	require.NoError(t, err)

	tpl := buildDocx(t, map[string]string{
		"word/document.xml": documentXML(
			`<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>合同号：{{</w:t></w:r>` +
				`<w:r><w:t>合同号}}，客户：{{客户名称}}</w:t></w:r></w:p>`),
	})

	e.SubstituteDocument(tpl, xlsx.Record{"合同号": "HT001", "客户名称": "甲公司"})
	assert.Equal(t, []string{"合同号：HT001，客户：甲公司"}, paragraphTexts(tpl))

	runs := tpl.Body().Paragraphs()[0].Runs()
	require.Len(t, runs, 2)
	assert.Equal(t, "合同号：HT001，客户：甲公司", runs[0].Text())
	assert.Equal(t, "", runs[1].Text())
}

func TestSubstituteParagraphUnknownFieldStaysLiteral(t *testing.T) {
	e, err := placeholder.New()
	require.NoError(t, err)

	tpl := buildDocx(t, map[string]string{
		"word/document.xml": documentXML(
			`<w:p><w:r><w:t>{{合同号}} / {{签约日期}}</w:t></w:r></w:p>`),
	})

	e.SubstituteDocument(tpl, xlsx.Record{"合同号": "HT001"})
	assert.Equal(t, []string{"HT001 / {{签约日期}}"}, paragraphTexts(tpl))
}

func TestSubstituteParagraphWithoutTokensUntouched(t *testing.T) {
	e, err := placeholder.New()
	require.NoError(t, err)

	tpl := buildDocx(t, map[string]string{
		"word/document.xml": documentXML(
			`<w:p><w:r><w:t>固定条款</w:t></w:r><w:r><w:t>第二段</w:t></w:r></w:p>`),
	})

	e.SubstituteDocument(tpl, xlsx.Record{"合同号": "HT001"})

	runs := tpl.Body().Paragraphs()[0].Runs()
	require.Len(t, runs, 2)
	assert.Equal(t, "固定条款", runs[0].Text())
	assert.Equal(t, "第二段", runs[1].Text())
}

func TestSubstituteIsIdempotent(t *testing.T) {
	e, err := placeholder.New()
	require.NoError(t, err)

	tpl := buildDocx(t, map[string]string{
		"word/document.xml": documentXML(
			`<w:p><w:r><w:t>{{客户名称}}</w:t></w:r></w:p>`),
	})

	rec := xlsx.Record{"客户名称": "甲公司"}
	e.SubstituteDocument(tpl, rec)
	e.SubstituteDocument(tpl, rec)
	assert.Equal(t, []string{"甲公司"}, paragraphTexts(tpl))
}

func TestSubstituteTableCellsAndFooter(t *testing.T) {
	e, err := placeholder.New()
	require.NoError(t, err)

	tpl := buildDocx(t, map[string]string{
		"word/document.xml": documentXML(
			`<w:p><w:r><w:t>正文</w:t></w:r></w:p>` +
				`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>{{BU名称}}</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`),
		"word/footer1.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:ftr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:p><w:r><w:t>编号 {{合同号}}</w:t></w:r></w:p></w:ftr>`,
	})

	e.SubstituteDocument(tpl, xlsx.Record{"BU名称": "华东BU", "合同号": "HT001"})
	assert.Equal(t, []string{"正文", "华东BU", "编号 HT001"}, paragraphTexts(tpl))
}

func TestSubstituteParagraphWithoutRuns(t *testing.T) {
	e, err := placeholder.New()
	require.NoError(t, err)

	p := &docx.Paragraph{}
	e.SubstituteParagraph(p, xlsx.Record{"合同号": "HT001"})
	assert.Empty(t, p.Runs())
}
