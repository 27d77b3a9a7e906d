package path

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	assert.Equal(t, "HT_01-甲公司-华东BU.docx", Sanitize(`HT:01-甲公司-华东BU.docx`))
	assert.Equal(t, "a_b_c_d_e_f_g_h_i", Sanitize(`a<b>c:d"e/f\g|h?i`))
	assert.Equal(t, "普通名称.docx", Sanitize("普通名称.docx"))
}

func TestDocument(t *testing.T) {
	dir := t.TempDir()
	b, err := NewBuilder(dir, func() string { return "fixed" })
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "HT001-甲公司-华东BU.docx"), b.Document("HT001-甲公司-华东BU.docx"))
	assert.Equal(t, filepath.Join(dir, "HT_001.docx"), b.Document("HT/001.docx"))
}

func TestRequestDir(t *testing.T) {
	dir := t.TempDir()
	b, err := NewBuilder(dir, func() string { return "req-42" })
	require.NoError(t, err)

	reqDir, err := b.RequestDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "req-42"), reqDir)

	info, err := os.Stat(reqDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestRequestDirUniquePerCall(t *testing.T) {
	b, err := NewBuilder(t.TempDir(), uuid.NewString)
	require.NoError(t, err)

	first, err := b.RequestDir()
	require.NoError(t, err)
	second, err := b.RequestDir()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestNewBuilderCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "docs")
	_, err := NewBuilder(dir, func() string { return "x" })
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
