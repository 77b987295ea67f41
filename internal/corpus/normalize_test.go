package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeJoinsWrappedLines(t *testing.T) {
	raw := "los conductores deberán\nportar la licencia vigente."
	assert.Equal(t, "los conductores deberán portar la licencia vigente.\n", Normalize(raw))
}

func TestNormalizeKeepsBreakAfterSentenceEnd(t *testing.T) {
	raw := "La primera oración termina aquí.\nla segunda continúa."
	assert.Equal(t, "La primera oración termina aquí.\nla segunda continúa.\n", Normalize(raw))
}

func TestNormalizeKeepsBreakAroundAllCapsTitles(t *testing.T) {
	raw := "TITULO PRIMERO\ndisposiciones generales aplicables\nen el territorio."
	out := Normalize(raw)
	assert.Contains(t, out, "TITULO PRIMERO\n")
}

func TestNormalizeKeepsBreakBeforeCapitalizedLine(t *testing.T) {
	raw := "texto que termina sin punto\nAhora empieza otra idea."
	assert.Equal(t, "texto que termina sin punto\nAhora empieza otra idea.\n", Normalize(raw))
}

func TestNormalizeFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "codigo.txt")
	require.NoError(t, os.WriteFile(input, []byte("linea uno\nArranca otra."), 0644))

	out, err := NormalizeFile(input, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "codigo_preprocessed.txt"), out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestNormalizeFileMissingInput(t *testing.T) {
	_, err := NormalizeFile(filepath.Join(t.TempDir(), "no-existe.txt"), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoInput)
}
