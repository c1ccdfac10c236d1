package filex

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func write(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o600))
	return p
}

func TestOpenLocal_SniffsContentOverExtension(t *testing.T) {
	// a PNG with a misleading extension
	p := write(t, "scan.pdf", pngHeader)

	f, err := OpenLocal(p)
	require.NoError(t, err)

	assert.Equal(t, "scan.pdf", f.Name())
	assert.Equal(t, "image/png", f.Type())
	assert.Equal(t, int64(len(pngHeader)), f.Size())
}

func TestOpenLocal_PDF(t *testing.T) {
	p := write(t, "contract.pdf", []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n"))

	f, err := OpenLocal(p)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", f.Type())
}

func TestOpenLocal_OpenStreamsContent(t *testing.T) {
	p := write(t, "a.png", pngHeader)

	f, err := OpenLocal(p)
	require.NoError(t, err)

	rc, err := f.Open()
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, got)
}

func TestOpenLocal_Missing(t *testing.T) {
	_, err := OpenLocal(filepath.Join(t.TempDir(), "nope.pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenLocal_Directory(t *testing.T) {
	_, err := OpenLocal(t.TempDir())
	require.Error(t, err)
}

func TestBaseType(t *testing.T) {
	assert.Equal(t, "text/plain", baseType("text/plain; charset=utf-8"))
	assert.Equal(t, "", baseType(""))
}
