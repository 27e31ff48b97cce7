package pagemap

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFixture creates a temp file whose bytes at [33, 63) spell the
// catch phrase used by the window tests.
func writeFixture(t *testing.T) *os.File {
	t.Helper()

	content := []byte("The pagemap package is built for fast and safe memory-mapped IO workloads.\n")
	require.Equal(t, "fast and safe memory-mapped IO", string(content[33:63]))

	f, err := os.CreateTemp(t.TempDir(), "pagemap_test")
	require.NoError(t, err)
	_, err = f.Write(content)
	require.NoError(t, err)

	return f
}

func TestMap_OpenWindow(t *testing.T) {
	f := writeFixture(t)
	defer f.Close()

	m, err := Open(f, 33, 30)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, 30, m.Len())
	assert.Equal(t, "fast and safe memory-mapped IO", string(m.Bytes()))
}

func TestMap_OpenRangeError(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "pagemap_test")
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Write(make([]byte, 100))
	require.NoError(t, err)

	_, err = Open(f, 90, 20)
	require.Error(t, err)

	var re *RangeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, int64(90), re.Offset)
	assert.Equal(t, 20, re.Length)
	assert.Equal(t, int64(100), re.FileSize)
}

func TestMap_OpenUnchecked(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "pagemap_test")
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Write(make([]byte, 100))
	require.NoError(t, err)

	// The same out-of-file window the checked constructor rejects. The
	// window stays inside the file's first page, so the tail reads as
	// zero fill.
	m, err := OpenUnchecked(f, 90, 20)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, 20, m.Len())
	assert.Equal(t, make([]byte, 20), m.Bytes())
}

func TestMap_OpenInvalidArgs(t *testing.T) {
	f := writeFixture(t)
	defer f.Close()

	_, err := Open(f, -1, 10)
	assert.ErrorIs(t, err, ErrInvalidOffset)

	_, err = Open(f, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = Open(f, 0, -1)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestMap_OpenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "whole")
	content := []byte("whole-file mapping")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	m, err := OpenFile(path)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, content, m.Bytes())

	_, err = OpenFile(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestMap_ReadAt(t *testing.T) {
	f := writeFixture(t)
	defer f.Close()

	m, err := Open(f, 33, 30)
	require.NoError(t, err)
	defer m.Close()

	buf := make([]byte, 4)
	n, err := m.ReadAt(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "fast", string(buf))

	_, err = m.ReadAt(buf, -1)
	assert.ErrorIs(t, err, ErrInvalidOffset)

	_, err = m.ReadAt(buf, 30)
	assert.ErrorIs(t, err, io.EOF)

	n, err = m.ReadAt(make([]byte, 10), 28)
	assert.Equal(t, 2, n)
	assert.ErrorIs(t, err, io.EOF)
}

func TestMap_CloseIdempotent(t *testing.T) {
	f := writeFixture(t)
	defer f.Close()

	m, err := Open(f, 0, 10)
	require.NoError(t, err)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	assert.Nil(t, m.Bytes())
	assert.Zero(t, m.Len())
	_, err = m.ReadAt(make([]byte, 1), 0)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, m.Advise(AccessRandom), ErrClosed)
}

func TestMap_MakeMutRoundTrip(t *testing.T) {
	f := writeFixture(t)
	defer f.Close()

	m, err := Open(f, 33, 30)
	require.NoError(t, err)

	mm, err := m.MakeMut()
	require.NoError(t, err)

	// The source is consumed; only the returned mapping owns the region.
	_, err = m.MakeMut()
	assert.ErrorIs(t, err, ErrClosed)
	assert.Nil(t, m.Bytes())

	assert.Equal(t, "fast and safe memory-mapped IO", string(mm.Bytes()))

	ro, err := mm.MakeReadOnly()
	require.NoError(t, err)
	defer ro.Close()

	_, err = mm.MakeReadOnly()
	assert.ErrorIs(t, err, ErrClosed)

	// Same bytes, unchanged content, after the full round trip.
	assert.Equal(t, "fast and safe memory-mapped IO", string(ro.Bytes()))
}

func TestMap_Advise(t *testing.T) {
	f := writeFixture(t)
	defer f.Close()

	m, err := Open(f, 0, 32)
	require.NoError(t, err)
	defer m.Close()

	require.NoError(t, m.Advise(AccessSequential))
	require.NoError(t, m.Advise(AccessRandom))
	require.NoError(t, m.Advise(AccessDefault))
}

func TestMap_FromPtr(t *testing.T) {
	data, err := osMapAnon(PageSize())
	require.NoError(t, err)

	m := FromPtr(unsafe.Pointer(&data[0]), len(data))
	assert.Equal(t, PageSize(), m.Len())
	require.NoError(t, m.Close())
}
