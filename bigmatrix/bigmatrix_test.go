package bigmatrix_test

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/neffective/bigmatrix"
	"github.com/katalvlaran/neffective/matrix"
	"github.com/katalvlaran/neffective/neffective"
)

var sample = [][]float64{
	{1, 2, 3},
	{2, 4, 6},
	{5, 1, 9},
	{-1.5, 0.25, 7},
}

func sampleDense(t *testing.T) *matrix.Dense {
	t.Helper()
	d, err := matrix.NewDenseFromRows(sample)
	require.NoError(t, err)
	return d
}

func writeSample(t *testing.T, layout bigmatrix.Layout) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "x.bm")
	require.NoError(t, bigmatrix.WriteFile(path, sampleDense(t), layout))
	return path
}

// writeRaw stores values (already in file order) as little-endian float64.
func writeRaw(t *testing.T, values []float64) string {
	t.Helper()
	buf := make([]byte, 8*len(values))
	for k, v := range values {
		binary.LittleEndian.PutUint64(buf[8*k:], math.Float64bits(v))
	}
	path := filepath.Join(t.TempDir(), "x.raw")
	require.NoError(t, os.WriteFile(path, buf, 0o644))
	return path
}

func assertMatchesSample(t *testing.T, m *bigmatrix.Matrix) {
	t.Helper()
	require.Equal(t, len(sample), m.Rows())
	require.Equal(t, len(sample[0]), m.Cols())
	buf := make([]float64, m.Cols())
	for i, want := range sample {
		for j, v := range want {
			got, err := m.At(i, j)
			require.NoError(t, err)
			assert.Equal(t, v, got, "At(%d,%d)", i, j)
		}
		row, err := m.Row(i, buf)
		require.NoError(t, err)
		assert.Equal(t, want, row, "Row(%d)", i)
	}
}

func TestWriteOpen_RoundTripBothLayouts(t *testing.T) {
	for _, layout := range []bigmatrix.Layout{bigmatrix.RowMajor, bigmatrix.ColMajor} {
		t.Run(layout.String(), func(t *testing.T) {
			m, err := bigmatrix.Open(writeSample(t, layout))
			require.NoError(t, err)
			defer m.Close()

			assert.Equal(t, layout, m.Layout())
			assert.NoError(t, m.Verify())
			assertMatchesSample(t, m)
		})
	}
}

func TestOpenRaw_ColumnMajor(t *testing.T) {
	// bigmemory order: column 0, then column 1, ...
	var values []float64
	for j := range sample[0] {
		for i := range sample {
			values = append(values, sample[i][j])
		}
	}
	m, err := bigmatrix.OpenRaw(writeRaw(t, values), len(sample), len(sample[0]), bigmatrix.ColMajor)
	require.NoError(t, err)
	defer m.Close()

	assert.NoError(t, m.Verify(), "raw files carry no checksum")
	assertMatchesSample(t, m)
}

func TestOpenRaw_RowMajor(t *testing.T) {
	var values []float64
	for _, row := range sample {
		values = append(values, row...)
	}
	m, err := bigmatrix.OpenRaw(writeRaw(t, values), len(sample), len(sample[0]), bigmatrix.RowMajor)
	require.NoError(t, err)
	defer m.Close()

	assertMatchesSample(t, m)
}

func TestOpenRaw_SizeMismatch(t *testing.T) {
	path := writeRaw(t, []float64{1, 2, 3, 4, 5})
	_, err := bigmatrix.OpenRaw(path, 2, 3, bigmatrix.RowMajor)
	assert.ErrorIs(t, err, bigmatrix.ErrTruncated)

	_, err = bigmatrix.OpenRaw(path, 0, 3, bigmatrix.RowMajor)
	assert.ErrorIs(t, err, bigmatrix.ErrInvalidShape)

	_, err = bigmatrix.OpenRaw(path, 5, 1, bigmatrix.Layout(9))
	assert.ErrorIs(t, err, bigmatrix.ErrInvalidLayout)
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := bigmatrix.Open(filepath.Join(t.TempDir(), "nope.bm"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpen_CorruptHeader(t *testing.T) {
	path := writeSample(t, bigmatrix.RowMajor)
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	bad := append([]byte(nil), data...)
	bad[0] ^= 0xFF
	_, err = bigmatrix.FromBytes(bad)
	assert.ErrorIs(t, err, bigmatrix.ErrInvalidMagic)

	bad = append([]byte(nil), data...)
	bad[4] = 9
	_, err = bigmatrix.FromBytes(bad)
	assert.ErrorIs(t, err, bigmatrix.ErrUnsupportedVersion)

	bad = append([]byte(nil), data...)
	bad[6] = 7
	_, err = bigmatrix.FromBytes(bad)
	assert.ErrorIs(t, err, bigmatrix.ErrInvalidLayout)

	_, err = bigmatrix.FromBytes(data[:len(data)-8])
	assert.ErrorIs(t, err, bigmatrix.ErrTruncated)

	_, err = bigmatrix.FromBytes(data[:10])
	assert.ErrorIs(t, err, bigmatrix.ErrTruncated)
}

func TestVerify_DetectsPayloadCorruption(t *testing.T) {
	path := writeSample(t, bigmatrix.RowMajor)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)-1] ^= 0x01
	require.NoError(t, os.WriteFile(path, data, 0o644))

	m, err := bigmatrix.Open(path)
	require.NoError(t, err, "open does not hash the payload")
	defer m.Close()
	assert.ErrorIs(t, m.Verify(), bigmatrix.ErrChecksum)
}

func TestMatrix_BoundsAndClose(t *testing.T) {
	m, err := bigmatrix.Open(writeSample(t, bigmatrix.ColMajor))
	require.NoError(t, err)

	_, err = m.At(len(sample), 0)
	assert.ErrorIs(t, err, bigmatrix.ErrOutOfRange)
	assert.ErrorIs(t, err, matrix.ErrOutOfRange, "mapped views share the matrix sentinel")
	_, err = m.At(0, -1)
	assert.ErrorIs(t, err, bigmatrix.ErrOutOfRange)
	_, err = m.Row(-1, nil)
	assert.ErrorIs(t, err, bigmatrix.ErrOutOfRange)
	_, err = m.Row(0, make([]float64, 1))
	assert.ErrorIs(t, err, bigmatrix.ErrShortBuffer, "column-major rows need a gather buffer")

	require.NoError(t, m.Close())
	require.NoError(t, m.Close(), "Close is idempotent")

	_, err = m.At(0, 0)
	assert.ErrorIs(t, err, bigmatrix.ErrClosed)
	_, err = m.Row(0, make([]float64, 3))
	assert.ErrorIs(t, err, bigmatrix.ErrClosed)
	assert.ErrorIs(t, m.Verify(), bigmatrix.ErrClosed)
}

func TestWriter_SetAndErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.bm")
	w, err := bigmatrix.Create(path, 2, 2, bigmatrix.ColMajor)
	require.NoError(t, err)
	assert.Equal(t, 2, w.Rows())
	assert.Equal(t, 2, w.Cols())

	require.NoError(t, w.Set(0, 1, 3.5))
	require.NoError(t, w.SetRow(1, []float64{-1, 2}))
	assert.ErrorIs(t, w.Set(2, 0, 1), bigmatrix.ErrOutOfRange)
	assert.ErrorIs(t, w.SetRow(0, []float64{1}), matrix.ErrDimensionMismatch)
	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Set(0, 0, 1), bigmatrix.ErrClosed)

	m, err := bigmatrix.Open(path)
	require.NoError(t, err)
	defer m.Close()
	require.NoError(t, m.Verify())

	got := [][]float64{{0, 0}, {0, 0}}
	for i := range got {
		for j := range got[i] {
			got[i][j], err = m.At(i, j)
			require.NoError(t, err)
		}
	}
	assert.Equal(t, [][]float64{{0, 3.5}, {-1, 2}}, got)
}

func TestCreate_InvalidArgs(t *testing.T) {
	dir := t.TempDir()
	_, err := bigmatrix.Create(filepath.Join(dir, "a.bm"), 0, 2, bigmatrix.RowMajor)
	assert.ErrorIs(t, err, bigmatrix.ErrInvalidShape)
	_, err = bigmatrix.Create(filepath.Join(dir, "b.bm"), 2, 2, bigmatrix.Layout(3))
	assert.ErrorIs(t, err, bigmatrix.ErrInvalidLayout)
}

func TestParseLayout(t *testing.T) {
	l, err := bigmatrix.ParseLayout("row")
	require.NoError(t, err)
	assert.Equal(t, bigmatrix.RowMajor, l)
	l, err = bigmatrix.ParseLayout("col")
	require.NoError(t, err)
	assert.Equal(t, bigmatrix.ColMajor, l)
	_, err = bigmatrix.ParseLayout("diagonal")
	assert.ErrorIs(t, err, bigmatrix.ErrInvalidLayout)
}

// TestEstimate_MappedMatchesDense runs the estimator over both mapped layouts.
func TestEstimate_MappedMatchesDense(t *testing.T) {
	want, err := neffective.Estimate(context.Background(), sampleDense(t))
	require.NoError(t, err)

	for _, layout := range []bigmatrix.Layout{bigmatrix.RowMajor, bigmatrix.ColMajor} {
		m, err := bigmatrix.Open(writeSample(t, layout))
		require.NoError(t, err)

		got, err := neffective.Estimate(context.Background(), m)
		require.NoError(t, err)
		assert.Equal(t, want, got, "layout %s", layout)
		require.NoError(t, m.Close())
	}
}

// TestEstimate_ClosedMatrixFails surfaces the invalid-handle condition.
func TestEstimate_ClosedMatrixFails(t *testing.T) {
	m, err := bigmatrix.Open(writeSample(t, bigmatrix.RowMajor))
	require.NoError(t, err)
	require.NoError(t, m.Close())

	_, err = neffective.Estimate(context.Background(), m)
	assert.ErrorIs(t, err, bigmatrix.ErrClosed)
}

// failingView serves sample rows through At but fails every read of failRow.
type failingView struct{ failRow int }

var errBackingStore = errors.New("backing store unavailable")

func (failingView) Rows() int { return len(sample) }
func (failingView) Cols() int { return len(sample[0]) }
func (v failingView) At(i, j int) (float64, error) {
	if i == v.failRow {
		return 0, errBackingStore
	}
	return sample[i][j], nil
}

// TestWriteFile_ReadErrorRemovesFile leaves nothing behind that Open could accept.
func TestWriteFile_ReadErrorRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.bm")

	err := bigmatrix.WriteFile(path, failingView{failRow: 2}, bigmatrix.RowMajor)
	require.ErrorIs(t, err, errBackingStore)

	_, statErr := os.Stat(path)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
	_, err = bigmatrix.Open(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriter_AbortRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aborted.bm")
	w, err := bigmatrix.Create(path, 2, 2, bigmatrix.RowMajor)
	require.NoError(t, err)
	require.NoError(t, w.SetRow(0, []float64{1, 2}))

	require.NoError(t, w.Abort())
	require.NoError(t, w.Abort(), "Abort is idempotent")
	require.NoError(t, w.Close(), "Close after Abort is a no-op")
	assert.ErrorIs(t, w.Set(0, 0, 1), bigmatrix.ErrClosed)

	_, err = os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// TestEstimate_TypedNilMatrix rejects a nil *bigmatrix.Matrix without dereferencing it.
func TestEstimate_TypedNilMatrix(t *testing.T) {
	var m *bigmatrix.Matrix
	assert.NotPanics(t, func() {
		_, err := neffective.Estimate(context.Background(), m)
		assert.ErrorIs(t, err, neffective.ErrNilMatrix)
	})
}
