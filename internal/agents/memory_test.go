package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScalarWindowEviction(t *testing.T) {
	w := newScalarWindow(3, 9)

	assert.Equal(t, 3, w.Len())
	assert.Equal(t, 9.0, w.At(0))
	assert.Equal(t, 9.0, w.At(2))

	w.Push(1)
	w.Push(2)
	assert.Equal(t, 2.0, w.At(0))
	assert.Equal(t, 1.0, w.At(1))
	assert.Equal(t, 9.0, w.At(2)) // last bootstrap value survives

	// Third push fully evicts the bootstrap.
	w.Push(3)
	assert.Equal(t, 3.0, w.At(0))
	assert.Equal(t, 2.0, w.At(1))
	assert.Equal(t, 1.0, w.At(2))
	assert.Equal(t, 3, w.Len())

	// Fourth push evicts the oldest real value.
	w.Push(4)
	assert.Equal(t, []float64{4, 3, 2}, []float64{w.At(0), w.At(1), w.At(2)})
}

func TestScalarWindowDiscounted(t *testing.T) {
	w := newScalarWindow(3, 0)
	w.Push(1)
	w.Push(2)
	w.Push(4) // window, most recent first: 4, 2, 1

	got := w.Discounted([]float64{0.5, 0.3, 0.2})
	assert.InDelta(t, 0.5*4+0.3*2+0.2*1, got, 1e-12)
}

func TestMatrixWindowEviction(t *testing.T) {
	w := newMatrixWindow(2, []float64{1, 2})

	assert.Equal(t, 2, w.Len())
	assert.Equal(t, []float64{1, 2}, w.Row(0))
	assert.Equal(t, []float64{1, 2}, w.Row(1))

	w.Push([]float64{3, 4})
	assert.Equal(t, []float64{3, 4}, w.Row(0))
	assert.Equal(t, []float64{1, 2}, w.Row(1))

	w.Push([]float64{5, 6})
	assert.Equal(t, []float64{5, 6}, w.Row(0))
	assert.Equal(t, []float64{3, 4}, w.Row(1))
}

func TestMatrixWindowPushCopies(t *testing.T) {
	w := newMatrixWindow(2, []float64{0, 0})

	row := []float64{1, 1}
	w.Push(row)
	row[0] = 99

	assert.Equal(t, []float64{1, 1}, w.Row(0))
}

func TestMatrixWindowDiscounted(t *testing.T) {
	w := newMatrixWindow(2, []float64{0, 0})
	w.Push([]float64{1, 2})
	w.Push([]float64{3, 4}) // rows: [3 4] recent, [1 2] older

	dst := make([]float64, 2)
	w.Discounted([]float64{0.7, 0.3}, dst)

	assert.InDelta(t, 0.7*3+0.3*1, dst[0], 1e-12)
	assert.InDelta(t, 0.7*4+0.3*2, dst[1], 1e-12)
}
