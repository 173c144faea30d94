// Discounted memory windows — fixed-capacity ring buffers ordered
// most-recent-first. Pushing a value evicts the oldest entry; the window
// never grows or shrinks after construction.
package agents

// scalarWindow holds the last N average-behaviour summaries.
type scalarWindow struct {
	buf  []float64
	head int // index of the most recent entry
}

// newScalarWindow creates a window of the given size with every slot set to
// fill (the cold-start bootstrap: no real history yet, so the window is flat).
func newScalarWindow(size int, fill float64) *scalarWindow {
	buf := make([]float64, size)
	for i := range buf {
		buf[i] = fill
	}
	return &scalarWindow{buf: buf}
}

// Push inserts v as the most recent entry, evicting the oldest.
func (w *scalarWindow) Push(v float64) {
	w.head = (w.head - 1 + len(w.buf)) % len(w.buf)
	w.buf[w.head] = v
}

// At returns the entry i steps into the past (0 = most recent).
func (w *scalarWindow) At(i int) float64 {
	return w.buf[(w.head+i)%len(w.buf)]
}

// Len returns the window capacity.
func (w *scalarWindow) Len() int { return len(w.buf) }

// Discounted returns the dot product of the weights with the window,
// weights[0] applying to the most recent entry. With weights summing to 1
// the result is a convex combination of the window's contents.
func (w *scalarWindow) Discounted(weights []float64) float64 {
	sum := 0.0
	for i, wt := range weights {
		sum += wt * w.At(i)
	}
	return sum
}

// matrixWindow holds the last N full attitude vectors, one row per
// remembered step, row 0 = most recent.
type matrixWindow struct {
	rows [][]float64
	head int
}

// newMatrixWindow creates a window of size rows, each a copy of fill.
func newMatrixWindow(size int, fill []float64) *matrixWindow {
	rows := make([][]float64, size)
	for i := range rows {
		rows[i] = cloneSlice(fill)
	}
	return &matrixWindow{rows: rows}
}

// Push inserts a copy of row as the most recent entry, evicting the oldest.
func (w *matrixWindow) Push(row []float64) {
	w.head = (w.head - 1 + len(w.rows)) % len(w.rows)
	copy(w.rows[w.head], row)
}

// Row returns the attitude vector i steps into the past (0 = most recent).
func (w *matrixWindow) Row(i int) []float64 {
	return w.rows[(w.head+i)%len(w.rows)]
}

// Len returns the window capacity.
func (w *matrixWindow) Len() int { return len(w.rows) }

// Discounted writes the weighted column sums into dst:
// dst[j] = Σ_i weights[i] · row_i[j], row 0 being the most recent.
func (w *matrixWindow) Discounted(weights []float64, dst []float64) {
	for j := range dst {
		dst[j] = 0
	}
	for i, wt := range weights {
		row := w.Row(i)
		for j, v := range row {
			dst[j] += wt * v
		}
	}
}
