package converter

import (
	"encoding/binary"
	"math"
)

// vertexTable assigns a dense index to each distinct vertex attribute
// vector and accumulates the flattened vertex buffer in first-seen order.
// Vectors compare bit-for-bit: geometrically coincident corners with
// different normals or UVs stay separate rows, which is how hard edges and
// UV seams are represented. One table serves one mesh.
type vertexTable struct {
	index  map[string]int
	buffer []float64
}

func newVertexTable() *vertexTable {
	return &vertexTable{index: map[string]int{}}
}

func attrKey(attrs []float64) string {
	b := make([]byte, len(attrs)*8)
	for i, v := range attrs {
		binary.LittleEndian.PutUint64(b[i*8:], math.Float64bits(v))
	}
	return string(b)
}

// Add returns the index of attrs, inserting a new row when the vector has
// not been seen. added reports a fresh insertion.
func (t *vertexTable) Add(attrs []float64) (index int, added bool) {
	key := attrKey(attrs)
	if i, ok := t.index[key]; ok {
		return i, false
	}
	i := len(t.index)
	t.index[key] = i
	t.buffer = append(t.buffer, attrs...)
	return i, true
}

func (t *vertexTable) Count() int {
	return len(t.index)
}

func (t *vertexTable) Buffer() []float64 {
	return t.buffer
}
