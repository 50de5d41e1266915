// Package binary provides low-level binary I/O operations for FITS file parsing.
package binary

import (
	"encoding/binary"
	"io"
	"math"
	"sync/atomic"
)

// Reader provides positioned big-endian reads over a shared io.ReaderAt.
// FITS data is always big-endian, so no byte-order configuration exists.
//
// Readers obtained via At share the underlying io.ReaderAt and the read
// counter but carry independent positions, so concurrent readers never
// disturb each other's cursors.
type Reader struct {
	r     io.ReaderAt
	pos   int64
	reads *atomic.Int64
}

// NewReader creates a reader positioned at the start of r.
func NewReader(r io.ReaderAt) *Reader {
	return &Reader{
		r:     r,
		reads: new(atomic.Int64),
	}
}

// At returns a new reader positioned at the given offset.
// The new reader shares the underlying io.ReaderAt but has independent position.
func (r *Reader) At(offset int64) *Reader {
	return &Reader{
		r:     r.r,
		pos:   offset,
		reads: r.reads,
	}
}

// Pos returns the current read position.
func (r *Reader) Pos() int64 {
	return r.pos
}

// Reads returns the number of underlying ReadAt calls issued through this
// reader and every reader cloned from it via At. Serves as an
// instrumentation point for cache-reuse assertions.
func (r *Reader) Reads() int64 {
	return r.reads.Load()
}

// ReadBytes reads exactly n bytes from the current position.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	r.reads.Add(1)
	if _, err := r.r.ReadAt(buf, r.pos); err != nil {
		return nil, err
	}
	r.pos += int64(n)
	return buf, nil
}

// ReadInt16s reads n big-endian signed 16-bit integers.
func (r *Reader) ReadInt16s(n int) ([]int16, error) {
	buf, err := r.ReadBytes(2 * n)
	if err != nil {
		return nil, err
	}
	out := make([]int16, n)
	for i := range out {
		out[i] = int16(binary.BigEndian.Uint16(buf[2*i:]))
	}
	return out, nil
}

// ReadInt32s reads n big-endian signed 32-bit integers.
func (r *Reader) ReadInt32s(n int) ([]int32, error) {
	buf, err := r.ReadBytes(4 * n)
	if err != nil {
		return nil, err
	}
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(binary.BigEndian.Uint32(buf[4*i:]))
	}
	return out, nil
}

// ReadFloat32s reads n big-endian IEEE 754 32-bit floats.
func (r *Reader) ReadFloat32s(n int) ([]float32, error) {
	buf, err := r.ReadBytes(4 * n)
	if err != nil {
		return nil, err
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.BigEndian.Uint32(buf[4*i:]))
	}
	return out, nil
}

// ReadFloat64s reads n big-endian IEEE 754 64-bit floats.
func (r *Reader) ReadFloat64s(n int) ([]float64, error) {
	buf, err := r.ReadBytes(8 * n)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Float64frombits(binary.BigEndian.Uint64(buf[8*i:]))
	}
	return out, nil
}

// Skip advances the position by n bytes.
func (r *Reader) Skip(n int64) {
	r.pos += n
}

// Align advances the position to the next multiple of alignment.
// If already aligned, the position is unchanged.
func (r *Reader) Align(alignment int64) {
	if alignment <= 1 {
		return
	}
	if remainder := r.pos % alignment; remainder != 0 {
		r.pos += alignment - remainder
	}
}
