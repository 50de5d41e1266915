package fits

import (
	"strconv"
	"sync"
)

// Hdu is one Header Data Unit: an ordered header plus the file location of
// its data section. The header is fixed at construction; the decoded data
// array is materialized lazily, at most once, and cached on the HDU.
type Hdu struct {
	file      *File
	header    Header
	dataStart int64

	dataMu sync.RWMutex
	data   Data // decoded array, nil until the first successful Data call
}

// Header returns the HDU's header.
func (h *Hdu) Header() *Header {
	return &h.header
}

// Value returns the typed value of the first header record whose keyword
// matches.
func (h *Hdu) Value(keyword string) (Value, bool) {
	return h.header.Value(keyword)
}

// Shape returns the data section's axis extents in NAXIS order. A
// data-less HDU has an empty shape.
func (h *Hdu) Shape() ([]int, error) {
	return h.header.axes()
}

// Data returns the HDU's decoded data array, reading and converting it on
// first use. Concurrent first calls are collapsed into a single decode
// pass and every caller observes the same array. A failed decode is not
// cached and may be retried.
func (h *Hdu) Data() (Data, error) {
	h.dataMu.RLock()
	d := h.data
	h.dataMu.RUnlock()
	if d != nil {
		return d, nil
	}

	v, err, _ := h.file.decodeGroup.Do(strconv.FormatInt(h.dataStart, 10), func() (interface{}, error) {
		h.dataMu.RLock()
		cached := h.data
		h.dataMu.RUnlock()
		if cached != nil {
			return cached, nil
		}
		d, err := h.decode()
		if err != nil {
			return nil, err
		}
		h.dataMu.Lock()
		h.data = d
		h.dataMu.Unlock()
		return d, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Data), nil
}
