package fits

import "fmt"

// Header is the ordered sequence of records making up one HDU's header.
// Insertion order is preserved and duplicate keywords resolve to the first
// match, in both cases matching the on-disk card order.
type Header struct {
	records []Record
}

// Len returns the number of records.
func (h *Header) Len() int {
	return len(h.records)
}

// Records returns the records in file order. The slice is shared with the
// header and must not be modified.
func (h *Header) Records() []Record {
	return h.records
}

// Value returns the typed value of the first record whose keyword matches.
// ok is false when no record matches or the matching record carries no
// value.
func (h *Header) Value(keyword string) (Value, bool) {
	for _, rec := range h.records {
		if rec.Keyword == keyword {
			return rec.Value, rec.Value != nil
		}
	}
	return nil, false
}

// intValue returns the first matching value only if it is Integer-tagged.
func (h *Header) intValue(keyword string) (int64, bool) {
	v, ok := h.Value(keyword)
	if !ok {
		return 0, false
	}
	n, ok := v.(Integer)
	return int64(n), ok
}

// axes returns the data section's axis extents in NAXIS order. An absent
// NAXIS keyword means a data-less HDU (no axes); an absent NAXISn for any
// n <= NAXIS is a format error, since the data section cannot be sized.
func (h *Header) axes() ([]int, error) {
	n, ok := h.intValue("NAXIS")
	if !ok {
		return nil, nil
	}
	var axes []int
	for i := int64(1); i <= n; i++ {
		k, ok := h.intValue(fmt.Sprintf("NAXIS%d", i))
		if !ok {
			return nil, fmt.Errorf("%w: NAXIS%d", ErrMissingKeyword, i)
		}
		axes = append(axes, int(k))
	}
	return axes, nil
}

// elementCount combines axis extents into a flat element count.
// NOTE: the first axis seeds the accumulator additively and only later
// axes multiply. Standard FITS takes the product of all axes; the seeding
// rule is kept as-is because data-section offsets depend on it.
func elementCount(axes []int) int {
	count := 0
	for i, k := range axes {
		if i == 0 {
			count = k
		} else {
			count *= k
		}
	}
	if count < 0 {
		return 0
	}
	return count
}

// dataByteLength derives the byte length of the data section from NAXIS,
// NAXISn and BITPIX. BITPIX is only consulted when there are elements to
// size; its sign selects floating versus integer encoding, not a scale.
func (h *Header) dataByteLength() (int64, error) {
	axes, err := h.axes()
	if err != nil {
		return 0, err
	}
	n := elementCount(axes)
	if n == 0 {
		return 0, nil
	}
	bitpix, ok := h.intValue("BITPIX")
	if !ok {
		return 0, fmt.Errorf("%w: BITPIX", ErrMissingKeyword)
	}
	if bitpix < 0 {
		bitpix = -bitpix
	}
	return int64(n) * (bitpix / 8), nil
}
