package fits

import "fmt"

// Data is a decoded HDU data array: one of five typed variants, each
// carrying the axis extents it was decoded under and a flat element slice.
type Data interface {
	dataArray()
}

// Characters holds BITPIX 8 data as raw bytes.
type Characters struct {
	Shape []int
	Data  []byte
}

// IntegersI32 holds BITPIX 16 or 32 data widened to 32 bits. When the
// header declares a BLANK sentinel, Missing marks the elements whose raw
// value equaled it; a nil Missing means every element is present.
type IntegersI32 struct {
	Shape   []int
	Data    []int32
	Missing []bool
}

// At returns element i and whether it is present.
func (a *IntegersI32) At(i int) (int32, bool) {
	if a.Missing != nil && a.Missing[i] {
		return 0, false
	}
	return a.Data[i], true
}

// IntegersU32 is part of the data taxonomy but no BITPIX code decodes
// into it.
type IntegersU32 struct {
	Shape   []int
	Data    []uint32
	Missing []bool
}

// At returns element i and whether it is present.
func (a *IntegersU32) At(i int) (uint32, bool) {
	if a.Missing != nil && a.Missing[i] {
		return 0, false
	}
	return a.Data[i], true
}

// FloatingPoint32 holds BITPIX -32 data.
type FloatingPoint32 struct {
	Shape []int
	Data  []float32
}

// FloatingPoint64 holds BITPIX -64 data.
type FloatingPoint64 struct {
	Shape []int
	Data  []float64
}

func (*Characters) dataArray()      {}
func (*IntegersI32) dataArray()     {}
func (*IntegersU32) dataArray()     {}
func (*FloatingPoint32) dataArray() {}
func (*FloatingPoint64) dataArray() {}

// decode reads the HDU's data section and converts it per BITPIX. It reads
// through its own cursor at dataStart and never touches the shared scan
// position.
func (h *Hdu) decode() (Data, error) {
	bitpix, ok := h.header.intValue("BITPIX")
	if !ok {
		return nil, fmt.Errorf("%w: BITPIX", ErrMissingKeyword)
	}
	axes, err := h.header.axes()
	if err != nil {
		return nil, err
	}
	n := elementCount(axes)
	r := h.file.rd.At(h.dataStart)

	switch bitpix {
	case 8:
		buf, err := r.ReadBytes(n)
		if err != nil {
			return nil, fmt.Errorf("reading data: %w", err)
		}
		return &Characters{Shape: axes, Data: buf}, nil

	case 16:
		raw, err := r.ReadInt16s(n)
		if err != nil {
			return nil, fmt.Errorf("reading data: %w", err)
		}
		data := make([]int32, n)
		for i, v := range raw {
			data[i] = int32(v)
		}
		var missing []bool
		if blank, ok := h.header.intValue("BLANK"); ok {
			b := int16(blank)
			missing = make([]bool, n)
			for i, v := range raw {
				missing[i] = v == b
			}
		}
		return &IntegersI32{Shape: axes, Data: data, Missing: missing}, nil

	case 32:
		data, err := r.ReadInt32s(n)
		if err != nil {
			return nil, fmt.Errorf("reading data: %w", err)
		}
		var missing []bool
		if blank, ok := h.header.intValue("BLANK"); ok {
			b := int32(blank)
			missing = make([]bool, n)
			for i, v := range data {
				missing[i] = v == b
			}
		}
		return &IntegersI32{Shape: axes, Data: data, Missing: missing}, nil

	case -32:
		data, err := r.ReadFloat32s(n)
		if err != nil {
			return nil, fmt.Errorf("reading data: %w", err)
		}
		return &FloatingPoint32{Shape: axes, Data: data}, nil

	case -64:
		data, err := r.ReadFloat64s(n)
		if err != nil {
			return nil, fmt.Errorf("reading data: %w", err)
		}
		return &FloatingPoint64{Shape: axes, Data: data}, nil

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitpix, bitpix)
	}
}
