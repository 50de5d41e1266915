package fits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestDataByteLength(t *testing.T) {
	f := openArchive(t, testHDU{
		cards: primaryCards(32, 10, 2),
		data:  make([]byte, 80),
	})

	h := f.MustHDU(0)
	length, err := h.header.dataByteLength()
	require.NoError(t, err)
	assert.Equal(t, int64((32/8)*10*2), length)
}

func TestShape(t *testing.T) {
	f := openArchive(t, testHDU{
		cards: primaryCards(32, 10, 2),
		data:  make([]byte, 80),
	})

	shape, err := f.MustHDU(0).Shape()
	require.NoError(t, err)
	assert.Equal(t, []int{10, 2}, shape)
}

func TestDecodeInt16WithBlank(t *testing.T) {
	f := openArchive(t, testHDU{
		cards: append(primaryCards(16, 4), intCard("BLANK", -9999)),
		data:  i16Data(1, -9999, 3, -9999),
	})

	d, err := f.MustHDU(0).Data()
	require.NoError(t, err)

	arr, ok := d.(*IntegersI32)
	require.True(t, ok, "expected IntegersI32, got %T", d)
	assert.Equal(t, []int{4}, arr.Shape)
	assert.Equal(t, []bool{false, true, false, true}, arr.Missing)

	v, present := arr.At(0)
	assert.True(t, present)
	assert.Equal(t, int32(1), v)

	_, present = arr.At(1)
	assert.False(t, present)

	v, present = arr.At(2)
	assert.True(t, present)
	assert.Equal(t, int32(3), v)
}

func TestDecodeInt16WithoutBlank(t *testing.T) {
	f := openArchive(t, testHDU{
		cards: primaryCards(16, 3),
		data:  i16Data(-9999, 0, 7),
	})

	d, err := f.MustHDU(0).Data()
	require.NoError(t, err)

	arr := d.(*IntegersI32)
	// No BLANK declared: every element is present, -9999 included.
	assert.Nil(t, arr.Missing)
	assert.Equal(t, []int32{-9999, 0, 7}, arr.Data)
}

func TestDecodeInt32WithBlank(t *testing.T) {
	f := openArchive(t, testHDU{
		cards: append(primaryCards(32, 10, 2), intCard("BLANK", -1)),
		data: i32Data(
			-1, 2, 3, -1, 5, 6, 7, -1, 9, 10,
			11, -1, 13, 14, 15, -1, 17, 18, 19, -1,
		),
	})

	d, err := f.MustHDU(0).Data()
	require.NoError(t, err)

	arr := d.(*IntegersI32)
	assert.Equal(t, []int{10, 2}, arr.Shape)
	assert.Len(t, arr.Data, 20)

	_, present := arr.At(0)
	assert.False(t, present)
	v, present := arr.At(1)
	assert.True(t, present)
	assert.Equal(t, int32(2), v)
}

func TestDecodeFloat32(t *testing.T) {
	f := openArchive(t, testHDU{
		cards: primaryCards(-32, 3),
		data:  f32Data(1.5, -2.0, 0.25),
	})

	d, err := f.MustHDU(0).Data()
	require.NoError(t, err)

	arr, ok := d.(*FloatingPoint32)
	require.True(t, ok, "expected FloatingPoint32, got %T", d)
	assert.Equal(t, []int{3}, arr.Shape)
	assert.Equal(t, []float32{1.5, -2.0, 0.25}, arr.Data)
}

func TestDecodeFloat64(t *testing.T) {
	f := openArchive(t, testHDU{
		cards: primaryCards(-64, 2),
		data:  f64Data(13501.5, -1.666667e-03),
	})

	d, err := f.MustHDU(0).Data()
	require.NoError(t, err)

	arr, ok := d.(*FloatingPoint64)
	require.True(t, ok, "expected FloatingPoint64, got %T", d)
	assert.Equal(t, []float64{13501.5, -1.666667e-03}, arr.Data)
}

func TestDecodeCharacters(t *testing.T) {
	f := openArchive(t, testHDU{
		cards: primaryCards(8, 5),
		data:  []byte("hello"),
	})

	d, err := f.MustHDU(0).Data()
	require.NoError(t, err)

	arr, ok := d.(*Characters)
	require.True(t, ok, "expected Characters, got %T", d)
	assert.Equal(t, []int{5}, arr.Shape)
	assert.Equal(t, []byte("hello"), arr.Data)
}

func TestDecodeDataLessHDU(t *testing.T) {
	f := openArchive(t, testHDU{cards: primaryCards(16)})

	d, err := f.MustHDU(0).Data()
	require.NoError(t, err)

	arr := d.(*IntegersI32)
	assert.Empty(t, arr.Shape)
	assert.Empty(t, arr.Data)
}

func TestDecodeMissingBitpix(t *testing.T) {
	// No NAXIS either, so the HDU scans fine with a zero-length data
	// section; only decoding needs BITPIX.
	f := openArchive(t, testHDU{cards: []string{logCard("SIMPLE", true)}})

	_, err := f.MustHDU(0).Data()
	assert.ErrorIs(t, err, ErrMissingKeyword)
}

func TestDecodeUnsupportedBitpix(t *testing.T) {
	f := openArchive(t, testHDU{cards: primaryCards(64)})

	_, err := f.MustHDU(0).Data()
	assert.ErrorIs(t, err, ErrUnsupportedBitpix)
}

func TestDecodeCached(t *testing.T) {
	f := openArchive(t, testHDU{
		cards: primaryCards(16, 4),
		data:  i16Data(1, 2, 3, 4),
	})

	h := f.MustHDU(0)
	first, err := h.Data()
	require.NoError(t, err)

	reads := f.rd.Reads()
	second, err := h.Data()
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, reads, f.rd.Reads(), "cached decode must not touch the file")
}

func TestConcurrentDecodeRunsOnce(t *testing.T) {
	f := openArchive(t, testHDU{
		cards: primaryCards(16, 4),
		data:  i16Data(1, 2, 3, 4),
	})

	h := f.MustHDU(0)
	reads := f.rd.Reads()

	results := make([]Data, 8)
	var g errgroup.Group
	for i := range results {
		i := i
		g.Go(func() error {
			d, err := h.Data()
			results[i] = d
			return err
		})
	}
	require.NoError(t, g.Wait())

	for _, d := range results {
		assert.Same(t, results[0], d)
	}
	assert.Equal(t, reads+1, f.rd.Reads(), "exactly one decode pass expected")
}

func TestLoadAll(t *testing.T) {
	f := openArchive(t, threeHDUs()...)

	require.NoError(t, f.LoadAll())
	reads := f.rd.Reads()

	// Everything is cached: headers and data alike.
	d, err := f.MustHDU(0).Data()
	require.NoError(t, err)
	assert.NotNil(t, d)
	assert.Equal(t, reads, f.rd.Reads())
}

func TestConcurrentScanAndDecode(t *testing.T) {
	f := openArchive(t, threeHDUs()...)

	var g errgroup.Group
	for i := 0; i < 4; i++ {
		g.Go(func() error {
			it := f.Iter()
			n := 0
			for h, ok := it.Next(); ok; h, ok = it.Next() {
				if _, err := h.Data(); err != nil {
					return err
				}
				n++
			}
			if n != 3 {
				return assert.AnError
			}
			return it.Err()
		})
	}
	require.NoError(t, g.Wait())
}
