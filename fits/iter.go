package fits

import "errors"

// Iter iterates over an archive's HDUs in file order, reading through the
// shared cache: HDUs already discovered by any other iterator or lookup
// are served without touching the file.
//
// Iterators from File.Iter are read-only views and any number may be live
// at once. Iterators from OpenIter own their archive and close it when
// the sequence ends.
type Iter struct {
	f     *File
	index int
	err   error
	done  bool
	owns  bool
}

// Iter returns a read-only iterator over the archive's HDUs.
func (f *File) Iter() *Iter {
	return &Iter{f: f}
}

// OpenIter opens the archive at path and returns an iterator that owns
// it: the archive is closed once the iterator is exhausted, fails, or is
// closed explicitly. This is the consuming counterpart of File.Iter.
func OpenIter(path string) (*Iter, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	return &Iter{f: f, owns: true}, nil
}

// Next returns the next HDU. ok is false at the end of the archive or on
// error; Err distinguishes the two.
func (it *Iter) Next() (hdu *Hdu, ok bool) {
	if it.done {
		return nil, false
	}
	h, err := it.f.hdu(it.index)
	if err != nil {
		it.done = true
		if !errors.Is(err, ErrNotFound) {
			it.err = err
		}
		if it.owns {
			it.f.Close()
		}
		return nil, false
	}
	it.index++
	return h, true
}

// Err returns the first error encountered by Next. Reaching the end of
// the archive is not an error.
func (it *Iter) Err() error {
	return it.err
}

// Close releases the archive when the iterator owns it (see OpenIter) and
// is a no-op otherwise.
func (it *Iter) Close() error {
	it.done = true
	if !it.owns {
		return nil
	}
	return it.f.Close()
}

// WalkFunc is called for each HDU during a Walk, with the HDU's index in
// file order. Return nil to continue walking, or an error to stop.
type WalkFunc func(index int, hdu *Hdu) error

// ErrStopWalk can be returned from a WalkFunc to stop walking without an
// error.
var ErrStopWalk = errors.New("walk stopped")

// Walk traverses every HDU in file order, extending the cache as it goes.
// It is the exclusive-access traversal: the callback may mutate HDU state
// (for example force decodes), and at most one Walk should run on an
// archive at a time.
func (f *File) Walk(fn WalkFunc) error {
	for i := 0; ; i++ {
		h, err := f.hdu(i)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(i, h); err != nil {
			if errors.Is(err, ErrStopWalk) {
				return nil
			}
			return err
		}
	}
}
