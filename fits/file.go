package fits

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/robert-malhotra/go-fits/internal/binary"
)

// File represents an open FITS archive: the underlying file plus a shared
// append-only cache of the HDUs discovered so far. HDUs are scanned
// lazily, each exactly once, and an index handed out stays valid for the
// life of the archive.
//
// A File is safe for concurrent use.
type File struct {
	path string
	file *os.File
	rd   *binary.Reader

	// scanMu serializes cache extension so each HDU is scanned at most
	// once. It is never held while serving already-cached entries.
	scanMu sync.Mutex

	mu       sync.RWMutex // guards the fields below
	hdus     []*Hdu
	next     int64 // file offset of the first unscanned HDU
	complete bool  // end of file reached; len(hdus) is the total count
	closed   bool

	// decodeGroup collapses concurrent first decodes of one HDU's data
	// section into a single pass.
	decodeGroup singleflight.Group
}

// Open opens a FITS archive for reading.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	return &File{
		path: path,
		file: f,
		rd:   binary.NewReader(f),
	}, nil
}

// Close closes the archive. Cached HDUs must not be used afterwards.
func (f *File) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	f.mu.Unlock()
	return f.file.Close()
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// HDU returns the HDU at the given index. Index 0 is the primary HDU.
// Returns ErrNotFound when the index is past the end of the archive.
func (f *File) HDU(index int) (*Hdu, error) {
	if index < 0 {
		return nil, ErrNotFound
	}
	return f.hdu(index)
}

// HDUByName returns the first HDU whose EXTNAME header value equals name
// exactly. The comparison is typed and case-sensitive: only a character
// string value matches. Returns ErrNotFound when no HDU matches.
func (f *File) HDUByName(name string) (*Hdu, error) {
	want := CharacterString(name)
	for i := 0; ; i++ {
		h, err := f.hdu(i)
		if err != nil {
			return nil, err
		}
		if v, ok := h.Value("EXTNAME"); ok && v == want {
			return h, nil
		}
	}
}

// MustHDU is like HDU but panics when the index is out of range. Intended
// for call sites that have already validated existence.
func (f *File) MustHDU(index int) *Hdu {
	h, err := f.HDU(index)
	if err != nil {
		panic(fmt.Sprintf("fits: HDU %d: %v", index, err))
	}
	return h
}

// MustHDUByName is like HDUByName but panics when no HDU matches.
func (f *File) MustHDUByName(name string) *Hdu {
	h, err := f.HDUByName(name)
	if err != nil {
		panic(fmt.Sprintf("fits: HDU %q: %v", name, err))
	}
	return h
}

// NumHDUs returns the total number of HDUs, scanning the remainder of the
// archive if it has not been fully walked yet.
func (f *File) NumHDUs() (int, error) {
	for i := 0; ; i++ {
		_, err := f.hdu(i)
		if errors.Is(err, ErrNotFound) {
			f.mu.RLock()
			n := len(f.hdus)
			f.mu.RUnlock()
			return n, nil
		}
		if err != nil {
			return 0, err
		}
	}
}

// LoadAll scans every HDU and decodes every data section, caching the
// whole archive. Beware of the file size before calling this.
func (f *File) LoadAll() error {
	return f.Walk(func(_ int, h *Hdu) error {
		_, err := h.Data()
		return err
	})
}

// hdu returns the cached HDU at index, extending the cache one HDU at a
// time as needed. Cached entries are served under the read lock only;
// scanning happens under scanMu with the write lock taken just for the
// append, so readers of published entries are not blocked by I/O.
func (f *File) hdu(index int) (*Hdu, error) {
	f.mu.RLock()
	if f.closed {
		f.mu.RUnlock()
		return nil, ErrClosed
	}
	if index < len(f.hdus) {
		h := f.hdus[index]
		f.mu.RUnlock()
		return h, nil
	}
	complete := f.complete
	f.mu.RUnlock()
	if complete {
		return nil, ErrNotFound
	}

	f.scanMu.Lock()
	defer f.scanMu.Unlock()
	for {
		f.mu.RLock()
		if f.closed {
			f.mu.RUnlock()
			return nil, ErrClosed
		}
		if index < len(f.hdus) {
			h := f.hdus[index]
			f.mu.RUnlock()
			return h, nil
		}
		complete, next := f.complete, f.next
		f.mu.RUnlock()
		if complete {
			return nil, ErrNotFound
		}

		h, nextOffset, err := f.readHDU(next)
		if err != nil {
			return nil, err
		}
		f.mu.Lock()
		if h == nil {
			f.complete = true
		} else {
			f.hdus = append(f.hdus, h)
			f.next = nextOffset
		}
		f.mu.Unlock()
	}
}

// readHDU scans one HDU starting at offset and returns it together with
// the offset where the next HDU begins. A nil HDU with a nil error means
// the end of the archive: a short or impossible read here is
// indistinguishable from running out of HDUs, so it ends the sequence
// silently rather than surfacing an error.
func (f *File) readHDU(offset int64) (*Hdu, int64, error) {
	r := f.rd.At(offset)

	var records []Record
	cards := 0
	end := false
	// Cards keep coming until END has been seen and the card count fills
	// out the 2880-byte block: blank filler cards after END still advance
	// the cursor but produce no records.
	for cards%cardsPerBlock != 0 || !end {
		card, err := r.ReadBytes(cardLength)
		if err != nil {
			return nil, 0, nil
		}
		if rec, ok := parseCard(card); ok {
			if rec.Keyword == endKeyword {
				end = true
			}
			records = append(records, rec)
		}
		cards++
	}

	h := &Hdu{
		file:      f,
		header:    Header{records: records},
		dataStart: r.Pos(),
	}
	length, err := h.header.dataByteLength()
	if err != nil {
		return nil, 0, fmt.Errorf("sizing data section: %w", err)
	}
	r.Skip(length)
	r.Align(blockSize)
	return h, r.Pos(), nil
}
