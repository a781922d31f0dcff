// Package randbytes produces uniformly distributed random content for generated files.
package randbytes

import (
	"encoding/binary"
	"io"
	"math/rand/v2"
)

// Source produces uniformly distributed bytes. A Source is not safe for
// concurrent use; every worker owns its own.
type Source struct {
	r *rand.ChaCha8
}

// New returns a Source seeded with seed. Equal seeds yield equal streams.
func New(seed uint64) *Source {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	return &Source{r: rand.NewChaCha8(key)}
}

// NewRandom returns a Source seeded from the runtime generator.
func NewRandom() *Source {
	return New(rand.Uint64())
}

// Fill overwrites p with random bytes.
func (s *Source) Fill(p []byte) {
	// ChaCha8.Read never fails and always fills p.
	_, _ = s.r.Read(p)
}

// Generate returns n random bytes. A non-positive n yields an empty slice.
func (s *Source) Generate(n int) []byte {
	if n <= 0 {
		return []byte{}
	}
	p := make([]byte, n)
	s.Fill(p)
	return p
}

// Rows streams height rows of width fresh random bytes. It implements
// io.Reader for consumers that pull content (object stores) and io.WriterTo
// so that io.Copy into a file issues exactly height writes of width bytes.
type Rows struct {
	src    *Source
	width  int
	height int
	buf    []byte
	row    int
	off    int
}

// NewRows returns a Rows of width*height bytes drawn from src.
func NewRows(src *Source, width, height int) *Rows {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Rows{
		src:    src,
		width:  width,
		height: height,
		buf:    make([]byte, width),
	}
}

// Size is the total number of bytes the Rows produces.
func (r *Rows) Size() int64 {
	return int64(r.width) * int64(r.height)
}

// Read implements io.Reader. A single call never spans two rows.
func (r *Rows) Read(p []byte) (int, error) {
	if r.width == 0 || r.row >= r.height {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}
	if r.off == 0 {
		r.src.Fill(r.buf)
	}
	n := copy(p, r.buf[r.off:])
	r.off += n
	if r.off == r.width {
		r.off = 0
		r.row++
	}
	return n, nil
}

// WriteTo implements io.WriterTo, writing the remaining rows one Write per row.
func (r *Rows) WriteTo(w io.Writer) (int64, error) {
	var total int64
	if r.width == 0 {
		r.row = r.height
		return 0, nil
	}
	// finish a row partially consumed by Read
	if r.off > 0 {
		n, err := w.Write(r.buf[r.off:])
		total += int64(n)
		if err != nil {
			return total, err
		}
		r.off = 0
		r.row++
	}
	for ; r.row < r.height; r.row++ {
		r.src.Fill(r.buf)
		n, err := w.Write(r.buf)
		total += int64(n)
		if err != nil {
			return total, err
		}
		if n != r.width {
			return total, io.ErrShortWrite
		}
	}
	return total, nil
}
