package array

import (
	"errors"

	"github.com/riftdata/pgwirecore/internal/handlers"
	"github.com/riftdata/pgwirecore/internal/wire"
)

type readState int

const (
	readNeedPrepare readState = iota
	readReadNothing
	readReadHeader
	readReadingElements
	readDone
)

// Reader is the resumable cursor for decoding one array value (spec.md
// §4.5, "Read state machine").
type Reader struct {
	codec *Codec
	state readState

	ndim       int32
	hasNulls   int32
	elementOID uint32
	dims       []Dimension

	elements []any
	flatIdx  int

	elemLen    int32 // -1 means "length not yet read" (spec.md §4.5 "Per-element read")
	chunkState handlers.ChunkReadState

	// safeErrs accumulates per-element SafeReadErrors so they can be raised
	// once, aggregated, at the end — the "improved" containment behavior
	// spec.md §9 recommends in place of the source's rethrow-first-error
	// behavior, which would mark the connection Broken unnecessarily.
	safeErrs []error

	result Value
}

// NewReader prepares a Reader bound to codec's element handler.
func (c *Codec) NewReader() *Reader {
	return &Reader{codec: c, state: readNeedPrepare, elemLen: -1}
}

// Prepare transitions NeedPrepare -> ReadNothing. Re-entering Prepare while
// the reader is mid-stream is a re-entrancy bug (spec.md: "guarded by an
// assertion/error that detects re-entrant reads").
func (r *Reader) Prepare() error {
	if r.state != readNeedPrepare && r.state != readDone {
		return wire.ErrConcurrentOperation
	}
	r.state = readReadNothing
	r.elemLen = -1
	r.chunkState = nil
	return nil
}

// Result returns the decoded value once Read has reported done.
func (r *Reader) Result() Value { return r.result }

// Value implements handlers.ChunkReadState, letting a Reader serve directly
// as the per-element chunking state for an array-of-arrays element handler.
func (r *Reader) Value() any { return r.result }

// Read consumes as much of the array as is available in buf's read region.
// done is true once the full value (including a zero-dimensional empty
// array, per spec.md's boundary property) has been decoded.
func (r *Reader) Read(buf *wire.ByteBuffer) (done bool, err error) {
	if r.state == readNeedPrepare {
		if err := r.Prepare(); err != nil {
			return false, err
		}
	}

	if r.state == readReadNothing {
		if buf.ReadBytesLeft() < 12 {
			return false, nil
		}
		r.ndim = buf.GetInt32()
		r.hasNulls = buf.GetInt32()
		r.elementOID = buf.GetUint32()
		if r.elementOID != r.codec.elem.OID() {
			return false, wire.ErrOidMismatch
		}
		r.dims = make([]Dimension, r.ndim)
		r.state = readReadHeader
	}

	if r.state == readReadHeader {
		need := int(r.ndim) * 8
		if buf.ReadBytesLeft() < need {
			return false, nil
		}
		for i := range r.dims {
			r.dims[i].Length = buf.GetInt32()
			r.dims[i].LowerBound = buf.GetInt32()
		}
		if r.ndim == 0 {
			r.result = Value{}
			r.state = readDone
			return true, nil
		}
		total := 1
		for _, d := range r.dims {
			total *= int(d.Length)
		}
		r.elements = make([]any, 0, total)
		r.state = readReadingElements
	}

	if r.state == readReadingElements {
		for r.flatIdx < cap(r.elements) {
			if r.elemLen == -1 {
				if buf.ReadBytesLeft() < 4 {
					return false, nil
				}
				r.elemLen = buf.GetInt32()
				if r.elemLen == wire.NullLength {
					r.elements = append(r.elements, nil)
					r.flatIdx++
					r.elemLen = -1
					continue
				}
			}

			if simple, ok := r.codec.elem.(handlers.SimpleReader); ok {
				if int32(buf.ReadBytesLeft()) < r.elemLen {
					return false, nil
				}
				v, err := simple.ReadSimple(buf, r.elemLen)
				if err != nil {
					var safeErr *wire.SafeReadError
					if errors.As(err, &safeErr) {
						r.safeErrs = append(r.safeErrs, safeErr.Inner)
						v = nil // host default value (spec.md §4.5)
					} else {
						return false, err
					}
				}
				r.elements = append(r.elements, v)
				r.flatIdx++
				r.elemLen = -1
				continue
			}

			chunking, ok := r.codec.elem.(handlers.ChunkingReader)
			if !ok {
				return false, wire.ErrInvalidCast
			}
			if r.chunkState == nil {
				r.chunkState = chunking.NewReadState(r.elemLen)
			}
			elemFailed := false
			for {
				elemDone, err := r.chunkState.Read(buf)
				if err != nil {
					var safeErr *wire.SafeReadError
					if errors.As(err, &safeErr) {
						r.safeErrs = append(r.safeErrs, safeErr.Inner)
						elemFailed = true
						elemDone = true
					} else {
						return false, err
					}
				}
				if elemDone {
					if elemFailed {
						r.elements = append(r.elements, nil)
					} else {
						r.elements = append(r.elements, r.chunkState.Value())
					}
					r.chunkState = nil
					r.flatIdx++
					r.elemLen = -1
					break
				}
				if buf.ReadBytesLeft() == 0 {
					return false, nil
				}
			}
		}
		r.result = Value{Dims: r.dims, Elements: r.elements}
		r.state = readDone
		if len(r.safeErrs) > 0 {
			return true, &wire.AggregateSafeReadError{Errs: r.safeErrs}
		}
		return true, nil
	}

	return true, nil
}
