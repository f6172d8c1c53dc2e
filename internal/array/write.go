package array

import (
	"github.com/riftdata/pgwirecore/internal/handlers"
	"github.com/riftdata/pgwirecore/internal/wire"
)

type writeState int

const (
	writeNeedPrepare writeState = iota
	writeWroteNothing
	writeWritingElements
	writeCleanup
	writeDone
)

// Writer is the resumable cursor for emitting one array value (spec.md
// §4.5, "Write state machine"). A single Writer instance services exactly
// one Value from NeedPrepare through Done, across as many suspensions as
// the buffer forces.
type Writer struct {
	codec *Codec
	state writeState

	value    Value
	hasNulls bool

	elemIdx      int
	wroteElemLen bool
	curElemLen   int32
	chunkState   handlers.ChunkWriteState
}

// NewWriter prepares a Writer for v. Length/hasNulls must already have been
// computed via Codec.ValidateAndGetLength — the writer does not recompute
// them, since the caller (the Parameter/BindMessageWriter) needs the same
// figure to size the surrounding message.
func (c *Codec) NewWriter(v Value, hasNulls bool) *Writer {
	return &Writer{codec: c, state: writeNeedPrepare, value: v, hasNulls: hasNulls}
}

// Prepare transitions NeedPrepare -> WroteNothing. Calling it while the
// writer is mid-stream is a re-entrancy bug and returns ErrConcurrentOperation.
func (w *Writer) Prepare() error {
	if w.state != writeNeedPrepare && w.state != writeDone {
		return wire.ErrConcurrentOperation
	}
	w.state = writeWroteNothing
	w.elemIdx = 0
	w.wroteElemLen = false
	w.chunkState = nil
	return nil
}

// Write emits as much of the array as fits in buf's write region. done is
// true once the whole value has been emitted. direct is non-nil only when
// an element's chunking writer wants to bypass the main buffer for a large
// contiguous payload — the caller must emit it, then re-enter Write.
func (w *Writer) Write(buf *wire.ByteBuffer) (done bool, direct []byte, err error) {
	if w.state == writeNeedPrepare {
		if err := w.Prepare(); err != nil {
			return false, nil, err
		}
	}

	if w.state == writeWroteNothing {
		ndim := len(w.value.Dims)
		headerLen := 12 + 8*ndim
		if buf.WriteSpaceLeft() < headerLen {
			return false, nil, nil // suspend: need flush
		}
		buf.PutInt32(int32(ndim))
		if w.hasNulls {
			buf.PutInt32(1)
		} else {
			buf.PutInt32(0)
		}
		buf.PutInt32(int32(w.codec.elem.OID()))
		for _, d := range w.value.Dims {
			buf.PutInt32(d.Length)
			buf.PutInt32(1) // lower bound is always normalized to 1 on write (spec.md §4.5)
		}
		w.state = writeWritingElements
	}

	if w.state == writeWritingElements {
		for w.elemIdx < len(w.value.Elements) {
			el := w.value.Elements[w.elemIdx]

			if !w.wroteElemLen {
				if buf.WriteSpaceLeft() < 4 {
					return false, nil, nil
				}
				if el == nil {
					buf.PutInt32(wire.NullLength)
					w.elemIdx++
					continue
				}
				n, err := w.codec.elemLength.ValidateAndGetLength(el)
				if err != nil {
					return false, nil, err
				}
				buf.PutInt32(n)
				w.curElemLen = n
				w.wroteElemLen = true
			}

			if simple, ok := w.codec.elem.(handlers.SimpleWriter); ok {
				if int32(buf.WriteSpaceLeft()) < w.curElemLen {
					return false, nil, nil
				}
				if err := simple.WriteSimple(el, buf); err != nil {
					return false, nil, err
				}
				w.wroteElemLen = false
				w.elemIdx++
				continue
			}

			chunking, ok := w.codec.elem.(handlers.ChunkingWriter)
			if !ok {
				return false, nil, wire.ErrInvalidCast
			}
			if w.chunkState == nil {
				st, err := chunking.NewWriteState(el)
				if err != nil {
					return false, nil, err
				}
				w.chunkState = st
			}
			for {
				elemDone, dbuf, err := w.chunkState.Write(buf)
				if err != nil {
					return false, nil, err
				}
				if dbuf != nil {
					return false, dbuf, nil
				}
				if elemDone {
					w.chunkState = nil
					w.wroteElemLen = false
					w.elemIdx++
					break
				}
				if buf.WriteSpaceLeft() == 0 {
					return false, nil, nil
				}
			}
		}
		w.state = writeCleanup
	}

	w.state = writeDone
	return true, nil, nil
}
