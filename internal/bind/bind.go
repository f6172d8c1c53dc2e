// Package bind implements BindMessageWriter (spec.md §4.4): the resumable
// encoder that produces exactly one PostgreSQL Bind front-end message,
// precomputing its length up front and streaming each parameter through
// its bound handler.
package bind

import (
	"fmt"
	"strings"

	"github.com/riftdata/pgwirecore/internal/handlers"
	"github.com/riftdata/pgwirecore/internal/param"
	"github.com/riftdata/pgwirecore/internal/wire"
)

type state int

const (
	stateWroteNothing state = iota
	stateWroteHeader
	stateWroteParameters
	stateDone
)

// ResultFormat captures invariant (v) of spec.md §3 ("Either
// all_result_types_are_unknown is set or unknown_result_type_list is set,
// never both") by construction: PerColumn nil means AllUnknown governs the
// whole result set; PerColumn non-nil means it governs column-by-column and
// AllUnknown is ignored.
type ResultFormat struct {
	AllUnknown bool
	PerColumn  []bool // element true = unknown
}

func (rf ResultFormat) count() int {
	if rf.PerColumn != nil {
		return len(rf.PerColumn)
	}
	return 1
}

// Writer is the resumable cursor for one Bind message. A single instance
// services exactly one message from WroteNothing through Done.
type Writer struct {
	Portal    string
	Statement string
	Params    []*param.Parameter
	Result    ResultFormat

	state         state
	paramIdx      int
	wroteParamLen bool
	chunkState    handlers.ChunkWriteState

	headerLen   int
	msgLen      int32
	formatCodes []int16
}

// NewWriter validates portal/statement/params and precomputes the header
// length and the declared message length (spec.md §4.4, "Header sizing"
// and "Message-length precomputation").
func NewWriter(portal, statement string, params []*param.Parameter, result ResultFormat) (*Writer, error) {
	if strings.IndexByte(portal, 0) >= 0 || strings.IndexByte(statement, 0) >= 0 {
		return nil, fmt.Errorf("%w: portal/statement name contains an embedded NUL", wire.ErrProtocolError)
	}
	for _, p := range params {
		if !p.IsInputDirection {
			return nil, fmt.Errorf("%w: Bind accepts only input-direction parameters", wire.ErrProtocolError)
		}
	}

	w := &Writer{Portal: portal, Statement: statement, Params: params, Result: result}
	w.formatCodes = compressFormatCodes(params)

	w.headerLen = 4 + len(portal) + 1 + len(statement) + 1 + 2 + 2*len(w.formatCodes) + 2

	var paramBytes int32
	for _, p := range params {
		if !p.IsNull {
			paramBytes += p.BoundSize
		}
	}
	w.msgLen = int32(w.headerLen) + 4*int32(len(params)) + paramBytes + 2 + 2*int32(result.count())

	return w, nil
}

// compressFormatCodes implements the "all-text / all-binary / mixed"
// compression spec.md §4.4 describes: 0 codes if every parameter is text,
// 1 code if every parameter is binary, otherwise one explicit code per
// parameter.
func compressFormatCodes(params []*param.Parameter) []int16 {
	if len(params) == 0 {
		return nil
	}
	sum := 0
	for _, p := range params {
		sum += int(p.FormatCode)
	}
	switch sum {
	case 0:
		return nil // all text
	case len(params):
		return []int16{int16(wire.FormatBinary)} // all binary
	default:
		codes := make([]int16, len(params))
		for i, p := range params {
			codes[i] = int16(p.FormatCode)
		}
		return codes
	}
}

// MessageLength returns the precomputed value of the Bind message's length
// field: the bytes following the type byte, the length field itself included.
func (w *Writer) MessageLength() int32 { return w.msgLen }

// Write emits as much of the Bind message as fits in buf's write region.
// done is true once the entire message has been written. direct is
// non-nil only when a chunking parameter writer wants to bypass the main
// buffer for a large payload (spec.md §9).
func (w *Writer) Write(buf *wire.ByteBuffer) (done bool, direct []byte, err error) {
	if w.state == stateWroteNothing {
		atomic := 1 + w.headerLen // type byte + header
		if buf.Capacity() < atomic {
			return false, nil, wire.ErrBufferTooSmall
		}
		if buf.WriteSpaceLeft() < atomic {
			return false, nil, nil
		}
		buf.PutByte(wire.BindMessageType)
		buf.PutInt32(w.msgLen)
		buf.PutCString(w.Portal)
		buf.PutCString(w.Statement)
		buf.PutInt16(int16(len(w.formatCodes)))
		for _, fc := range w.formatCodes {
			buf.PutInt16(fc)
		}
		buf.PutInt16(int16(len(w.Params)))
		w.state = stateWroteHeader
	}

	if w.state == stateWroteHeader {
		w.state = stateWroteParameters
	}

	if w.state == stateWroteParameters {
		for w.paramIdx < len(w.Params) {
			p := w.Params[w.paramIdx]

			if p.IsNull {
				if buf.WriteSpaceLeft() < 4 {
					return false, nil, nil
				}
				buf.PutInt32(wire.NullLength)
				w.paramIdx++
				continue
			}

			if p.FormatCode == wire.FormatText {
				return false, nil, wire.ErrNotImplemented
			}

			if simple, ok := p.Handler.(handlers.SimpleWriter); ok {
				need := 4 + int(p.BoundSize)
				if buf.WriteSpaceLeft() < need {
					return false, nil, nil
				}
				buf.PutInt32(p.BoundSize)
				if err := simple.WriteSimple(p.Value, buf); err != nil {
					return false, nil, err
				}
				w.paramIdx++
				continue
			}

			chunking, ok := p.Handler.(handlers.ChunkingWriter)
			if !ok {
				return false, nil, wire.ErrInvalidCast
			}

			if !w.wroteParamLen {
				if buf.WriteSpaceLeft() < 4 {
					return false, nil, nil
				}
				buf.PutInt32(p.BoundSize)
				st, err := chunking.NewWriteState(p.Value)
				if err != nil {
					return false, nil, err
				}
				w.chunkState = st
				w.wroteParamLen = true
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
					w.wroteParamLen = false
					w.paramIdx++
					break
				}
				// Not done: suspend so the buffer can be flushed, even if the
				// chunk writer left space unused (an array header is atomic).
				return false, nil, nil
			}
		}

		resultBlockLen := 2 + 2*w.Result.count()
		if buf.WriteSpaceLeft() < resultBlockLen {
			return false, nil, nil
		}
		if w.Result.PerColumn != nil {
			buf.PutInt16(int16(len(w.Result.PerColumn)))
			for _, unknown := range w.Result.PerColumn {
				if unknown {
					buf.PutInt16(0)
				} else {
					buf.PutInt16(1)
				}
			}
		} else {
			buf.PutInt16(1)
			if w.Result.AllUnknown {
				buf.PutInt16(0)
			} else {
				buf.PutInt16(1)
			}
		}
		w.state = stateDone
	}

	return true, nil, nil
}

// Done reports whether the message has been fully emitted.
func (w *Writer) Done() bool { return w.state == stateDone }
