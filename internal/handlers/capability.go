// Package handlers implements the type-handler registry and the capability
// interfaces that let the codec core dispatch per-value encoding without
// knowing the concrete PostgreSQL type ahead of time (spec.md §3, §4.2).
//
// A handler never holds mutable state across concurrent calls: all of the
// state a chunking read or write needs to survive a buffer-boundary
// suspension is returned as a separate, call-local state object (ChunkReadState
// / ChunkWriteState) owned by the caller (ArrayCodec or BindMessageWriter),
// never stashed on the Handler itself.
package handlers

import "github.com/riftdata/pgwirecore/internal/wire"

// Handler is implemented by every registered type handler.
type Handler interface {
	OID() uint32
	PGName() string
	SupportsBinaryRead() bool
	SupportsBinaryWrite() bool
	// PreferTextWrite reports whether this handler would rather encode in
	// text (true only for the unrecognized fallback handler in this module,
	// since text-format parameter writing is otherwise unimplemented).
	PreferTextWrite() bool
}

// Lengther precomputes the binary length of a value, used both to size a
// Bind message up front and, for arrays, as the per-element length.
type Lengther interface {
	ValidateAndGetLength(value any) (int32, error)
}

// SimpleWriter is a synchronous writer: the caller guarantees the whole
// value's bytes fit in the buffer's remaining write space before calling
// WriteSimple.
type SimpleWriter interface {
	Lengther
	WriteSimple(value any, buf *wire.ByteBuffer) error
}

// ChunkingWriter streams a value across repeated calls, suspending whenever
// the buffer fills. NewWriteState is called once per value and returns the
// cursor that the caller drives to completion.
type ChunkingWriter interface {
	Lengther
	NewWriteState(value any) (ChunkWriteState, error)
}

// ChunkWriteState is the call-local cursor returned by NewWriteState. A
// single instance services exactly one value's emission from start to
// finish, across as many suspensions as needed.
type ChunkWriteState interface {
	// Write emits as much of the value as fits into buf's current write
	// region. done is true once the value is fully emitted. If the writer
	// wants to hand the transport a contiguous slice directly (the
	// direct-buffer bypass of spec.md §9), it returns done=false and a
	// non-nil direct; the caller must then emit direct to the transport
	// instead of continuing through buf, and re-enter Write afterward.
	Write(buf *wire.ByteBuffer) (done bool, direct []byte, err error)
}

// SimpleReader reads a fixed-size value in one shot once its length is
// known and that many bytes are available in the buffer.
type SimpleReader interface {
	ReadSimple(buf *wire.ByteBuffer, length int32) (any, error)
}

// ChunkingReader mirrors ChunkingWriter for the read direction.
type ChunkingReader interface {
	NewReadState(length int32) ChunkReadState
}

// ChunkReadState is the call-local cursor returned by NewReadState.
type ChunkReadState interface {
	// Read consumes as much as is available in buf's read region. done is
	// true once the value is fully assembled; Value then returns it.
	Read(buf *wire.ByteBuffer) (done bool, err error)
	Value() any
}
