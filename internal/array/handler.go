package array

import (
	"github.com/riftdata/pgwirecore/internal/handlers"
	"github.com/riftdata/pgwirecore/internal/wire"
)

// Handler adapts a Codec so an array-of-T can itself be registered in the
// type-handler registry like any scalar handler (spec.md §4.2: "An array
// handler is generic over an element handler ... forwards
// supports_binary_* to the element"). Arrays are always treated as
// unbounded/chunking values since their size is not known statically.
type Handler struct {
	codec *Codec
	oid   uint32
	name  string
}

// NewHandler builds an array handler over elem, registered under its own
// array OID and PG name (e.g. "_int4").
func NewHandler(elem handlers.Handler, oid uint32, name string) *Handler {
	return &Handler{codec: NewCodec(elem), oid: oid, name: name}
}

func (h *Handler) OID() uint32    { return h.oid }
func (h *Handler) PGName() string { return h.name }

func (h *Handler) SupportsBinaryRead() bool  { return h.codec.elem.SupportsBinaryRead() }
func (h *Handler) SupportsBinaryWrite() bool { return h.codec.elem.SupportsBinaryWrite() }
func (h *Handler) PreferTextWrite() bool     { return false }

// ValidateAndGetLength implements handlers.Lengther.
func (h *Handler) ValidateAndGetLength(value any) (int32, error) {
	v, ok := value.(Value)
	if !ok {
		return 0, wire.ErrInvalidCast
	}
	n, _, err := h.codec.ValidateAndGetLength(v)
	return n, err
}

// NewWriteState implements handlers.ChunkingWriter. The returned *Writer
// satisfies handlers.ChunkWriteState directly — its Write method already
// has the (done, direct, err) shape the capability interface requires.
func (h *Handler) NewWriteState(value any) (handlers.ChunkWriteState, error) {
	v, ok := value.(Value)
	if !ok {
		return nil, wire.ErrInvalidCast
	}
	_, hasNulls, err := h.codec.ValidateAndGetLength(v)
	if err != nil {
		return nil, err
	}
	w := h.codec.NewWriter(v, hasNulls)
	if err := w.Prepare(); err != nil {
		return nil, err
	}
	return w, nil
}

// NewReadState implements handlers.ChunkingReader. *Reader satisfies
// handlers.ChunkReadState directly.
func (h *Handler) NewReadState(int32) handlers.ChunkReadState {
	r := h.codec.NewReader()
	_ = r.Prepare()
	return r
}
