package handlers

import (
	"fmt"

	"github.com/riftdata/pgwirecore/internal/wire"
)

// directBypassThreshold is the contiguous-remainder size above which a
// chunking writer prefers to hand its slice straight to the transport
// (spec.md §9, "Direct-buffer bypass") instead of copying it through the
// main buffer one chunk at a time.
const directBypassThreshold = 8192

// streamHandler is the shared shape of text/bytea: both are unbounded
// values whose writer and reader must be able to suspend mid-value.
type streamHandler struct {
	oid       uint32
	name      string
	toBytes   func(value any) ([]byte, error)
	fromBytes func([]byte) any
}

func (h streamHandler) OID() uint32             { return h.oid }
func (h streamHandler) PGName() string          { return h.name }
func (h streamHandler) SupportsBinaryRead() bool  { return true }
func (h streamHandler) SupportsBinaryWrite() bool { return true }
func (h streamHandler) PreferTextWrite() bool     { return false }

func (h streamHandler) ValidateAndGetLength(value any) (int32, error) {
	b, err := h.toBytes(value)
	if err != nil {
		return 0, err
	}
	return int32(len(b)), nil
}

func (h streamHandler) NewWriteState(value any) (ChunkWriteState, error) {
	b, err := h.toBytes(value)
	if err != nil {
		return nil, err
	}
	return &byteChunkWriteState{data: b}, nil
}

func (h streamHandler) NewReadState(length int32) ChunkReadState {
	return &byteChunkReadState{data: make([]byte, length), fromBytes: h.fromBytes}
}

// byteChunkWriteState streams a contiguous host-side byte slice through a
// bounded buffer, suspending as it fills and bypassing it entirely for
// large remainders.
type byteChunkWriteState struct {
	data []byte
	pos  int
}

func (s *byteChunkWriteState) Write(buf *wire.ByteBuffer) (bool, []byte, error) {
	remaining := s.data[s.pos:]
	if len(remaining) == 0 {
		return true, nil, nil
	}
	space := buf.WriteSpaceLeft()
	if space == 0 {
		return false, nil, nil
	}
	if len(remaining) > space && len(remaining) >= directBypassThreshold {
		s.pos = len(s.data)
		return false, remaining, nil
	}
	n := space
	if n > len(remaining) {
		n = len(remaining)
	}
	buf.PutBytes(remaining[:n])
	s.pos += n
	return s.pos == len(s.data), nil, nil
}

// byteChunkReadState assembles a value of known length from repeated reads
// of whatever is currently available in the buffer's read region.
type byteChunkReadState struct {
	data      []byte
	pos       int
	fromBytes func([]byte) any
}

func (s *byteChunkReadState) Read(buf *wire.ByteBuffer) (bool, error) {
	remaining := len(s.data) - s.pos
	if remaining == 0 {
		return true, nil
	}
	avail := buf.ReadBytesLeft()
	if avail == 0 {
		return false, nil
	}
	n := avail
	if n > remaining {
		n = remaining
	}
	copy(s.data[s.pos:], buf.GetBytes(n))
	s.pos += n
	return s.pos == len(s.data), nil
}

func (s *byteChunkReadState) Value() any { return s.fromBytes(s.data) }

// TextHandler streams UTF-8 text (OID 25).
var TextHandler = streamHandler{
	oid:  wire.TextOID,
	name: "text",
	toBytes: func(value any) ([]byte, error) {
		switch v := value.(type) {
		case string:
			return []byte(v), nil
		case []byte:
			return v, nil
		default:
			return nil, fmt.Errorf("%w: text handler got %T", wire.ErrInvalidCast, value)
		}
	},
	fromBytes: func(b []byte) any { return string(b) },
}

// ByteaHandler streams raw binary data (OID 17).
var ByteaHandler = streamHandler{
	oid:  wire.ByteaOID,
	name: "bytea",
	toBytes: func(value any) ([]byte, error) {
		v, ok := value.([]byte)
		if !ok {
			return nil, fmt.Errorf("%w: bytea handler got %T", wire.ErrInvalidCast, value)
		}
		return v, nil
	},
	fromBytes: func(b []byte) any { return b },
}
