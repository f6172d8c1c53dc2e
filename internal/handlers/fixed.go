package handlers

import (
	"fmt"
	"time"

	"github.com/riftdata/pgwirecore/internal/wire"
)

// pgEpoch is the PostgreSQL epoch used by binary timestamp encoding
// (2000-01-01 00:00:00 UTC), per the integer_datetimes binary layout.
var pgEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// fixedHandler is the shared shape of every fixed-size simple handler: a
// constant byte width, an OID/name, and a pair of closures that convert
// between the host value and its on-wire bytes. Concrete handlers below
// are thin instantiations of this — the teacher's pattern of small
// single-purpose structs per message kind (BuildXxx helpers in
// pgwire/buffer.go) generalized here to per-type codecs.
type fixedHandler struct {
	oid    uint32
	name   string
	width  int32
	encode func(value any, buf *wire.ByteBuffer) error
	decode func(buf *wire.ByteBuffer) (any, error)
}

func (h fixedHandler) OID() uint32             { return h.oid }
func (h fixedHandler) PGName() string          { return h.name }
func (h fixedHandler) SupportsBinaryRead() bool  { return true }
func (h fixedHandler) SupportsBinaryWrite() bool { return true }
func (h fixedHandler) PreferTextWrite() bool     { return false }

func (h fixedHandler) ValidateAndGetLength(value any) (int32, error) {
	return h.width, nil
}

func (h fixedHandler) WriteSimple(value any, buf *wire.ByteBuffer) error {
	return h.encode(value, buf)
}

func (h fixedHandler) ReadSimple(buf *wire.ByteBuffer, length int32) (any, error) {
	if length != h.width {
		return nil, fmt.Errorf("%w: %s expects %d bytes, got %d", wire.ErrInvalidCast, h.name, h.width, length)
	}
	return h.decode(buf)
}

// BoolHandler encodes/decodes a single boolean byte (OID 16).
var BoolHandler = fixedHandler{
	oid: wire.BoolOID, name: "bool", width: 1,
	encode: func(value any, buf *wire.ByteBuffer) error {
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%w: bool handler got %T", wire.ErrInvalidCast, value)
		}
		if v {
			buf.PutByte(1)
		} else {
			buf.PutByte(0)
		}
		return nil
	},
	decode: func(buf *wire.ByteBuffer) (any, error) { return buf.GetByte() != 0, nil },
}

// Int2Handler encodes/decodes a big-endian int16 (OID 21).
var Int2Handler = fixedHandler{
	oid: wire.Int2OID, name: "int2", width: 2,
	encode: func(value any, buf *wire.ByteBuffer) error {
		v, ok := value.(int16)
		if !ok {
			return fmt.Errorf("%w: int2 handler got %T", wire.ErrInvalidCast, value)
		}
		buf.PutInt16(v)
		return nil
	},
	decode: func(buf *wire.ByteBuffer) (any, error) { return buf.GetInt16(), nil },
}

// Int4Handler encodes/decodes a big-endian int32 (OID 23).
var Int4Handler = fixedHandler{
	oid: wire.Int4OID, name: "int4", width: 4,
	encode: func(value any, buf *wire.ByteBuffer) error {
		v, ok := value.(int32)
		if !ok {
			return fmt.Errorf("%w: int4 handler got %T", wire.ErrInvalidCast, value)
		}
		buf.PutInt32(v)
		return nil
	},
	decode: func(buf *wire.ByteBuffer) (any, error) { return buf.GetInt32(), nil },
}

// Int8Handler encodes/decodes a big-endian int64 (OID 20).
var Int8Handler = fixedHandler{
	oid: wire.Int8OID, name: "int8", width: 8,
	encode: func(value any, buf *wire.ByteBuffer) error {
		v, ok := value.(int64)
		if !ok {
			return fmt.Errorf("%w: int8 handler got %T", wire.ErrInvalidCast, value)
		}
		buf.PutInt64(v)
		return nil
	},
	decode: func(buf *wire.ByteBuffer) (any, error) { return buf.GetInt64(), nil },
}

// Float4Handler encodes/decodes an IEEE-754 single-precision float (OID 700).
var Float4Handler = fixedHandler{
	oid: wire.Float4OID, name: "float4", width: 4,
	encode: func(value any, buf *wire.ByteBuffer) error {
		v, ok := value.(float32)
		if !ok {
			return fmt.Errorf("%w: float4 handler got %T", wire.ErrInvalidCast, value)
		}
		buf.PutInt32(wire.Float32ToInt32Bits(v))
		return nil
	},
	decode: func(buf *wire.ByteBuffer) (any, error) {
		return wire.Int32BitsToFloat32(buf.GetInt32()), nil
	},
}

// Float8Handler encodes/decodes an IEEE-754 double-precision float (OID 701).
var Float8Handler = fixedHandler{
	oid: wire.Float8OID, name: "float8", width: 8,
	encode: func(value any, buf *wire.ByteBuffer) error {
		v, ok := value.(float64)
		if !ok {
			return fmt.Errorf("%w: float8 handler got %T", wire.ErrInvalidCast, value)
		}
		buf.PutInt64(wire.Float64ToInt64Bits(v))
		return nil
	},
	decode: func(buf *wire.ByteBuffer) (any, error) {
		return wire.Int64BitsToFloat64(buf.GetInt64()), nil
	},
}

// UUIDHandler encodes/decodes a 16-byte UUID (OID 2950).
var UUIDHandler = fixedHandler{
	oid: wire.UUIDOID, name: "uuid", width: 16,
	encode: func(value any, buf *wire.ByteBuffer) error {
		v, ok := value.([16]byte)
		if !ok {
			return fmt.Errorf("%w: uuid handler got %T", wire.ErrInvalidCast, value)
		}
		buf.PutBytes(v[:])
		return nil
	},
	decode: func(buf *wire.ByteBuffer) (any, error) {
		var v [16]byte
		copy(v[:], buf.GetBytes(16))
		return v, nil
	},
}

// TimestampHandler encodes/decodes the integer_datetimes binary timestamp
// layout: an int64 microsecond offset from the PostgreSQL epoch (OID 1114,
// and reused for timestamptz under OID 1184 since the wire bytes are
// identical — only textual rendering differs, which is out of scope here).
var TimestampHandler = fixedHandler{
	oid: wire.TimestampOID, name: "timestamp", width: 8,
	encode: func(value any, buf *wire.ByteBuffer) error {
		v, ok := value.(time.Time)
		if !ok {
			return fmt.Errorf("%w: timestamp handler got %T", wire.ErrInvalidCast, value)
		}
		micros := v.UTC().Sub(pgEpoch).Microseconds()
		buf.PutInt64(micros)
		return nil
	},
	decode: func(buf *wire.ByteBuffer) (any, error) {
		micros := buf.GetInt64()
		return pgEpoch.Add(time.Duration(micros) * time.Microsecond), nil
	},
}

// TimestamptzHandler is TimestampHandler registered under its own OID; the
// binary wire bytes of timestamp and timestamptz are identical under
// integer_datetimes.
var TimestamptzHandler = fixedHandler{
	oid: wire.TimestamptzOID, name: "timestamptz", width: 8,
	encode: TimestampHandler.encode,
	decode: TimestampHandler.decode,
}
