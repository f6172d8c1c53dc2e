package array

import (
	"github.com/riftdata/pgwirecore/internal/handlers"
	"github.com/riftdata/pgwirecore/internal/wire"
)

// RegisterDefaults installs array-of-T handlers over the scalar handlers
// handlers.RegisterDefaults already registered, so a Value{...} of each
// element type can itself be bound as a parameter (spec.md §4.2: "An array
// handler is generic over an element handler"). Array handlers are
// registered by OID and PG name only, never by Go type: every array OID
// shares the same host representation (Value), so a caller binding an
// array parameter must supply an explicit PG type hint (e.g. "_int4") —
// the Go type alone can't disambiguate the element type.
func RegisterDefaults(r *handlers.Registry) error {
	specs := []struct {
		elem handlers.Handler
		oid  uint32
		name string
	}{
		{handlers.BoolHandler, wire.BoolArrayOID, "_bool"},
		{handlers.Int2Handler, wire.Int2ArrayOID, "_int2"},
		{handlers.Int4Handler, wire.Int4ArrayOID, "_int4"},
		{handlers.Int8Handler, wire.Int8ArrayOID, "_int8"},
		{handlers.Float4Handler, wire.Float4ArrayOID, "_float4"},
		{handlers.Float8Handler, wire.Float8ArrayOID, "_float8"},
		{handlers.UUIDHandler, wire.UUIDArrayOID, "_uuid"},
		{handlers.TimestampHandler, wire.TimestampArrayOID, "_timestamp"},
		{handlers.TextHandler, wire.TextArrayOID, "_text"},
		{handlers.ByteaHandler, wire.ByteaArrayOID, "_bytea"},
	}
	for _, s := range specs {
		h := NewHandler(s.elem, s.oid, s.name)
		if err := r.Register(h); err != nil {
			return err
		}
	}
	return nil
}
