package handlers

import "github.com/riftdata/pgwirecore/internal/wire"

// unknownHandler is the fallback installed for any OID the registry hasn't
// been taught about. It only services text format; any attempt to read it
// as binary fails with ErrUnsupportedBinaryFormat (spec.md §4.2, §9). It
// must be installed before a connection's first query so that bootstrap
// queries against the type catalog — which run before any handler for
// their own result rows exists — have somewhere to land.
type unknownHandler struct{}

func (unknownHandler) OID() uint32             { return wire.UnknownOID }
func (unknownHandler) PGName() string          { return "unknown" }
func (unknownHandler) SupportsBinaryRead() bool  { return false }
func (unknownHandler) SupportsBinaryWrite() bool { return false }
func (unknownHandler) PreferTextWrite() bool     { return true }

// ReadSimple always refuses: this handler only supports a text decode path,
// which is out of scope for this binary-only codec core.
func (unknownHandler) ReadSimple(buf *wire.ByteBuffer, length int32) (any, error) {
	return nil, wire.ErrUnsupportedBinaryFormat
}
