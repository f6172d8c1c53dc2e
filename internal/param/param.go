// Package param implements Parameter binding (spec.md §3, §4.3): choosing a
// handler for a host value and precomputing the binary length the message
// framer needs before it can size the surrounding Bind message.
package param

import (
	"github.com/riftdata/pgwirecore/internal/handlers"
	"github.com/riftdata/pgwirecore/internal/wire"
)

// Parameter binds one host value to a resolved handler. It is immutable
// for the duration of a Bind (spec.md §3).
type Parameter struct {
	Handler          handlers.Handler
	Value            any
	FormatCode       wire.FormatCode
	IsNull           bool
	IsInputDirection bool
	BoundSize        int32
}

// Bind resolves value's handler from registry (PG type hint, then DB type
// hint, then host Go type, per spec.md §4.3), forces binary format
// whenever the handler supports it (Open Question 9.1#1 — text-format
// parameter writing is never chosen), and precomputes BoundSize.
//
// isNull must be supplied by the caller rather than inferred from value
// being a Go nil, since a typed nil (e.g. a nil []byte meant to bind NULL
// bytea) is a valid null value for a non-nil handler.
func Bind(registry *handlers.Registry, pgTypeHint, dbTypeHint string, value any, isNull bool) (*Parameter, error) {
	h, err := registry.LookupForParameter(pgTypeHint, dbTypeHint, value)
	if err != nil {
		return nil, err
	}

	p := &Parameter{
		Handler:          h,
		Value:            value,
		IsInputDirection: true,
		IsNull:           isNull,
	}

	if h.SupportsBinaryWrite() {
		p.FormatCode = wire.FormatBinary
	} else {
		p.FormatCode = wire.FormatText
	}

	if isNull {
		p.BoundSize = -1
		return p, nil
	}

	if p.FormatCode == wire.FormatText {
		return nil, wire.ErrNotImplemented
	}

	lengther, ok := h.(handlers.Lengther)
	if !ok {
		return nil, wire.ErrInvalidCast
	}
	size, err := lengther.ValidateAndGetLength(value)
	if err != nil {
		return nil, err
	}
	p.BoundSize = size
	return p, nil
}
