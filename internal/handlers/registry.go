package handlers

import (
	"fmt"
	"reflect"

	"github.com/riftdata/pgwirecore/internal/wire"
)

// Registry maps PostgreSQL OIDs and names to handlers, and resolves a
// handler for a host-language value at bind time (spec.md §4.2, §4.3).
type Registry struct {
	byOID  map[uint32]Handler
	byName map[string]Handler
	byType map[reflect.Type]Handler
	unknown Handler

	integerDatetimes bool
	bootstrapped     bool
}

// NewRegistry builds a registry pre-populated with the unrecognized-type
// fallback handler, per spec.md §9 ("Handler registry lifecycle": the
// unrecognized handler must be installed before the first query so that
// OID-bootstrap queries — which run before any handler for their own
// result rows exists — have somewhere to land).
func NewRegistry() *Registry {
	r := &Registry{
		byOID:  make(map[uint32]Handler),
		byName: make(map[string]Handler),
		byType: make(map[reflect.Type]Handler),
		unknown: unknownHandler{},
	}
	r.byOID[wire.UnknownOID] = r.unknown
	r.byName["unknown"] = r.unknown
	return r
}

// Register adds a handler under its OID and PG name. It enforces the
// invariant that a handler never implements both SimpleWriter and
// ChunkingWriter (spec.md §3).
func (r *Registry) Register(h Handler) error {
	_, simple := h.(SimpleWriter)
	_, chunking := h.(ChunkingWriter)
	if simple && chunking {
		return fmt.Errorf("pgwire: handler %s declares both simple and chunking write", h.PGName())
	}
	r.byOID[h.OID()] = h
	r.byName[h.PGName()] = h
	return nil
}

// RegisterForType additionally indexes h under the host Go type it should
// be preferred for when a caller binds a raw value with no explicit PG
// type hint.
func (r *Registry) RegisterForType(h Handler, goType reflect.Type) error {
	if err := r.Register(h); err != nil {
		return err
	}
	r.byType[goType] = h
	return nil
}

// LookupByOID returns the handler registered for oid, or the unrecognized
// fallback if none matches.
func (r *Registry) LookupByOID(oid uint32) Handler {
	if h, ok := r.byOID[oid]; ok {
		return h
	}
	return r.unknown
}

// LookupByPGName returns the handler registered under name, if any.
func (r *Registry) LookupByPGName(name string) (Handler, bool) {
	h, ok := r.byName[name]
	return h, ok
}

// LookupForParameter resolves a handler for a bind-time value, in the
// precedence spec.md §4.3 specifies: declared PG type, then DB type hint,
// then host Go type.
func (r *Registry) LookupForParameter(pgTypeHint string, dbTypeHint string, value any) (Handler, error) {
	if pgTypeHint != "" {
		if h, ok := r.byName[pgTypeHint]; ok {
			return h, nil
		}
	}
	if dbTypeHint != "" {
		if h, ok := r.byName[dbTypeHint]; ok {
			return h, nil
		}
	}
	if value != nil {
		if h, ok := r.byType[reflect.TypeOf(value)]; ok {
			return h, nil
		}
	}
	return nil, fmt.Errorf("%w: no handler for %T", wire.ErrInvalidCast, value)
}

// Bootstrap gates backend-option-dependent handlers using BackendParams
// (spec.md §6). It must be called once per connection before the registry
// is used to bind parameters.
func (r *Registry) Bootstrap(params map[string]string) error {
	r.integerDatetimes = params["integer_datetimes"] == "on"
	if !r.integerDatetimes {
		// Legacy floating-point timestamps are a non-goal (spec.md §1); we
		// refuse the connection outright rather than silently mis-encode.
		return fmt.Errorf("%w: integer_datetimes=off requires legacy float timestamps", wire.ErrUnsupportedBackendOption)
	}
	r.bootstrapped = true
	return nil
}

// Bootstrapped reports whether Bootstrap has run successfully.
func (r *Registry) Bootstrapped() bool { return r.bootstrapped }
