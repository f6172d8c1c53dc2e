package handlers

import (
	"errors"
	"reflect"
	"testing"

	"github.com/riftdata/pgwirecore/internal/wire"
)

func TestRegistryUnknownFallback(t *testing.T) {
	r := NewRegistry()
	h := r.LookupByOID(999999)
	if h.PGName() != "unknown" {
		t.Errorf("LookupByOID(unregistered): got %q, want \"unknown\"", h.PGName())
	}
}

func TestRegistryRejectsDualWriteHandler(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(dualWriteHandler{}); err == nil {
		t.Fatal("Register(dual-write handler): got nil error, want rejection")
	}
}

func TestRegistryBootstrapRequiresIntegerDatetimes(t *testing.T) {
	r := NewRegistry()
	err := r.Bootstrap(map[string]string{"integer_datetimes": "off"})
	if !errors.Is(err, wire.ErrUnsupportedBackendOption) {
		t.Fatalf("Bootstrap(integer_datetimes=off): got %v, want ErrUnsupportedBackendOption", err)
	}
	if r.Bootstrapped() {
		t.Fatal("Bootstrapped() true after a failed Bootstrap call")
	}

	if err := r.Bootstrap(map[string]string{"integer_datetimes": "on"}); err != nil {
		t.Fatalf("Bootstrap(integer_datetimes=on): %v", err)
	}
	if !r.Bootstrapped() {
		t.Fatal("Bootstrapped() false after a successful Bootstrap call")
	}
}

func TestLookupForParameterPrecedence(t *testing.T) {
	r := NewRegistry()
	if err := RegisterDefaults(r); err != nil {
		t.Fatalf("RegisterDefaults: %v", err)
	}

	h, err := r.LookupForParameter("int4", "", int32(1))
	if err != nil || h.PGName() != "int4" {
		t.Fatalf("LookupForParameter(pgTypeHint=int4): got (%v, %v)", h, err)
	}

	h, err = r.LookupForParameter("", "int8", int64(1))
	if err != nil || h.PGName() != "int8" {
		t.Fatalf("LookupForParameter(dbTypeHint=int8): got (%v, %v)", h, err)
	}

	h, err = r.LookupForParameter("", "", "hello")
	if err != nil || h.PGName() != "text" {
		t.Fatalf("LookupForParameter(go type string): got (%v, %v)", h, err)
	}

	_, err = r.LookupForParameter("", "", 3.0+4i)
	if !errors.Is(err, wire.ErrInvalidCast) {
		t.Fatalf("LookupForParameter(unresolvable type): got %v, want ErrInvalidCast", err)
	}
}

func TestRegisterForTypeIndexesByType(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterForType(BoolHandler, reflect.TypeOf(false)); err != nil {
		t.Fatalf("RegisterForType: %v", err)
	}
	h, err := r.LookupForParameter("", "", true)
	if err != nil || h.PGName() != "bool" {
		t.Fatalf("lookup by registered Go type: got (%v, %v)", h, err)
	}
}

// dualWriteHandler is a test double that implements both SimpleWriter and
// ChunkingWriter, which Register must reject.
type dualWriteHandler struct{}

func (dualWriteHandler) OID() uint32             { return 1 }
func (dualWriteHandler) PGName() string          { return "dual" }
func (dualWriteHandler) SupportsBinaryRead() bool  { return false }
func (dualWriteHandler) SupportsBinaryWrite() bool { return true }
func (dualWriteHandler) PreferTextWrite() bool     { return false }
func (dualWriteHandler) ValidateAndGetLength(any) (int32, error) { return 0, nil }
func (dualWriteHandler) WriteSimple(any, *wire.ByteBuffer) error { return nil }
func (dualWriteHandler) NewWriteState(any) (ChunkWriteState, error) { return nil, nil }
