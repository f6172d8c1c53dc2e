package param

import (
	"errors"
	"testing"

	"github.com/riftdata/pgwirecore/internal/handlers"
	"github.com/riftdata/pgwirecore/internal/wire"
)

func newRegistry(t *testing.T) *handlers.Registry {
	t.Helper()
	r := handlers.NewRegistry()
	if err := handlers.RegisterDefaults(r); err != nil {
		t.Fatalf("RegisterDefaults: %v", err)
	}
	if err := r.Bootstrap(map[string]string{"integer_datetimes": "on"}); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	return r
}

func TestBindForcesBinaryFormat(t *testing.T) {
	r := newRegistry(t)
	p, err := Bind(r, "int4", "", int32(42), false)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if p.FormatCode != wire.FormatBinary {
		t.Fatalf("FormatCode: got %v, want FormatBinary", p.FormatCode)
	}
	if p.BoundSize != 4 {
		t.Fatalf("BoundSize: got %d, want 4", p.BoundSize)
	}
	if !p.IsInputDirection {
		t.Fatal("IsInputDirection must be true for a bound Bind parameter")
	}
}

func TestBindNullSetsBoundSizeToMinusOne(t *testing.T) {
	r := newRegistry(t)
	p, err := Bind(r, "int4", "", nil, true)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if p.BoundSize != -1 {
		t.Fatalf("BoundSize for NULL: got %d, want -1", p.BoundSize)
	}
	if !p.IsNull {
		t.Fatal("IsNull must be true")
	}
}

func TestBindUnresolvableTypeFails(t *testing.T) {
	r := newRegistry(t)
	_, err := Bind(r, "", "", struct{ X int }{}, false)
	if !errors.Is(err, wire.ErrInvalidCast) {
		t.Fatalf("Bind with unresolvable type: got %v, want ErrInvalidCast", err)
	}
}
