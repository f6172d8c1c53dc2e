package handlers

import (
	"errors"
	"testing"

	"github.com/riftdata/pgwirecore/internal/wire"
)

func TestUnknownHandlerRefusesBinaryRead(t *testing.T) {
	var u unknownHandler
	if u.SupportsBinaryRead() || u.SupportsBinaryWrite() {
		t.Fatal("unknownHandler: binary support flags must be false")
	}
	if !u.PreferTextWrite() {
		t.Fatal("unknownHandler: PreferTextWrite must be true")
	}
	_, err := u.ReadSimple(wire.NewByteBuffer(8), 4)
	if !errors.Is(err, wire.ErrUnsupportedBinaryFormat) {
		t.Fatalf("ReadSimple: got %v, want ErrUnsupportedBinaryFormat", err)
	}
}
