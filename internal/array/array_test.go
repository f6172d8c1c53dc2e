package array

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/riftdata/pgwirecore/internal/driverloop"
	"github.com/riftdata/pgwirecore/internal/handlers"
	"github.com/riftdata/pgwirecore/internal/wire"
)

type memTransport struct {
	data []byte
	pos  int
}

func (m *memTransport) Flush(data []byte) error { m.data = append(m.data, data...); return nil }

func (m *memTransport) Fill(dest []byte) (int, error) {
	if m.pos >= len(m.data) {
		return 0, io.EOF
	}
	n := copy(dest, m.data[m.pos:])
	m.pos += n
	return n, nil
}

func writeArray(t *testing.T, codec *Codec, v Value, bufCap int) []byte {
	t.Helper()
	_, hasNulls, err := codec.ValidateAndGetLength(v)
	if err != nil {
		t.Fatalf("ValidateAndGetLength: %v", err)
	}
	w := codec.NewWriter(v, hasNulls)
	if err := w.Prepare(); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	tr := &memTransport{}
	buf := wire.NewByteBuffer(bufCap)
	if err := driverloop.RunWrite(w, buf, tr); err != nil {
		t.Fatalf("RunWrite: %v", err)
	}
	return tr.data
}

func readArray(t *testing.T, codec *Codec, data []byte, bufCap int) (Value, error) {
	t.Helper()
	r := codec.NewReader()
	if err := r.Prepare(); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	tr := &memTransport{data: data}
	buf := wire.NewByteBuffer(bufCap)
	err := driverloop.RunRead(r, buf, tr)
	return r.Result(), err
}

func TestArrayInt4RoundTrip1D(t *testing.T) {
	codec := NewCodec(handlers.Int4Handler)
	v := Value{
		Dims:     []Dimension{{Length: 3, LowerBound: 1}},
		Elements: []any{int32(1), int32(2), int32(3)},
	}
	wireBytes := writeArray(t, codec, v, 1024)
	got, err := readArray(t, codec, wireBytes, 1024)
	if err != nil {
		t.Fatalf("readArray: %v", err)
	}
	if len(got.Elements) != 3 || got.Elements[0] != int32(1) || got.Elements[2] != int32(3) {
		t.Fatalf("round trip mismatch: got %+v", got)
	}
}

func TestArrayInt4RoundTripTinyBuffer(t *testing.T) {
	codec := NewCodec(handlers.Int4Handler)
	v := Value{
		Dims:     []Dimension{{Length: 5, LowerBound: 1}},
		Elements: []any{int32(10), int32(20), int32(30), int32(40), int32(50)},
	}
	full := writeArray(t, codec, v, 4096)
	tiny := writeArray(t, codec, v, 20) // just the 20-byte 1-D header; forces many suspensions
	if !bytes.Equal(full, tiny) {
		t.Fatalf("byte stream differs under a tiny buffer: capacity-infinite=%x tiny=%x", full, tiny)
	}
	got, err := readArray(t, codec, tiny, 20)
	if err != nil {
		t.Fatalf("readArray: %v", err)
	}
	if len(got.Elements) != 5 || got.Elements[4] != int32(50) {
		t.Fatalf("round trip under tiny buffer mismatch: got %+v", got)
	}
}

func TestArrayWithNulls(t *testing.T) {
	codec := NewCodec(handlers.Int4Handler)
	v := Value{
		Dims:     []Dimension{{Length: 3, LowerBound: 1}},
		Elements: []any{int32(1), nil, int32(3)},
	}
	wireBytes := writeArray(t, codec, v, 1024)
	got, err := readArray(t, codec, wireBytes, 1024)
	if err != nil {
		t.Fatalf("readArray: %v", err)
	}
	if got.Elements[1] != nil {
		t.Fatalf("expected NULL element, got %v", got.Elements[1])
	}
}

func TestArrayEmptyIsZeroDimensional(t *testing.T) {
	codec := NewCodec(handlers.Int4Handler)
	v := Value{}
	wireBytes := writeArray(t, codec, v, 64)
	if len(wireBytes) != 12 {
		t.Fatalf("zero-dim array wire length: got %d, want 12", len(wireBytes))
	}
	got, err := readArray(t, codec, wireBytes, 64)
	if err != nil {
		t.Fatalf("readArray: %v", err)
	}
	if len(got.Elements) != 0 {
		t.Fatalf("zero-dim array: got %d elements, want 0", len(got.Elements))
	}
}

func TestArrayTextChunkingElements(t *testing.T) {
	codec := NewCodec(handlers.TextHandler)
	v := Value{
		Dims:     []Dimension{{Length: 2, LowerBound: 1}},
		Elements: []any{"hello", "a longer string that spans several buffer refills"},
	}
	wireBytes := writeArray(t, codec, v, 20)
	got, err := readArray(t, codec, wireBytes, 16)
	if err != nil {
		t.Fatalf("readArray: %v", err)
	}
	if got.Elements[0] != "hello" || got.Elements[1] != "a longer string that spans several buffer refills" {
		t.Fatalf("text array round trip mismatch: got %+v", got)
	}
}

func TestArrayOidMismatchOnRead(t *testing.T) {
	int4Codec := NewCodec(handlers.Int4Handler)
	int8Codec := NewCodec(handlers.Int8Handler)
	v := Value{Dims: []Dimension{{Length: 1, LowerBound: 1}}, Elements: []any{int32(1)}}
	wireBytes := writeArray(t, int4Codec, v, 64)
	_, err := readArray(t, int8Codec, wireBytes, 64)
	if !errors.Is(err, wire.ErrOidMismatch) {
		t.Fatalf("readArray with mismatched element OID: got %v, want ErrOidMismatch", err)
	}
}

func TestArrayNDimensional(t *testing.T) {
	codec := NewCodec(handlers.Int4Handler)
	v := Value{
		Dims: []Dimension{{Length: 2, LowerBound: 1}, {Length: 3, LowerBound: 1}},
		Elements: []any{
			int32(1), int32(2), int32(3),
			int32(4), int32(5), int32(6),
		},
	}
	wireBytes := writeArray(t, codec, v, 128)
	got, err := readArray(t, codec, wireBytes, 128)
	if err != nil {
		t.Fatalf("readArray: %v", err)
	}
	if len(got.Dims) != 2 || got.Dims[1].Length != 3 {
		t.Fatalf("2D dims mismatch: got %+v", got.Dims)
	}
	if len(got.Elements) != 6 || got.Elements[5] != int32(6) {
		t.Fatalf("2D elements mismatch: got %+v", got.Elements)
	}
}
