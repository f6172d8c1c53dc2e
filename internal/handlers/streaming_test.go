package handlers

import (
	"bytes"
	"io"
	"testing"

	"github.com/riftdata/pgwirecore/internal/driverloop"
	"github.com/riftdata/pgwirecore/internal/wire"
)

// memTransport is a minimal Transport that accumulates flushed bytes and
// replays them on Fill, for driving driverloop.RunWrite/RunRead in tests.
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

func TestTextHandlerChunkWriteRead(t *testing.T) {
	want := "the quick brown fox jumps over the lazy dog"
	st, err := TextHandler.NewWriteState(want)
	if err != nil {
		t.Fatalf("NewWriteState: %v", err)
	}

	tr := &memTransport{}
	buf := wire.NewByteBuffer(8) // deliberately small to force repeated suspension
	if err := driverloop.RunWrite(st, buf, tr); err != nil {
		t.Fatalf("RunWrite: %v", err)
	}
	if string(tr.data) != want {
		t.Fatalf("written text: got %q, want %q", tr.data, want)
	}

	readSt := TextHandler.NewReadState(int32(len(want)))
	readBuf := wire.NewByteBuffer(8)
	readTr := &memTransport{data: tr.data}
	if err := driverloop.RunRead(readSt, readBuf, readTr); err != nil {
		t.Fatalf("RunRead: %v", err)
	}
	if got := readSt.Value().(string); got != want {
		t.Fatalf("read back text: got %q, want %q", got, want)
	}
}

func TestByteaHandlerDirectBypass(t *testing.T) {
	large := bytes.Repeat([]byte{0xAB}, directBypassThreshold+100)
	st, err := ByteaHandler.NewWriteState(large)
	if err != nil {
		t.Fatalf("NewWriteState: %v", err)
	}
	buf := wire.NewByteBuffer(64)
	done, direct, err := st.Write(buf)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if done {
		t.Fatal("Write: got done=true on first call, want a direct-bypass suspension")
	}
	if direct == nil {
		t.Fatal("Write: expected a direct-buffer bypass slice for a large bytea value")
	}
	if !bytes.Equal(direct, large) {
		t.Fatal("direct bypass slice did not match the source value")
	}
	done, direct, err = st.Write(buf)
	if err != nil || !done || direct != nil {
		t.Fatalf("Write after bypass: got (done=%v, direct=%v, err=%v), want (true, nil, nil)", done, direct, err)
	}
}
