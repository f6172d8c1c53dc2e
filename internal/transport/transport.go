// Package transport supplies concrete wire.Transport implementations,
// grounded on the teacher's ClientConn wrapper in internal/pgwire/conn.go:
// a net.Conn-backed transport for talking to a real backend and a
// file-backed transport for offline inspection of framed bytes.
package transport

import (
	"io"
	"net"
)

// Conn wraps a net.Conn as a wire.Transport.
type Conn struct {
	conn net.Conn
}

// NewConn wraps an already-dialed connection.
func NewConn(conn net.Conn) *Conn {
	return &Conn{conn: conn}
}

func (c *Conn) Flush(data []byte) error {
	_, err := c.conn.Write(data)
	return err
}

func (c *Conn) Fill(dest []byte) (int, error) {
	return c.conn.Read(dest)
}

// Close closes the underlying connection.
func (c *Conn) Close() error { return c.conn.Close() }

// File is an offline wire.Transport over a writer (for capturing the
// framed Bind bytes a BindMessageWriter produces) and/or a reader (for
// replaying previously captured bytes through an ArrayCodec.Reader).
type File struct {
	w io.Writer
	r io.Reader
}

// NewFileWriter builds a write-only File transport; Fill always returns EOF.
func NewFileWriter(w io.Writer) *File {
	return &File{w: w}
}

// NewFileReader builds a read-only File transport; Flush is a no-op sink.
func NewFileReader(r io.Reader) *File {
	return &File{r: r}
}

func (f *File) Flush(data []byte) error {
	if f.w == nil {
		return nil
	}
	_, err := f.w.Write(data)
	return err
}

func (f *File) Fill(dest []byte) (int, error) {
	if f.r == nil {
		return 0, io.EOF
	}
	return f.r.Read(dest)
}
