// Package driverloop implements the flush/refill glue (spec.md §4.6) that
// drives a codec's resumable write/read against a transport: it owns no
// protocol knowledge of its own, only the suspend/resume contract every
// codec in this module honors.
package driverloop

import (
	"errors"

	"github.com/riftdata/pgwirecore/internal/wire"
	"github.com/riftdata/pgwirecore/pkg/logger"
)

// WriteCodec is satisfied by bind.Writer, array.Writer, and any other
// resumable encoder in this module.
type WriteCodec interface {
	Write(buf *wire.ByteBuffer) (done bool, direct []byte, err error)
}

// ReadCodec is satisfied by array.Reader and any other resumable decoder.
type ReadCodec interface {
	Read(buf *wire.ByteBuffer) (done bool, err error)
}

// RunWrite repeatedly calls codec.Write, flushing buf to t (or forwarding a
// direct-bypass slice straight to t) whenever the codec suspends, until it
// reports done. Per spec.md §4.6's ordering guarantee, bytes emitted by
// successive Write calls reach the transport in emission order even though
// flushes interleave with them.
func RunWrite(codec WriteCodec, buf *wire.ByteBuffer, t wire.Transport) error {
	for {
		done, direct, err := codec.Write(buf)
		if err != nil {
			return err
		}
		if done {
			return buf.Flush(t)
		}
		if direct != nil {
			logger.Debug("driverloop: direct-buffer bypass", "bytes", len(direct))
			if err := buf.Flush(t); err != nil {
				return err
			}
			if err := t.Flush(direct); err != nil {
				return err
			}
			continue
		}
		logger.Debug("driverloop: write suspended, flushing", "written", buf.WritePos())
		if err := buf.Flush(t); err != nil {
			return err
		}
	}
}

// RunRead repeatedly calls codec.Read, refilling buf from t whenever the
// codec reports it needs more bytes, until it reports done. A non-nil error
// alongside done==true is an AggregateSafeReadError (spec.md §7): the value
// is usable, the connection stays Healthy, and the caller decides whether
// to surface it.
func RunRead(codec ReadCodec, buf *wire.ByteBuffer, t wire.Transport) error {
	for {
		done, err := codec.Read(buf)
		if done {
			if err != nil {
				var agg *wire.AggregateSafeReadError
				if errors.As(err, &agg) {
					logger.Warn("driverloop: safe-read errors aggregated", "count", len(agg.Errs))
				}
			}
			return err
		}
		if err != nil {
			return err
		}
		logger.Debug("driverloop: read suspended, refilling", "unread", buf.ReadBytesLeft())
		if err := buf.Refill(t); err != nil {
			return err
		}
	}
}
