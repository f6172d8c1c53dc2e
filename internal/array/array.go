// Package array implements the binary array wire layout (spec.md §3, §4.5):
// a resumable encoder/decoder over an arbitrary element handler. Elements
// of every rank are held as one flat row-major slice, so a single loop over
// a flat index serves one-dimensional and N-dimensional arrays alike; there
// is no separate index-vector path for N dimensions.
package array

import (
	"github.com/riftdata/pgwirecore/internal/handlers"
)

// Dimension is one axis of an array's shape, as carried in the wire header.
type Dimension struct {
	Length     int32
	LowerBound int32
}

// Value is the host-side representation of a PostgreSQL array: a flat,
// row-major slice of elements (a nil entry denotes SQL NULL) alongside its
// dimensions. Flattening away nested host-language arrays mirrors how
// jackc/pgx/v5/pgtype represents arrays (Dims + flat Elements), and avoids
// boxing a recursive structure per spec.md §9 ("N-dimensional arrays
// without boxing").
type Value struct {
	Dims     []Dimension
	Elements []any
}

// Codec drives the array wire layout for a specific element handler. It
// holds no per-operation state itself (spec.md invariant (i)); each
// Write/Read call gets its own Writer/Reader cursor.
type Codec struct {
	elem       handlers.Handler
	elemLength handlers.Lengther
}

// NewCodec builds a Codec over elem. elem must implement at least one of
// the read or write capabilities; since this module only drives binary
// writes and reads, elem's Lengther is required for the write direction.
func NewCodec(elem handlers.Handler) *Codec {
	c := &Codec{elem: elem}
	if l, ok := elem.(handlers.Lengther); ok {
		c.elemLength = l
	}
	return c
}

// Element returns the element handler this codec was built over.
func (c *Codec) Element() handlers.Handler { return c.elem }

// ValidateAndGetLength precomputes the binary length of v, and whether any
// element is null (spec.md §4.5, and Open Question 9.1#2 — has_nulls is
// computed from this same scan rather than always emitted as 0).
func (c *Codec) ValidateAndGetLength(v Value) (length int32, hasNulls bool, err error) {
	ndim := int32(len(v.Dims))
	total := int32(12 + 8*ndim)
	for _, el := range v.Elements {
		if el == nil {
			hasNulls = true
			total += 4
			continue
		}
		n, err := c.elemLength.ValidateAndGetLength(el)
		if err != nil {
			return 0, false, err
		}
		total += 4 + n
	}
	return total, hasNulls, nil
}
