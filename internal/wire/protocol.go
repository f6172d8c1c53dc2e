package wire

// PostgreSQL object identifiers for the types this module's handlers cover.
// Grounded on the OID table used by jackc/pgx/v5/pgtype.
const (
	BoolOID        = 16
	ByteaOID       = 17
	Int8OID        = 20
	Int2OID        = 21
	Int4OID        = 23
	TextOID        = 25
	Float4OID      = 700
	Float8OID      = 701
	UnknownOID     = 705
	UUIDOID        = 2950
	TimestampOID   = 1114
	TimestamptzOID = 1184

	BoolArrayOID      = 1000
	Int2ArrayOID      = 1005
	Int4ArrayOID      = 1007
	TextArrayOID      = 1009
	ByteaArrayOID     = 1001
	Int8ArrayOID      = 1016
	Float4ArrayOID    = 1021
	Float8ArrayOID    = 1022
	UUIDArrayOID      = 2951
	TimestampArrayOID = 1115
)

// FormatCode is the PostgreSQL wire parameter/result format code.
type FormatCode int16

const (
	FormatText   FormatCode = 0
	FormatBinary FormatCode = 1
)

// Bind message framing constants (spec.md §6).
const (
	BindMessageType byte = 'B'
	// NullLength is the paramLen / array element length sentinel for SQL NULL.
	NullLength int32 = -1
)
