package wire

import "math"

// Float32 conversion helpers (bitwise reinterpretation, not lossy conversion)

func Float32ToInt32Bits(f float32) int32 {
	return int32(math.Float32bits(f)) // #nosec G115 -- bitwise reinterpretation, not arithmetic conversion
}

func Int32BitsToFloat32(i int32) float32 {
	return math.Float32frombits(uint32(i)) // #nosec G115 -- bitwise reinterpretation, not arithmetic conversion
}

func Float64ToInt64Bits(f float64) int64 {
	return int64(math.Float64bits(f)) // #nosec G115 -- bitwise reinterpretation, not arithmetic conversion
}

func Int64BitsToFloat64(i int64) float64 {
	return math.Float64frombits(uint64(i)) // #nosec G115 -- bitwise reinterpretation, not arithmetic conversion
}
