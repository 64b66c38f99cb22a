package driver

import (
	"encoding/binary"
	"math/bits"
)

// Driver is a deterministic source of bytes consumed by generators.
// Every decision a generator makes (sizes, symbol choices, shuffles) is drawn
// from a Driver, so a failing draw can be replayed exactly from its byte stream.
type Driver interface {
	// Fill overwrites p with the next len(p) bytes of the stream.
	// It reports false when the stream is exhausted; the contents of p are then undefined.
	Fill(p []byte) bool
}

// Uint8 draws a single byte.
func Uint8(d Driver) (uint8, bool) {
	var b [1]byte
	if !d.Fill(b[:]) {
		return 0, false
	}
	return b[0], true
}

// Bool draws a boolean from the low bit of one byte.
func Bool(d Driver) (bool, bool) {
	b, ok := Uint8(d)
	return b&1 == 1, ok
}

// Uint64 draws eight bytes, little endian.
func Uint64(d Driver) (uint64, bool) {
	var b [8]byte
	if !d.Fill(b[:]) {
		return 0, false
	}
	return binary.LittleEndian.Uint64(b[:]), true
}

// Intn draws a value in [0, n). It consumes only as many bytes as n needs,
// which keeps replay streams short for small ranges.
// Intn panics if n <= 0.
func Intn(d Driver, n int) (int, bool) {
	if n <= 0 {
		panic("driver: Intn called with non-positive bound")
	}
	if n == 1 {
		return 0, true
	}
	width := (bits.Len64(uint64(n-1)) + 7) / 8
	var b [8]byte
	if !d.Fill(b[:width]) {
		return 0, false
	}
	v := binary.LittleEndian.Uint64(b[:])
	return int(v % uint64(n)), true
}

// IntRange draws a value in [lo, hi]. It panics if hi < lo.
func IntRange(d Driver, lo, hi int) (int, bool) {
	if hi < lo {
		panic("driver: IntRange called with hi < lo")
	}
	v, ok := Intn(d, hi-lo+1)
	return lo + v, ok
}

// Bytes draws n independent bytes.
func Bytes(d Driver, n int) ([]byte, bool) {
	out := make([]byte, n)
	if n == 0 {
		return out, true
	}
	if !d.Fill(out) {
		return nil, false
	}
	return out, true
}
