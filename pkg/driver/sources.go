package driver

import (
	"math/rand/v2"
)

// Unlimited disables the byte budget of a Seeded driver.
const Unlimited = -1

// Seeded is a PRNG-backed driver. Two Seeded drivers with the same seed and
// budget produce the same stream.
type Seeded struct {
	rng    *rand.Rand
	budget int
}

// NewSeeded returns a driver that never exhausts.
func NewSeeded(seed uint64) *Seeded {
	return NewSeededWithBudget(seed, Unlimited)
}

// NewSeededWithBudget returns a driver that reports exhaustion once budget
// bytes have been drawn. A negative budget means unlimited.
func NewSeededWithBudget(seed uint64, budget int) *Seeded {
	return &Seeded{
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		budget: budget,
	}
}

func (s *Seeded) Fill(p []byte) bool {
	if s.budget >= 0 {
		if len(p) > s.budget {
			s.budget = 0
			return false
		}
		s.budget -= len(p)
	}
	for i := 0; i < len(p); {
		v := s.rng.Uint64()
		for j := 0; j < 8 && i < len(p); j++ {
			p[i] = byte(v)
			v >>= 8
			i++
		}
	}
	return true
}

// ByteSlice replays a fixed byte stream, typically a fuzzing corpus entry or
// the recorded stream of a counterexample.
type ByteSlice struct {
	data []byte
	pos  int
}

func NewByteSlice(data []byte) *ByteSlice {
	return &ByteSlice{data: data}
}

func (b *ByteSlice) Fill(p []byte) bool {
	if len(p) > len(b.data)-b.pos {
		b.pos = len(b.data)
		return false
	}
	b.pos += copy(p, b.data[b.pos:])
	return true
}

// Remaining returns the number of unread bytes.
func (b *ByteSlice) Remaining() int {
	return len(b.data) - b.pos
}

// Recorder wraps a driver and keeps a copy of every byte handed out, so the
// draws of a Seeded driver can later be replayed through a ByteSlice.
type Recorder struct {
	src Driver
	buf []byte
}

func NewRecorder(src Driver) *Recorder {
	return &Recorder{src: src}
}

func (r *Recorder) Fill(p []byte) bool {
	if !r.src.Fill(p) {
		return false
	}
	r.buf = append(r.buf, p...)
	return true
}

// Stream returns a copy of the bytes drawn so far.
func (r *Recorder) Stream() []byte {
	out := make([]byte, len(r.buf))
	copy(out, r.buf)
	return out
}
