// Package generator produces structured random inputs from a driver.Driver.
//
// Every generator is a pure function of the bytes it draws: given the same
// stream it returns the same value, which is what makes a failing draw
// replayable. A generator returns false only when the driver is exhausted;
// that is never a property failure, the draw is simply skipped.
package generator

import (
	"github.com/Beastly713/codecprop/pkg/driver"
)

// Generator produces values of type T.
type Generator[T any] interface {
	Generate(d driver.Driver) (T, bool)
}

// Func adapts a plain function to the Generator interface.
type Func[T any] func(d driver.Driver) (T, bool)

func (f Func[T]) Generate(d driver.Driver) (T, bool) {
	return f(d)
}

// Pair is the compound value drawn by Zip.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Zip draws from a, then from b, as one compound value. The draw order is
// fixed so the compound stays replayable.
func Zip[A, B any](a Generator[A], b Generator[B]) Generator[Pair[A, B]] {
	return Func[Pair[A, B]](func(d driver.Driver) (Pair[A, B], bool) {
		first, ok := a.Generate(d)
		if !ok {
			return Pair[A, B]{}, false
		}
		second, ok := b.Generate(d)
		if !ok {
			return Pair[A, B]{}, false
		}
		return Pair[A, B]{First: first, Second: second}, true
	})
}

// Map transforms the values of g.
func Map[T, U any](g Generator[T], fn func(T) U) Generator[U] {
	return Func[U](func(d driver.Driver) (U, bool) {
		v, ok := g.Generate(d)
		if !ok {
			var zero U
			return zero, false
		}
		return fn(v), true
	})
}
