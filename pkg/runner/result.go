package runner

import (
	"fmt"
	"time"

	"github.com/Beastly713/codecprop/pkg/codec"
	"github.com/Beastly713/codecprop/pkg/property"
)

// State is the lifecycle of one property run.
type State uint8

const (
	Idle State = iota
	Running
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for _, candidate := range []State{Idle, Running, Succeeded, Failed} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown run state %q", text)
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == Succeeded || s == Failed
}

// Counterexample is the diagnostic payload of a failed run. Feeding Stream
// to Runner.Replay reproduces Violation.
type Counterexample struct {
	Violation *property.Violation
	Stream    []byte
	Iteration int
}

// Result summarizes one property run.
type Result struct {
	Property       string
	Config         codec.Config
	Seed           uint64
	Iterations     int
	Discarded      int
	Success        bool
	State          State
	Counterexample *Counterexample
	Elapsed        time.Duration
	// MemoryBytes is the heap allocated during the run, when tracking is on.
	MemoryBytes uint64
}

func (r *Result) String() string {
	verdict := "ok"
	if !r.Success {
		verdict = "FAILED"
	}
	return fmt.Sprintf("%s %s: %d iterations, %d discarded in %s",
		verdict, r.Property, r.Iterations, r.Discarded, r.Elapsed.Round(time.Microsecond))
}
