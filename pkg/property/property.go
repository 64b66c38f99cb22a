// Package property holds the correctness oracles of the harness. Each oracle
// draws its inputs from a driver, builds codec instances through an Env and
// reports the first counterexample as a *Violation.
package property

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Beastly713/codecprop/pkg/codec"
	"github.com/Beastly713/codecprop/pkg/driver"
	"github.com/Beastly713/codecprop/pkg/generator"
)

// ErrDiscarded reports that the driver ran dry before the inputs were
// complete. The draw is skipped; it is not a failure.
var ErrDiscarded = errors.New("driver exhausted before inputs were drawn")

// Env is what a property needs besides its inputs: the base configuration
// and the factory that turns configurations into codec instances.
type Env struct {
	Base  codec.Config
	Build codec.Factory
}

// DefaultEnv checks codec.Build under codec.Default.
func DefaultEnv() Env {
	return Env{Base: codec.Default(), Build: codec.Build}
}

func (e Env) build(c codec.Config) (codec.Instance, error) {
	factory := e.Build
	if factory == nil {
		factory = codec.Build
	}
	inst, err := factory(c)
	if err != nil {
		return nil, fmt.Errorf("building codec for %s: %w", c, err)
	}
	return inst, nil
}

// bound caps a generator size by the base configuration's input ceiling.
func (e Env) bound(size int) int {
	if e.Base.MaxInputSize < size {
		return e.Base.MaxInputSize
	}
	return size
}

// Property is a named universal statement about the codec.
//
// Check runs one draw. It returns nil when the statement held, ErrDiscarded
// when the driver was exhausted, a *Violation on a counterexample, and any
// other error when the harness itself is broken (for instance a generator
// produced an alphabet the factory rejects).
type Property struct {
	Name        string
	Description string
	Check       func(env Env, d driver.Driver) error
}

// Violation is a counterexample: the inputs and configuration that falsified
// a property, with a human readable reason.
type Violation struct {
	Property string
	Config   codec.Config
	Inputs   []generator.Input
	Reason   string
	// Expected documents why the input was expected to fail, when known.
	Expected *codec.Fault
}

func (v *Violation) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "property %s violated under %s: %s", v.Property, v.Config, v.Reason)
	for _, in := range v.Inputs {
		fmt.Fprintf(&sb, "\n  input %s", in)
	}
	if v.Expected != nil {
		fmt.Fprintf(&sb, "\n  expected %s", v.Expected)
	}
	return sb.String()
}

// IsViolation reports whether err carries a counterexample.
func IsViolation(err error) bool {
	var v *Violation
	return errors.As(err, &v)
}

// trial accumulates the context of one draw so failures carry it.
type trial struct {
	property string
	config   codec.Config
	inputs   []generator.Input
}

func newTrial(property string, config codec.Config, inputs ...generator.Input) *trial {
	return &trial{property: property, config: config, inputs: inputs}
}

func (t *trial) failf(format string, args ...any) error {
	return &Violation{
		Property: t.property,
		Config:   t.config,
		Inputs:   t.inputs,
		Reason:   fmt.Sprintf(format, args...),
	}
}
