// Package report reads and writes property run reports. A report is plain
// text: a comment banner, a YAML result document and the hex encoded byte
// stream that replays the counterexample.
package report

import (
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/Beastly713/codecprop/pkg/codec"
	"github.com/Beastly713/codecprop/pkg/generator"
	"github.com/Beastly713/codecprop/pkg/property"
	"github.com/Beastly713/codecprop/pkg/runner"
)

const (
	// Banner introduces a report to whoever opens it.
	Banner = `# THIS FILE IS A CODECPROP REPORT.
# PROPERTY %s %s UNDER %s.
# REPLAY IT WITH:
#   codecprop replay <this file>
`
	ResultMarker = "-- RESULT --"
	StreamMarker = "-- STREAM --"

	// streamWidth is the number of hex characters per stream line.
	streamWidth = 64
)

// Document is the YAML body of a report.
type Document struct {
	Property       string                  `yaml:"property"`
	State          runner.State            `yaml:"state"`
	Seed           uint64                  `yaml:"seed"`
	Iterations     int                     `yaml:"iterations"`
	Discarded      int                     `yaml:"discarded"`
	Elapsed        time.Duration           `yaml:"elapsed"`
	MemoryBytes    uint64                  `yaml:"memoryBytes,omitempty"`
	Base           codec.Config            `yaml:"base"`
	Counterexample *CounterexampleDocument `yaml:"counterexample,omitempty"`
}

type CounterexampleDocument struct {
	Iteration int             `yaml:"iteration"`
	Config    codec.Config    `yaml:"config"`
	Reason    string          `yaml:"reason"`
	Inputs    []InputDocument `yaml:"inputs"`
	Expected  *codec.Fault    `yaml:"expected,omitempty"`
}

// InputDocument holds raw bytes as hex and every other input as text.
type InputDocument struct {
	Kind    generator.Kind `yaml:"kind"`
	Value   string         `yaml:"value"`
	MaxSize int            `yaml:"maxSize"`
}

func newDocument(res *runner.Result) *Document {
	doc := &Document{
		Property:    res.Property,
		State:       res.State,
		Seed:        res.Seed,
		Iterations:  res.Iterations,
		Discarded:   res.Discarded,
		Elapsed:     res.Elapsed,
		MemoryBytes: res.MemoryBytes,
		Base:        res.Config,
	}
	if ce := res.Counterexample; ce != nil && ce.Violation != nil {
		v := ce.Violation
		cd := &CounterexampleDocument{
			Iteration: ce.Iteration,
			Config:    v.Config,
			Reason:    v.Reason,
			Expected:  v.Expected,
		}
		for _, in := range v.Inputs {
			cd.Inputs = append(cd.Inputs, InputDocument{Kind: in.Kind, Value: in.Value(), MaxSize: in.MaxSize})
		}
		doc.Counterexample = cd
	}
	return doc
}

// Validate checks that the document describes a finished run that can be
// replayed.
func (d *Document) Validate() error {
	if d.Property == "" {
		return errors.New("report is missing the property name")
	}
	if !d.State.Terminal() {
		return fmt.Errorf("report state %s is not terminal", d.State)
	}
	if err := d.Base.Validate(); err != nil {
		return fmt.Errorf("invalid base configuration: %w", err)
	}
	if d.State == runner.Succeeded && d.Counterexample != nil {
		return errors.New("a succeeded run cannot carry a counterexample")
	}
	if ce := d.Counterexample; ce != nil {
		for i, in := range ce.Inputs {
			if _, err := in.Input(); err != nil {
				return fmt.Errorf("input %d: %w", i, err)
			}
		}
	}
	return nil
}

// Input converts the document form back into a generator.Input.
func (in InputDocument) Input() (generator.Input, error) {
	if in.Kind == generator.RawBytes {
		b, err := hex.DecodeString(in.Value)
		if err != nil {
			return generator.Input{}, fmt.Errorf("raw bytes are not hex: %w", err)
		}
		return generator.RawInput(b, in.MaxSize), nil
	}
	return generator.Input{Kind: in.Kind, Text: in.Value, MaxSize: in.MaxSize}, nil
}

// Violation rebuilds the recorded counterexample, or nil when there is none.
func (d *Document) Violation() (*property.Violation, error) {
	ce := d.Counterexample
	if ce == nil {
		return nil, nil
	}
	v := &property.Violation{
		Property: d.Property,
		Config:   ce.Config,
		Reason:   ce.Reason,
		Expected: ce.Expected,
	}
	for _, doc := range ce.Inputs {
		in, err := doc.Input()
		if err != nil {
			return nil, err
		}
		v.Inputs = append(v.Inputs, in)
	}
	return v, nil
}
