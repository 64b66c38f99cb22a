package property

import (
	"errors"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/Beastly713/codecprop/pkg/driver"
)

// DefaultStreamLen is the longest byte stream gopter hands a property. It
// covers the largest draw any property makes at the default bounds.
const DefaultStreamLen = 4096

// TestParameters returns gopter parameters that run iterations draws of
// streams up to streamLen bytes, reproducibly from seed.
func TestParameters(seed int64, iterations, streamLen int) *gopter.TestParameters {
	params := gopter.DefaultTestParametersWithSeed(seed)
	params.MinSuccessfulTests = iterations
	params.MaxSize = streamLen
	return params
}

// Prop adapts p to a gopter property. gopter generates the byte stream the
// property draws from and shrinks it when a violation is found.
//
// A stream that runs dry is undecided and counts against gopter's discard
// ratio. A fatal error panics: gopter reports it as an error rather than a
// falsified property, and the run stops.
func Prop(p Property, env Env) gopter.Prop {
	return prop.ForAll(
		func(stream []byte) *gopter.PropResult {
			err := p.Check(env, driver.NewByteSlice(stream))
			switch {
			case err == nil:
				return &gopter.PropResult{Status: gopter.PropTrue}
			case errors.Is(err, ErrDiscarded):
				return &gopter.PropResult{Status: gopter.PropUndecided}
			case IsViolation(err):
				return &gopter.PropResult{Status: gopter.PropFalse, Labels: []string{err.Error()}}
			default:
				panic(err)
			}
		},
		gen.SliceOf(gen.UInt8()),
	)
}

// Properties registers ps (or every property when ps is empty) with gopter.
func Properties(params *gopter.TestParameters, env Env, ps ...Property) *gopter.Properties {
	if len(ps) == 0 {
		ps = All()
	}
	properties := gopter.NewProperties(params)
	for _, p := range ps {
		properties.Property(p.Name, Prop(p, env))
	}
	return properties
}
