package property

import (
	"bytes"
	"errors"

	"github.com/Beastly713/codecprop/pkg/codec"
	"github.com/Beastly713/codecprop/pkg/driver"
	"github.com/Beastly713/codecprop/pkg/generator"
)

const (
	EncodedLengthAccuracy = "encoded-length-accuracy"
	DecodeIntoBounds      = "decode-into-bounds"
)

// encodedLen is the closed-form length of n encoded bytes.
func encodedLen(n int, emit bool) int {
	if emit {
		return 4 * ((n + 2) / 3)
	}
	return (8*n + 5) / 6
}

func checkEncodedLength(env Env, d driver.Driver) error {
	gen := generator.Zip[[]byte, codec.Config](generator.Bytes{MaxSize: env.bound(maxRawBytes)}, generator.Configs{})
	draw, ok := gen.Generate(d)
	if !ok {
		return ErrDiscarded
	}
	input, cfg := draw.First, draw.Second

	inst, err := env.build(cfg)
	if err != nil {
		return err
	}
	t := newTrial(EncodedLengthAccuracy, cfg, generator.RawInput(input, env.bound(maxRawBytes)))

	want := encodedLen(len(input), cfg.Padding.Emit())
	if got := inst.EncodedLen(len(input)); got != want {
		return t.failf("EncodedLen(%d) = %d, want %d", len(input), got, want)
	}
	if encoded := inst.Encode(input); len(encoded) != want {
		return t.failf("encoding %d bytes produced %d symbols, want %d", len(input), len(encoded), want)
	}
	return nil
}

func checkDecodeInto(env Env, d driver.Driver) error {
	gen := generator.Zip[[]byte, codec.Config](generator.Bytes{MaxSize: env.bound(maxRawBytes)}, generator.Configs{})
	draw, ok := gen.Generate(d)
	if !ok {
		return ErrDiscarded
	}
	input, cfg := draw.First, draw.Second

	inst, err := env.build(cfg)
	if err != nil {
		return err
	}
	t := newTrial(DecodeIntoBounds, cfg, generator.RawInput(input, env.bound(maxRawBytes)))
	encoded := inst.Encode(input)

	exact := make([]byte, len(input))
	n, err := inst.DecodeInto(exact, encoded)
	if err != nil {
		return t.failf("decoding %q into %d bytes failed: %v", encoded, len(exact), err)
	}
	if n != len(input) || !bytes.Equal(exact, input) {
		return t.failf("decoding %q into an exact buffer wrote %d bytes (-want +got):\n%s", encoded, n, diff(input, exact[:n]))
	}

	if len(input) == 0 {
		return nil
	}
	short := make([]byte, len(input)-1)
	_, err = inst.DecodeInto(short, encoded)
	var decodeErr *codec.DecodeError
	if !errors.As(err, &decodeErr) || decodeErr.Kind != codec.OutputBufferTooSmall {
		return t.failf("decoding %q into %d bytes returned %v, want %s", encoded, len(short), err, codec.OutputBufferTooSmall)
	}
	if decodeErr.Required != len(input) || decodeErr.Provided != len(short) {
		return t.failf("buffer fault reports required=%d provided=%d, want %d and %d",
			decodeErr.Required, decodeErr.Provided, len(input), len(short))
	}
	return nil
}
