package property

import (
	"bytes"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/Beastly713/codecprop/pkg/codec"
	"github.com/Beastly713/codecprop/pkg/driver"
	"github.com/Beastly713/codecprop/pkg/generator"
)

const (
	EncodeDecodeRoundtrip    = "encode-decode-roundtrip"
	DecodeEncodeRoundtrip    = "decode-encode-roundtrip"
	CrossInstanceConsistency = "cross-instance-consistency"
	CustomAlphabetRoundtrip  = "custom-alphabet-roundtrip"
	PaddingModeRoundtrip     = "padding-mode-roundtrip"

	maxRawBytes    = 1000
	maxCodecString = 1000
)

func diff(want, got []byte) string {
	return cmp.Diff(want, got)
}

// roundtrip encodes input and decodes the result with the same instance.
func roundtrip(t *trial, inst codec.Instance, input []byte) (string, error) {
	encoded := inst.Encode(input)
	decoded, err := inst.Decode(encoded)
	if err != nil {
		return encoded, t.failf("decoding own output %q failed: %v", encoded, err)
	}
	if !bytes.Equal(decoded, input) {
		return encoded, t.failf("roundtrip through %q changed the bytes (-want +got):\n%s", encoded, diff(input, decoded))
	}
	return encoded, nil
}

func checkEncodeDecode(env Env, d driver.Driver) error {
	gen := generator.Bytes{MaxSize: env.bound(maxRawBytes)}
	input, ok := gen.Generate(d)
	if !ok {
		return ErrDiscarded
	}

	inst, err := env.build(env.Base)
	if err != nil {
		return err
	}
	t := newTrial(EncodeDecodeRoundtrip, env.Base, generator.RawInput(input, gen.MaxSize))
	_, err = roundtrip(t, inst, input)
	return err
}

func checkDecodeEncode(env Env, d driver.Driver) error {
	gen := generator.WellFormed{Alphabet: env.Base.Alphabet, MaxSize: env.bound(maxCodecString)}
	text, ok := gen.Generate(d)
	if !ok {
		return ErrDiscarded
	}
	if env.Base.Padding.Accept() == codec.AcceptUnpaddedOnly {
		text = strings.TrimRight(text, string(codec.Pad))
	}

	inst, err := env.build(env.Base)
	if err != nil {
		return err
	}
	t := newTrial(DecodeEncodeRoundtrip, env.Base, generator.WellFormedInput(text, gen.MaxSize))

	decoded, err := inst.Decode(text)
	if err != nil {
		// Only strings the configuration accepts are in scope.
		return nil
	}
	reencoded := inst.Encode(decoded)
	final, err := inst.Decode(reencoded)
	if err != nil {
		return t.failf("re-encoded string %q does not decode: %v", reencoded, err)
	}
	if !bytes.Equal(decoded, final) {
		return t.failf("decode(encode(decode(s))) differs from decode(s) (-want +got):\n%s", diff(decoded, final))
	}

	again, err := inst.Decode(text)
	if err != nil {
		return t.failf("second decode of %q failed: %v", text, err)
	}
	if !bytes.Equal(again, final) {
		return t.failf("%q and re-encoded %q decode to different bytes (-original +reencoded):\n%s", text, reencoded, diff(again, final))
	}
	return nil
}

func checkCrossInstance(env Env, d driver.Driver) error {
	gen := generator.Zip[[]byte, codec.Config](generator.Bytes{MaxSize: env.bound(maxRawBytes)}, generator.Configs{})
	draw, ok := gen.Generate(d)
	if !ok {
		return ErrDiscarded
	}
	input, cfg := draw.First, draw.Second

	first, err := env.build(cfg)
	if err != nil {
		return err
	}
	second, err := env.build(cfg)
	if err != nil {
		return err
	}
	t := newTrial(CrossInstanceConsistency, cfg, generator.RawInput(input, env.bound(maxRawBytes)))

	out1 := first.Encode(input)
	out2 := second.Encode(input)
	if out1 != out2 {
		return t.failf("instances built from the same configuration disagree: %q vs %q", out1, out2)
	}

	decodes := []struct {
		who  string
		inst codec.Instance
		text string
	}{
		{"first instance on its own output", first, out1},
		{"second instance on its own output", second, out2},
		{"first instance on second's output", first, out2},
		{"second instance on first's output", second, out1},
	}
	for _, dec := range decodes {
		got, err := dec.inst.Decode(dec.text)
		if err != nil {
			return t.failf("%s %q failed: %v", dec.who, dec.text, err)
		}
		if !bytes.Equal(got, input) {
			return t.failf("%s %q changed the bytes (-want +got):\n%s", dec.who, dec.text, diff(input, got))
		}
	}
	return nil
}

func checkCustomAlphabet(env Env, d driver.Driver) error {
	gen := generator.Zip[[]byte, [codec.AlphabetSize]byte](generator.Bytes{MaxSize: env.bound(maxRawBytes)}, generator.CustomAlphabet{})
	draw, ok := gen.Generate(d)
	if !ok {
		return ErrDiscarded
	}
	input, table := draw.First, draw.Second

	cfg := env.Base.With(codec.CustomAlphabet(table), codec.Canonical)
	inst, err := env.build(cfg)
	if err != nil {
		return err
	}
	t := newTrial(CustomAlphabetRoundtrip, cfg,
		generator.RawInput(input, env.bound(maxRawBytes)),
		generator.AlphabetInput(table),
	)

	encoded, err := roundtrip(t, inst, input)
	if err != nil {
		return err
	}

	var member [256]bool
	for _, c := range table {
		member[c] = true
	}
	for i := 0; i < len(encoded); i++ {
		if c := encoded[i]; c != codec.Pad && !member[c] {
			return t.failf("encoded output %q has symbol %q at %d outside the custom alphabet", encoded, c, i)
		}
	}
	return nil
}

// expectedPads is the pad count an emitting policy appends, by len(input) % 3.
var expectedPads = [3]int{0, 2, 1}

func checkPaddingModes(env Env, d driver.Driver) error {
	gen := generator.Bytes{MaxSize: env.bound(maxRawBytes)}
	input, ok := gen.Generate(d)
	if !ok {
		return ErrDiscarded
	}
	raw := generator.RawInput(input, gen.MaxSize)
	alphabet := env.Base.Alphabet

	for _, policy := range codec.PaddingPolicies {
		cfg := env.Base.With(alphabet, policy)
		inst, err := env.build(cfg)
		if err != nil {
			return err
		}
		t := newTrial(PaddingModeRoundtrip, cfg, raw)

		encoded, err := roundtrip(t, inst, input)
		if err != nil {
			return err
		}

		want := 0
		if policy.Emit() {
			want = expectedPads[len(input)%3]
		}
		if got := strings.Count(encoded, string(codec.Pad)); got != want {
			return t.failf("%q has %d pad symbols for %d input bytes, want %d", encoded, got, len(input), want)
		}
	}

	padded, err := env.build(env.Base.With(alphabet, codec.Canonical))
	if err != nil {
		return err
	}
	unpadded, err := env.build(env.Base.With(alphabet, codec.NoPadding))
	if err != nil {
		return err
	}
	indifferentCfg := env.Base.With(alphabet, codec.Indifferent)
	indifferent, err := env.build(indifferentCfg)
	if err != nil {
		return err
	}
	t := newTrial(PaddingModeRoundtrip, indifferentCfg, raw)

	for _, text := range []string{padded.Encode(input), unpadded.Encode(input)} {
		got, err := indifferent.Decode(text)
		if err != nil {
			return t.failf("indifferent decoder rejected %q: %v", text, err)
		}
		if !bytes.Equal(got, input) {
			return t.failf("indifferent decoder changed %q (-want +got):\n%s", text, diff(input, got))
		}
	}
	return nil
}
