package property

import (
	"bytes"

	"github.com/Beastly713/codecprop/pkg/codec"
	"github.com/Beastly713/codecprop/pkg/driver"
	"github.com/Beastly713/codecprop/pkg/generator"
)

const (
	CharacterSetCompliance = "character-set-compliance"
	InvalidSymbolDetection = "invalid-symbol-detection"

	maxMalformed = 100
)

// printable is the 7-bit range an encoded string may use.
func printable(c byte) bool {
	return c >= 0x21 && c <= 0x7e
}

// checkCharset verifies that every non-pad symbol of encoded belongs to the
// configuration's alphabet and that the whole string is printable 7-bit text.
func checkCharset(t *trial, cfg codec.Config, encoded string) error {
	for i := 0; i < len(encoded); i++ {
		c := encoded[i]
		if !printable(c) {
			return t.failf("encoded output %q has non-printable byte 0x%02x at %d", encoded, c, i)
		}
		if c != codec.Pad && !cfg.Alphabet.Contains(c) {
			return t.failf("encoded output %q has symbol %q at %d outside the %s alphabet", encoded, c, i, cfg.Alphabet)
		}
	}
	return nil
}

func checkCharacterSet(env Env, d driver.Driver) error {
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
	t := newTrial(CharacterSetCompliance, cfg, generator.RawInput(input, env.bound(maxRawBytes)))

	if err := checkCharset(t, cfg, inst.Encode(input)); err != nil {
		return err
	}
	_, err = roundtrip(t, inst, input)
	return err
}

// firstForeign scans text against the alphabet plus pad, independent of any
// codec instance.
func firstForeign(alphabet codec.AlphabetSpec, text string) int {
	var allowed [256]bool
	allowed[codec.Pad] = true
	for _, c := range alphabet.Symbols() {
		allowed[c] = true
	}
	for i := 0; i < len(text); i++ {
		if !allowed[text[i]] {
			return i
		}
	}
	return -1
}

func checkInvalidSymbols(env Env, d driver.Driver) error {
	gen := generator.Zip[string, codec.Config](generator.Malformed{MaxSize: env.bound(maxMalformed)}, generator.Configs{})
	draw, ok := gen.Generate(d)
	if !ok {
		return ErrDiscarded
	}
	text, cfg := draw.First, draw.Second

	inst, err := env.build(cfg)
	if err != nil {
		return err
	}
	t := newTrial(InvalidSymbolDetection, cfg, generator.MalformedInput(text, env.bound(maxMalformed)))

	decoded, err := inst.Decode(text)
	if at := firstForeign(cfg.Alphabet, text); at >= 0 {
		if err == nil {
			v := t.failf("decoded %q to %d bytes despite foreign symbol %q at %d", text, len(decoded), text[at], at).(*Violation)
			if fault, ok := codec.Expect(cfg, text); ok {
				v.Expected = &fault
			}
			return v
		}
		return nil
	}
	if err != nil {
		// Structural failures (length, padding) are out of scope here.
		return nil
	}

	reencoded := inst.Encode(decoded)
	if err := checkCharset(t, cfg, reencoded); err != nil {
		return err
	}
	again, err := inst.Decode(reencoded)
	if err != nil {
		return t.failf("re-encoded string %q does not decode: %v", reencoded, err)
	}
	if !bytes.Equal(again, decoded) {
		return t.failf("re-encoding %q changed the bytes (-want +got):\n%s", text, diff(decoded, again))
	}
	return nil
}
