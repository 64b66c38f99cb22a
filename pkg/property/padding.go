package property

import (
	"bytes"

	"github.com/Beastly713/codecprop/pkg/codec"
	"github.com/Beastly713/codecprop/pkg/driver"
	"github.com/Beastly713/codecprop/pkg/generator"
)

const PaddingAcceptance = "padding-acceptance"

// checkPaddingAcceptance decodes the padded and the unpadded encoding of one
// input under every policy. A form the policy does not accept must be
// rejected, and an accepted form must decode to the input.
func checkPaddingAcceptance(env Env, d driver.Driver) error {
	gen := generator.Bytes{MaxSize: env.bound(maxRawBytes)}
	input, ok := gen.Generate(d)
	if !ok {
		return ErrDiscarded
	}
	raw := generator.RawInput(input, gen.MaxSize)
	alphabet := env.Base.Alphabet

	padded, err := env.build(env.Base.With(alphabet, codec.Canonical))
	if err != nil {
		return err
	}
	unpadded, err := env.build(env.Base.With(alphabet, codec.NoPadding))
	if err != nil {
		return err
	}
	forms := []string{padded.Encode(input), unpadded.Encode(input)}

	for _, policy := range codec.PaddingPolicies {
		cfg := env.Base.With(alphabet, policy)
		inst, err := env.build(cfg)
		if err != nil {
			return err
		}
		t := newTrial(PaddingAcceptance, cfg, raw)

		for _, text := range forms {
			decoded, err := inst.Decode(text)
			fault, reject := codec.Expect(cfg, text)
			switch {
			case reject && err == nil:
				v := t.failf("%q decoded although %s accepts %s", text, policy, policy.Accept()).(*Violation)
				v.Expected = &fault
				return v
			case reject:
			case err != nil:
				return t.failf("%q rejected although %s accepts %s: %v", text, policy, policy.Accept(), err)
			case !bytes.Equal(decoded, input):
				return t.failf("%q decoded to different bytes (-want +got):\n%s", text, diff(input, decoded))
			}
		}
	}
	return nil
}
