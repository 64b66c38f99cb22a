package property

import (
	"fmt"
)

var registry = []Property{
	{
		Name:        EncodeDecodeRoundtrip,
		Description: "decode(encode(b)) == b under the base configuration",
		Check:       checkEncodeDecode,
	},
	{
		Name:        DecodeEncodeRoundtrip,
		Description: "well-formed strings survive decode, encode, decode",
		Check:       checkDecodeEncode,
	},
	{
		Name:        CrossInstanceConsistency,
		Description: "two instances of one configuration agree and read each other",
		Check:       checkCrossInstance,
	},
	{
		Name:        CustomAlphabetRoundtrip,
		Description: "permuted alphabets roundtrip and stay inside the permutation",
		Check:       checkCustomAlphabet,
	},
	{
		Name:        PaddingModeRoundtrip,
		Description: "every padding policy roundtrips with the right pad count",
		Check:       checkPaddingModes,
	},
	{
		Name:        CharacterSetCompliance,
		Description: "encoded output is printable and inside the alphabet",
		Check:       checkCharacterSet,
	},
	{
		Name:        InvalidSymbolDetection,
		Description: "strings with foreign symbols never decode",
		Check:       checkInvalidSymbols,
	},
	{
		Name:        EncodedLengthAccuracy,
		Description: "EncodedLen matches the closed form and the real output",
		Check:       checkEncodedLength,
	},
	{
		Name:        DecodeIntoBounds,
		Description: "decoding into a buffer one byte short reports its size",
		Check:       checkDecodeInto,
	},
	{
		Name:        PaddingAcceptance,
		Description: "each policy rejects exactly the padding forms it does not accept",
		Check:       checkPaddingAcceptance,
	},
}

// All returns every property in a fixed order.
func All() []Property {
	out := make([]Property, len(registry))
	copy(out, registry)
	return out
}

// Names lists property names in registry order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, p := range registry {
		names = append(names, p.Name)
	}
	return names
}

func Lookup(name string) (Property, error) {
	for _, p := range registry {
		if p.Name == name {
			return p, nil
		}
	}
	return Property{}, fmt.Errorf("unknown property %q", name)
}

// Select resolves names, or returns All when none are given.
func Select(names ...string) ([]Property, error) {
	if len(names) == 0 {
		return All(), nil
	}
	out := make([]Property, 0, len(names))
	for _, name := range names {
		p, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
