package codec

import (
	"fmt"
)

// PaddingPolicy governs whether encoding emits pad symbols and which padding
// forms decoding accepts.
type PaddingPolicy uint8

const (
	// Canonical emits padding and accepts padded or unpadded input.
	Canonical PaddingPolicy = iota
	// NoPadding never emits padding and accepts only unpadded input.
	NoPadding
	// Indifferent emits padding and accepts either form.
	Indifferent
	// RequireCanonical emits padding and rejects unpadded input.
	RequireCanonical
	// RequireNone never emits padding and rejects padded input.
	RequireNone
)

// PaddingPolicies lists every policy in declaration order.
var PaddingPolicies = []PaddingPolicy{Canonical, NoPadding, Indifferent, RequireCanonical, RequireNone}

// Acceptance is the set of padding forms a decoder accepts.
type Acceptance uint8

const (
	AcceptEither Acceptance = iota
	AcceptCanonicalOnly
	AcceptUnpaddedOnly
)

func (a Acceptance) String() string {
	switch a {
	case AcceptEither:
		return "either"
	case AcceptCanonicalOnly:
		return "canonical-only"
	case AcceptUnpaddedOnly:
		return "unpadded-only"
	default:
		return fmt.Sprintf("Acceptance(%d)", uint8(a))
	}
}

// Emit reports whether encoding appends pad symbols.
func (p PaddingPolicy) Emit() bool {
	switch p {
	case Canonical, Indifferent, RequireCanonical:
		return true
	default:
		return false
	}
}

// Accept reports which padding forms decoding accepts.
func (p PaddingPolicy) Accept() Acceptance {
	switch p {
	case RequireCanonical:
		return AcceptCanonicalOnly
	case NoPadding, RequireNone:
		return AcceptUnpaddedOnly
	default:
		return AcceptEither
	}
}

var paddingNames = map[PaddingPolicy]string{
	Canonical:        "canonical",
	NoPadding:        "none",
	Indifferent:      "indifferent",
	RequireCanonical: "require-canonical",
	RequireNone:      "require-none",
}

func (p PaddingPolicy) String() string {
	if name, ok := paddingNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PaddingPolicy(%d)", uint8(p))
}

func (p PaddingPolicy) MarshalText() ([]byte, error) {
	if _, ok := paddingNames[p]; !ok {
		return nil, fmt.Errorf("unknown padding policy %d", uint8(p))
	}
	return []byte(p.String()), nil
}

func (p *PaddingPolicy) UnmarshalText(text []byte) error {
	for policy, name := range paddingNames {
		if name == string(text) {
			*p = policy
			return nil
		}
	}
	return fmt.Errorf("unknown padding policy %q", text)
}

// EngineKind selects the codec implementation. Only the general purpose
// engine exists today.
type EngineKind uint8

const (
	GeneralPurpose EngineKind = iota
)

func (e EngineKind) String() string {
	if e == GeneralPurpose {
		return "general-purpose"
	}
	return fmt.Sprintf("EngineKind(%d)", uint8(e))
}

func (e EngineKind) MarshalText() ([]byte, error) {
	if e != GeneralPurpose {
		return nil, fmt.Errorf("unknown engine kind %d", uint8(e))
	}
	return []byte(e.String()), nil
}

func (e *EngineKind) UnmarshalText(text []byte) error {
	if string(text) != GeneralPurpose.String() {
		return fmt.Errorf("unknown engine kind %q", text)
	}
	*e = GeneralPurpose
	return nil
}
