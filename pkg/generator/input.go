package generator

import (
	"encoding/hex"
	"fmt"
)

// Kind tags the shape of a generated input.
type Kind uint8

const (
	RawBytes Kind = iota
	WellFormedString
	MalformedString
	CustomAlphabetSymbols
)

func (k Kind) String() string {
	switch k {
	case RawBytes:
		return "raw-bytes"
	case WellFormedString:
		return "well-formed-string"
	case MalformedString:
		return "malformed-string"
	case CustomAlphabetSymbols:
		return "custom-alphabet"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	for _, candidate := range []Kind{RawBytes, WellFormedString, MalformedString, CustomAlphabetSymbols} {
		if candidate.String() == string(text) {
			*k = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown input kind %q", text)
}

// Input is one generated value as carried in a counterexample. Bytes is set
// for RawBytes, Text for every other kind. MaxSize is the bound the value was
// drawn under.
type Input struct {
	Kind    Kind
	Bytes   []byte
	Text    string
	MaxSize int
}

func RawInput(b []byte, maxSize int) Input {
	return Input{Kind: RawBytes, Bytes: b, MaxSize: maxSize}
}

func WellFormedInput(s string, maxSize int) Input {
	return Input{Kind: WellFormedString, Text: s, MaxSize: maxSize}
}

func MalformedInput(s string, maxSize int) Input {
	return Input{Kind: MalformedString, Text: s, MaxSize: maxSize}
}

func AlphabetInput(table [64]byte) Input {
	return Input{Kind: CustomAlphabetSymbols, Text: string(table[:]), MaxSize: len(table)}
}

// Value renders the payload: hex for raw bytes, the text otherwise.
func (i Input) Value() string {
	if i.Kind == RawBytes {
		return hex.EncodeToString(i.Bytes)
	}
	return i.Text
}

func (i Input) String() string {
	if i.Kind == RawBytes {
		return fmt.Sprintf("%s[%d]=%s", i.Kind, len(i.Bytes), i.Value())
	}
	return fmt.Sprintf("%s[%d]=%q", i.Kind, len(i.Text), i.Text)
}
