package codec

import (
	"fmt"
)

// ErrorKind classifies why a decode fails.
type ErrorKind uint8

const (
	InvalidSymbol ErrorKind = iota + 1
	InvalidLength
	InvalidTrailingSymbol
	InvalidPadding
	OutputBufferTooSmall
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidSymbol:
		return "invalid-symbol"
	case InvalidLength:
		return "invalid-length"
	case InvalidTrailingSymbol:
		return "invalid-trailing-symbol"
	case InvalidPadding:
		return "invalid-padding"
	case OutputBufferTooSmall:
		return "output-buffer-too-small"
	default:
		return fmt.Sprintf("ErrorKind(%d)", uint8(k))
	}
}

func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ErrorKind) UnmarshalText(text []byte) error {
	for candidate := InvalidSymbol; candidate <= OutputBufferTooSmall; candidate++ {
		if candidate.String() == string(text) {
			*k = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown error kind %q", text)
}

// Fault describes a decode failure. Only the fields relevant to Kind are set:
// Position and Symbol for InvalidSymbol, Position for InvalidTrailingSymbol and
// InvalidPadding, Length for InvalidLength, Required and Provided for
// OutputBufferTooSmall.
type Fault struct {
	Kind     ErrorKind `yaml:"kind"`
	Position int       `yaml:"position,omitempty"`
	Symbol   byte      `yaml:"symbol,omitempty"`
	Length   int       `yaml:"length,omitempty"`
	Required int       `yaml:"required,omitempty"`
	Provided int       `yaml:"provided,omitempty"`
}

func (f Fault) String() string {
	switch f.Kind {
	case InvalidSymbol:
		return fmt.Sprintf("invalid symbol %q at position %d", f.Symbol, f.Position)
	case InvalidLength:
		return fmt.Sprintf("invalid length %d", f.Length)
	case InvalidTrailingSymbol:
		return fmt.Sprintf("invalid trailing symbol at position %d", f.Position)
	case InvalidPadding:
		return fmt.Sprintf("invalid padding at position %d", f.Position)
	case OutputBufferTooSmall:
		return fmt.Sprintf("output buffer too small: need %d bytes, have %d", f.Required, f.Provided)
	default:
		return f.Kind.String()
	}
}

// DecodeError is returned by an Instance when decoding fails.
type DecodeError struct {
	Fault
	// Err is the underlying engine error, if any.
	Err error
}

func (e *DecodeError) Error() string {
	return "decode: " + e.Fault.String()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
