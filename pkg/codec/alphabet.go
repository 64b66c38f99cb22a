package codec

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// StandardSymbols is the RFC 4648 standard alphabet.
	StandardSymbols = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

	// URLSafeSymbols is the RFC 4648 URL and filename safe alphabet.
	URLSafeSymbols = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

	// Pad is the padding symbol shared by every configuration.
	Pad = '='

	// AlphabetSize is the number of symbols in every alphabet.
	AlphabetSize = 64

	customPrefix = "custom:"
)

// ErrInvalidAlphabet is returned when a custom alphabet is not 64 distinct
// printable symbols. Hitting it during a property run means a generator is
// broken, not the codec.
var ErrInvalidAlphabet = errors.New("invalid custom alphabet")

type AlphabetKind uint8

const (
	Standard AlphabetKind = iota
	URLSafe
	Custom
)

func (k AlphabetKind) String() string {
	switch k {
	case Standard:
		return "standard"
	case URLSafe:
		return "url-safe"
	case Custom:
		return "custom"
	default:
		return fmt.Sprintf("AlphabetKind(%d)", uint8(k))
	}
}

// AlphabetSpec selects the 64 symbols a codec instance encodes to.
// The zero value is the standard alphabet. A custom spec owns a copy of its
// symbols, so it can outlive the generator that produced it.
type AlphabetSpec struct {
	kind    AlphabetKind
	symbols [AlphabetSize]byte
}

var (
	StandardAlphabet = AlphabetSpec{kind: Standard}
	URLSafeAlphabet  = AlphabetSpec{kind: URLSafe}
)

// CustomAlphabet wraps an ordered symbol table. It is not validated here;
// Build rejects malformed tables.
func CustomAlphabet(symbols [AlphabetSize]byte) AlphabetSpec {
	return AlphabetSpec{kind: Custom, symbols: symbols}
}

func (a AlphabetSpec) Kind() AlphabetKind {
	return a.kind
}

// Symbols resolves the spec to its ordered symbol table.
func (a AlphabetSpec) Symbols() [AlphabetSize]byte {
	var out [AlphabetSize]byte
	switch a.kind {
	case Standard:
		copy(out[:], StandardSymbols)
	case URLSafe:
		copy(out[:], URLSafeSymbols)
	default:
		out = a.symbols
	}
	return out
}

// Contains reports whether c is one of the 64 alphabet symbols. The pad
// symbol is not part of any alphabet.
func (a AlphabetSpec) Contains(c byte) bool {
	switch a.kind {
	case Standard:
		return strings.IndexByte(StandardSymbols, c) >= 0
	case URLSafe:
		return strings.IndexByte(URLSafeSymbols, c) >= 0
	default:
		for _, s := range a.symbols {
			if s == c {
				return true
			}
		}
		return false
	}
}

// Index returns the 6-bit value of c, or -1.
func (a AlphabetSpec) Index(c byte) int {
	symbols := a.Symbols()
	for i, s := range symbols {
		if s == c {
			return i
		}
	}
	return -1
}

func (a AlphabetSpec) String() string {
	if a.kind == Custom {
		return customPrefix + string(a.symbols[:])
	}
	return a.kind.String()
}

func (a AlphabetSpec) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *AlphabetSpec) UnmarshalText(text []byte) error {
	s := string(text)
	switch {
	case s == Standard.String():
		*a = StandardAlphabet
	case s == URLSafe.String():
		*a = URLSafeAlphabet
	case strings.HasPrefix(s, customPrefix):
		rest := s[len(customPrefix):]
		if len(rest) != AlphabetSize {
			return fmt.Errorf("%w: %d symbols, want %d", ErrInvalidAlphabet, len(rest), AlphabetSize)
		}
		var symbols [AlphabetSize]byte
		copy(symbols[:], rest)
		*a = CustomAlphabet(symbols)
	default:
		return fmt.Errorf("unknown alphabet %q", s)
	}
	return nil
}

// ValidateAlphabet checks that symbols are 64 distinct printable 7-bit
// characters, none of which is the pad symbol.
func ValidateAlphabet(symbols []byte) error {
	if len(symbols) != AlphabetSize {
		return fmt.Errorf("%w: %d symbols, want %d", ErrInvalidAlphabet, len(symbols), AlphabetSize)
	}
	var seen [256]bool
	for i, c := range symbols {
		switch {
		case c < 0x21 || c > 0x7e:
			return fmt.Errorf("%w: non-printable symbol 0x%02x at index %d", ErrInvalidAlphabet, c, i)
		case c == Pad:
			return fmt.Errorf("%w: pad symbol %q at index %d", ErrInvalidAlphabet, Pad, i)
		case seen[c]:
			return fmt.Errorf("%w: duplicate symbol %q at index %d", ErrInvalidAlphabet, c, i)
		}
		seen[c] = true
	}
	return nil
}
