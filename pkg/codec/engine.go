package codec

import (
	"encoding/base64"
	"errors"
	"strings"
)

// Instance is the narrow contract the harness drives a codec through.
type Instance interface {
	// Encode never fails; its output only uses the alphabet and the pad symbol.
	Encode(src []byte) string
	// Decode fails on foreign symbols, impossible lengths, set trailing bits
	// and padding the policy does not accept.
	Decode(text string) ([]byte, error)
	// EncodedLen is the exact length Encode produces for n input bytes.
	EncodedLen(n int) int
	// DecodeInto decodes text into dst and returns the number of bytes written.
	// It fails with OutputBufferTooSmall when dst cannot hold the result.
	DecodeInto(dst []byte, text string) (int, error)
}

var _ Instance = (*Engine)(nil)

// Engine is the general purpose codec: encoding/base64 adapted to the
// padding policy table. It owns its symbol table, independent of whatever
// produced the alphabet.
type Engine struct {
	alphabet AlphabetSpec
	padding  PaddingPolicy
	padded   *base64.Encoding
	raw      *base64.Encoding
}

func NewEngine(alphabet AlphabetSpec, padding PaddingPolicy) (*Engine, error) {
	symbols := alphabet.Symbols()
	if err := ValidateAlphabet(symbols[:]); err != nil {
		return nil, err
	}
	enc := base64.NewEncoding(string(symbols[:])).Strict()
	return &Engine{
		alphabet: alphabet,
		padding:  padding,
		padded:   enc,
		raw:      enc.WithPadding(base64.NoPadding),
	}, nil
}

func (g *Engine) Alphabet() AlphabetSpec {
	return g.alphabet
}

func (g *Engine) Padding() PaddingPolicy {
	return g.padding
}

func (g *Engine) Encode(src []byte) string {
	if g.padding.Emit() {
		return g.padded.EncodeToString(src)
	}
	return g.raw.EncodeToString(src)
}

func (g *Engine) EncodedLen(n int) int {
	if g.padding.Emit() {
		return g.padded.EncodedLen(n)
	}
	return g.raw.EncodedLen(n)
}

func (g *Engine) Decode(text string) ([]byte, error) {
	return g.decode(text)
}

func (g *Engine) DecodeInto(dst []byte, text string) (int, error) {
	out, err := g.decode(text)
	if err != nil {
		return 0, err
	}
	if len(dst) < len(out) {
		return 0, &DecodeError{Fault: Fault{
			Kind:     OutputBufferTooSmall,
			Required: len(out),
			Provided: len(dst),
		}}
	}
	return copy(dst, out), nil
}

func (g *Engine) decode(text string) ([]byte, error) {
	// encoding/base64 skips CR and LF; neither is part of any alphabet.
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		return nil, &DecodeError{Fault: Fault{Kind: InvalidSymbol, Position: i, Symbol: text[i]}}
	}

	padAt := strings.IndexByte(text, Pad)
	switch g.padding.Accept() {
	case AcceptUnpaddedOnly:
		if padAt >= 0 {
			return nil, &DecodeError{Fault: Fault{Kind: InvalidPadding, Position: padAt}}
		}
	case AcceptCanonicalOnly:
		if padAt < 0 && len(text)%4 != 0 {
			return nil, &DecodeError{Fault: Fault{Kind: InvalidPadding, Position: len(text)}}
		}
	}

	enc := g.raw
	if padAt >= 0 || len(text)%4 == 0 {
		enc = g.padded
	}
	buf := make([]byte, g.raw.DecodedLen(len(text)))
	n, err := enc.Decode(buf, []byte(text))
	if err != nil {
		return nil, g.translate(text, err)
	}
	return buf[:n], nil
}

// translate maps an encoding/base64 error onto the fault taxonomy.
func (g *Engine) translate(text string, err error) error {
	var corrupt base64.CorruptInputError
	if !errors.As(err, &corrupt) {
		return &DecodeError{Fault: Fault{Kind: InvalidLength, Length: len(text)}, Err: err}
	}

	off := int(corrupt)
	fault := Fault{Kind: InvalidLength, Length: len(text)}
	switch {
	case off >= len(text):
	case text[off] == Pad:
		fault = Fault{Kind: InvalidPadding, Position: off}
	case !g.alphabet.Contains(text[off]):
		fault = Fault{Kind: InvalidSymbol, Position: off, Symbol: text[off]}
	case len(strings.TrimRight(text, string(Pad)))%4 != 1:
		fault = Fault{Kind: InvalidTrailingSymbol, Position: off}
	}
	return &DecodeError{Fault: fault, Err: err}
}
