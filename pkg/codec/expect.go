package codec

import (
	"strings"
)

// Expect deduces, without consulting any engine, why text must fail to decode
// under c. It reports false when text is well formed for c.
//
// The result documents intent only; callers must not require the engine to
// report the same ErrorKind.
func Expect(c Config, text string) (Fault, bool) {
	for i := 0; i < len(text); i++ {
		if ch := text[i]; ch != Pad && !c.Alphabet.Contains(ch) {
			return Fault{Kind: InvalidSymbol, Position: i, Symbol: ch}, true
		}
	}

	accept := c.Padding.Accept()
	body := text
	if padAt := strings.IndexByte(text, Pad); padAt >= 0 {
		if accept == AcceptUnpaddedOnly {
			return Fault{Kind: InvalidPadding, Position: padAt}, true
		}
		body = text[:padAt]
		pads := text[padAt:]
		if i := strings.IndexFunc(pads, func(r rune) bool { return r != Pad }); i >= 0 {
			return Fault{Kind: InvalidPadding, Position: padAt}, true
		}
		if len(text)%4 != 0 || len(pads) > 2 || len(body)%4+len(pads) != 4 {
			return Fault{Kind: InvalidPadding, Position: padAt}, true
		}
	} else {
		if len(text)%4 == 1 {
			return Fault{Kind: InvalidLength, Length: len(text)}, true
		}
		if len(text)%4 != 0 && accept == AcceptCanonicalOnly {
			return Fault{Kind: InvalidPadding, Position: len(text)}, true
		}
	}

	// The last symbol of a partial group must not carry bits past the final byte.
	var mask int
	switch len(body) % 4 {
	case 1:
		return Fault{Kind: InvalidLength, Length: len(text)}, true
	case 2:
		mask = 0x0f
	case 3:
		mask = 0x03
	default:
		return Fault{}, false
	}
	last := len(body) - 1
	if c.Alphabet.Index(body[last])&mask != 0 {
		return Fault{Kind: InvalidTrailingSymbol, Position: last}, true
	}
	return Fault{}, false
}
