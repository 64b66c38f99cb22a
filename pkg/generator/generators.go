package generator

import (
	"strings"

	"github.com/Beastly713/codecprop/pkg/codec"
	"github.com/Beastly713/codecprop/pkg/driver"
)

// NeverValid holds printable punctuation outside every supported alphabet
// and distinct from the pad symbol.
const NeverValid = "!@#$%^&*()[]{}|\\:;\"'<>?,.~`"

// Bytes draws a size in [0, MaxSize] and then that many independent bytes.
type Bytes struct {
	MaxSize int
}

func (g Bytes) Generate(d driver.Driver) ([]byte, bool) {
	size, ok := driver.IntRange(d, 0, g.MaxSize)
	if !ok {
		return nil, false
	}
	return driver.Bytes(d, size)
}

// WellFormed draws strings that a codec with the same alphabet and canonical
// padding always accepts. Lengths are 4k, 4k+2 or 4k+3 symbols before
// padding, and the last symbol of a partial group carries no bits past the
// final byte.
type WellFormed struct {
	Alphabet codec.AlphabetSpec
	MaxSize  int
}

var residuals = [...]int{0, 2, 3}

func (g WellFormed) Generate(d driver.Driver) (string, bool) {
	groups, ok := driver.IntRange(d, 0, g.MaxSize/4)
	if !ok {
		return "", false
	}
	i, ok := driver.Intn(d, len(residuals))
	if !ok {
		return "", false
	}
	residual := residuals[i]
	if 4*groups+residual > g.MaxSize {
		residual = 0
	}

	symbols := g.Alphabet.Symbols()
	var sb strings.Builder
	sb.Grow(4*groups + 4)
	free := 4 * groups
	if residual > 0 {
		free += residual - 1
	}
	for n := 0; n < free; n++ {
		k, ok := driver.Intn(d, codec.AlphabetSize)
		if !ok {
			return "", false
		}
		sb.WriteByte(symbols[k])
	}

	switch residual {
	case 2:
		// 12 bits carry one byte: the low 4 bits of the last symbol are zero.
		k, ok := driver.Intn(d, 4)
		if !ok {
			return "", false
		}
		sb.WriteByte(symbols[k<<4])
		sb.WriteString("==")
	case 3:
		// 18 bits carry two bytes: the low 2 bits of the last symbol are zero.
		k, ok := driver.Intn(d, 16)
		if !ok {
			return "", false
		}
		sb.WriteByte(symbols[k<<2])
		sb.WriteByte(codec.Pad)
	}
	return sb.String(), true
}

// Malformed draws strings biased toward invalid symbols: each position is
// corrupted with probability one half. The result is not guaranteed to be
// invalid; consumers must check for themselves.
type Malformed struct {
	MaxSize int
}

func (g Malformed) Generate(d driver.Driver) (string, bool) {
	size, ok := driver.IntRange(d, 0, g.MaxSize)
	if !ok {
		return "", false
	}
	buf := make([]byte, size)
	for i := range buf {
		corrupt, ok := driver.Bool(d)
		if !ok {
			return "", false
		}
		set := codec.StandardSymbols
		if corrupt {
			set = NeverValid
		}
		k, ok := driver.Intn(d, len(set))
		if !ok {
			return "", false
		}
		buf[i] = set[k]
	}
	return string(buf), true
}

const (
	generatedIterations   = 1000
	generatedMaxInputSize = 1024
)

// Configs draws a well-known alphabet and one of the five padding policies.
// Custom alphabets come from CustomAlphabet instead.
type Configs struct{}

func (Configs) Generate(d driver.Driver) (codec.Config, bool) {
	a, ok := driver.Intn(d, 2)
	if !ok {
		return codec.Config{}, false
	}
	p, ok := driver.Intn(d, len(codec.PaddingPolicies))
	if !ok {
		return codec.Config{}, false
	}
	alphabet := codec.StandardAlphabet
	if a == 1 {
		alphabet = codec.URLSafeAlphabet
	}
	return codec.Config{
		Alphabet:     alphabet,
		Padding:      codec.PaddingPolicies[p],
		Engine:       codec.GeneralPurpose,
		Iterations:   generatedIterations,
		MaxInputSize: generatedMaxInputSize,
	}, true
}

// CustomAlphabet shuffles the standard symbols with Fisher-Yates. The result
// is always a permutation: no duplicates, no omissions, no foreign symbols.
type CustomAlphabet struct{}

func (CustomAlphabet) Generate(d driver.Driver) ([codec.AlphabetSize]byte, bool) {
	var table [codec.AlphabetSize]byte
	copy(table[:], codec.StandardSymbols)
	for i := len(table) - 1; i > 0; i-- {
		j, ok := driver.Intn(d, i+1)
		if !ok {
			return table, false
		}
		table[i], table[j] = table[j], table[i]
	}
	return table, true
}
