package generator

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Beastly713/codecprop/pkg/codec"
	"github.com/Beastly713/codecprop/pkg/driver"
)

func TestSmoke(t *testing.T) {
	stream := make([]byte, 64)
	for i := range stream {
		stream[i] = byte(i + 1)
	}

	b, ok := Bytes{MaxSize: 10}.Generate(driver.NewByteSlice(stream))
	require.True(t, ok)
	require.LessOrEqual(t, len(b), 10)

	s, ok := WellFormed{Alphabet: codec.StandardAlphabet, MaxSize: 8}.Generate(driver.NewByteSlice(stream))
	require.True(t, ok)
	require.LessOrEqual(t, len(s), 8)

	c, ok := Configs{}.Generate(driver.NewByteSlice(stream))
	require.True(t, ok)
	require.Equal(t, codec.GeneralPurpose, c.Engine)
}

func TestExhaustionIsNotAFailure(t *testing.T) {
	_, ok := Bytes{MaxSize: 100}.Generate(driver.NewByteSlice([]byte{50}))
	require.False(t, ok)

	_, ok = CustomAlphabet{}.Generate(driver.NewByteSlice(nil))
	require.False(t, ok)

	_, ok = Configs{}.Generate(driver.NewByteSlice([]byte{1}))
	require.False(t, ok)

	_, ok = Zip[[]byte, codec.Config](Bytes{MaxSize: 0}, Configs{}).Generate(driver.NewByteSlice(nil))
	require.False(t, ok)
}

func TestBytesBound(t *testing.T) {
	d := driver.NewSeeded(1)
	for i := 0; i < 500; i++ {
		b, ok := Bytes{MaxSize: 33}.Generate(d)
		require.True(t, ok)
		require.LessOrEqual(t, len(b), 33)
	}

	b, ok := Bytes{MaxSize: 0}.Generate(d)
	require.True(t, ok)
	require.Empty(t, b)
}

func TestWellFormedAlwaysDecodes(t *testing.T) {
	table, ok := CustomAlphabet{}.Generate(driver.NewSeeded(5))
	require.True(t, ok)

	alphabets := []codec.AlphabetSpec{codec.StandardAlphabet, codec.URLSafeAlphabet, codec.CustomAlphabet(table)}
	for _, alphabet := range alphabets {
		cfg := codec.Default().With(alphabet, codec.RequireCanonical)
		inst, err := codec.Build(cfg)
		require.NoError(t, err)

		gen := WellFormed{Alphabet: alphabet, MaxSize: 40}
		d := driver.NewSeeded(11)
		residuals := map[int]bool{}
		for i := 0; i < 2000; i++ {
			s, ok := gen.Generate(d)
			require.True(t, ok)
			require.Zero(t, len(s)%4, "%q is not a whole number of groups", s)
			require.LessOrEqual(t, len(strings.TrimRight(s, "=")), 40)

			fault, bad := codec.Expect(cfg, s)
			require.False(t, bad, "%q: %s", s, fault)

			_, err := inst.Decode(s)
			require.NoError(t, err, "%q under %s", s, alphabet)

			residuals[len(strings.TrimRight(s, "="))%4] = true
		}
		assert.Equal(t, map[int]bool{0: true, 2: true, 3: true}, residuals)
	}
}

func TestWellFormedTinyBound(t *testing.T) {
	d := driver.NewSeeded(3)
	for i := 0; i < 200; i++ {
		s, ok := WellFormed{Alphabet: codec.StandardAlphabet, MaxSize: 1}.Generate(d)
		require.True(t, ok)
		require.Empty(t, s)
	}
}

func TestNeverValidIsDisjoint(t *testing.T) {
	for _, c := range []byte(NeverValid) {
		assert.False(t, codec.StandardAlphabet.Contains(c), "%q in standard", c)
		assert.False(t, codec.URLSafeAlphabet.Contains(c), "%q in url-safe", c)
		assert.NotEqual(t, byte(codec.Pad), c)
		assert.True(t, c >= 0x21 && c <= 0x7e, "%q not printable", c)
	}
}

func TestMalformedSymbols(t *testing.T) {
	d := driver.NewSeeded(8)
	sawInvalid := false
	for i := 0; i < 500; i++ {
		s, ok := Malformed{MaxSize: 20}.Generate(d)
		require.True(t, ok)
		require.LessOrEqual(t, len(s), 20)
		for _, c := range []byte(s) {
			inStd := strings.IndexByte(codec.StandardSymbols, c) >= 0
			inBad := strings.IndexByte(NeverValid, c) >= 0
			require.True(t, inStd || inBad, "unexpected symbol %q", c)
			sawInvalid = sawInvalid || inBad
		}
	}
	require.True(t, sawInvalid)
}

func TestConfigsCoverEveryPolicy(t *testing.T) {
	d := driver.NewSeeded(21)
	policies := map[codec.PaddingPolicy]bool{}
	alphabets := map[codec.AlphabetKind]bool{}
	for i := 0; i < 500; i++ {
		c, ok := Configs{}.Generate(d)
		require.True(t, ok)
		require.NoError(t, c.Validate())
		require.Equal(t, 1000, c.Iterations)
		require.Equal(t, 1024, c.MaxInputSize)
		policies[c.Padding] = true
		alphabets[c.Alphabet.Kind()] = true
	}
	require.Len(t, policies, len(codec.PaddingPolicies))
	require.Equal(t, map[codec.AlphabetKind]bool{codec.Standard: true, codec.URLSafe: true}, alphabets)
}

func TestCustomAlphabetIsPermutation(t *testing.T) {
	d := driver.NewSeeded(13)
	want := []byte(codec.StandardSymbols)
	sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })

	distinct := map[string]bool{}
	for i := 0; i < 100; i++ {
		table, ok := CustomAlphabet{}.Generate(d)
		require.True(t, ok)
		require.NoError(t, codec.ValidateAlphabet(table[:]))

		got := append([]byte(nil), table[:]...)
		sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
		require.Equal(t, want, got)
		distinct[string(table[:])] = true
	}
	require.Greater(t, len(distinct), 90)
}

func TestReplayReproducesValues(t *testing.T) {
	gen := Zip[[]byte, codec.Config](Bytes{MaxSize: 64}, Configs{})

	rec := driver.NewRecorder(driver.NewSeeded(77))
	first, ok := gen.Generate(rec)
	require.True(t, ok)

	again, ok := gen.Generate(driver.NewByteSlice(rec.Stream()))
	require.True(t, ok)
	require.Equal(t, first, again)
}

func TestMap(t *testing.T) {
	gen := Map[[codec.AlphabetSize]byte, codec.AlphabetSpec](CustomAlphabet{}, codec.CustomAlphabet)
	spec, ok := gen.Generate(driver.NewSeeded(1))
	require.True(t, ok)
	require.Equal(t, codec.Custom, spec.Kind())
}

func TestInputRendering(t *testing.T) {
	in := RawInput([]byte{0xde, 0xad}, 10)
	require.Equal(t, "dead", in.Value())
	require.Equal(t, "raw-bytes[2]=dead", in.String())

	text := MalformedInput("A@", 5)
	require.Equal(t, "A@", text.Value())
	require.Equal(t, MalformedString, text.Kind)

	var k Kind
	require.NoError(t, k.UnmarshalText([]byte("custom-alphabet")))
	require.Equal(t, CustomAlphabetSymbols, k)
	require.Error(t, k.UnmarshalText([]byte("nope")))
}
