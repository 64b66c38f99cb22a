package codec

import (
	"fmt"
)

const (
	DefaultIterations   = 1000
	DefaultMaxInputSize = 1024 * 1024
)

// Config binds an alphabet, a padding policy and an engine together with the
// budgets a property run may spend. Config is a value type; copies are cheap
// and independent.
type Config struct {
	Alphabet     AlphabetSpec  `yaml:"alphabet"`
	Padding      PaddingPolicy `yaml:"padding"`
	Engine       EngineKind    `yaml:"engine"`
	Iterations   int           `yaml:"iterations"`
	MaxInputSize int           `yaml:"maxInputSize"`
}

// Default returns the standard alphabet with canonical padding.
func Default() Config {
	return Config{
		Alphabet:     StandardAlphabet,
		Padding:      Canonical,
		Engine:       GeneralPurpose,
		Iterations:   DefaultIterations,
		MaxInputSize: DefaultMaxInputSize,
	}
}

// With returns a copy of c using the given alphabet and padding policy.
func (c Config) With(alphabet AlphabetSpec, padding PaddingPolicy) Config {
	c.Alphabet = alphabet
	c.Padding = padding
	return c
}

// Validate checks the budgets and, for custom alphabets, the symbol table.
func (c Config) Validate() error {
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be positive, got %d", c.Iterations)
	}
	if c.MaxInputSize < 0 {
		return fmt.Errorf("max input size must not be negative, got %d", c.MaxInputSize)
	}
	if c.Engine != GeneralPurpose {
		return fmt.Errorf("unsupported engine %s", c.Engine)
	}
	if _, ok := paddingNames[c.Padding]; !ok {
		return fmt.Errorf("unsupported padding policy %s", c.Padding)
	}
	if c.Alphabet.Kind() == Custom {
		symbols := c.Alphabet.Symbols()
		if err := ValidateAlphabet(symbols[:]); err != nil {
			return err
		}
	}
	return nil
}

func (c Config) String() string {
	return fmt.Sprintf("%s/%s/%s", c.Alphabet, c.Padding, c.Engine)
}

// Factory turns a configuration into a live codec instance.
type Factory func(Config) (Instance, error)

// Build is the default Factory. Two calls with equal alphabet, padding and
// engine return observationally identical instances.
func Build(c Config) (Instance, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("building %s codec: %w", c.Alphabet.Kind(), err)
	}
	switch c.Engine {
	case GeneralPurpose:
		return NewEngine(c.Alphabet, c.Padding)
	default:
		return nil, fmt.Errorf("unsupported engine %s", c.Engine)
	}
}
