package runner

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Beastly713/codecprop/pkg/codec"
	"github.com/Beastly713/codecprop/pkg/driver"
	"github.com/Beastly713/codecprop/pkg/generator"
	"github.com/Beastly713/codecprop/pkg/property"
)

func smallBase(iterations int) codec.Config {
	c := codec.Default()
	c.Iterations = iterations
	return c
}

func passing() property.Property {
	return property.Property{
		Name: "always-holds",
		Check: func(_ property.Env, d driver.Driver) error {
			if _, ok := driver.Uint8(d); !ok {
				return property.ErrDiscarded
			}
			return nil
		},
	}
}

// lowByte fails whenever its first drawn byte is below 16.
func lowByte() property.Property {
	return property.Property{
		Name: "low-byte",
		Check: func(env property.Env, d driver.Driver) error {
			b, ok := driver.Bytes(d, 2)
			if !ok {
				return property.ErrDiscarded
			}
			if b[0] < 16 {
				return &property.Violation{
					Property: "low-byte",
					Config:   env.Base,
					Inputs:   []generator.Input{generator.RawInput(b, 2)},
					Reason:   "first byte too low",
				}
			}
			return nil
		},
	}
}

func TestRunPasses(t *testing.T) {
	r, err := New(smallBase(50), WithLogger(zaptest.NewLogger(t)), WithSeed(9))
	require.NoError(t, err)

	res, err := r.Run(passing())
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, Succeeded, res.State)
	require.Equal(t, 50, res.Iterations)
	require.Zero(t, res.Discarded)
	require.Nil(t, res.Counterexample)
	require.Equal(t, uint64(9), res.Seed)
}

func TestRunRecordsReplayableCounterexample(t *testing.T) {
	r, err := New(smallBase(1000), WithSeed(1))
	require.NoError(t, err)

	res, err := r.Run(lowByte())
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Equal(t, Failed, res.State)
	require.NotNil(t, res.Counterexample)
	require.Len(t, res.Counterexample.Stream, 2)
	require.Less(t, res.Counterexample.Stream[0], byte(16))
	require.Equal(t, res.Counterexample.Iteration+1, res.Iterations)

	replayed, err := r.Replay(lowByte(), res.Counterexample.Stream)
	require.NoError(t, err)
	require.False(t, replayed.Success)
	require.Equal(t, res.Counterexample.Violation.Error(), replayed.Counterexample.Violation.Error())
}

func TestRunIsDeterministic(t *testing.T) {
	first, err := New(smallBase(1000), WithSeed(77))
	require.NoError(t, err)
	second, err := New(smallBase(1000), WithSeed(77))
	require.NoError(t, err)

	a, err := first.Run(lowByte())
	require.NoError(t, err)
	b, err := second.Run(lowByte())
	require.NoError(t, err)
	require.Equal(t, a.Counterexample.Stream, b.Counterexample.Stream)
	require.Equal(t, a.Iterations, b.Iterations)
}

func TestReplayPassingAndShortStreams(t *testing.T) {
	r, err := New(smallBase(10))
	require.NoError(t, err)

	res, err := r.Replay(lowByte(), []byte{200, 0})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, 1, res.Iterations)

	res, err = r.Replay(lowByte(), []byte{1})
	require.ErrorIs(t, err, property.ErrDiscarded)
	require.False(t, res.Success)
	require.Equal(t, 1, res.Discarded)
}

func TestDiscardsDoNotCountAndEventuallyGiveUp(t *testing.T) {
	calls := 0
	flaky := property.Property{
		Name: "every-other",
		Check: func(property.Env, driver.Driver) error {
			calls++
			if calls%2 == 0 {
				return property.ErrDiscarded
			}
			return nil
		},
	}
	r, err := New(smallBase(10))
	require.NoError(t, err)
	res, err := r.Run(flaky)
	require.NoError(t, err)
	require.Equal(t, 10, res.Iterations)
	require.Equal(t, 9, res.Discarded)

	dry := property.Property{
		Name:  "dry",
		Check: func(property.Env, driver.Driver) error { return property.ErrDiscarded },
	}
	res, err = r.Run(dry)
	require.ErrorIs(t, err, ErrTooManyDiscards)
	require.Equal(t, Failed, res.State)
	require.Zero(t, res.Iterations)
}

func TestBudgetExhaustionDiscards(t *testing.T) {
	r, err := New(smallBase(5), WithBudget(1))
	require.NoError(t, err)

	_, err = r.Run(lowByte())
	require.ErrorIs(t, err, ErrTooManyDiscards)
}

func TestFatalErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	fatal := property.Property{
		Name:  "fatal",
		Check: func(property.Env, driver.Driver) error { return boom },
	}

	core, logs := observer.New(zapcore.InfoLevel)
	r, err := New(smallBase(10), WithLogger(zap.New(core)))
	require.NoError(t, err)

	res, err := r.Run(fatal)
	require.ErrorIs(t, err, boom)
	require.Equal(t, Failed, res.State)
	require.Nil(t, res.Counterexample)
	require.Equal(t, 1, logs.FilterMessage("property aborted").Len())
}

func TestFactoryRejectionIsFatalNotAViolation(t *testing.T) {
	r, err := New(smallBase(10), WithFactory(func(codec.Config) (codec.Instance, error) {
		return nil, codec.ErrInvalidAlphabet
	}))
	require.NoError(t, err)

	p, err := property.Lookup(property.CustomAlphabetRoundtrip)
	require.NoError(t, err)
	res, err := r.Run(p)
	require.ErrorIs(t, err, codec.ErrInvalidAlphabet)
	require.Nil(t, res.Counterexample)
}

func TestRealPropertiesPass(t *testing.T) {
	r, err := New(smallBase(25), WithSeed(3))
	require.NoError(t, err)

	results, err := r.RunAll(property.All())
	require.NoError(t, err)
	require.Len(t, results, len(property.Names()))
	require.True(t, Passed(results))
}

func TestRunAllContinuesPastViolations(t *testing.T) {
	r, err := New(smallBase(1000))
	require.NoError(t, err)

	results, err := r.RunAll([]property.Property{lowByte(), passing()})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.False(t, results[0].Success)
	require.True(t, results[1].Success)
	require.False(t, Passed(results))

	fatal := property.Property{
		Name:  "fatal",
		Check: func(property.Env, driver.Driver) error { return errors.New("broken harness") },
	}
	results, err = r.RunAll([]property.Property{passing(), fatal, passing()})
	require.Error(t, err)
	require.Len(t, results, 2)
}

func TestRunFunc(t *testing.T) {
	tick := time.Unix(0, 0)
	clock := func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	r, err := New(smallBase(1), WithClock(clock))
	require.NoError(t, err)

	res := r.RunFunc("adhoc", func() bool { return true })
	require.True(t, res.Success)
	require.Equal(t, Succeeded, res.State)
	require.Equal(t, time.Second, res.Elapsed)

	res = r.RunFunc("adhoc", func() bool { return false })
	require.Equal(t, Failed, res.State)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := New(smallBase(1000), WithRegisterer(reg))
	require.NoError(t, err)

	_, err = r.Run(passing())
	require.NoError(t, err)
	_, err = r.Run(lowByte())
	require.NoError(t, err)

	assert.Equal(t, 1000.0, testutil.ToFloat64(r.metrics.iterations.WithLabelValues("always-holds")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.metrics.failures.WithLabelValues("always-holds")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.metrics.failures.WithLabelValues("low-byte")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.metrics.duration))

	_, err = New(smallBase(20), WithRegisterer(reg))
	require.Error(t, err, "registering twice must fail")
}

var sink []byte

func TestMemoryTracking(t *testing.T) {
	hungry := property.Property{
		Name: "hungry",
		Check: func(property.Env, driver.Driver) error {
			sink = make([]byte, 1<<16)
			return nil
		},
	}
	r, err := New(smallBase(10), WithMemoryTracking(true))
	require.NoError(t, err)
	res, err := r.Run(hungry)
	require.NoError(t, err)
	require.NotZero(t, res.MemoryBytes)
}

func TestNewRejectsInvalidBase(t *testing.T) {
	_, err := New(smallBase(0))
	require.Error(t, err)
}

func TestStateText(t *testing.T) {
	for _, s := range []State{Idle, Running, Succeeded, Failed} {
		text, err := s.MarshalText()
		require.NoError(t, err)
		var got State
		require.NoError(t, got.UnmarshalText(text))
		require.Equal(t, s, got)
	}
	require.True(t, Failed.Terminal())
	require.False(t, Running.Terminal())
}
