// Package runner executes properties one at a time, times them and records
// the first counterexample together with the byte stream that replays it.
package runner

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Beastly713/codecprop/pkg/codec"
	"github.com/Beastly713/codecprop/pkg/driver"
	"github.com/Beastly713/codecprop/pkg/property"
)

// MaxDiscardRatio bounds how many exhausted draws a run tolerates per
// requested iteration before it gives up.
const MaxDiscardRatio = 5

var ErrTooManyDiscards = errors.New("too many discarded draws")

type Option func(*Runner)

func WithLogger(log *zap.Logger) Option {
	return func(r *Runner) { r.log = log }
}

func WithSeed(seed uint64) Option {
	return func(r *Runner) { r.seed = seed }
}

// WithBudget caps the bytes each draw may consume; driver.Unlimited disables it.
func WithBudget(budget int) Option {
	return func(r *Runner) { r.budget = budget }
}

func WithFactory(f codec.Factory) Option {
	return func(r *Runner) { r.factory = f }
}

func WithMemoryTracking(on bool) Option {
	return func(r *Runner) { r.trackMemory = on }
}

func WithRegisterer(reg prometheus.Registerer) Option {
	return func(r *Runner) { r.registerer = reg }
}

func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// Runner is not safe for concurrent use; properties run strictly in sequence.
type Runner struct {
	base        codec.Config
	factory     codec.Factory
	seed        uint64
	budget      int
	trackMemory bool
	log         *zap.Logger
	registerer  prometheus.Registerer
	metrics     *Metrics
	now         func() time.Time
}

func New(base codec.Config, opts ...Option) (*Runner, error) {
	if err := base.Validate(); err != nil {
		return nil, fmt.Errorf("invalid base configuration: %w", err)
	}
	r := &Runner{
		base:    base,
		factory: codec.Build,
		budget:  driver.Unlimited,
		log:     zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.registerer != nil {
		m, err := NewMetrics(r.registerer)
		if err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		r.metrics = m
	}
	return r, nil
}

func (r *Runner) Base() codec.Config {
	return r.base
}

func (r *Runner) env() property.Env {
	return property.Env{Base: r.base, Build: r.factory}
}

func (r *Runner) source(i int) driver.Driver {
	return driver.NewSeededWithBudget(r.seed+uint64(i), r.budget)
}

// run holds the bookkeeping shared by Run, Replay and RunFunc.
type run struct {
	r      *Runner
	res    *Result
	log    *zap.Logger
	start  time.Time
	allocs uint64
}

func (r *Runner) begin(name string) *run {
	res := &Result{Property: name, Config: r.base, Seed: r.seed, State: Idle}
	log := r.log.With(zap.String("property", name))

	res.State = Running
	ru := &run{r: r, res: res, log: log, start: r.now()}
	if r.trackMemory {
		ru.allocs = totalAlloc()
	}
	return ru
}

func (ru *run) finish(success bool) *Result {
	res := ru.res
	res.Elapsed = ru.r.now().Sub(ru.start)
	if ru.r.trackMemory {
		res.MemoryBytes = totalAlloc() - ru.allocs
	}
	res.Success = success
	res.State = Failed
	if success {
		res.State = Succeeded
	}
	if ru.r.metrics != nil {
		ru.r.metrics.observe(res)
	}
	return res
}

func totalAlloc() uint64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return stats.TotalAlloc
}

// Run checks p for the base configuration's iteration budget. Iteration i
// draws from a PRNG seeded with seed+i, recorded so a counterexample can be
// replayed byte for byte.
//
// A violation ends the run with a failed Result and a nil error. Any other
// error from the property aborts the run and is returned alongside the failed
// Result.
func (r *Runner) Run(p property.Property) (*Result, error) {
	ru := r.begin(p.Name)
	res := ru.res
	env := r.env()
	ru.log.Info("property started",
		zap.Int("iterations", r.base.Iterations),
		zap.Uint64("seed", r.seed),
	)

	for i := 0; res.Iterations < r.base.Iterations; i++ {
		rec := driver.NewRecorder(r.source(i))
		err := p.Check(env, rec)

		var v *property.Violation
		switch {
		case err == nil:
			res.Iterations++
		case errors.Is(err, property.ErrDiscarded):
			res.Discarded++
			if res.Discarded > MaxDiscardRatio*r.base.Iterations {
				ru.finish(false)
				ru.log.Error("property gave up", zap.Int("discarded", res.Discarded))
				return res, fmt.Errorf("property %s after %d iterations: %w", p.Name, res.Iterations, ErrTooManyDiscards)
			}
		case errors.As(err, &v):
			res.Iterations++
			res.Counterexample = &Counterexample{Violation: v, Stream: rec.Stream(), Iteration: i}
			ru.finish(false)
			ru.log.Warn("property violated",
				zap.Int("iteration", i),
				zap.Stringer("config", v.Config),
				zap.String("reason", v.Reason),
				zap.Int("stream", len(res.Counterexample.Stream)),
			)
			return res, nil
		default:
			ru.finish(false)
			ru.log.Error("property aborted", zap.Int("iteration", i), zap.Error(err))
			return res, fmt.Errorf("property %s aborted at iteration %d: %w", p.Name, i, err)
		}
	}

	ru.finish(true)
	ru.log.Info("property passed",
		zap.Int("iterations", res.Iterations),
		zap.Int("discarded", res.Discarded),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

// Replay runs p once over a recorded stream.
func (r *Runner) Replay(p property.Property, stream []byte) (*Result, error) {
	ru := r.begin(p.Name)
	res := ru.res

	err := p.Check(r.env(), driver.NewByteSlice(stream))
	var v *property.Violation
	switch {
	case err == nil:
		res.Iterations = 1
		ru.finish(true)
		ru.log.Info("replay passed")
		return res, nil
	case errors.As(err, &v):
		res.Iterations = 1
		res.Counterexample = &Counterexample{Violation: v, Stream: stream}
		ru.finish(false)
		ru.log.Warn("replay reproduced violation", zap.String("reason", v.Reason))
		return res, nil
	case errors.Is(err, property.ErrDiscarded):
		res.Discarded = 1
		ru.finish(false)
		return res, fmt.Errorf("replay stream for %s ran dry: %w", p.Name, err)
	default:
		ru.finish(false)
		return res, fmt.Errorf("replay of %s aborted: %w", p.Name, err)
	}
}

// RunFunc times an ad hoc check under the same bookkeeping as a property.
func (r *Runner) RunFunc(name string, check func() bool) *Result {
	ru := r.begin(name)
	ru.res.Iterations = 1
	res := ru.finish(check())
	ru.log.Info("check finished", zap.Stringer("state", res.State), zap.Duration("elapsed", res.Elapsed))
	return res
}

// RunAll runs ps in order. A violation does not stop the remaining
// properties; a fatal error does, and the results so far are returned with it.
func (r *Runner) RunAll(ps []property.Property) ([]*Result, error) {
	results := make([]*Result, 0, len(ps))
	for _, p := range ps {
		res, err := r.Run(p)
		results = append(results, res)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

// Passed reports whether every result succeeded.
func Passed(results []*Result) bool {
	for _, res := range results {
		if !res.Success {
			return false
		}
	}
	return true
}
