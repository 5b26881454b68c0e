// SPDX-License-Identifier: MIT

package runner

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/katalvlaran/hgfnet/network"
	"github.com/katalvlaran/hgfnet/schedule"
)

var (
	// ErrNilContext is returned when Run receives a nil context.
	ErrNilContext = errors.New("runner: nil context")

	// ErrStaleSequence is returned when a sequence does not match the edges it
	// is replayed on.
	ErrStaleSequence = errors.New("runner: update sequence is stale for these edges")

	// ErrUnboundStep is returned for a step without a bound StepFunc.
	ErrUnboundStep = errors.New("runner: step has no equation bound")

	// ErrObservationShape is returned when observations do not fit the network.
	ErrObservationShape = errors.New("runner: observations do not fit the network")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("runner: invalid option supplied")
)

// StepError reports the step that aborted a run.
type StepError struct {
	Timestep int
	Node     int
	Kind     schedule.StepKind
	Err      error
}

// Error returns the error message.
func (e *StepError) Error() string {
	return fmt.Sprintf("runner: timestep %d: %s(%d): %v", e.Timestep, e.Kind, e.Node, e.Err)
}

// Unwrap returns the underlying error.
func (e *StepError) Unwrap() error { return e.Err }

// Observations is the input series of one run.
//
// Values[t][j] is the observation of input node Inputs[j] at timestep t; NaN
// marks a missing observation. Inputs defaults to every leaf in ascending
// order. TimeSteps defaults to 1 for every timestep.
type Observations struct {
	Inputs    []int
	Values    [][]float64
	TimeSteps []float64
}

// Len returns the number of timesteps.
func (o Observations) Len() int { return len(o.Values) }

// resolve fills the defaults and checks the series against edges.
func (o Observations) resolve(edges network.Edges) (Observations, error) {
	if o.Inputs == nil {
		for i := 0; i < edges.Len(); i++ {
			if edges.At(i).IsLeaf() {
				o.Inputs = append(o.Inputs, i)
			}
		}
	}
	for _, in := range o.Inputs {
		if !edges.Has(in) {
			return o, fmt.Errorf("%w: input %d not in [0,%d)", ErrObservationShape, in, edges.Len())
		}
		if !edges.At(in).IsLeaf() {
			return o, fmt.Errorf("%w: input %d has children", ErrObservationShape, in)
		}
	}
	for t, row := range o.Values {
		if len(row) != len(o.Inputs) {
			return o, fmt.Errorf("%w: timestep %d has %d values for %d inputs", ErrObservationShape, t, len(row), len(o.Inputs))
		}
	}
	if o.TimeSteps == nil {
		o.TimeSteps = make([]float64, len(o.Values))
		for t := range o.TimeSteps {
			o.TimeSteps[t] = 1
		}
	}
	if len(o.TimeSteps) != len(o.Values) {
		return o, fmt.Errorf("%w: %d time steps for %d timesteps", ErrObservationShape, len(o.TimeSteps), len(o.Values))
	}

	return o, nil
}

// apply writes the observations of timestep t into attrs.
func (o Observations) apply(attrs *network.Attributes, t int) {
	attrs.TimeStep = o.TimeSteps[t]
	for j, in := range o.Inputs {
		v := o.Values[t][j]
		rec := &attrs.Nodes[in]
		if math.IsNaN(v) {
			rec.Observed = false
			continue
		}
		rec.Observed = true
		rec.Mean = v
	}
}

// Result describes a completed run.
type Result struct {
	// RunID identifies the run in logs and spans.
	RunID string
	// Final holds the attributes after the last timestep.
	Final network.Attributes
	// Snapshots holds the attributes after each timestep; nil when disabled.
	Snapshots []network.Attributes
	// Timesteps is the number of timesteps processed.
	Timesteps int
	// StepsExecuted counts step invocations over the whole run.
	StepsExecuted int
	Duration      time.Duration
}

// Option configures a Runner.
type Option func(*Options)

// Options holds the settings of a Runner.
type Options struct {
	Logger      *slog.Logger
	Parallelism int
	Snapshots   bool

	err error
}

// DefaultOptions returns a discarding logger, sequential waves and snapshots on.
func DefaultOptions() Options {
	return Options{
		Logger:      slog.New(slog.DiscardHandler),
		Parallelism: 1,
		Snapshots:   true,
	}
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithParallelism bounds the number of steps of one wave that run at once.
// One means sequential replay.
func WithParallelism(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.err = fmt.Errorf("%w: parallelism %d < 1", ErrOptionViolation, n)
			return
		}
		o.Parallelism = n
	}
}

// WithSnapshots toggles per-timestep snapshots in the Result.
func WithSnapshots(on bool) Option {
	return func(o *Options) { o.Snapshots = on }
}
