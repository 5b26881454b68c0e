// SPDX-License-Identifier: MIT
// Package runner replays an update sequence over a series of observations.
//
// Every timestep the runner clears the scratch values, writes the observations
// into the input nodes, then runs the prediction waves followed by the update
// waves. Nodes of one wave have no dependency between them and may run
// concurrently (WithParallelism); waves always run in order.
//
// A Runner is safe for concurrent use: each Run works on its own copy of the
// attributes.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/hgfnet/network"
	"github.com/katalvlaran/hgfnet/schedule"
)

var (
	tracer = otel.Tracer("hgfnet.runner")
	meter  = otel.Meter("hgfnet.runner")
)

// Runner replays one update sequence on one topology.
type Runner struct {
	edges network.Edges
	seq   *schedule.Sequence
	opts  Options

	predictions [][]schedule.Step
	updates     [][]schedule.Step

	// Metrics (initialized lazily)
	metricsOnce      sync.Once
	timestepLatency  metric.Float64Histogram
	stepsTotal       metric.Int64Counter
	stepFailureTotal metric.Int64Counter
}

// New checks that seq was derived from edges and that every step is bound.
func New(edges network.Edges, seq *schedule.Sequence, opts ...Option) (*Runner, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if seq == nil || seq.Stale(edges) {
		return nil, ErrStaleSequence
	}
	for _, st := range append(append([]schedule.Step(nil), seq.Predictions...), seq.Updates...) {
		if st.Fn == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnboundStep, st)
		}
	}

	return &Runner{
		edges:       edges,
		seq:         seq,
		opts:        o,
		predictions: seq.PredictionWaves(),
		updates:     seq.UpdateWaves(),
	}, nil
}

// initMetrics creates the instruments once. A failed instrument is left nil
// and the run continues without it.
func (r *Runner) initMetrics() {
	r.metricsOnce.Do(func() {
		var initErrors []string
		var err error

		r.timestepLatency, err = meter.Float64Histogram("hgf_timestep_duration_seconds",
			metric.WithDescription("Time spent replaying the update sequence for one timestep"),
			metric.WithUnit("s"),
		)
		if err != nil {
			initErrors = append(initErrors, "timestep_latency: "+err.Error())
		}

		r.stepsTotal, err = meter.Int64Counter("hgf_steps_total",
			metric.WithDescription("Number of executed steps"),
		)
		if err != nil {
			initErrors = append(initErrors, "steps_total: "+err.Error())
		}

		r.stepFailureTotal, err = meter.Int64Counter("hgf_step_failures_total",
			metric.WithDescription("Number of failed steps"),
		)
		if err != nil {
			initErrors = append(initErrors, "step_failures_total: "+err.Error())
		}

		if len(initErrors) > 0 {
			r.opts.Logger.Error("failed to initialize some runner metrics (observability degraded)",
				slog.Int("failed_count", len(initErrors)),
				slog.Any("errors", initErrors),
			)
		}
	})
}

// Run replays the sequence once per timestep of obs, starting from attrs.
// attrs is not modified.
//
// Errors: ErrNilContext, ErrObservationShape, network.ErrStructuralReference
// when attrs does not match the edges, the context error, or a *StepError.
func (r *Runner) Run(ctx context.Context, attrs network.Attributes, obs Observations) (*Result, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if attrs.Len() != r.edges.Len() {
		return nil, fmt.Errorf("%w: %d attribute records for %d nodes", network.ErrStructuralReference, attrs.Len(), r.edges.Len())
	}
	obs, err := obs.resolve(r.edges)
	if err != nil {
		return nil, err
	}

	r.initMetrics()
	runID := uuid.NewString()

	ctx, span := tracer.Start(ctx, "hgf.Run",
		trace.WithAttributes(
			attribute.String("hgf.run_id", runID),
			attribute.Int("hgf.node_count", r.edges.Len()),
			attribute.Int("hgf.timesteps", obs.Len()),
			attribute.String("hgf.fingerprint", r.seq.Fingerprint.String()),
		),
	)
	defer span.End()

	r.opts.Logger.Info("run started",
		slog.String("run_id", runID),
		slog.Int("nodes", r.edges.Len()),
		slog.Int("timesteps", obs.Len()),
		slog.Int("parallelism", r.opts.Parallelism),
	)

	start := time.Now()
	work := attrs.Clone()
	res := &Result{RunID: runID}
	var executed atomic.Int64

	for t := 0; t < obs.Len(); t++ {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "context canceled")
			return nil, err
		}

		stepStart := time.Now()
		work.ResetTemp()
		obs.apply(&work, t)

		for _, waves := range [][][]schedule.Step{r.predictions, r.updates} {
			for _, wave := range waves {
				if err := r.runWave(ctx, &work, t, wave, &executed); err != nil {
					span.RecordError(err)
					span.SetStatus(codes.Error, err.Error())
					r.opts.Logger.Error("run failed",
						slog.String("run_id", runID),
						slog.Int("timestep", t),
						slog.String("error", err.Error()),
					)
					return nil, err
				}
			}
		}

		if r.timestepLatency != nil {
			r.timestepLatency.Record(ctx, time.Since(stepStart).Seconds())
		}
		if r.opts.Snapshots {
			res.Snapshots = append(res.Snapshots, work.Clone())
		}
	}

	res.Final = work
	res.Timesteps = obs.Len()
	res.StepsExecuted = int(executed.Load())
	res.Duration = time.Since(start)

	span.SetStatus(codes.Ok, "")
	r.opts.Logger.Info("run completed",
		slog.String("run_id", runID),
		slog.Duration("duration", res.Duration),
		slog.Int("steps_executed", res.StepsExecuted),
	)

	return res, nil
}

// runWave runs the steps of one wave. Steps of different nodes may run
// concurrently; the steps of one node run in sequence order.
func (r *Runner) runWave(ctx context.Context, work *network.Attributes, t int, wave []schedule.Step, executed *atomic.Int64) error {
	chains := byNode(wave)
	if r.opts.Parallelism == 1 || len(chains) == 1 {
		for _, st := range wave {
			if err := r.runStep(ctx, work, t, st, executed); err != nil {
				return err
			}
		}
		return nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Parallelism)
	for _, chain := range chains {
		g.Go(func() error {
			for _, st := range chain {
				if err := r.runStep(gCtx, work, t, st, executed); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return g.Wait()
}

// byNode splits a wave at every change of node. Derive emits the steps of one
// node next to each other.
func byNode(wave []schedule.Step) [][]schedule.Step {
	var out [][]schedule.Step
	for i, st := range wave {
		if i == 0 || st.Node != wave[i-1].Node {
			out = append(out, nil)
		}
		out[len(out)-1] = append(out[len(out)-1], st)
	}

	return out
}

// runStep runs one step and records its outcome.
func (r *Runner) runStep(ctx context.Context, work *network.Attributes, t int, st schedule.Step, executed *atomic.Int64) error {
	kind := metric.WithAttributes(attribute.String("kind", st.Kind.String()))

	err := st.Fn(ctx, work, r.edges, st.Node)
	executed.Add(1)
	if r.stepsTotal != nil {
		r.stepsTotal.Add(ctx, 1, kind)
	}
	if err == nil {
		return nil
	}

	if r.stepFailureTotal != nil {
		r.stepFailureTotal.Add(ctx, 1, kind)
	}
	r.opts.Logger.Debug("step failed",
		slog.Int("timestep", t),
		slog.Int("node", st.Node),
		slog.String("kind", st.Kind.String()),
		slog.String("error", err.Error()),
	)

	return &StepError{Timestep: t, Node: st.Node, Kind: st.Kind, Err: err}
}
