// SPDX-License-Identifier: MIT
// Package schedule defines the update sequence (Step, Sequence), the options
// of Derive, and the sentinel errors of schedule derivation.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/katalvlaran/hgfnet/network"
)

var (
	// ErrCyclicStructure is network.ErrCyclicStructure, re-exported so callers of
	// this package can test for it without importing network.
	ErrCyclicStructure = network.ErrCyclicStructure

	// ErrMissingEquation is returned when a Resolver has no function for a step.
	ErrMissingEquation = errors.New("schedule: no equation registered for step")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("schedule: invalid option supplied")
)

// StepKind distinguishes the three kinds of step in an update sequence.
type StepKind int

const (
	// StepPrediction computes a node's expected state from its parents.
	StepPrediction StepKind = iota
	// StepPredictionError computes the prediction errors a node sends to its
	// parents; for an input node this is where the observation enters.
	StepPredictionError
	// StepPosterior updates a node's posterior from its children's prediction errors.
	StepPosterior
)

// String returns "prediction", "prediction-error" or "posterior".
func (k StepKind) String() string {
	switch k {
	case StepPrediction:
		return "prediction"
	case StepPredictionError:
		return "prediction-error"
	case StepPosterior:
		return "posterior"
	default:
		return fmt.Sprintf("StepKind(%d)", int(k))
	}
}

// UpdateType selects the posterior update variant.
type UpdateType string

const (
	// UpdateStandard is the classic HGF posterior update.
	UpdateStandard UpdateType = "standard"
	// UpdateEHGF updates the mean first and reuses it for the precision.
	UpdateEHGF UpdateType = "ehgf"
	// UpdateUnbounded uses the unbounded approximation for volatility parents.
	UpdateUnbounded UpdateType = "unbounded"
)

// ParseUpdateType validates a raw update type name.
func ParseUpdateType(s string) (UpdateType, error) {
	switch u := UpdateType(s); u {
	case UpdateStandard, UpdateEHGF, UpdateUnbounded:
		return u, nil
	default:
		return "", fmt.Errorf("%w: unknown update type %q", ErrOptionViolation, s)
	}
}

// StepFunc runs one step for one node. It may read any record of attrs but
// writes only attrs.Nodes[node]; steps in one wave may run concurrently.
type StepFunc func(ctx context.Context, attrs *network.Attributes, edges network.Edges, node int) error

// Step is one entry of an update sequence.
type Step struct {
	// Node is the node index the step runs for.
	Node int
	// Kind of step.
	Kind StepKind
	// NodeType of the node, copied for the equation dispatcher.
	NodeType network.NodeType
	// Variant is the posterior update type; empty for other kinds.
	Variant UpdateType
	// Wave groups steps of nodes with no dependency between them; waves run
	// in order. Within a wave the steps of one node are adjacent and must run
	// in sequence order.
	Wave int
	// Custom reports whether a custom coupling transform is involved: for
	// prediction and prediction-error steps an incoming value edge, for
	// posterior steps an outgoing one.
	Custom bool
	// Fn is bound by a Resolver; nil when Derive ran without one.
	Fn StepFunc
}

// String renders e.g. "posterior(3)".
func (s Step) String() string { return fmt.Sprintf("%s(%d)", s.Kind, s.Node) }

// Sequence is the update sequence of one topology: predictions run top-down,
// then updates run bottom-up, once per observation.
type Sequence struct {
	Predictions []Step
	Updates     []Step
	// Fingerprint identifies the topology the sequence was derived from.
	Fingerprint Fingerprint
}

// Stale reports whether edges no longer match the topology the sequence was
// derived from, i.e. a structural edit happened since Derive.
func (s *Sequence) Stale(edges network.Edges) bool {
	return s.Fingerprint != FingerprintOf(edges)
}

// PredictionWaves groups Predictions by wave.
func (s *Sequence) PredictionWaves() [][]Step { return waves(s.Predictions) }

// UpdateWaves groups Updates by wave.
func (s *Sequence) UpdateWaves() [][]Step { return waves(s.Updates) }

// waves splits steps at every change of Wave. Derive emits waves contiguously.
func waves(steps []Step) [][]Step {
	var out [][]Step
	for i, st := range steps {
		if i == 0 || st.Wave != steps[i-1].Wave {
			out = append(out, nil)
		}
		out[len(out)-1] = append(out[len(out)-1], st)
	}

	return out
}

// Option configures Derive.
type Option func(*Options)

// Options holds the settings of Derive.
type Options struct {
	Ctx        context.Context
	Logger     *slog.Logger
	UpdateType UpdateType
	Resolver   Resolver

	err error
}

// DefaultOptions returns Background context, a discarding logger, the eHGF
// update type and no resolver.
func DefaultOptions() Options {
	return Options{
		Ctx:        context.Background(),
		Logger:     slog.New(slog.DiscardHandler),
		UpdateType: UpdateEHGF,
	}
}

// WithContext sets the cancellation context. Nil is ignored.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithLogger sets the logger used for debug output. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithUpdateType selects the posterior update variant.
func WithUpdateType(u UpdateType) Option {
	return func(o *Options) {
		if _, err := ParseUpdateType(string(u)); err != nil {
			o.err = err
			return
		}
		o.UpdateType = u
	}
}

// WithResolver binds a StepFunc to every step.
func WithResolver(r Resolver) Option {
	return func(o *Options) { o.Resolver = r }
}
