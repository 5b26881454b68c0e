// SPDX-License-Identifier: MIT
// Package branch provides tunable options and error definitions
// for branch resolution over network.Edges.
package branch

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/hgfnet/network"
)

// Sentinel errors for branch resolution.
var (
	// ErrStartNodeNotFound is returned when a start index is out of range.
	ErrStartNodeNotFound = errors.New("branch: start node not found")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("branch: invalid option supplied")
)

// Option configures branch resolution via functional arguments.
// Invalid options are recorded and surfaced as ErrOptionViolation.
type Option func(*Options)

// Options holds parameters and callbacks for ListBranches.
type Options struct {
	// Ctx allows cancellation.
	Ctx context.Context

	// OnVisit is called once per node added to the branch, with its depth
	// from the nearest start node. Returning an error aborts the walk.
	OnVisit func(id, depth int) error

	// Kinds are the coupling relations followed. Default: both.
	Kinds []network.CouplingKind

	err error
}

// DefaultOptions returns Background context, a no-op hook and both kinds.
func DefaultOptions() Options {
	return Options{
		Ctx:     context.Background(),
		OnVisit: func(int, int) error { return nil },
		Kinds:   []network.CouplingKind{network.Value, network.Volatility},
	}
}

// WithContext sets a custom context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithOnVisit registers a per-node callback.
func WithOnVisit(fn func(id, depth int) error) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnVisit = fn
		}
	}
}

// WithKinds restricts the walk to the given coupling kinds.
// An empty list or an unknown kind is an ErrOptionViolation.
func WithKinds(kinds ...network.CouplingKind) Option {
	return func(o *Options) {
		if len(kinds) == 0 {
			o.err = fmt.Errorf("%w: no coupling kinds", ErrOptionViolation)
			return
		}
		for _, k := range kinds {
			if !k.Valid() {
				o.err = fmt.Errorf("%w: %w: %q", ErrOptionViolation, network.ErrInvalidCouplingKind, string(k))
				return
			}
		}
		o.Kinds = append([]network.CouplingKind(nil), kinds...)
	}
}
