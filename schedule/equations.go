// SPDX-License-Identifier: MIT

package schedule

import (
	"fmt"
	"sync"

	"github.com/katalvlaran/hgfnet/network"
)

// Key selects an equation: the kind of step, the node type, the posterior
// variant (empty for non-posterior steps) and whether a custom coupling
// transform is involved.
type Key struct {
	Kind     StepKind
	NodeType network.NodeType
	Variant  UpdateType
	Custom   bool
}

// KeyOf returns the registry key of a step.
func KeyOf(s Step) Key {
	return Key{Kind: s.Kind, NodeType: s.NodeType, Variant: s.Variant, Custom: s.Custom}
}

// String renders e.g. "posterior/continuous-state/ehgf/custom".
func (k Key) String() string {
	v := string(k.Variant)
	if v == "" {
		v = "-"
	}
	c := "linear"
	if k.Custom {
		c = "custom"
	}

	return fmt.Sprintf("%s/%s/%s/%s", k.Kind, k.NodeType, v, c)
}

// Resolver looks up the function that runs a step.
type Resolver interface {
	Resolve(k Key) (StepFunc, bool)
}

// Registry is a Resolver backed by a map. It is safe for concurrent use.
type Registry struct {
	mu  sync.RWMutex
	fns map[Key]StepFunc
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{fns: make(map[Key]StepFunc)}
}

// Register binds fn to k, replacing any previous binding. A nil fn removes it.
func (r *Registry) Register(k Key, fn StepFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if fn == nil {
		delete(r.fns, k)
		return
	}
	r.fns[k] = fn
}

// Resolve implements Resolver.
func (r *Registry) Resolve(k Key) (StepFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.fns[k]

	return fn, ok
}

// Len returns the number of bound keys.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.fns)
}

// bind fills Fn for every step or fails on the first key r cannot resolve.
func bind(steps []Step, r Resolver) error {
	for i := range steps {
		fn, ok := r.Resolve(KeyOf(steps[i]))
		if !ok || fn == nil {
			return fmt.Errorf("%w: %s for node %d", ErrMissingEquation, KeyOf(steps[i]), steps[i].Node)
		}
		steps[i].Fn = fn
	}

	return nil
}
