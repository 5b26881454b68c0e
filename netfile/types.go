// SPDX-License-Identifier: MIT
// Package netfile reads network definitions from YAML or HCL files.
//
// A definition lists node groups, created in order (the first node of the
// first group is index 0), and extra couplings between existing nodes:
//
//	node "volatility" {
//	  type                = "continuous-state"
//	  mean                = var.prior_mean
//	  volatility_children = [1]
//	}
//
//	edge {
//	  kind     = "value"
//	  parent   = 2
//	  child    = 0
//	  strength = 0.5
//	}
//
// The same document in YAML uses the keys nodes and edges with the attribute
// names above. The network is built only through network.AddNodes and
// network.AddEdges, so a loaded pair satisfies every structural invariant.
package netfile

import (
	"errors"
	"log/slog"
)

var (
	// ErrUnsupportedFormat is returned for a file extension other than .yaml,
	// .yml or .hcl.
	ErrUnsupportedFormat = errors.New("netfile: unsupported format")

	// ErrInvalidDocument is returned when a document decodes but does not
	// describe a valid network.
	ErrInvalidDocument = errors.New("netfile: invalid network document")
)

// Document is the decoded form of a definition file.
type Document struct {
	Nodes []NodeGroup `yaml:"nodes" hcl:"node,block"`
	Edges []Edge      `yaml:"edges,omitempty" hcl:"edge,block"`
}

// NodeGroup creates Count nodes (one when zero) sharing type, seed values and
// children. Nil seed values keep the network defaults.
type NodeGroup struct {
	Name  string `yaml:"name,omitempty" hcl:"name,label"`
	Type  string `yaml:"type,omitempty" hcl:"type,optional"`
	Count int    `yaml:"count,omitempty" hcl:"count,optional"`

	Mean                   *float64 `yaml:"mean,omitempty" hcl:"mean,optional"`
	Precision              *float64 `yaml:"precision,omitempty" hcl:"precision,optional"`
	TonicVolatility        *float64 `yaml:"tonic_volatility,omitempty" hcl:"tonic_volatility,optional"`
	TonicDrift             *float64 `yaml:"tonic_drift,omitempty" hcl:"tonic_drift,optional"`
	AutoconnectionStrength *float64 `yaml:"autoconnection_strength,omitempty" hcl:"autoconnection_strength,optional"`

	ValueChildren      []int `yaml:"value_children,omitempty" hcl:"value_children,optional"`
	VolatilityChildren []int `yaml:"volatility_children,omitempty" hcl:"volatility_children,optional"`

	// CouplingStrength applies to every child link of the group; zero selects
	// the default strength.
	CouplingStrength float64 `yaml:"coupling_strength,omitempty" hcl:"coupling_strength,optional"`
}

// Edge adds one coupling between existing nodes.
type Edge struct {
	Kind     string  `yaml:"kind" hcl:"kind"`
	Parent   int     `yaml:"parent" hcl:"parent"`
	Child    int     `yaml:"child" hcl:"child"`
	Strength float64 `yaml:"strength,omitempty" hcl:"strength,optional"`
}

// Option configures Load.
type Option func(*Options)

// Options holds the settings of Load.
type Options struct {
	Logger *slog.Logger
	// Vars are exposed to HCL as var.<name> and expanded in YAML as ${name}.
	// Values that parse as numbers are numbers in HCL.
	Vars map[string]string
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithVars sets the template variables.
func WithVars(vars map[string]string) Option {
	return func(o *Options) { o.Vars = vars }
}
