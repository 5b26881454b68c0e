// SPDX-License-Identifier: MIT

package netfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/hgfnet/network"
)

// Load reads, decodes and builds the network defined in path.
func Load(ctx context.Context, path string, opts ...Option) (network.Attributes, network.Edges, error) {
	o := Options{Logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	if err := ctx.Err(); err != nil {
		return network.Attributes{}, network.Edges{}, err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return network.Attributes{}, network.Edges{}, fmt.Errorf("netfile: read %s: %w", path, err)
	}
	doc, err := Decode(path, src, o.Vars)
	if err != nil {
		return network.Attributes{}, network.Edges{}, err
	}
	o.Logger.Debug("network definition decoded",
		slog.String("path", path),
		slog.Int("node_groups", len(doc.Nodes)),
		slog.Int("edges", len(doc.Edges)),
	)

	attrs, edges, err := doc.Build()
	if err != nil {
		return network.Attributes{}, network.Edges{}, fmt.Errorf("%s: %w", path, err)
	}
	o.Logger.Debug("network built",
		slog.String("path", path),
		slog.Int("nodes", edges.Len()),
		slog.Int("couplings", edges.CouplingCount()),
	)

	return attrs, edges, nil
}

// Decode parses src according to the extension of filename.
func Decode(filename string, src []byte, vars map[string]string) (*Document, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".yaml", ".yml":
		return decodeYAML(src, vars)
	case ".hcl":
		return decodeHCL(filename, src, vars)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func decodeYAML(src []byte, vars map[string]string) (*Document, error) {
	expanded := os.Expand(string(src), func(name string) string {
		if v, ok := vars[name]; ok {
			return v
		}
		return "${" + name + "}"
	})

	var doc Document
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("netfile: decode yaml: %w", err)
	}

	return &doc, nil
}

func decodeHCL(filename string, src []byte, vars map[string]string) (*Document, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("netfile: parse %s: %w", filename, diags)
	}

	var doc Document
	diags = gohcl.DecodeBody(file.Body, evalContext(vars), &doc)
	if diags.HasErrors() {
		return nil, fmt.Errorf("netfile: decode %s: %w", filename, diags)
	}

	return &doc, nil
}

// evalContext exposes vars as the object var.
func evalContext(vars map[string]string) *hcl.EvalContext {
	obj := make(map[string]cty.Value, len(vars))
	for k, v := range vars {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			obj[k] = cty.NumberFloatVal(f)
			continue
		}
		obj[k] = cty.StringVal(v)
	}

	return &hcl.EvalContext{Variables: map[string]cty.Value{"var": cty.ObjectVal(obj)}}
}
