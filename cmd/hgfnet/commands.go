// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/hgfnet/branch"
	"github.com/katalvlaran/hgfnet/netfile"
	"github.com/katalvlaran/hgfnet/network"
	"github.com/katalvlaran/hgfnet/schedule"
)

func (a *app) load(cmd *cobra.Command, path string) (network.Attributes, network.Edges, error) {
	return netfile.Load(cmd.Context(), path, netfile.WithVars(a.vars), netfile.WithLogger(a.logger))
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Load a definition and check every structural invariant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			attrs, edges, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), attrs, edges)
			return nil
		},
	}
}

func newScheduleCmd(a *app) *cobra.Command {
	var updateType, output string
	var watch bool
	cmd := &cobra.Command{
		Use:   "schedule FILE",
		Short: "Print the update sequence of a network",
		Long: `Print the prediction and update steps of a network, grouped by wave.

Steps within one wave belong to nodes with no dependency between them.
With --watch the sequence is printed again every time FILE changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			show := func() error {
				_, edges, err := a.load(cmd, args[0])
				if err != nil {
					return err
				}
				seq, err := a.derive(cmd, edges, updateType)
				if err != nil {
					return err
				}
				return printSequence(cmd.OutOrStdout(), seq, output)
			}
			if err := show(); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			return watchFile(cmd.Context(), args[0], a.logger, show)
		},
	}
	cmd.Flags().StringVar(&updateType, "update-type", string(schedule.UpdateEHGF), "Posterior update variant: standard, ehgf or unbounded")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text or yaml")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Print the sequence again whenever FILE changes")

	return cmd
}

func newBranchesCmd(a *app) *cobra.Command {
	var from []int
	var orphans bool
	cmd := &cobra.Command{
		Use:   "branches FILE",
		Short: "List the nodes affected by a structural edit",
		Long: `List every node reachable downstream from --from.

With --orphans, list the start nodes and the ancestors that would be left
without any child if the start nodes were removed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(from) == 0 {
				return fmt.Errorf("--from is required")
			}
			_, edges, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			var nodes []int
			if orphans {
				nodes, err = branch.ListOrphanedAncestors(from, edges)
			} else {
				nodes, err = branch.ListBranches(from, edges, nil, branch.WithContext(cmd.Context()))
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), joinInts(nodes))
			return nil
		},
	}
	cmd.Flags().IntSliceVar(&from, "from", nil, "Start node indices")
	cmd.Flags().BoolVar(&orphans, "orphans", false, "Walk upstream and list orphaned ancestors instead")

	return cmd
}

func newAddParentCmd(a *app) *cobra.Command {
	var child int
	var kind string
	var mean float64
	var emit bool
	cmd := &cobra.Command{
		Use:   "add-parent FILE",
		Short: "Add a parent to a node and print the resulting network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := network.ParseCouplingKind(kind)
			if err != nil {
				return err
			}
			attrs, edges, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			attrs, edges, err = network.AddParent(attrs, edges, child, k, mean)
			if err != nil {
				return err
			}
			a.logger.Info("parent added", "child", child, "kind", k, "parent", edges.Len()-1)
			return a.printEdited(cmd, attrs, edges, emit)
		},
	}
	cmd.Flags().IntVar(&child, "child", 0, "Index of the node receiving the parent")
	cmd.Flags().StringVar(&kind, "kind", string(network.Value), "Coupling kind: value or volatility")
	cmd.Flags().Float64Var(&mean, "mean", 0, "Initial mean of the new parent")
	cmd.Flags().BoolVar(&emit, "emit", false, "Print the edited network as a YAML definition")

	return cmd
}

func newRemoveNodeCmd(a *app) *cobra.Command {
	var index int
	var wholeBranch, emit bool
	cmd := &cobra.Command{
		Use:   "remove-node FILE",
		Short: "Remove a node and print the resulting network",
		Long: `Remove a node and renumber the remaining ones.

With --branch, the ancestors left without any child are removed too.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			attrs, edges, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			removed := []int{index}
			if wholeBranch {
				attrs, edges, removed, err = branch.RemoveBranch(attrs, edges, index)
			} else {
				attrs, edges, err = network.RemoveNode(attrs, edges, index)
			}
			if err != nil {
				return err
			}
			a.logger.Info("nodes removed", "removed", removed)
			fmt.Fprintf(cmd.OutOrStdout(), "removed: %s\n", joinInts(removed))
			return a.printEdited(cmd, attrs, edges, emit)
		},
	}
	cmd.Flags().IntVar(&index, "index", 0, "Index of the node to remove")
	cmd.Flags().BoolVar(&wholeBranch, "branch", false, "Also remove orphaned ancestors")
	cmd.Flags().BoolVar(&emit, "emit", false, "Print the edited network as a YAML definition")

	return cmd
}

func (a *app) derive(cmd *cobra.Command, edges network.Edges, updateType string) (*schedule.Sequence, error) {
	u, err := schedule.ParseUpdateType(updateType)
	if err != nil {
		return nil, err
	}

	return schedule.Derive(edges,
		schedule.WithContext(cmd.Context()),
		schedule.WithLogger(a.logger),
		schedule.WithUpdateType(u),
	)
}

func (a *app) printEdited(cmd *cobra.Command, attrs network.Attributes, edges network.Edges, emit bool) error {
	out := cmd.OutOrStdout()
	if emit {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(netfile.FromNetwork(attrs, edges)); err != nil {
			return err
		}
		return enc.Close()
	}

	printSummary(out, attrs, edges)
	seq, err := a.derive(cmd, edges, string(schedule.UpdateEHGF))
	if err != nil {
		return err
	}

	return printSequence(out, seq, "text")
}

func printSummary(w io.Writer, attrs network.Attributes, edges network.Edges) {
	fmt.Fprintf(w, "nodes: %d\nrecords: %d\ncouplings: %d\nfingerprint: %s\n",
		edges.Len(), attrs.RecordCount(), edges.CouplingCount(), schedule.FingerprintOf(edges))
}

// stepView is the serialized form of a schedule.Step.
type stepView struct {
	Node     int    `yaml:"node"`
	Kind     string `yaml:"kind"`
	NodeType string `yaml:"node_type"`
	Variant  string `yaml:"variant,omitempty"`
	Wave     int    `yaml:"wave"`
	Custom   bool   `yaml:"custom,omitempty"`
}

func views(steps []schedule.Step) []stepView {
	out := make([]stepView, len(steps))
	for i, s := range steps {
		out[i] = stepView{
			Node: s.Node, Kind: s.Kind.String(), NodeType: s.NodeType.String(),
			Variant: string(s.Variant), Wave: s.Wave, Custom: s.Custom,
		}
	}

	return out
}

func printSequence(w io.Writer, seq *schedule.Sequence, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(struct {
			Fingerprint string     `yaml:"fingerprint"`
			Predictions []stepView `yaml:"predictions"`
			Updates     []stepView `yaml:"updates"`
		}{seq.Fingerprint.String(), views(seq.Predictions), views(seq.Updates)}); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		for _, pass := range []struct {
			name  string
			waves [][]schedule.Step
		}{{"predictions", seq.PredictionWaves()}, {"updates", seq.UpdateWaves()}} {
			fmt.Fprintf(w, "%s:\n", pass.name)
			for i, wave := range pass.waves {
				names := make([]string, len(wave))
				for j, s := range wave {
					names[j] = s.String()
				}
				fmt.Fprintf(w, "  wave %d: %s\n", i, strings.Join(names, " "))
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}

	return strings.Join(parts, ",")
}
