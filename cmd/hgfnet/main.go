// SPDX-License-Identifier: MIT
// Command hgfnet inspects and edits network definitions and prints the
// update sequence derived from them.
//
//	hgfnet validate model.yaml
//	hgfnet schedule model.hcl --var prior=1.5 -o yaml
//	hgfnet schedule model.yaml --watch
//	hgfnet branches model.yaml --from 0 --orphans
//	hgfnet add-parent model.yaml --child 1 --kind volatility --mean 1
//	hgfnet remove-node model.yaml --index 4 --branch
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

// Version is the current hgfnet version.
var Version = "0.1.0"

// app carries the state shared by every command.
type app struct {
	logLevel string
	vars     map[string]string
	logger   *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: slog.New(slog.DiscardHandler)}

	root := &cobra.Command{
		Use:           "hgfnet",
		Short:         "Inspect hierarchical Gaussian filter network definitions",
		Long:          `hgfnet loads a network definition (YAML or HCL), checks its structure and prints the belief propagation schedule.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := parseLevel(a.logLevel)
			if err != nil {
				return err
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	root.PersistentFlags().StringToStringVar(&a.vars, "var", nil, "Template variable for the definition file (repeatable, k=v)")

	root.AddCommand(
		newValidateCmd(a),
		newScheduleCmd(a),
		newBranchesCmd(a),
		newAddParentCmd(a),
		newRemoveNodeCmd(a),
	)

	return root
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "hgfnet:", err)
		os.Exit(1)
	}
}
