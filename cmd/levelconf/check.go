package main

import (
	"fmt"
	"log/slog"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ceyewan/levelconf/clog"
	"github.com/ceyewan/levelconf/levels"
	"github.com/ceyewan/levelconf/logging"
	"github.com/ceyewan/levelconf/xerrors"
)

func buildCheckCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Resolve logger.levels once and print the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := root.newLogger()
			if err != nil {
				return err
			}
			defer logger.Flush()

			loader, err := root.loadConfig(cmd.Context(), logger, false)
			if err != nil {
				return err
			}

			sys := logging.NewSlogSystem(slog.DiscardHandler, logging.WithName("check"))
			if _, err := levels.New(loader, []logging.System{sys}, levels.WithLogger(logger)); err != nil {
				logger.Error("invalid logger.levels configuration", clog.ErrorWithCode(err, ""))
				return err
			}

			return printLevels(cmd, sys.Levels())
		},
	}
}

func printLevels(cmd *cobra.Command, configured map[string]logging.Level) error {
	names := make([]string, 0, len(configured))
	for name := range configured {
		names = append(names, name)
	}
	slices.Sort(names)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "LOGGER\tLEVEL"); err != nil {
		return xerrors.Wrap(err, "write levels")
	}
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", name, configured[name]); err != nil {
			return xerrors.Wrap(err, "write levels")
		}
	}
	return w.Flush()
}
