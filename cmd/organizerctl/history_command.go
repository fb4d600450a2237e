package main

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		limit     int
		withMoves bool
	)

	cmd := &cobra.Command{
		Use:   "history <job>",
		Short: "Show recent passes of a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()

			journal, closeJournal, err := ctx.openJournal()
			if err != nil {
				return err
			}
			defer closeJournal()

			if journal == nil {
				return errors.New("journal is not available")
			}

			passes, err := journal.FindRecentPasses(cmd.Context(), args[0], limit)
			if err != nil {
				return errors.Wrap(err, "Unable to read journal")
			}

			if len(passes) == 0 {
				fmt.Fprintf(stdout, "No passes recorded for %s\n", args[0])
				return nil
			}

			fmt.Fprintln(stdout, renderPasses(passes, time.Now(), false))

			if withMoves {
				for _, pass := range passes {
					if len(pass.Moves) == 0 {
						continue
					}
					fmt.Fprintf(stdout, "\nPass %s\n", pass.Id)
					fmt.Fprintln(stdout, renderMoves(pass.Moves))
				}
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of passes to show")
	cmd.Flags().BoolVar(&withMoves, "moves", false, "List every file of each pass")

	return cmd
}
