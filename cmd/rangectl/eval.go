package main

import (
	"fmt"

	"github.com/henderiw/idxrange/pkg/rangeset"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newEvalCmd(a *app) *cobra.Command {
	var seed string
	var values bool

	cmd := &cobra.Command{
		Use:   "eval [flags] op...",
		Short: "Apply operations to a collection and print the result",
		Long: `Apply operations to a collection and print the result.

Operations are applied in order:
  add:<input>     add a value (5), a range (1-10) or a collection ([[1,5],[7,9]])
  remove:<input>  remove a value, a range or a collection
  pop:<n>         take the n largest values
  shift:<n>       take the n smallest values
  prune           empty the collection`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rangeset.Parse(seed)
			if err != nil {
				return errors.Wrap(err, "seed")
			}
			a.logger.Debug().Stringer("collection", c).Msg("Seeded")

			for _, arg := range args {
				op, err := parseOperation(arg)
				if err != nil {
					return err
				}
				taken, err := op.apply(c)
				if err != nil {
					return errors.Wrapf(err, "operation %q", arg)
				}
				a.logger.Debug().Str("op", arg).Stringer("collection", c).Msg("Applied")
				if taken != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", arg, taken)
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), c)
			if values {
				printValues(cmd, c)
			}
			a.logger.Info().Int64("length", c.Len()).Int("ranges", c.Count()).Msg("Done")
			return nil
		},
	}
	cmd.Flags().StringVar(&seed, "seed", "[]", "Initial collection as [[lo,hi],...]")
	cmd.Flags().BoolVar(&values, "values", false, "Also print every value of the result")
	return cmd
}
