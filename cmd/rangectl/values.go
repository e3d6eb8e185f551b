package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/henderiw/idxrange/pkg/rangeset"
	"github.com/spf13/cobra"
)

func newValuesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "values <collection>",
		Short: "Print every value of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rangeset.Parse(args[0])
			if err != nil {
				return err
			}
			a.logger.Debug().Int64("length", c.Len()).Msg("Parsed")
			printValues(cmd, c)
			return nil
		},
	}
}

func printValues(cmd *cobra.Command, c *rangeset.Collection) {
	var values []string
	for v := range c.All() {
		values = append(values, strconv.FormatInt(v, 10))
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(values, " "))
}
