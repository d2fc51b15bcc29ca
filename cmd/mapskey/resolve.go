package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Print the resolved API key, or fail if none is configured",
		Long: `Resolve prints the key on stdout so it can be passed to a build step.
If no key other than the placeholder can be resolved it prints the override
hint on stderr and exits non-zero, the same condition that halts app launch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			res, err := s.resolve()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), res.Value)
			return nil
		},
	}
}
