package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/szaher/mapskey/internal/defines"
	"github.com/szaher/mapskey/internal/secrets"
)

func newDefinesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "defines",
		Short: "Encode or inspect DART_DEFINES blobs",
	}
	cmd.AddCommand(newDefinesEncodeCmd())
	cmd.AddCommand(newDefinesDecodeCmd())
	return cmd
}

func newDefinesEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode KEY=VALUE...",
		Short: "Encode defines the way flutter build does",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defs := make([]defines.Define, 0, len(args))
			for _, arg := range args {
				d, err := defines.ParseAssignment(arg)
				if err != nil {
					return err
				}
				defs = append(defs, d)
			}
			fmt.Fprintln(cmd.OutOrStdout(), defines.Encode(defs))
			return nil
		},
	}
}

func newDefinesDecodeCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "decode [blob]",
		Short: "List the defines in a blob or in the configured build metadata",
		Long: `Decode lists every define and every skipped token. The value of the
configured key variable is masked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			var blob string
			if len(args) == 1 {
				blob = args[0]
			} else {
				info, err := s.metadata()
				if err != nil {
					return err
				}
				if blob, _, err = info.String(s.cfg.DefinesField); err != nil {
					return err
				}
			}

			var (
				defs    []defines.Define
				skipped []defines.Skipped
			)
			if s.cfg.Strict {
				if defs, err = defines.ParseStrict(blob); err != nil {
					return err
				}
			} else {
				defs, skipped = defines.Parse(blob)
			}

			for i := range defs {
				if defs[i].Key == s.cfg.Variable {
					defs[i].Value = secrets.Mask(defs[i].Value)
				}
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				data, _ := json.MarshalIndent(struct {
					Defines []defines.Define  `json:"defines"`
					Skipped []defines.Skipped `json:"skipped,omitempty"`
				}{defs, skipped}, "", "  ")
				fmt.Fprintln(out, string(data))
			default:
				for _, d := range defs {
					fmt.Fprintln(out, d.String())
				}
				for _, sk := range skipped {
					fmt.Fprintf(out, "skipped token %d (%q): %s\n", sk.Index, sk.Token, sk.Reason)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format (text|json)")

	return cmd
}
