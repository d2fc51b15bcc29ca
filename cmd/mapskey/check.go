package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/szaher/mapskey/internal/defines"
	"github.com/szaher/mapskey/internal/secrets"
)

type checkReport struct {
	Variable string            `json:"variable"`
	OK       bool              `json:"ok"`
	Source   string            `json:"source,omitempty"`
	Masked   string            `json:"masked,omitempty"`
	Error    string            `json:"error,omitempty"`
	Skipped  []defines.Skipped `json:"skipped,omitempty"`
}

func newCheckCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate that a real API key is configured without printing it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			res, resErr := s.resolve()
			report := checkReport{
				Variable: s.cfg.Variable,
				OK:       resErr == nil,
				Source:   string(res.Source),
				Skipped:  res.Skipped,
			}
			if resErr == nil {
				report.Masked = secrets.Mask(res.Value)
			} else {
				report.Error = resErr.Error()
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				data, _ := json.MarshalIndent(report, "", "  ")
				fmt.Fprintln(out, string(data))
			default:
				if report.OK {
					fmt.Fprintf(out, "%s: ok (source %s, key %s)\n", report.Variable, report.Source, report.Masked)
				}
				for _, sk := range report.Skipped {
					fmt.Fprintf(out, "warning: skipped define token %d: %s\n", sk.Index, sk.Reason)
				}
			}

			return resErr
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format (text|json)")

	return cmd
}
