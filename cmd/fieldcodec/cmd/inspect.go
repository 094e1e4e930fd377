package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <value>",
		Short: "Report how a stored value decodes",
		Long: `Decode a stored value and report whether it was empty, decrypted,
or passed through, along with the reason for a pass-through.

Example:
  fieldcodec inspect plain-unencrypted-text`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := codecFrom(cmd).Inspect(args[0])

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "outcome: %s\n", res.Outcome)
			fmt.Fprintf(out, "value:   %s\n", res.Value)
			if res.Reason != nil {
				fmt.Fprintf(out, "reason:  %v\n", res.Reason)
			}
			return nil
		},
	}
}
