package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEncryptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encrypt <plaintext>",
		Short: "Encrypt a value into a wire value",
		Long: `Encrypt a plaintext value. A fresh IV is drawn on every call, so the
same input produces a different wire value each time.

Example:
  fieldcodec encrypt ana@example.com`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wire, err := codecFrom(cmd).Encrypt(args[0])
			if err != nil {
				return fmt.Errorf("failed to encrypt: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), wire)
			return nil
		},
	}
}
