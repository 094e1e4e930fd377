package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDecryptCmd() *cobra.Command {
	var strict bool

	decryptCmd := &cobra.Command{
		Use:   "decrypt <wire>",
		Short: "Decrypt a wire value",
		Long: `Decrypt a stored value. Values that are not wire values for the
configured key are printed unchanged, matching what a read path sees.
Pass --strict to fail instead.

Example:
  fieldcodec decrypt 000102030405060708090a0b0c0d0e0f:6dcb42b0c91bed109ccbac8d5b5f87`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fc := codecFrom(cmd)
			if !strict {
				fmt.Fprintln(cmd.OutOrStdout(), fc.Decrypt(args[0]))
				return nil
			}

			plaintext, err := fc.Open(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), plaintext)
			return nil
		},
	}

	decryptCmd.Flags().BoolVar(&strict, "strict", false, "Fail on values that cannot be decrypted")
	return decryptCmd
}
