package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/zoobzio/fieldcodec"
)

type codecKey struct{}

// NewRootCmd builds the command tree. Each call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fieldcodec",
		Short: "Encrypt and decrypt field values",
		Long: `fieldcodec encrypts single attribute values into <iv_hex>:<ciphertext_hex>
wire values and decrypts them back, using the same key derivation as the
library. The secret is read from FIELDCODEC_SECRET, optionally via a .env file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			envFile, _ := cmd.Flags().GetString("env-file")
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to load %s: %w", envFile, err)
			}

			cfg, err := fieldcodec.LoadConfig()
			if err != nil {
				return err
			}
			if scheme, _ := cmd.Flags().GetString("scheme"); scheme != "" {
				cfg.Scheme = fieldcodec.Scheme(scheme)
			}

			fc, err := fieldcodec.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("failed to create field codec: %w", err)
			}

			cmd.SetContext(context.WithValue(cmd.Context(), codecKey{}, fc))
			return nil
		},
	}

	rootCmd.PersistentFlags().String("env-file", ".env", "Path to a .env file with FIELDCODEC_* variables")
	rootCmd.PersistentFlags().String("scheme", "", "Encryption scheme (ctr, gcm, xchacha); overrides FIELDCODEC_SCHEME")

	rootCmd.AddCommand(newEncryptCmd(), newDecryptCmd(), newInspectCmd())
	return rootCmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func codecFrom(cmd *cobra.Command) *fieldcodec.FieldCodec {
	fc, _ := cmd.Context().Value(codecKey{}).(*fieldcodec.FieldCodec)
	return fc
}
