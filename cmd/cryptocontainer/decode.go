package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <input-file> <output-file>",
	Short: "Decrypt a container blob back into plaintext",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		enableDebugIfRequested()

		blob, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading input file: %w", err)
		}

		c, err := buildContainer()
		if err != nil {
			return err
		}
		defer c.Destroy()

		plaintext, err := c.Decode(blob)
		if err != nil {
			return fmt.Errorf("decoding container: %w", err)
		}

		if err := os.WriteFile(args[1], plaintext, 0o600); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}

		slog.Info("decoded container", "bytes", len(plaintext), "output", args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}
