package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var encodeCmd = &cobra.Command{
	Use:   "encode <input-file> <output-file>",
	Short: "Encrypt a file into a container blob",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		enableDebugIfRequested()

		plaintext, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading input file: %w", err)
		}

		c, err := buildContainer()
		if err != nil {
			return err
		}
		defer c.Destroy()

		blob, err := c.Encode(plaintext)
		if err != nil {
			return fmt.Errorf("encoding container: %w", err)
		}

		if err := os.WriteFile(args[1], blob, 0o600); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}

		slog.Info("encoded container", "bytes", len(blob), "output", args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)
}
