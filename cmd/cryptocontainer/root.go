// Package main implements a small Cobra-based CLI demo around the
// container package: encode a plaintext file into a container blob, or
// decode a container blob back into plaintext, either from explicit
// key/iv/salt files or from a passphrase run through PBKDF2.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"hermannm.dev/devlog"
)

var logLevel slog.LevelVar

var rootCmd = &cobra.Command{
	Use:   "cryptocontainer",
	Short: "Encode and decode AES-256/CFB-128 + HMAC-SHA1 container blobs",
	Long: `cryptocontainer encodes and decodes the DER container format:
SEQUENCE { version INTEGER, cipherText OCTET STRING, hmac OCTET STRING },
built from a hand-rolled AES-256 engine in CFB-128 mode with an
HMAC-SHA1 tag computed over the plaintext.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	slog.SetDefault(slog.New(devlog.NewHandler(os.Stdout, &devlog.Options{
		Level: &logLevel,
	})))

	rootCmd.PersistentFlags().Bool("debug", false, "Print debug logging")
	rootCmd.PersistentFlags().String("key-file", "", "Path to a raw 32 byte AES-256 key")
	rootCmd.PersistentFlags().String("iv-file", "", "Path to a raw 16 byte CFB IV")
	rootCmd.PersistentFlags().String("salt-file", "", "Path to the HMAC salt")
	rootCmd.PersistentFlags().String("passphrase", "", "Derive key/iv/salt from this passphrase via PBKDF2 instead of --key-file/--iv-file/--salt-file")

	_ = viper.BindPFlags(rootCmd.PersistentFlags())
}

func enableDebugIfRequested() {
	if viper.GetBool("debug") {
		logLevel.Set(slog.LevelDebug)
	}
}
