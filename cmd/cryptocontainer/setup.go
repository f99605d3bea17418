package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jkovacic/cryptocontainer/container"
	"github.com/jkovacic/cryptocontainer/src/consts"
	"github.com/jkovacic/cryptocontainer/src/pbkdf2"
	"github.com/spf13/viper"
)

// buildContainer assembles a container.Container from the bound flags:
// either a passphrase run through PBKDF2's documented default parameters,
// or explicit key/iv/salt files.
func buildContainer() (*container.Container, error) {
	if passphrase := viper.GetString("passphrase"); passphrase != "" {
		slog.Debug("deriving key material from passphrase via PBKDF2")
		params := pbkdf2.DefaultParams()
		material, err := params.DeriveKey([]byte(passphrase), consts.KEY_SIZE+consts.IV_SIZE+consts.RECOMMENDED_SALT_SIZE)
		if err != nil {
			return nil, fmt.Errorf("deriving key material: %w", err)
		}
		return container.NewFromKeyMaterial(material)
	}

	keyPath := viper.GetString("key-file")
	ivPath := viper.GetString("iv-file")
	saltPath := viper.GetString("salt-file")
	if keyPath == "" || ivPath == "" || saltPath == "" {
		return nil, fmt.Errorf("either --passphrase or all of --key-file/--iv-file/--salt-file must be given")
	}

	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("reading key file: %w", err)
	}
	iv, err := os.ReadFile(ivPath)
	if err != nil {
		return nil, fmt.Errorf("reading iv file: %w", err)
	}
	salt, err := os.ReadFile(saltPath)
	if err != nil {
		return nil, fmt.Errorf("reading salt file: %w", err)
	}

	return container.New(key, iv, salt)
}
