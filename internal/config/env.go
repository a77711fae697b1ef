package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Secrets never live in the yaml file.
type Secrets struct {
	// WalletPassphrase seals the stored wallet record when set.
	WalletPassphrase string `envconfig:"WALLET_PASSPHRASE"`
	// InfuraKey replaces YOUR_INFURA_KEY in preset RPC URLs.
	InfuraKey string `envconfig:"INFURA_KEY"`
}

// LoadSecrets reads Secrets from the environment.
func LoadSecrets() (Secrets, error) {
	var s Secrets
	if err := envconfig.Process("", &s); err != nil {
		return Secrets{}, fmt.Errorf("process env: %w", err)
	}
	return s, nil
}
