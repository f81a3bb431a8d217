package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lanternsoft/lantern/pkg/cryptox"
	"github.com/lanternsoft/lantern/pkg/idx"
	"github.com/lanternsoft/lantern/pkg/jwtx"
)

// initSigningKeys loads the Ed25519 signing key from cfg.SigningKey, or
// generates an ephemeral one when no path is configured. Ephemeral keys mean
// every outstanding credential dies with the process; fine for dev, configure
// a key file in prod.
func initSigningKeys(cfg Config, logger *slog.Logger) (*jwtx.Signer, *jwtx.Verifier, error) {
	var pemKey []byte

	if cfg.SigningKey != "" {
		data, err := os.ReadFile(cfg.SigningKey)
		if err != nil {
			return nil, nil, fmt.Errorf("read signing key file: %w", err)
		}
		pemKey = data
		logger.Info("signing key loaded", "path", cfg.SigningKey)
	} else {
		generated, err := cryptox.GenerateEd25519Key()
		if err != nil {
			return nil, nil, fmt.Errorf("generate ephemeral signing key: %w", err)
		}
		pemKey = generated
		logger.Warn("no signing key configured, using ephemeral key; sessions will not survive restarts")
	}

	signer, err := jwtx.NewSigner(idx.New().String(), pemKey)
	if err != nil {
		return nil, nil, fmt.Errorf("init signer: %w", err)
	}

	verifier := jwtx.NewVerifier(cfg.Issuer)
	verifier.AddSigner(signer)

	return signer, verifier, nil
}
