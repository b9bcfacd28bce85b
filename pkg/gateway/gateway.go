// Package gateway wires the HTTP surface: router, middleware, and the
// auth and event handler packages.
package gateway

import (
	"database/sql"
	"time"

	"github.com/flaretrack/flaretrack/pkg/auth"
	"github.com/flaretrack/flaretrack/pkg/logging"
)

// Config holds configuration for the gateway server.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`

	// DatabasePath is the sqlite file backing all durable state.
	DatabasePath string `yaml:"database_path"`

	// TokenSecret seeds the session-token signing key.
	TokenSecret string `yaml:"token_secret"`

	// Federated provider settings. Audience is the provider project id;
	// leaving it empty disables the federated sign-in and link routes.
	FederatedIssuerBase string `yaml:"federated_issuer_base"`
	FederatedKeySetURL  string `yaml:"federated_key_set_url"`
	FederatedAudience   string `yaml:"federated_audience"`
}

type Gateway struct {
	logger      *logging.ColoredLogger
	cfg         *Config
	db          *sql.DB
	authService *auth.Service
	startedAt   time.Time
}

// New assembles a Gateway from an opened database.
func New(logger *logging.ColoredLogger, cfg *Config, db *sql.DB) *Gateway {
	nonces := auth.NewNonceStore(db)
	identities := auth.NewIdentityStore(db)
	tokens := auth.NewTokenIssuer(cfg.TokenSecret)
	wallet := auth.NewWalletVerifier(nonces)

	var federated *auth.FederatedVerifier
	if cfg.FederatedAudience != "" {
		keys := auth.NewKeySet(cfg.FederatedKeySetURL)
		federated = auth.NewFederatedVerifier(keys, cfg.FederatedIssuerBase, cfg.FederatedAudience)
	} else {
		logger.ComponentWarn(logging.ComponentAuth, "federated audience not configured; federated sign-in disabled")
	}

	svc := auth.NewService(logger, nonces, wallet, federated, identities, tokens)

	return &Gateway{
		logger:      logger,
		cfg:         cfg,
		db:          db,
		authService: svc,
		startedAt:   time.Now(),
	}
}

// AuthService exposes the assembled auth service, mainly for tests.
func (g *Gateway) AuthService() *auth.Service {
	return g.authService
}
