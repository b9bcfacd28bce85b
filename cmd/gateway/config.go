package main

import (
	"flag"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/flaretrack/flaretrack/pkg/gateway"
	"github.com/flaretrack/flaretrack/pkg/logging"
)

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

// parseGatewayConfig parses flags, environment variables, and an
// optional YAML config file into a gateway.Config.
// Priority: flags > env > file > defaults.
func parseGatewayConfig(logger *logging.ColoredLogger) *gateway.Config {
	configPath := flag.String("config", getEnvDefault("FLARETRACK_CONFIG", ""), "Path to optional YAML config file")
	addr := flag.String("addr", getEnvDefault("FLARETRACK_ADDR", ":6001"), "HTTP listen address (e.g., :6001)")
	dbPath := flag.String("db", getEnvDefault("FLARETRACK_DB", "flaretrack.db"), "Path to the sqlite database file")
	secret := flag.String("token-secret", getEnvDefault("FLARETRACK_TOKEN_SECRET", ""), "Secret seeding the session-token signing key")
	fedIssuer := flag.String("federated-issuer", getEnvDefault("FLARETRACK_FEDERATED_ISSUER", "https://securetoken.google.com"), "Federated provider issuer base URL")
	fedKeys := flag.String("federated-keys", getEnvDefault("FLARETRACK_FEDERATED_KEYS", "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"), "Federated provider key set URL")
	fedAudience := flag.String("federated-audience", getEnvDefault("FLARETRACK_FEDERATED_AUDIENCE", ""), "Expected federated token audience (project id)")

	flag.Parse()

	cfg := &gateway.Config{}
	if p := strings.TrimSpace(*configPath); p != "" {
		data, err := os.ReadFile(p)
		if err != nil {
			logger.ComponentError(logging.ComponentGeneral, "failed to read config file", zap.String("path", p), zap.Error(err))
			os.Exit(1)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			logger.ComponentError(logging.ComponentGeneral, "failed to parse config file", zap.String("path", p), zap.Error(err))
			os.Exit(1)
		}
	}

	// Flags and env override file values; file values override
	// built-in defaults.
	override := func(dst *string, flagValue, builtin string) {
		if flagValue != builtin || *dst == "" {
			*dst = flagValue
		}
	}
	override(&cfg.ListenAddr, *addr, ":6001")
	override(&cfg.DatabasePath, *dbPath, "flaretrack.db")
	override(&cfg.TokenSecret, *secret, "")
	override(&cfg.FederatedIssuerBase, *fedIssuer, "https://securetoken.google.com")
	override(&cfg.FederatedKeySetURL, *fedKeys, "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com")
	override(&cfg.FederatedAudience, *fedAudience, "")

	if strings.TrimSpace(cfg.TokenSecret) == "" {
		logger.ComponentError(logging.ComponentGeneral, "token secret is required (set -token-secret or FLARETRACK_TOKEN_SECRET)")
		os.Exit(1)
	}

	logger.ComponentInfo(logging.ComponentGeneral, "Loaded gateway configuration",
		zap.String("addr", cfg.ListenAddr),
		zap.String("db", cfg.DatabasePath),
		zap.Bool("federated_configured", cfg.FederatedAudience != ""),
	)

	return cfg
}
