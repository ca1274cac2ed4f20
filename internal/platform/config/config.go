// Package config builds runtime configuration from the environment so main
// stays lean.
package config

import (
	"os"
	"strings"
	"time"
)

// Config captures everything the server wires at startup. Optional backends
// (postgres, redis, kafka) are disabled when their setting is empty.
type Config struct {
	Addr          string
	GenesisAdmin  string
	JWTSigningKey string

	PostgresURL string

	RedisURL       string
	VerifyCacheTTL time.Duration

	KafkaBrokers []string
	KafkaTopic   string
}

// FromEnv reads CERTLEDGER_* environment variables.
func FromEnv() Config {
	cfg := Config{
		Addr:           getenv("CERTLEDGER_ADDR", ":8080"),
		GenesisAdmin:   os.Getenv("CERTLEDGER_GENESIS_ADMIN"),
		JWTSigningKey:  getenv("CERTLEDGER_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		PostgresURL:    os.Getenv("CERTLEDGER_POSTGRES_URL"),
		RedisURL:       os.Getenv("CERTLEDGER_REDIS_URL"),
		VerifyCacheTTL: 5 * time.Minute,
		KafkaTopic:     getenv("CERTLEDGER_KAFKA_TOPIC", "certledger.events"),
	}
	if ttl := os.Getenv("CERTLEDGER_VERIFY_CACHE_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			cfg.VerifyCacheTTL = d
		}
	}
	if brokers := os.Getenv("CERTLEDGER_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
