package config

import "os"

// Config is the process-level environment configuration: addresses and
// credentials only. Game rules live in the database (see Runtime) so admins
// can change them without a restart.
type Config struct {
	Host string
	Port string

	RedisURL  string
	RedisPass string

	AdminToken string

	PaystackSecretKey    string
	FlutterwaveSecretKey string
	MonnifyAPIKey        string

	// ServerSeed pins the provably-fair seed across restarts; empty means a
	// fresh seed is generated (and committed) at startup.
	ServerSeed string
}

func Load() *Config {
	return &Config{
		Host:                 getEnv("HOST", "127.0.0.1"),
		Port:                 getEnv("PORT", "3000"),
		RedisURL:             getEnv("REDIS_URL", "127.0.0.1:6379"),
		RedisPass:            os.Getenv("REDIS_PASSWORD"),
		AdminToken:           os.Getenv("ADMIN_TOKEN"),
		PaystackSecretKey:    os.Getenv("PAYSTACK_SECRET_KEY"),
		FlutterwaveSecretKey: os.Getenv("FLUTTERWAVE_SECRET_KEY"),
		MonnifyAPIKey:        os.Getenv("MONNIFY_API_KEY"),
		ServerSeed:           os.Getenv("GAME_SERVER_SEED"),
	}
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}
