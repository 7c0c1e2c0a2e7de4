package config

import (
	"os"
	"strconv"
)

// Config raccoglie tutta la configurazione letta dall'ambiente.
type Config struct {
	Porta string

	DB    DBConfig
	Redis RedisConfig

	JWTSecret string

	ChatAPIKey string
	ChatModel  string

	GeoURL string

	LogLevel  string
	LogFormat string

	CORSOrigins []string
}

type DBConfig struct {
	Host       string
	Porta      uint
	Nome       string
	Utente     string
	Password   string
	SSLDisable bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func env(chiave, fallback string) string {
	if v := os.Getenv(chiave); v != "" {
		return v
	}
	return fallback
}

// Carica legge la configurazione dalle variabili d'ambiente.
func Carica() Config {
	porta, err := strconv.ParseUint(env("DB_PORT", "5432"), 10, 32)
	if err != nil {
		porta = 5432
	}
	redisDB, err := strconv.Atoi(env("REDIS_DB", "0"))
	if err != nil {
		redisDB = 0
	}

	cfg := Config{
		Porta: env("PORT", "8080"),
		DB: DBConfig{
			Host:       env("DB_HOST", "localhost"),
			Porta:      uint(porta),
			Nome:       env("DB_NAME", "gestione_lead"),
			Utente:     env("DB_USERNAME", "postgres"),
			Password:   env("DB_PASSWORD", "postgres"),
			SSLDisable: os.Getenv("DB_SSL_MODE_DISABLE") == "true",
		},
		Redis: RedisConfig{
			Addr:     env("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		JWTSecret:  os.Getenv("JWT_SECRET"),
		ChatAPIKey: os.Getenv("CHAT_API_KEY"),
		ChatModel:  env("CHAT_MODEL", "gpt-4o-mini"),
		GeoURL:     env("GEO_LOOKUP_URL", "http://ip-api.com/json"),
		LogLevel:   env("LOG_LEVEL", "info"),
		LogFormat:  env("LOG_FORMAT", "json"),
	}

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = []string{origins}
	} else {
		cfg.CORSOrigins = []string{"*"}
	}

	return cfg
}
