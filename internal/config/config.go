package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env            string
	Port           int
	DBURL          string
	JWTSecret      string
	JWTTTLMinutes  int
	AllowedOrigins []string
	MaxBodyBytes   int64
	OTLPEndpoint   string
}

func Load() Config {
	// .env is optional; real env always wins
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "dev")
	port := getEnvInt("PORT", 8080)
	dbURL := buildDBURL()

	return Config{
		Env:            env,
		Port:           port,
		DBURL:          dbURL,
		JWTSecret:      getEnv("JWT_SECRET", "supersecret"),
		JWTTTLMinutes:  getEnvInt("JWT_TTL_MINUTES", 60),
		AllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),
		MaxBodyBytes:   int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
}

func (c Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTTTLMinutes) * time.Minute
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "contacthub")
	pass := getEnv("DB_PASSWORD", "contacthub")
	name := getEnv("DB_NAME", "contacthub")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}

func splitCSV(v string) []string {
	if v == "" {
		return nil
	}

	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
