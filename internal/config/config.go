package config

import (
	"os"
	"strconv"
	"time"
)

// Config agrupa toda la configuración por env vars.
// Load nunca falla: todo tiene default usable para dev local.
type Config struct {
	HTTPAddr string

	// Si DatabaseDSN viene vacío, el router usa repos in-memory (modo dev).
	DatabaseDSN string

	// Si RedisAddr viene vacío, el change feed corre in-process.
	RedisAddr     string
	RedisPassword string

	// Si JWTSecret viene vacío, el auth corre en modo dev (headers X-Debug-*).
	JWTSecret string
	TokenTTL  time.Duration

	// Ventana de coalescing del listener realtime.
	RefreshDebounce time.Duration

	// Umbral para el aviso low_stock a admins después de un checkout.
	LowStockThreshold int
}

func Load() Config {
	return Config{
		HTTPAddr:          getenv("HTTP_ADDR", ":8080"),
		DatabaseDSN:       getenv("DATABASE_DSN", ""),
		RedisAddr:         getenv("REDIS_ADDR", ""),
		RedisPassword:     getenv("REDIS_PASSWORD", ""),
		JWTSecret:         getenv("JWT_SECRET", ""),
		TokenTTL:          getdur("TOKEN_TTL", 24*time.Hour),
		RefreshDebounce:   getdur("REFRESH_DEBOUNCE", 300*time.Millisecond),
		LowStockThreshold: getint("LOW_STOCK_THRESHOLD", 5),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getdur(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
