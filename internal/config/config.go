package config

import (
	"os"
	"strconv"
)

type Config struct {
	// Server
	Port string

	// Database ("postgres" or "memory")
	StorageBackend string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string

	// Auth (single admin user)
	AdminUsername string
	AdminPassword string
	JWTSecret     string

	// Guacamole gateway. One fixed administrative credential pair is used for
	// every mirroring call, never the per-server credentials.
	GuacamoleURL        string
	GuacamoleUsername   string
	GuacamolePassword   string
	GuacamoleDataSource string
	GuacamoleTimeout    int // seconds
}

func Load() *Config {
	guacTimeout, _ := strconv.Atoi(getEnv("GUACAMOLE_TIMEOUT", "30"))
	return &Config{
		Port:                getEnv("PORT", "8001"),
		StorageBackend:      getEnv("STORAGE_BACKEND", "postgres"),
		DBHost:              getEnv("DB_HOST", "localhost"),
		DBPort:              getEnv("DB_PORT", "5432"),
		DBUser:              getEnv("DB_USER", "postgres"),
		DBPassword:          getEnv("DB_PASSWORD", ""),
		DBName:              getEnv("DB_NAME", "rdp_manager"),
		DBSSLMode:           getEnv("DB_SSLMODE", "disable"),
		AdminUsername:       getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:       getEnv("ADMIN_PASSWORD", ""),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		GuacamoleURL:        getEnv("GUACAMOLE_URL", "http://localhost:8080/guacamole"),
		GuacamoleUsername:   getEnv("GUACAMOLE_USERNAME", "guacadmin"),
		GuacamolePassword:   getEnv("GUACAMOLE_PASSWORD", "guacadmin"),
		GuacamoleDataSource: getEnv("GUACAMOLE_DATASOURCE", "postgresql"),
		GuacamoleTimeout:    guacTimeout,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
