package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Archive drivers accepted by ARCHIVE_DRIVER.
const (
	ArchiveMemory = "memory"
	ArchiveSQLite = "sqlite"
	ArchiveMongo  = "mongo"
)

// Config holds the application's configuration values.
type Config struct {
	HostIP             string // Host IP for the server
	RESTPort           int    // Port for the REST API
	GinMode            string // Mode for the Gin framework (e.g., release, debug, test)
	JWTSecret          string // Secret key for session token signing
	JWTIssuer          string // Issuer claim for session tokens
	SessionTokenTTLMin int    // Lifetime of a session token in minutes
	SessionIdleTTLMin  int    // Idle minutes before a session is evicted
	AutoRunDelayMs     int    // Default delay between auto-run steps
	ArchiveDriver      string // memory, sqlite or mongo
	SQLitePath         string // Database file for the sqlite archive
	DBHost             string // Hostname or IP address for the mongo archive
	DBPort             int    // Port number for the mongo archive
	DBUser             string // Username for the mongo archive
	DBPassword         string // Password for the mongo archive
	DBName             string // Name of the mongo database
	RedisAddr          string // Redis address for the recent runs index; empty keeps it in memory
	RedisPassword      string // Redis password
	RecentRunsTTLSec   int    // Expiration of the recent runs index
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig initializes and returns the application configuration.
// It loads environment variables from a .env file.
func initConfig() Config {
	// Load .env file if available
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	c := Config{
		HostIP:             getEnvWithDefault("HOST_IP", "127.0.0.1"),
		RESTPort:           getEnvAsIntWithDefault("REST_PORT", 5000),
		GinMode:            getEnvWithDefault("GIN_MODE", "release"),
		JWTSecret:          mustGetEnv("JWT_SECRET"),
		JWTIssuer:          getEnvWithDefault("JWT_ISSUER", "vinom-biolab"),
		SessionTokenTTLMin: getEnvAsIntWithDefault("SESSION_TOKEN_TTL_MIN", 720),
		SessionIdleTTLMin:  getEnvAsIntWithDefault("SESSION_IDLE_TTL_MIN", 60),
		AutoRunDelayMs:     getEnvAsIntWithDefault("AUTORUN_DELAY_MS", 500),
		ArchiveDriver:      getEnvWithDefault("ARCHIVE_DRIVER", ArchiveMemory),
		SQLitePath:         getEnvWithDefault("SQLITE_PATH", "data/biolab.db"),
		DBName:             getEnvWithDefault("DB_NAME", "biolab"),
		RedisAddr:          getEnvWithDefault("REDIS_ADDR", ""),
		RedisPassword:      getEnvWithDefault("REDIS_PASS", ""),
		RecentRunsTTLSec:   getEnvAsIntWithDefault("RECENT_RUNS_TTL_SEC", 24*60*60),
	}

	switch c.ArchiveDriver {
	case ArchiveMemory, ArchiveSQLite:
	case ArchiveMongo:
		// Mongo settings are only required when the archive lives there
		c.DBHost = mustGetEnv("DB_HOST")
		c.DBPort = mustGetEnvAsInt("DB_PORT")
		c.DBUser = mustGetEnv("DB_USER")
		c.DBPassword = mustGetEnv("DB_PASS")
	default:
		log.Fatalf("[APP] [FATAL] ARCHIVE_DRIVER must be one of %s, %s, %s; got %q", ArchiveMemory, ArchiveSQLite, ArchiveMongo, c.ArchiveDriver)
	}

	return c
}

// mustGetEnv retrieves the value of an environment variable or logs a fatal error if not set.
func mustGetEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		log.Fatalf("[APP] [FATAL] Environment variable %s is not set", key)
	}
	return value
}

// mustGetEnvAsInt retrieves the value of an environment variable as an integer or logs a fatal error if not set or cannot be parsed.
func mustGetEnvAsInt(key string) int {
	valueStr := mustGetEnv(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsIntWithDefault retrieves an integer environment variable or returns a default value if not set.
func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}
