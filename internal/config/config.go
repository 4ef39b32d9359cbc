package config // package config loads application configuration from environment variables

import (
	"log" // log is used to report configuration errors and halt execution
	"os"  // os provides access to environment variables
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The database fields are optional: when DBHost is
// empty the server runs on the in-memory store, which is the standalone
// single-machine mode of the booking manager.
type Config struct {
	Env    string // application environment (e.g. "dev", "prod")
	Port   string // HTTP port to listen on
	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address (empty selects the in-memory store)
	DBPort string // database port number
	DBName string // database name
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:    must("APP_ENV"),      // environment (dev/test/prod)
		Port:   must("APP_PORT"),     // port to bind the HTTP server
		DBUser: os.Getenv("DB_USER"), // database user
		DBPass: os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost: os.Getenv("DB_HOST"), // database host (empty allowed)
		DBPort: os.Getenv("DB_PORT"), // database port
		DBName: os.Getenv("DB_NAME"), // database name
	}
}

// UseDatabase reports whether MySQL connection parameters were supplied.
func (c Config) UseDatabase() bool { return c.DBHost != "" }

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
