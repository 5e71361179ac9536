package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time converts the hour-based TTL settings into durations
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. Strings for identifiers and secrets, ints
// for durations and costs.
type Config struct {
	Env               string // application environment (e.g. "dev", "prod")
	Port              string // HTTP port to listen on
	DBUser            string // database username
	DBPass            string // database password (optional)
	DBHost            string // database host address
	DBPort            string // database port number
	DBName            string // database name
	JWTSecret         string // secret used to sign admin JWTs
	AdminTokenTTLMin  int    // admin access token time-to-live in minutes
	SessionTTLHours   int    // customer session time-to-live in hours
	SessionRenewHours int    // renewal window: sessions expiring within this many hours are extended
	BcryptCost        int    // bcrypt cost for password hashing
}

// Load reads configuration values from environment variables and
// returns a Config. Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:               must("APP_ENV"),
		Port:              must("APP_PORT"),
		DBUser:            must("DB_USER"),
		DBPass:            os.Getenv("DB_PASS"), // empty allowed
		DBHost:            must("DB_HOST"),
		DBPort:            must("DB_PORT"),
		DBName:            must("DB_NAME"),
		JWTSecret:         must("JWT_SECRET"),
		AdminTokenTTLMin:  mustInt("ADMIN_TOKEN_TTL_MIN"),
		SessionTTLHours:   mustInt("SESSION_TTL_HOURS"),
		SessionRenewHours: mustInt("SESSION_RENEW_HOURS"),
		BcryptCost:        mustInt("BCRYPT_COST"),
	}
}

// IsProd reports whether the service runs in production; cookie
// security attributes depend on it.
func (c Config) IsProd() bool { return c.Env == "prod" }

// SessionTTL returns the full lifetime of a customer session.
func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// SessionRenewWindow returns the window before expiry inside which a
// session is extended on use.
func (c Config) SessionRenewWindow() time.Duration {
	return time.Duration(c.SessionRenewHours) * time.Hour
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an
// integer. If conversion fails, the application logs a fatal error and
// exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
