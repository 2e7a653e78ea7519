// Package config loads application configuration from environment
// variables.  A .env file in the working directory, when present, is read
// first; variables already set in the process environment win.
package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/cinema-ticket-ledger/internal/ledger"
)

// Config holds all runtime configuration values.
type Config struct {
	Env           string        // application environment (dev, prod)
	Port          string        // HTTP port to listen on
	LogLevel      string        // zerolog level name (debug, info, warn, ...)
	TicketPrice   int           // flat price per ticket
	MaxSeats      int           // capacity of every showtime
	SeedOnStart   bool          // load the default movies and showtimes at boot
	RabbitURL     string        // AMQP broker; empty disables event publishing
	BookingLogDir string        // directory of booking.log written by cmd/booking-log
	ShutdownGrace time.Duration // time allowed for in-flight requests on shutdown

	RateLimit RateLimitConfig
	Cache     CacheConfig
	Redis     RedisConfig
}

// Load reads the optional .env file and builds a Config with defaults for
// every unset variable.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}
	return FromEnv(), nil
}

// FromEnv builds a Config from the current process environment only.
func FromEnv() Config {
	return Config{
		Env:           envStr("APP_ENV", "dev"),
		Port:          envStr("APP_PORT", "8080"),
		LogLevel:      envStr("LOG_LEVEL", "info"),
		TicketPrice:   envInt("TICKET_PRICE", ledger.TicketPrice),
		MaxSeats:      envInt("MAX_SEATS", ledger.MaxSeats),
		SeedOnStart:   envBool("SEED_ON_START", true),
		RabbitURL:     envStr("RABBITMQ_URL", envStr("AMQP_URL", "")),
		BookingLogDir: envStr("BOOKING_LOG_DIR", "logs"),
		ShutdownGrace: envDur("SHUTDOWN_GRACE", 10*time.Second),
		RateLimit:     LoadRateLimitConfig(),
		Cache:         LoadCacheConfig(),
		Redis:         LoadRedisConfig(),
	}
}

// LedgerOptions translates the pricing and capacity settings into ledger
// options.
func (c Config) LedgerOptions() []ledger.Option {
	return []ledger.Option{
		ledger.WithCapacity(c.MaxSeats),
		ledger.WithTicketPrice(c.TicketPrice),
	}
}
