package library

import (
	"os"
	"strconv"
)

// Config carries the tunables the core consumes. Values come from the
// environment at process startup; every key has a working default so the
// binary runs out of the box.
type Config struct {
	DBPath          string // LIBRARY_DB_PATH
	LogFile         string // LIBRARY_LOG_FILE
	MaxReservations int    // MAX_RESERVATIONS_LIMIT
	PenaltyRate     int64  // PENALTY_RATE_PER_DAY
	LoanPeriodDays  int    // LOAN_PERIOD_DAYS
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() Config {
	return Config{
		DBPath:          getenv("LIBRARY_DB_PATH", "library.db"),
		LogFile:         getenv("LIBRARY_LOG_FILE", "library.log"),
		MaxReservations: getenvInt("MAX_RESERVATIONS_LIMIT", 5),
		PenaltyRate:     int64(getenvInt("PENALTY_RATE_PER_DAY", 10)),
		LoanPeriodDays:  getenvInt("LOAN_PERIOD_DAYS", 14),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
