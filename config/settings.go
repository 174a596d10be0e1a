package config

import (
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultFixedFloat is the till float pre-filled on new daily records.
//
// Set via env:
// - DEFAULT_FIXED_FLOAT=147.50
func DefaultFixedFloat() decimal.Decimal {
	v := strings.TrimSpace(os.Getenv("DEFAULT_FIXED_FLOAT"))
	if v == "" {
		return decimal.RequireFromString("147.50")
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return decimal.RequireFromString("147.50")
	}
	return d
}

// SessionLifespan is how long an issued session stays valid.
//
// Set via env:
// - TOKEN_HOUR_LIFESPAN=24
func SessionLifespan() time.Duration {
	hours := intFromEnv("TOKEN_HOUR_LIFESPAN", 24)
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

// DefaultPettyCashCategories are seeded into an empty category table.
func DefaultPettyCashCategories() []string {
	raw := strings.TrimSpace(os.Getenv("PETTY_CASH_CATEGORIES"))
	if raw == "" {
		return []string{"Payroll"}
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production")
}

func envTrue(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// SkipMigrations disables AutoMigrate on startup.
//
// Set via env:
// - SKIP_MIGRATIONS=true
func SkipMigrations() bool {
	return envTrue("SKIP_MIGRATIONS")
}
