package config

import (
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata" // LIMIT_TIMEZONE must resolve in minimal images

	"github.com/SscSPs/account_ledger/internal/utils"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Approval modes.
const (
	ApprovalModeHTTP          = "http"
	ApprovalModeStaticApprove = "static-approve"
	ApprovalModeStaticReject  = "static-reject"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	DBMaxConns     int32
	LogLevel       slog.Level
	MigrationsPath string

	// Daily transfer limit accumulator. Empty RedisURL keeps it in memory.
	RedisURL           string
	LimitLocation      *time.Location
	DailyTransferLimit decimal.Decimal
	TransferFee        decimal.Decimal

	// External transfer approval
	ApprovalURL     string
	ApprovalTimeout time.Duration
	ApprovalMode    string

	RateLimit          string
	TransferRateLimit  string
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("LIMIT_TIMEZONE", "UTC")
	viper.SetDefault("DAILY_TRANSFER_LIMIT", "10000")
	viper.SetDefault("TRANSFER_FEE", "100")
	viper.SetDefault("APPROVAL_URL", "http://handy.travel/test/success.json")
	viper.SetDefault("APPROVAL_TIMEOUT", "5s")
	viper.SetDefault("APPROVAL_MODE", ApprovalModeHTTP)
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("TRANSFER_RATE_LIMIT", "30-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	if cfg.DBMaxConns = viper.GetInt32("DB_MAX_CONNS"); cfg.DBMaxConns <= 0 {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS %q: must be a positive integer", viper.GetString("DB_MAX_CONNS"))
	}
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	if err := cfg.LogLevel.UnmarshalText([]byte(viper.GetString("LOG_LEVEL"))); err != nil {
		cfg.LogLevel = slog.LevelInfo
		log.Printf("Warning: Invalid value for LOG_LEVEL ('%s'). Defaulting to info.\n", viper.GetString("LOG_LEVEL"))
	}

	cfg.RedisURL = viper.GetString("REDIS_URL")
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set. Daily transfer totals are kept in process memory.")
	}

	tz := viper.GetString("LIMIT_TIMEZONE")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid LIMIT_TIMEZONE %q: %w", tz, err)
	}
	cfg.LimitLocation = loc

	cfg.DailyTransferLimit, err = parseAmount("DAILY_TRANSFER_LIMIT")
	if err != nil {
		return nil, err
	}

	cfg.TransferFee, err = decimal.NewFromString(viper.GetString("TRANSFER_FEE"))
	if err != nil || !utils.IsValidFee(cfg.TransferFee) {
		return nil, fmt.Errorf("invalid TRANSFER_FEE %q: must be a non-negative decimal with at most %d decimal places",
			viper.GetString("TRANSFER_FEE"), utils.AmountPrecision)
	}

	cfg.ApprovalURL = viper.GetString("APPROVAL_URL")
	approvalTimeoutStr := viper.GetString("APPROVAL_TIMEOUT")
	cfg.ApprovalTimeout, err = time.ParseDuration(approvalTimeoutStr)
	if err != nil || cfg.ApprovalTimeout <= 0 {
		cfg.ApprovalTimeout = 5 * time.Second
		log.Printf("Warning: Invalid value for APPROVAL_TIMEOUT ('%s'). Defaulting to %s.\n", approvalTimeoutStr, cfg.ApprovalTimeout)
	}

	cfg.ApprovalMode = strings.ToLower(viper.GetString("APPROVAL_MODE"))
	switch cfg.ApprovalMode {
	case ApprovalModeHTTP:
		if cfg.ApprovalURL == "" {
			log.Println("Warning: APPROVAL_URL not set. Every transfer will be rejected.")
		}
	case ApprovalModeStaticApprove, ApprovalModeStaticReject:
		if cfg.IsProduction {
			return nil, fmt.Errorf("APPROVAL_MODE %q is not allowed in production", cfg.ApprovalMode)
		}
	default:
		return nil, fmt.Errorf("invalid APPROVAL_MODE %q", cfg.ApprovalMode)
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.TransferRateLimit = viper.GetString("TRANSFER_RATE_LIMIT")
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))

	return cfg, nil
}

func parseAmount(key string) (decimal.Decimal, error) {
	raw := viper.GetString(key)
	d, err := decimal.NewFromString(raw)
	if err != nil || !utils.IsValidAmount(d) {
		return decimal.Zero, fmt.Errorf("invalid %s %q: must be a positive decimal with at most %d decimal places",
			key, raw, utils.AmountPrecision)
	}
	return d, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
