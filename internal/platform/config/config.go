package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	RefreshTokenExpiryDuration time.Duration

	// External OAuth provider (hosted authentication)
	GoogleClientID string

	// Infrastructure collaborators; both optional, with in-process fallbacks.
	RedisURL string // Rate limiter store
	AMQPURL  string // Notification surface

	// Transfer engine
	WelcomeBonusAmount decimal.Decimal
	CommitRetries      int

	// Fraud sentinel thresholds
	FraudSingleTxnLimit      decimal.Decimal
	FraudDailyLimit          decimal.Decimal
	FraudHourlyLimit         decimal.Decimal
	FraudDeviationMultiplier decimal.Decimal
	FraudRapidWindowTxns     int
	FraudRapidMaxAvgGap      time.Duration
	FraudBlocking            bool

	// Loan workflow
	LoanAnnualRate decimal.Decimal
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "nova-banking-app")
	viper.SetDefault("REFRESH_TOKEN_EXPIRY_DURATION", "168h")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("WELCOME_BONUS_AMOUNT", "500.00")
	viper.SetDefault("COMMIT_RETRIES", 3)
	viper.SetDefault("FRAUD_SINGLE_TXN_LIMIT", "100000")
	viper.SetDefault("FRAUD_DAILY_LIMIT", "250000")
	viper.SetDefault("FRAUD_HOURLY_LIMIT", "150000")
	viper.SetDefault("FRAUD_DEVIATION_MULTIPLIER", "5")
	viper.SetDefault("FRAUD_RAPID_WINDOW_TXNS", 5)
	viper.SetDefault("FRAUD_RAPID_MAX_AVG_GAP", "60s")
	viper.SetDefault("FRAUD_BLOCKING", false)
	viper.SetDefault("LOAN_ANNUAL_RATE", "8.5")

	viper.AutomaticEnv()

	cfg := &Config{}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration)
	}

	refreshExpiryStr := viper.GetString("REFRESH_TOKEN_EXPIRY_DURATION")
	refreshExpiryDuration, err := time.ParseDuration(refreshExpiryStr)
	if err != nil {
		refreshExpiryDuration = time.Hour * 24 * 7
		log.Printf("Warning: Invalid value for REFRESH_TOKEN_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", refreshExpiryStr, refreshExpiryDuration)
	}

	rapidGapStr := viper.GetString("FRAUD_RAPID_MAX_AVG_GAP")
	rapidGap, err := time.ParseDuration(rapidGapStr)
	if err != nil {
		rapidGap = 60 * time.Second
		log.Printf("Warning: Invalid value for FRAUD_RAPID_MAX_AVG_GAP ('%s'). Defaulting to %s.\n", rapidGapStr, rapidGap)
	}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	cfg.RefreshTokenExpiryDuration = refreshExpiryDuration
	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.RedisURL = viper.GetString("REDIS_URL")
	cfg.AMQPURL = viper.GetString("AMQP_URL")
	cfg.WelcomeBonusAmount = mustDecimal("WELCOME_BONUS_AMOUNT", "500.00")
	cfg.CommitRetries = viper.GetInt("COMMIT_RETRIES")
	cfg.FraudSingleTxnLimit = mustDecimal("FRAUD_SINGLE_TXN_LIMIT", "100000")
	cfg.FraudDailyLimit = mustDecimal("FRAUD_DAILY_LIMIT", "250000")
	cfg.FraudHourlyLimit = mustDecimal("FRAUD_HOURLY_LIMIT", "150000")
	cfg.FraudDeviationMultiplier = mustDecimal("FRAUD_DEVIATION_MULTIPLIER", "5")
	cfg.FraudRapidWindowTxns = viper.GetInt("FRAUD_RAPID_WINDOW_TXNS")
	cfg.FraudRapidMaxAvgGap = rapidGap
	cfg.FraudBlocking = viper.GetBool("FRAUD_BLOCKING")
	cfg.LoanAnnualRate = mustDecimal("LOAN_ANNUAL_RATE", "8.5")

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google sign-in will not function.")
	}

	return cfg, nil
}

// mustDecimal parses a decimal config value, falling back to the given
// default on malformed input.
func mustDecimal(key string, fallback string) decimal.Decimal {
	raw := viper.GetString(key)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		d, _ = decimal.NewFromString(fallback)
	}
	return d
}
