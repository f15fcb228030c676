package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Flag names bound into viper
const (
	FlagPort        = "port"
	FlagAppMode     = "app-mode"
	FlagMigrateOnly = "migrate-only"
)

// Supported database dialects
const (
	DialectMySQL  = "mysql"
	DialectSQLite = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	AppMode     string
	Port        string
	MigrateOnly bool
	Origins     string
	HTTPTimeout time.Duration
	StepUpTTL   time.Duration
	Database    DatabaseConfig
	JWT         JWTConfig
	OTP         OTPConfig
	Biometric   BiometricConfig
	Push        PushConfig
	Mail        MailConfig
	Scheduler   SchedulerConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Dialect    string
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SQLitePath string
}

// JWTConfig holds access token configuration
type JWTConfig struct {
	Secret          string
	AccessTokenMins int
}

// OTPConfig holds step-up challenge configuration
type OTPConfig struct {
	CodeLength  int
	TTL         time.Duration
	MaxAttempts int
	Cooldown    time.Duration
}

// BiometricConfig holds face comparison configuration
type BiometricConfig struct {
	ServiceURL    string
	APIKey        string
	Threshold     float64
	MaxImageBytes int
}

// PushConfig holds push gateway configuration
type PushConfig struct {
	GatewayURL  string
	AccessToken string
	BatchSize   int
}

// MailConfig holds challenge delivery configuration
type MailConfig struct {
	RelayURL string
	APIKey   string
	Sender   string
}

// SchedulerConfig holds cron specs for background jobs
type SchedulerConfig struct {
	SweepSpec   string
	CleanupSpec string
}

// Global config instance
var AppConfig *Config

// RegisterFlags adds the server command-line flags to fs
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(FlagPort, "", "HTTP port (overrides PORT)")
	fs.String(FlagAppMode, "", "dev or prod (overrides APP_MODE)")
	fs.Bool(FlagMigrateOnly, false, "run migrations and seeders, then exit")
}

// Load reads configuration from .env file, environment variables and flags
func Load(flags *pflag.FlagSet) (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	// Flags win over env when set
	appMode := strings.TrimSpace(firstNonEmpty(v.GetString(FlagAppMode), v.GetString("APP_MODE")))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:     appMode,
		Port:        firstNonEmpty(v.GetString(FlagPort), v.GetString("PORT")),
		MigrateOnly: v.GetBool(FlagMigrateOnly),
		Origins:     v.GetString("ALLOWED_ORIGINS"),
		HTTPTimeout: v.GetDuration("HTTP_TIMEOUT"),
		StepUpTTL:   v.GetDuration("STEP_UP_TTL"),
		Database:    loadDatabaseConfig(v, appMode),
		JWT:         loadJWTConfig(v, appMode),
		OTP: OTPConfig{
			CodeLength:  v.GetInt("OTP_CODE_LENGTH"),
			TTL:         v.GetDuration("OTP_TTL"),
			MaxAttempts: v.GetInt("OTP_MAX_ATTEMPTS"),
			Cooldown:    v.GetDuration("OTP_COOLDOWN"),
		},
		Biometric: BiometricConfig{
			ServiceURL:    v.GetString("FACE_SERVICE_URL"),
			APIKey:        v.GetString("FACE_SERVICE_API_KEY"),
			Threshold:     v.GetFloat64("FACE_MATCH_THRESHOLD"),
			MaxImageBytes: v.GetInt("FACE_MAX_IMAGE_BYTES"),
		},
		Push: PushConfig{
			GatewayURL:  v.GetString("PUSH_GATEWAY_URL"),
			AccessToken: v.GetString("PUSH_ACCESS_TOKEN"),
			BatchSize:   v.GetInt("PUSH_BATCH_SIZE"),
		},
		Mail: MailConfig{
			RelayURL: v.GetString("MAIL_RELAY_URL"),
			APIKey:   v.GetString("MAIL_API_KEY"),
			Sender:   v.GetString("MAIL_SENDER"),
		},
		Scheduler: SchedulerConfig{
			SweepSpec:   v.GetString("LIFECYCLE_SWEEP_SPEC"),
			CleanupSpec: v.GetString("CLEANUP_SPEC"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// Validate checks values that would make the voting pipeline unsafe
func (c *Config) Validate() error {
	if c.Database.Dialect != DialectMySQL && c.Database.Dialect != DialectSQLite {
		return fmt.Errorf("only %s and %s supported, got '%s'", DialectMySQL, DialectSQLite, c.Database.Dialect)
	}
	if c.OTP.MaxAttempts < 1 || c.OTP.CodeLength < 4 {
		return fmt.Errorf("invalid OTP config: attempts=%d length=%d", c.OTP.MaxAttempts, c.OTP.CodeLength)
	}
	if c.Push.BatchSize < 1 {
		return fmt.Errorf("PUSH_BATCH_SIZE must be positive")
	}
	if c.IsProd() && c.JWT.Secret == "default_secret" {
		return fmt.Errorf("PROD_JWT_SECRET must be set in prod mode")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_MODE", "dev")
	v.SetDefault("PORT", "3000")
	v.SetDefault("HTTP_TIMEOUT", 15*time.Second)
	v.SetDefault("STEP_UP_TTL", 10*time.Minute)
	v.SetDefault("ACCESS_TOKEN_MINUTES", 60)

	v.SetDefault("OTP_CODE_LENGTH", 6)
	v.SetDefault("OTP_TTL", 5*time.Minute)
	v.SetDefault("OTP_MAX_ATTEMPTS", 5)
	v.SetDefault("OTP_COOLDOWN", time.Minute)

	v.SetDefault("FACE_MATCH_THRESHOLD", 80.0)
	v.SetDefault("FACE_MAX_IMAGE_BYTES", 10<<20)

	v.SetDefault("PUSH_GATEWAY_URL", "https://exp.host/--/api/v2/push/send")
	v.SetDefault("PUSH_BATCH_SIZE", 100)

	v.SetDefault("MAIL_SENDER", "no-reply@campusvote.local")

	v.SetDefault("LIFECYCLE_SWEEP_SPEC", "@every 30s")
	v.SetDefault("CLEANUP_SPEC", "@every 5m")
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(v *viper.Viper, mode string) DatabaseConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return DatabaseConfig{
		Dialect:    getString(v, prefix+"DB_DIALECT", DialectMySQL),
		Host:       getString(v, prefix+"DB_HOST", "localhost"),
		Port:       getString(v, prefix+"DB_PORT", "3306"),
		User:       getString(v, prefix+"DB_USER", "root"),
		Password:   getString(v, prefix+"DB_PASS", ""),
		DBName:     getString(v, prefix+"DB_NAME", "campusvote"),
		SQLitePath: getString(v, prefix+"DB_SQLITE_PATH", "campusvote.db"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(v *viper.Viper, mode string) JWTConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return JWTConfig{
		Secret:          getString(v, prefix+"JWT_SECRET", "default_secret"),
		AccessTokenMins: v.GetInt("ACCESS_TOKEN_MINUTES"),
	}
}

// getString gets a key with default value
func getString(v *viper.Viper, key, defaultValue string) string {
	if value := v.GetString(key); value != "" {
		return value
	}
	return defaultValue
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := c.Origins
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://vote.campus.local"
	}
	return origins
}
