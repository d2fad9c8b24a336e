// Package config loads server settings from YAML and the environment.
package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	OTP      OTPConfig      `yaml:"otp"`
	Match    MatchConfig    `yaml:"match"`
	Media    MediaConfig    `yaml:"media"`
	Delivery DeliveryConfig `yaml:"delivery"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"             env:"NAJDENO_ADDR"             env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"NAJDENO_READ_TIMEOUT"     env-default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"NAJDENO_WRITE_TIMEOUT"    env-default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"NAJDENO_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"NAJDENO_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds the SQLite location.
type DatabaseConfig struct {
	Path string `yaml:"path" env:"NAJDENO_DB" env-default:"najdeno.db"`
}

// AuthConfig holds session token settings. An empty JWTSecret means the
// secret is generated once and kept in the database.
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" env:"NAJDENO_JWT_SECRET"`
	TokenTTL  time.Duration `yaml:"token_ttl"  env:"NAJDENO_TOKEN_TTL"  env-default:"24h"`
}

// OTPConfig holds one-time code settings.
type OTPConfig struct {
	TTL         time.Duration `yaml:"ttl"          env:"NAJDENO_OTP_TTL"          env-default:"60s"`
	MaxAttempts int           `yaml:"max_attempts" env:"NAJDENO_OTP_MAX_ATTEMPTS" env-default:"3"`
	HashCost    int           `yaml:"hash_cost"    env:"NAJDENO_OTP_HASH_COST"    env-default:"10"`
}

// MatchConfig holds match finder thresholds.
type MatchConfig struct {
	MinScore            int `yaml:"min_score"            env:"NAJDENO_MATCH_MIN_SCORE"            env-default:"40"`
	RecommendationScore int `yaml:"recommendation_score" env:"NAJDENO_MATCH_RECOMMENDATION_SCORE" env-default:"70"`
	RecommendationLimit int `yaml:"recommendation_limit" env:"NAJDENO_MATCH_RECOMMENDATION_LIMIT" env-default:"5"`
}

// MediaConfig holds the proof photo bucket. An empty Bucket disables uploads.
type MediaConfig struct {
	Endpoint      string `yaml:"endpoint"        env:"NAJDENO_S3_ENDPOINT"`
	Region        string `yaml:"region"          env:"NAJDENO_S3_REGION"          env-default:"us-east-1"`
	Bucket        string `yaml:"bucket"          env:"NAJDENO_S3_BUCKET"`
	AccessKey     string `yaml:"access_key"      env:"NAJDENO_S3_ACCESS_KEY"`
	SecretKey     string `yaml:"secret_key"      env:"NAJDENO_S3_SECRET_KEY"`
	PublicBaseURL string `yaml:"public_base_url" env:"NAJDENO_S3_PUBLIC_BASE_URL"`
}

// Enabled reports whether a bucket is configured.
func (m MediaConfig) Enabled() bool { return m.Bucket != "" }

// DeliveryConfig holds OTP delivery channels. A channel with no settings is
// left unconfigured unless ShowCodes routes it to the log.
type DeliveryConfig struct {
	SMTPHost     string        `yaml:"smtp_host"     env:"NAJDENO_SMTP_HOST"`
	SMTPPort     int           `yaml:"smtp_port"     env:"NAJDENO_SMTP_PORT"     env-default:"587"`
	SMTPUsername string        `yaml:"smtp_username" env:"NAJDENO_SMTP_USERNAME"`
	SMTPPassword string        `yaml:"smtp_password" env:"NAJDENO_SMTP_PASSWORD"`
	SMTPFrom     string        `yaml:"smtp_from"     env:"NAJDENO_SMTP_FROM"`
	SMSWebhook   string        `yaml:"sms_webhook"   env:"NAJDENO_SMS_WEBHOOK"`
	SMSToken     string        `yaml:"sms_token"     env:"NAJDENO_SMS_TOKEN"`
	SMSTimeout   time.Duration `yaml:"sms_timeout"   env:"NAJDENO_SMS_TIMEOUT"   env-default:"5s"`
	SMSRetries   uint64        `yaml:"sms_retries"   env:"NAJDENO_SMS_RETRIES"   env-default:"2"`
	ShowCodes    bool          `yaml:"show_codes"    env:"NAJDENO_SHOW_CODES"    env-default:"false"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Path   string `yaml:"path"   env:"NAJDENO_LOG"`
	Level  string `yaml:"level"  env:"NAJDENO_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"NAJDENO_LOG_FORMAT" env-default:"text"`
}
