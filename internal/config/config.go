package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full runtime configuration. It is built once in main and
// passed into every constructor; business logic never reads viper directly.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Argon2   Argon2Config
	OTP      OTPConfig
	Auth     AuthConfig
	Mail     MailConfig
	Google   GoogleConfig
}

type ServerConfig struct {
	Port    string
	BaseURL string
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// JWTConfig carries one secret per token purpose. Expiries are fixed policy:
// access tokens last a day, confirm and reset tokens only minutes.
type JWTConfig struct {
	AccessSecret  string
	ConfirmSecret string
	ResetSecret   string
	AccessExpiry  time.Duration
	ConfirmExpiry time.Duration
	ResetExpiry   time.Duration
}

type Argon2Config struct {
	Time       uint32
	Memory     uint32
	Threads    uint8
	KeyLength  uint32
	SaltLength int
}

type OTPConfig struct {
	Length int
	TTL    time.Duration
}

type AuthConfig struct {
	MaxLoginAttempts int
	BlacklistTTL     time.Duration
}

type MailConfig struct {
	Sender    string
	AWSRegion string
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Load reads .env plus environment overrides and materialises the Config.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional; environment variables may carry everything.
		fmt.Printf("Config file not found, using environment: %v\n", err)
	}

	bindings := map[string]string{
		"server.port":             "PORT",
		"server.base_url":         "BASE_URL",
		"database.host":           "DATABASE_HOST",
		"database.port":           "DATABASE_PORT",
		"database.user":           "DATABASE_USER",
		"database.password":       "DATABASE_PASSWORD",
		"database.name":           "DATABASE_NAME",
		"database.ssl_mode":       "DATABASE_SSL_MODE",
		"redis.host":              "REDIS_HOST",
		"redis.port":              "REDIS_PORT",
		"redis.password":          "REDIS_PASSWORD",
		"redis.db":                "REDIS_DB",
		"jwt.access_secret":       "JWT_ACCESS_TOKEN_SECRET",
		"jwt.confirm_secret":      "JWT_CONFIRM_TOKEN_SECRET",
		"jwt.reset_secret":        "JWT_RESET_PASSWORD_SECRET",
		"argon2.time":             "ARGON2_TIME",
		"argon2.memory":           "ARGON2_MEMORY",
		"argon2.threads":          "ARGON2_THREADS",
		"argon2.key_length":       "ARGON2_KEY_LENGTH",
		"argon2.salt_length":      "ARGON2_SALT_LENGTH",
		"otp.length":              "OTP_LENGTH",
		"otp.ttl":                 "OTP_TTL",
		"auth.max_login_attempts": "MAX_LOGIN_ATTEMPTS",
		"mail.sender":             "EMAIL_SENDER",
		"mail.aws_region":         "AWS_REGION",
		"google.client_id":        "GOOGLE_CLIENT_ID",
		"google.client_secret":    "GOOGLE_CLIENT_SECRET",
		"google.redirect_url":     "GOOGLE_REDIRECT_URL",
	}
	for key, env := range bindings {
		viper.BindEnv(key, env)
	}

	setDefaults()

	cfg := &Config{
		Server: ServerConfig{
			Port:    viper.GetString("server.port"),
			BaseURL: viper.GetString("server.base_url"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("database.host"),
			Port:            viper.GetString("database.port"),
			User:            viper.GetString("database.user"),
			Password:        viper.GetString("database.password"),
			Name:            viper.GetString("database.name"),
			SSLMode:         viper.GetString("database.ssl_mode"),
			MaxOpenConns:    viper.GetInt("database.max_open_conns"),
			MaxIdleConns:    viper.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: viper.GetDuration("database.conn_max_lifetime"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("redis.host"),
			Port:     viper.GetString("redis.port"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			AccessSecret:  viper.GetString("jwt.access_secret"),
			ConfirmSecret: viper.GetString("jwt.confirm_secret"),
			ResetSecret:   viper.GetString("jwt.reset_secret"),
			AccessExpiry:  viper.GetDuration("jwt.access_expiry"),
			ConfirmExpiry: viper.GetDuration("jwt.confirm_expiry"),
			ResetExpiry:   viper.GetDuration("jwt.reset_expiry"),
		},
		Argon2: Argon2Config{
			Time:       viper.GetUint32("argon2.time"),
			Memory:     viper.GetUint32("argon2.memory"),
			Threads:    uint8(viper.GetUint32("argon2.threads")),
			KeyLength:  viper.GetUint32("argon2.key_length"),
			SaltLength: viper.GetInt("argon2.salt_length"),
		},
		OTP: OTPConfig{
			Length: viper.GetInt("otp.length"),
			TTL:    viper.GetDuration("otp.ttl"),
		},
		Auth: AuthConfig{
			MaxLoginAttempts: viper.GetInt("auth.max_login_attempts"),
			BlacklistTTL:     viper.GetDuration("auth.blacklist_ttl"),
		},
		Mail: MailConfig{
			Sender:    viper.GetString("mail.sender"),
			AWSRegion: viper.GetString("mail.aws_region"),
		},
		Google: GoogleConfig{
			ClientID:     viper.GetString("google.client_id"),
			ClientSecret: viper.GetString("google.client_secret"),
			RedirectURL:  viper.GetString("google.redirect_url"),
		},
	}

	if cfg.JWT.AccessSecret == "" || cfg.JWT.ConfirmSecret == "" || cfg.JWT.ResetSecret == "" {
		return nil, fmt.Errorf("jwt secrets must be configured")
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.base_url", "http://localhost:8080")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", "5432")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "password")
	viper.SetDefault("database.name", "fastx")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", "6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("jwt.access_expiry", 24*time.Hour)
	viper.SetDefault("jwt.confirm_expiry", 10*time.Minute)
	viper.SetDefault("jwt.reset_expiry", 7*time.Minute)

	viper.SetDefault("argon2.time", 1)
	viper.SetDefault("argon2.memory", 64*1024)
	viper.SetDefault("argon2.threads", 4)
	viper.SetDefault("argon2.key_length", 32)
	viper.SetDefault("argon2.salt_length", 16)

	viper.SetDefault("otp.length", 4)
	viper.SetDefault("otp.ttl", 5*time.Minute)

	viper.SetDefault("auth.max_login_attempts", 7)
	viper.SetDefault("auth.blacklist_ttl", 24*time.Hour)

	viper.SetDefault("mail.sender", "no-reply@fastx.app")
	viper.SetDefault("mail.aws_region", "us-east-1")
}
