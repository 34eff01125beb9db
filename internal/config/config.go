package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env      string
	HTTPPort string

	ApperURL       string
	ApperProjectID string
	ApperPublicKey string

	AutosaveDebounce time.Duration
	SessionIdleTTL   time.Duration
	DigestInterval   time.Duration
	DealSyncGuardTTL time.Duration

	DatabaseURL string
	RabbitMQURL string
	RedisAddr   string

	Mail MailConfig

	CORSOrigins []string
}

type MailConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
	To   []string
}

// Enabled reports whether enough SMTP settings are present to send mail.
func (m MailConfig) Enabled() bool {
	return m.Host != "" && m.From != "" && len(m.To) > 0
}

const (
	keyEnv              = "APP_ENV"
	keyHTTPPort         = "HTTP_PORT"
	keyApperURL         = "APPER_URL"
	keyApperProjectID   = "APPER_PROJECT_ID"
	keyApperPublicKey   = "APPER_PUBLIC_KEY"
	keyAutosaveDebounce = "AUTOSAVE_DEBOUNCE"
	keySessionIdleTTL   = "SESSION_IDLE_TTL"
	keyDigestInterval   = "DIGEST_INTERVAL"
	keyDealSyncGuardTTL = "DEAL_SYNC_GUARD_TTL"
	keyDatabaseURL      = "DATABASE_URL"
	keyRabbitMQURL      = "RABBITMQ_URL"
	keyRedisAddr        = "REDIS_ADDR"
	keyMailHost         = "MAIL_HOST"
	keyMailPort         = "MAIL_PORT"
	keyMailUser         = "MAIL_USER"
	keyMailPass         = "MAIL_PASS"
	keyMailFrom         = "MAIL_FROM"
	keyMailTo           = "MAIL_TO"
	keyCORSOrigins      = "CORS_ORIGINS"
)

var allKeys = []string{
	keyEnv, keyHTTPPort, keyApperURL, keyApperProjectID, keyApperPublicKey,
	keyAutosaveDebounce, keySessionIdleTTL, keyDigestInterval, keyDealSyncGuardTTL,
	keyDatabaseURL, keyRabbitMQURL, keyRedisAddr,
	keyMailHost, keyMailPort, keyMailUser, keyMailPass, keyMailFrom, keyMailTo,
	keyCORSOrigins,
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyEnv, "production")
	v.SetDefault(keyHTTPPort, "8080")
	v.SetDefault(keyAutosaveDebounce, 500*time.Millisecond)
	v.SetDefault(keySessionIdleTTL, 30*time.Minute)
	v.SetDefault(keyDigestInterval, 24*time.Hour)
	v.SetDefault(keyDealSyncGuardTTL, 10*time.Second)
	v.SetDefault(keyMailPort, 587)
	v.SetDefault(keyCORSOrigins, "http://localhost:5173")
}

// Load reads .env files (missing files are fine) and then the environment.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for _, k := range allKeys {
		_ = v.BindEnv(k)
	}
	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Env:              v.GetString(keyEnv),
		HTTPPort:         v.GetString(keyHTTPPort),
		ApperURL:         v.GetString(keyApperURL),
		ApperProjectID:   v.GetString(keyApperProjectID),
		ApperPublicKey:   v.GetString(keyApperPublicKey),
		AutosaveDebounce: v.GetDuration(keyAutosaveDebounce),
		SessionIdleTTL:   v.GetDuration(keySessionIdleTTL),
		DigestInterval:   v.GetDuration(keyDigestInterval),
		DealSyncGuardTTL: v.GetDuration(keyDealSyncGuardTTL),
		DatabaseURL:      v.GetString(keyDatabaseURL),
		RabbitMQURL:      v.GetString(keyRabbitMQURL),
		RedisAddr:        v.GetString(keyRedisAddr),
		Mail: MailConfig{
			Host: v.GetString(keyMailHost),
			Port: v.GetInt(keyMailPort),
			User: v.GetString(keyMailUser),
			Pass: v.GetString(keyMailPass),
			From: v.GetString(keyMailFrom),
			To:   splitList(v.GetString(keyMailTo)),
		},
		CORSOrigins: splitList(v.GetString(keyCORSOrigins)),
	}

	if cfg.ApperURL == "" {
		return nil, fmt.Errorf("config: %s is required", keyApperURL)
	}
	if cfg.AutosaveDebounce <= 0 {
		return nil, fmt.Errorf("config: %s must be positive", keyAutosaveDebounce)
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
