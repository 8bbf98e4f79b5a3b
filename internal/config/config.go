package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultMailFrom = "meusugarsuporte@gmail.com"

// Config holds the application configuration
type Config struct {
	DatabaseURL string
	Port        string
	JWTSecret   string
	OTPSalt     string
	DevMode     bool
	AppURL      string
	LogLevel    string
	LogFormat   string
	RedisURL    string

	// TrustProxy lets forwarding headers set the client address.
	TrustProxy bool

	Admin AdminConfig
	Mail  MailConfig
	S3    S3Config
	Video VideoConfig
	Chat  ChatConfig
}

// AdminConfig is the back-office credential. PasswordHash is a bcrypt hash.
type AdminConfig struct {
	Email        string
	PasswordHash string
}

// Configured reports whether the admin credential is set.
func (c AdminConfig) Configured() bool {
	return c.Email != "" && c.PasswordHash != ""
}

// MailConfig controls outbound notifications. Without SMTPHost messages are only logged.
type MailConfig struct {
	From         string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
}

// S3Config points the upload relay at an S3-compatible bucket.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PublicURL string
}

// Configured reports whether object storage credentials are present.
func (c S3Config) Configured() bool {
	return c.Endpoint != "" && c.AccessKey != "" && c.SecretKey != ""
}

// VideoConfig holds credentials for the image-to-video providers.
type VideoConfig struct {
	OpenAIKey        string
	ComfyUIURL       string
	ComfyUIKey       string
	RunPodKey        string
	RunPodEndpointID string
}

// ChatConfig is the simulated reply latency: Delay plus a random share of Jitter.
type ChatConfig struct {
	ReplyDelay  time.Duration
	ReplyJitter time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:      "8080",
		AppURL:    "http://localhost:3000",
		LogLevel:  "info",
		LogFormat: "text",
		Mail: MailConfig{
			From:     defaultMailFrom,
			SMTPPort: 587,
		},
		S3: S3Config{
			Bucket: "uploads",
			Region: "us-east-1",
		},
		Chat: ChatConfig{
			ReplyDelay:  1500 * time.Millisecond,
			ReplyJitter: time.Second,
		},
	}

	// DATABASE_URL is optional: without it reads serve fallback data and writes report 503
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL != "" {
		if _, err := url.Parse(cfg.DatabaseURL); err != nil {
			return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	cfg.JWTSecret = jwtSecret

	otpSalt := os.Getenv("OTP_SALT")
	if otpSalt == "" {
		return nil, fmt.Errorf("OTP_SALT environment variable is required")
	}
	cfg.OTPSalt = otpSalt

	cfg.DevMode = os.Getenv("DEV_MODE") == "true"
	cfg.TrustProxy = os.Getenv("TRUST_PROXY") == "true"

	if appURL := os.Getenv("APP_URL"); appURL != "" {
		cfg.AppURL = strings.TrimRight(appURL, "/")
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		cfg.LogFormat = format
	}
	cfg.RedisURL = lookup("REDIS_URL")

	cfg.Admin = AdminConfig{
		Email:        strings.ToLower(lookup("ADMIN_EMAIL")),
		PasswordHash: lookup("ADMIN_PASSWORD_HASH"),
	}

	if from := lookup("MAIL_FROM"); from != "" {
		cfg.Mail.From = from
	}
	cfg.Mail.SMTPHost = lookup("SMTP_HOST")
	cfg.Mail.SMTPUsername = lookup("SMTP_USERNAME")
	cfg.Mail.SMTPPassword = lookup("SMTP_PASSWORD")
	if v := lookup("SMTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT %q: %w", v, err)
		}
		cfg.Mail.SMTPPort = port
	}

	if bucket := lookup("S3_BUCKET"); bucket != "" {
		cfg.S3.Bucket = bucket
	}
	if region := lookup("S3_REGION"); region != "" {
		cfg.S3.Region = region
	}
	cfg.S3.Endpoint = lookup("S3_ENDPOINT")
	cfg.S3.AccessKey = lookup("S3_ACCESS_KEY")
	cfg.S3.SecretKey = lookup("S3_SECRET_KEY")
	cfg.S3.PublicURL = strings.TrimRight(lookup("S3_PUBLIC_URL"), "/")

	cfg.Video = VideoConfig{
		OpenAIKey:        lookup("OPENAI_API_KEY"),
		ComfyUIURL:       strings.TrimRight(lookup("COMFYUI_API_URL"), "/"),
		ComfyUIKey:       lookup("COMFYUI_API_KEY"),
		RunPodKey:        lookup("RUNPOD_API_KEY"),
		RunPodEndpointID: lookup("RUNPOD_ENDPOINT_ID"),
	}

	var err error
	if cfg.Chat.ReplyDelay, err = durationEnv("CHAT_REPLY_DELAY", cfg.Chat.ReplyDelay); err != nil {
		return nil, err
	}
	if cfg.Chat.ReplyJitter, err = durationEnv("CHAT_REPLY_JITTER", cfg.Chat.ReplyJitter); err != nil {
		return nil, err
	}

	return cfg, nil
}

// lookup returns the trimmed env value, treating sample-file placeholders as unset.
func lookup(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if isPlaceholder(v) {
		return ""
	}
	return v
}

// isPlaceholder matches values like "sua_chave_openai_aqui" left over from .env.example.
func isPlaceholder(v string) bool {
	return strings.HasPrefix(v, "sua_") && strings.HasSuffix(v, "_aqui")
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := lookup(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}
