package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-wide configuration. It is built once at startup and
// injected into constructors; nothing in the wallet reads the environment
// after this point.
type Server struct {
	Addr string

	// OTP challenge parameters.
	ChallengeTTL time.Duration
	OTPLength    int

	// Directory access token signing key (HS256, dev default).
	TokenSigningKey string
	TokenTTL        time.Duration

	// SupportedDIDMethods is the wallet-wide DID method allow-list.
	SupportedDIDMethods []string

	// Optional backends; empty means in-memory.
	DatabaseURL string
	RedisAddr   string

	// Optional Kafka audit sink; empty disables it.
	KafkaBrokers    string
	KafkaAuditTopic string

	// DeviceBinding enables User-Agent fingerprinting on sign-in.
	DeviceBinding bool

	// Enrollment side effects, mapped onto the wallet facade options.
	IssueSignUpCredential bool
	SkipSeedBackup        bool
	SkipCredentialBackup  bool

	// TracingEnabled switches the facade from the no-op tracer to the
	// OpenTelemetry adapter.
	TracingEnabled bool

	// LogLevel is the minimum level the process logger emits.
	LogLevel slog.Level
}

const (
	defaultChallengeTTL = 10 * time.Minute
	defaultTokenTTL     = 24 * time.Hour
	defaultOTPLength    = 6
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:            envOr("WALLETGATE_ADDR", ":8080"),
		ChallengeTTL:    durationOr("WALLETGATE_CHALLENGE_TTL", defaultChallengeTTL),
		OTPLength:       intOr("WALLETGATE_OTP_LENGTH", defaultOTPLength),
		TokenSigningKey: envOr("WALLETGATE_TOKEN_SIGNING_KEY", "dev-secret-key-change-in-production"),
		TokenTTL:        durationOr("WALLETGATE_TOKEN_TTL", defaultTokenTTL),
		DatabaseURL:     os.Getenv("WALLETGATE_DB_URL"),
		RedisAddr:       os.Getenv("WALLETGATE_REDIS_ADDR"),
		KafkaBrokers:    os.Getenv("WALLETGATE_KAFKA_BROKERS"),
		KafkaAuditTopic: envOr("WALLETGATE_KAFKA_AUDIT_TOPIC", "walletgate.audit"),
		DeviceBinding:   os.Getenv("WALLETGATE_DEVICE_BINDING") == "true",

		IssueSignUpCredential: os.Getenv("WALLETGATE_ISSUE_SIGNUP_CREDENTIAL") == "true",
		SkipSeedBackup:        os.Getenv("WALLETGATE_SKIP_SEED_BACKUP") == "true",
		SkipCredentialBackup:  os.Getenv("WALLETGATE_SKIP_CREDENTIAL_BACKUP") == "true",
		TracingEnabled:        os.Getenv("WALLETGATE_TRACING") == "true",
		LogLevel:              levelOr("WALLETGATE_LOG_LEVEL", slog.LevelInfo),
	}

	if methods := os.Getenv("WALLETGATE_DID_METHODS"); methods != "" {
		for _, m := range strings.Split(methods, ",") {
			if m = strings.TrimSpace(m); m != "" {
				cfg.SupportedDIDMethods = append(cfg.SupportedDIDMethods, m)
			}
		}
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func levelOr(key string, fallback slog.Level) slog.Level {
	switch strings.ToLower(os.Getenv(key)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return fallback
	}
}

func intOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
