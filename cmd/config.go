package cmd

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPPort   string
	AppEnv     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	JWTSecret string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	StripeSecretKey     string
	StripeWebhookSecret string

	SMSProvider       string
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioFromNumber  string
	AWSRegion         string
	S3PhotoBucket     string
	S3PublicBaseURL   string
	SendGridAPIKey    string
	EmailFrom         string
	EmailFromName     string
	RabbitMQURL       string
	RabbitMQExchange  string
	CORSAllowOrigins  []string

	DispatchRadiusKm     float64
	SurgeGeofenceEnabled bool
	ProviderTimeout      time.Duration
	LocationPingInterval time.Duration
	StaleContractorAfter time.Duration
	RateLimitRPS         float64
	RateLimitBurst       int
}

func (c Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// DSN is the libpq connection string for the configured database.
func (c Config) DSN() string {
	return "host=" + c.DBHost +
		" port=" + c.DBPort +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" sslmode=" + c.DBSslMode
}

// ConfigFromEnv reads the process environment. Load .env beforehand to
// include it.
func ConfigFromEnv() Config {
	return Config{
		HTTPPort:   envString("HTTP_PORT", "8080"),
		AppEnv:     envString("APP_ENV", "production"),
		DBHost:     envString("DB_HOST", "localhost"),
		DBPort:     envString("DB_PORT", "5432"),
		DBUser:     envString("DB_USER", "postgres"),
		DBPassword: envString("DB_PASSWORD", ""),
		DBName:     envString("DB_NAME", "junkos"),
		DBSslMode:  envString("DB_SSLMODE", "disable"),

		JWTSecret: envString("JWT_SECRET", ""),

		RedisAddr:     envString("REDIS_ADDR", "localhost:6379"),
		RedisPassword: envString("REDIS_PASSWORD", ""),
		RedisDB:       envInt("REDIS_DB", 0),

		StripeSecretKey:     envString("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: envString("STRIPE_WEBHOOK_SECRET", ""),

		SMSProvider:      envString("SMS_PROVIDER", "twilio"),
		TwilioAccountSID: envString("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  envString("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber: envString("TWILIO_FROM_NUMBER", ""),
		AWSRegion:        envString("AWS_REGION", "us-east-1"),
		S3PhotoBucket:    envString("S3_PHOTO_BUCKET", ""),
		S3PublicBaseURL:  envString("S3_PUBLIC_BASE_URL", ""),
		SendGridAPIKey:   envString("SENDGRID_API_KEY", ""),
		EmailFrom:        envString("EMAIL_FROM", "noreply@junkos.app"),
		EmailFromName:    envString("EMAIL_FROM_NAME", "JunkOS"),
		RabbitMQURL:      envString("RABBITMQ_URL", ""),
		RabbitMQExchange: envString("RABBITMQ_EXCHANGE", ""),
		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS"),

		DispatchRadiusKm:     envFloat("DISPATCH_RADIUS_KM", 30),
		SurgeGeofenceEnabled: envBool("SURGE_GEOFENCE_ENABLED", false),
		ProviderTimeout:      envDuration("PROVIDER_TIMEOUT", 10*time.Second),
		LocationPingInterval: envDuration("LOCATION_PING_INTERVAL", 10*time.Second),
		StaleContractorAfter: envDuration("STALE_CONTRACTOR_AFTER", 10*time.Minute),
		RateLimitRPS:         envFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst:       envInt("RATE_LIMIT_BURST", 40),
	}
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func envBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
