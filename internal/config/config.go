package config

import (
	"os"
	"time"

	pkgconfig "github.com/Skotchmaster/sickfits/pkg/config"
)

type Config struct {
	ServiceName string
	Addr        string
	LogLevel    string

	DatabaseURL string
	AppSecret   []byte
	BcryptCost  int

	FrontendURL string
	MailFrom    string
	ResetTTL    time.Duration

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	CookieSecure bool
	CSRFEnabled  bool
}

// Load reads .env and the process environment. Missing required keys are fatal.
func Load() *Config {
	pkgconfig.LoadDotEnv()

	return &Config{
		ServiceName: pkgconfig.EnvDefault("SERVICE_NAME", "sickfits"),
		Addr:        ":" + pkgconfig.EnvDefault("SERVER_PORT", "8080"),
		LogLevel:    pkgconfig.EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: pkgconfig.MustNonEmpty(os.Getenv("DATABASE_URL"), "DATABASE_URL"),
		AppSecret:   []byte(pkgconfig.MustNonEmpty(os.Getenv("APP_SECRET"), "APP_SECRET")),
		BcryptCost:  pkgconfig.EnvIntDefault("BCRYPT_COST", 10),

		FrontendURL: pkgconfig.EnvDefault("FRONTEND_URL", "http://localhost:7777"),
		MailFrom:    pkgconfig.EnvDefault("MAIL_FROM", "no-reply@sickfits.local"),
		ResetTTL:    time.Duration(pkgconfig.EnvIntDefault("RESET_TTL_MINUTES", 60)) * time.Minute,

		KafkaBrokers: pkgconfig.CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    pkgconfig.EnvDefault("ES_INDEX", "items"),

		CookieSecure: pkgconfig.EnvBoolDefault("COOKIE_SECURE", false),
		CSRFEnabled:  pkgconfig.EnvBoolDefault("CSRF_ENABLED", false),
	}
}
