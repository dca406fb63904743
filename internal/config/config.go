package config

import "time"

// Config holds runtime settings for rerange.
type Config struct {
	StorageBackend string
	StorageDSN     string
	StorageKey     string
	StoragePrefix  string
	RedisURL       string

	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3RootUser     string
	S3RootPassword string

	SessionSecret      string
	AcceptedCodes      []string
	SubscriptionPeriod time.Duration

	AIAPIKey        string
	AIModel         string
	AIEndpoint      string
	AITimeout       time.Duration
	AIRatePerMinute int

	MetricsAddr string
	LogLevel    string
	LogFormat   string
}

// LoadDefaults populates c with local development defaults.
// NOTE: SessionSecret must be overridden outside development.
func (c *Config) LoadDefaults() {
	c.StorageBackend = "sqlite"
	c.StorageDSN = "rerange.db"
	c.StoragePrefix = "rerange"
	c.RedisURL = "redis://127.0.0.1:6379/0"
	c.S3Bucket = "rerange"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.SessionSecret = "secretKey"
	c.AcceptedCodes = []string{"YL10"}
	c.SubscriptionPeriod = 30 * 24 * time.Hour
	c.AIModel = "gemini-2.5-flash"
	c.AIEndpoint = "https://generativelanguage.googleapis.com"
	c.AITimeout = 20 * time.Second
	c.AIRatePerMinute = 10
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig builds a Config from defaults, the JSON file, the environment
// and finally the flags in args (without the program name).
func LoadConfig(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseEnv(cfg)
	parseFlags(cfg, args)
	return cfg
}
