package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/rerange/internal/flagx"
	"github.com/dmitrijs2005/rerange/internal/timex"
)

// JsonConfig is a DTO used only for unmarshalling. Absent fields keep the
// values already in Config.
type JsonConfig struct {
	StorageBackend     *string         `json:"storage"`
	StorageDSN         *string         `json:"storage_dsn"`
	StorageKey         *string         `json:"storage_key"`
	StoragePrefix      *string         `json:"storage_prefix"`
	RedisURL           *string         `json:"redis_url"`
	S3Bucket           *string         `json:"s3_bucket"`
	S3Region           *string         `json:"s3_region"`
	S3BaseEndpoint     *string         `json:"s3_base_endpoint"`
	S3RootUser         *string         `json:"s3_root_user"`
	S3RootPassword     *string         `json:"s3_root_password"`
	SessionSecret      *string         `json:"session_secret"`
	AcceptedCodes      []string        `json:"accepted_codes"`
	SubscriptionPeriod *timex.Duration `json:"subscription_period"`
	AIModel            *string         `json:"ai_model"`
	AIEndpoint         *string         `json:"ai_endpoint"`
	AITimeout          *timex.Duration `json:"ai_timeout"`
	AIRatePerMinute    *int            `json:"ai_rate_per_minute"`
	MetricsAddr        *string         `json:"metrics_addr"`
	LogLevel           *string         `json:"log_level"`
	LogFormat          *string         `json:"log_format"`
}

// parseJson overlays cfg with the file named by -c/-config, if any.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.StorageBackend, jc.StorageBackend)
	setString(&cfg.StorageDSN, jc.StorageDSN)
	setString(&cfg.StorageKey, jc.StorageKey)
	setString(&cfg.StoragePrefix, jc.StoragePrefix)
	setString(&cfg.RedisURL, jc.RedisURL)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.S3RootUser, jc.S3RootUser)
	setString(&cfg.S3RootPassword, jc.S3RootPassword)
	setString(&cfg.SessionSecret, jc.SessionSecret)
	setString(&cfg.AIModel, jc.AIModel)
	setString(&cfg.AIEndpoint, jc.AIEndpoint)
	setString(&cfg.MetricsAddr, jc.MetricsAddr)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)

	if len(jc.AcceptedCodes) > 0 {
		cfg.AcceptedCodes = jc.AcceptedCodes
	}
	if jc.SubscriptionPeriod != nil {
		cfg.SubscriptionPeriod = time.Duration(jc.SubscriptionPeriod.Duration)
	}
	if jc.AITimeout != nil {
		cfg.AITimeout = time.Duration(jc.AITimeout.Duration)
	}
	if jc.AIRatePerMinute != nil {
		cfg.AIRatePerMinute = *jc.AIRatePerMinute
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
