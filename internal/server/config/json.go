package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/fooddiary/internal/flagx"
	"github.com/dmitrijs2005/fooddiary/internal/timex"
)

// JsonConfig mirrors Config for JSON unmarshalling. Interval fields use
// timex.Duration so both "15m" and integer nanoseconds are accepted.
// Fields left out of the file keep their previous values.
type JsonConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	LogLevel                     string         `json:"log_level"`

	S3RootUser     string         `json:"s3_root_user"`
	S3RootPassword string         `json:"s3_root_password"`
	S3Bucket       string         `json:"s3_bucket"`
	S3Region       string         `json:"s3_region"`
	S3BaseEndpoint string         `json:"s3_base_endpoint"`
	PresignExpiry  timex.Duration `json:"presign_expiry"`

	MailDriver   string `json:"mail_driver"`
	MailFrom     string `json:"mail_from"`
	SMTPHost     string `json:"smtp_host"`
	SMTPPort     int    `json:"smtp_port"`
	SMTPUser     string `json:"smtp_user"`
	SMTPPassword string `json:"smtp_password"`
	SESRegion    string `json:"ses_region"`

	OpenAIAPIKey          string         `json:"openai_api_key"`
	OpenAIModel           string         `json:"openai_model"`
	OpenAIBaseURL         string         `json:"openai_base_url"`
	OpenAITimeout         timex.Duration `json:"openai_timeout"`
	DefaultAIMonthlyQuota int            `json:"ai_monthly_quota"`
	AIRequestsPerMinute   int            `json:"ai_requests_per_minute"`

	AppURL             string   `json:"app_url"`
	CORSAllowedOrigins []string `json:"cors_allowed_origins"`

	UnconfirmedUserRetention timex.Duration `json:"unconfirmed_user_retention"`
	CleanupSchedule          string         `json:"cleanup_schedule"`
}

// parseJson loads configuration values from the JSON file named by the -c or
// -config flag. Without the flag nothing happens. An unreadable file or
// invalid JSON panics: the server must not start on a half-read config.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.applyTo(config)
}

func (c *JsonConfig) applyTo(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.RefreshTokenValidityDuration, c.RefreshTokenValidityDuration)
	setString(&config.LogLevel, c.LogLevel)

	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setDuration(&config.PresignExpiry, c.PresignExpiry)

	setString(&config.MailDriver, c.MailDriver)
	setString(&config.MailFrom, c.MailFrom)
	setString(&config.SMTPHost, c.SMTPHost)
	setInt(&config.SMTPPort, c.SMTPPort)
	setString(&config.SMTPUser, c.SMTPUser)
	setString(&config.SMTPPassword, c.SMTPPassword)
	setString(&config.SESRegion, c.SESRegion)

	setString(&config.OpenAIAPIKey, c.OpenAIAPIKey)
	setString(&config.OpenAIModel, c.OpenAIModel)
	setString(&config.OpenAIBaseURL, c.OpenAIBaseURL)
	setDuration(&config.OpenAITimeout, c.OpenAITimeout)
	setInt(&config.DefaultAIMonthlyQuota, c.DefaultAIMonthlyQuota)
	setInt(&config.AIRequestsPerMinute, c.AIRequestsPerMinute)

	setString(&config.AppURL, c.AppURL)
	if len(c.CORSAllowedOrigins) > 0 {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}

	setDuration(&config.UnconfirmedUserRetention, c.UnconfirmedUserRetention)
	setString(&config.CleanupSchedule, c.CleanupSchedule)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
