package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/fooddiary/internal/flagx"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by parseEnv.
const EnvPrefix = "FOODDIARY_"

// parseEnv overlays values from the process environment. A dotenv file is
// loaded first: the path given with -env, or ./.env when present. Variables
// already set in the environment are never overwritten by the file.
func parseEnv(config *Config) {
	if path := flagx.EnvFileFlag(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}

	envString("HTTP_ADDR", &config.EndpointAddrHTTP)
	envString("DATABASE_DSN", &config.DatabaseDSN)
	envString("SECRET_KEY", &config.SecretKey)
	envDuration("ACCESS_TOKEN_TTL", &config.AccessTokenValidityDuration)
	envDuration("REFRESH_TOKEN_TTL", &config.RefreshTokenValidityDuration)
	envString("LOG_LEVEL", &config.LogLevel)

	envString("S3_ROOT_USER", &config.S3RootUser)
	envString("S3_ROOT_PASSWORD", &config.S3RootPassword)
	envString("S3_BUCKET", &config.S3Bucket)
	envString("S3_REGION", &config.S3Region)
	envString("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	envDuration("PRESIGN_EXPIRY", &config.PresignExpiry)

	envString("MAIL_DRIVER", &config.MailDriver)
	envString("MAIL_FROM", &config.MailFrom)
	envString("SMTP_HOST", &config.SMTPHost)
	envInt("SMTP_PORT", &config.SMTPPort)
	envString("SMTP_USER", &config.SMTPUser)
	envString("SMTP_PASSWORD", &config.SMTPPassword)
	envString("SES_REGION", &config.SESRegion)

	envString("OPENAI_API_KEY", &config.OpenAIAPIKey)
	envString("OPENAI_MODEL", &config.OpenAIModel)
	envString("OPENAI_BASE_URL", &config.OpenAIBaseURL)
	envDuration("OPENAI_TIMEOUT", &config.OpenAITimeout)
	envInt("AI_MONTHLY_QUOTA", &config.DefaultAIMonthlyQuota)
	envInt("AI_REQUESTS_PER_MINUTE", &config.AIRequestsPerMinute)

	envString("APP_URL", &config.AppURL)
	envList("CORS_ALLOWED_ORIGINS", &config.CORSAllowedOrigins)

	envDuration("UNCONFIRMED_USER_RETENTION", &config.UnconfirmedUserRetention)
	envString("CLEANUP_SCHEDULE", &config.CleanupSchedule)
}

func envString(name string, dst *string) {
	if v, ok := os.LookupEnv(EnvPrefix + name); ok {
		*dst = v
	}
}

func envInt(name string, dst *int) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(err)
	}
	*dst = n
}

func envDuration(name string, dst *time.Duration) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}

func envList(name string, dst *[]string) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return
	}
	*dst = splitList(v)
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimRight(strings.TrimSpace(p), "/"); p != "" {
			out = append(out, p)
		}
	}
	return out
}
