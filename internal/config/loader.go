package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides (SAFEBET_LLM_MODEL etc.)
const EnvPrefix = "SAFEBET"

// DefaultConfigPath is used when no explicit path is given
const DefaultConfigPath = "config/config.yaml"

// legacyEnv maps bare environment variable names onto config keys. The
// first non-empty variable listed for a key wins.
var legacyEnv = []struct {
	key  string
	envs []string
}{
	{"llm.api_key", []string{"QWEN_API_KEY", "OPENAI_API_KEY"}},
	{"llm.base_url", []string{"QWEN_BASE_URL"}},
	{"llm.model", []string{"QWEN_MODEL"}},
	{"scraper.username", []string{"XBET_USERNAME"}},
	{"scraper.password", []string{"XBET_PASSWORD"}},
	{"notify.telegram.bot_token", []string{"TELEGRAM_BOT_TOKEN"}},
}

// Load reads and parses the configuration from file and environment variables.
// It loads .env (if present), expands ${VAR} placeholders in the YAML file and
// falls back to defaults for anything left unset. A missing file is not an
// error unless the path was given explicitly.
func Load(configPath string) (*Config, error) {
	// .env is optional; real environment variables take precedence
	_ = godotenv.Load()

	explicit := configPath != ""
	if !explicit {
		configPath = DefaultConfigPath
	}

	v := newViper()

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		// Expand environment variables in the configuration (${VAR} syntax)
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err) && !explicit:
		// defaults and environment only
	case os.IsNotExist(err):
		return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindLegacyEnv(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadAndValidate loads the configuration, applies the optional AWS secrets
// overlay and validates the result.
func LoadAndValidate(configPath string) (*Config, error) {
	cfg, err := Load(configPath)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(os.Getenv("AWS_SECRETS_ENABLED"), "true") {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if err := LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return nil, fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	if err := ValidateEnvironment(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	// Set environment variable prefix
	v.SetEnvPrefix(EnvPrefix)

	// Enable automatic binding of environment variables
	v.AutomaticEnv()

	// Replace dots with underscores in environment variable names
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	return v
}

func bindLegacyEnv(v *viper.Viper) {
	for _, b := range legacyEnv {
		// Prefixed variables (SAFEBET_LLM_API_KEY) still win over legacy names
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(b.key, ".", "_"))
		if os.Getenv(prefixed) != "" {
			continue
		}
		for _, env := range b.envs {
			if val := os.Getenv(env); val != "" {
				v.Set(b.key, val)
				break
			}
		}
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "safebet-analyst")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Empty defaults make these keys visible to AutomaticEnv during Unmarshal
	for _, key := range []string{
		"llm.api_key", "scraper.username", "scraper.password",
		"fixtures.feed_url", "fixtures.api_key",
		"database.host", "database.name", "database.user", "database.password",
		"notify.telegram.bot_token",
	} {
		v.SetDefault(key, "")
	}
	v.SetDefault("notify.telegram.enabled", false)
	v.SetDefault("notify.telegram.chat_id", 0)
	v.SetDefault("notify.new_bets", true)
	v.SetDefault("notify.predictions", false)

	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.model", "gpt-4o")
	v.SetDefault("llm.timeout_seconds", 30)
	v.SetDefault("llm.max_retries", 0)
	v.SetDefault("llm.rate_limit", 0)
	v.SetDefault("llm.cache_ttl_seconds", 300)
	v.SetDefault("llm.cache_max_size", 1000)
	v.SetDefault("llm.pre_match_temperature", 0.3)
	v.SetDefault("llm.pre_match_max_tokens", 500)
	v.SetDefault("llm.live_temperature", 0.2)
	v.SetDefault("llm.live_max_tokens", 600)

	v.SetDefault("scraper.login_url", "https://1xbet.com/en/")
	v.SetDefault("scraper.history_url", "https://1xbet.com/en/office/history")
	v.SetDefault("scraper.active_bets_url", "https://1xbet.com/en/office/bets")
	v.SetDefault("scraper.headless", true)
	v.SetDefault("scraper.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	v.SetDefault("scraper.login_timeout_seconds", 10)
	v.SetDefault("scraper.page_timeout_seconds", 15)
	v.SetDefault("scraper.settle_delay_seconds", 5)
	v.SetDefault("scraper.auto_refresh", false)
	v.SetDefault("scraper.refresh_interval_minutes", 5)

	v.SetDefault("fixtures.source", "static")
	v.SetDefault("fixtures.horizon_hours", 48)
	v.SetDefault("fixtures.timeout_seconds", 10)
	v.SetDefault("fixtures.rate_limit", 1)

	v.SetDefault("live.interval_seconds", 30)
	v.SetDefault("live.window_hours", 48)
	v.SetDefault("live.goal_chance_per_minute", 0.025)
	v.SetDefault("live.auto_start", true)
	v.SetDefault("live.settle_predictions", true)

	v.SetDefault("dashboard.address", ":8501")
	v.SetDefault("dashboard.session_ttl_minutes", 60)
	v.SetDefault("dashboard.cookie_name", "safebet_session")
	v.SetDefault("dashboard.top_predictions", 10)

	v.SetDefault("health.enabled", true)
	v.SetDefault("health.port", 8080)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 5)

	v.SetDefault("notify.telegram.min_interval_seconds", 2)
}
