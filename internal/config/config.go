package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for the server.
type Config struct {
	Port               string             `yaml:"port" validate:"required,numeric"`
	PollInterval       Duration           `yaml:"poll_interval" validate:"gt=0s"`
	SourceTimeout      Duration           `yaml:"source_timeout" validate:"gt=0s"`
	SourceRetries      int                `yaml:"source_retries" validate:"gte=0,lte=10"`
	Timezone           string             `yaml:"timezone" validate:"required,timezone"`
	CustomStore        CustomStoreConfig  `yaml:"custom_store"`
	APISports          APISportsConfig    `yaml:"apisports"`
	FootballData       FootballDataConfig `yaml:"footballdata"`
	CORSAllowedOrigins []string           `yaml:"cors_allowed_origins"`
	Redis              RedisConfig        `yaml:"redis"`
	AdminToken         string             `yaml:"admin_token"`
	Log                LogConfig          `yaml:"log"`
	Metrics            MetricsConfig      `yaml:"metrics"`
}

// LogConfig selects the log level and encoder.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn warning error"`
	Format string `yaml:"format" validate:"oneof=json text console"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	custom, apiSports, footballData, redis := defaultSources()
	return Config{
		Port:               defaultPort,
		PollInterval:       defaultPollInterval,
		SourceTimeout:      defaultSourceTimeout,
		SourceRetries:      defaultSourceRetries,
		Timezone:           defaultTimezone,
		CustomStore:        custom,
		APISports:          apiSports,
		FootballData:       footballData,
		CORSAllowedOrigins: splitList(defaultCORSOrigins),
		Redis:              redis,
		Log:                LogConfig{Level: defaultLogLevel, Format: defaultLogFormat},
		Metrics:            defaultMetrics(),
	}
}

// Load builds the configuration: defaults, then the optional YAML file named
// by CONFIG_FILE, then environment variables. The result is validated.
func Load() (Config, error) {
	cfg := Default()
	if path := envOrDefault(envConfigFile, ""); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read config file %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrapf(err, "parse config file %s", path)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = envOrDefault(envPort, c.Port)
	c.PollInterval = durationEnvOrDefault(envPollInterval, c.PollInterval)
	c.SourceTimeout = durationEnvOrDefault(envSourceTimeout, c.SourceTimeout)
	c.SourceRetries = intEnvOrDefault(envSourceRetries, c.SourceRetries)
	c.Timezone = envOrDefault(envTimezone, c.Timezone)
	c.CORSAllowedOrigins = listEnvOrDefault(envCORSOrigins, c.CORSAllowedOrigins)
	c.AdminToken = envOrDefault(envAdminToken, c.AdminToken)
	c.Log.Level = envOrDefault(envLogLevel, c.Log.Level)
	c.Log.Format = envOrDefault(envLogFormat, c.Log.Format)
	c.CustomStore.applyEnv()
	c.APISports.applyEnv()
	c.FootballData.applyEnv()
	c.Redis.applyEnv()
	c.Metrics.applyEnv()
}

var validate = validator.New()

// Validate checks field constraints declared in struct tags.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}
