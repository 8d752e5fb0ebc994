package config

// CustomStoreConfig selects the backend for hand-curated matches.
type CustomStoreConfig struct {
	Backend         string `yaml:"backend" validate:"oneof=fixture firestore none"`
	ProjectID       string `yaml:"project_id" validate:"required_if=Backend firestore"`
	CredentialsFile string `yaml:"credentials_file"`
	// Watch re-triggers a refresh when the Firestore matches collection changes.
	Watch bool `yaml:"watch"`
}

// APISportsConfig controls the api-sports fixtures client.
type APISportsConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url" validate:"required,url"`
	APIKey  string `yaml:"api_key"`
	Host    string `yaml:"host" validate:"required,hostname"`
}

// Active reports whether the client should be wired. No key means disabled.
func (c APISportsConfig) Active() bool {
	return c.Enabled && c.APIKey != ""
}

// FootballDataConfig controls the football-data.org client.
type FootballDataConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url" validate:"required,url"`
	Token   string `yaml:"token"`
}

// Active reports whether the client should be wired. No token means disabled.
func (c FootballDataConfig) Active() bool {
	return c.Enabled && c.Token != ""
}

// RedisConfig controls the optional refresh publisher.
type RedisConfig struct {
	URL    string `yaml:"url" validate:"omitempty,url"`
	Stream string `yaml:"stream" validate:"required_with=URL"`
}

func defaultSources() (CustomStoreConfig, APISportsConfig, FootballDataConfig, RedisConfig) {
	return CustomStoreConfig{Backend: defaultCustomStore, Watch: true},
		APISportsConfig{Enabled: true, BaseURL: defaultAPISportsBaseURL, Host: defaultAPISportsHost},
		FootballDataConfig{Enabled: true, BaseURL: defaultFootballDataBaseURL},
		RedisConfig{Stream: defaultRedisStream}
}

func (c *CustomStoreConfig) applyEnv() {
	c.Backend = envOrDefault(envCustomStore, c.Backend)
	c.ProjectID = envOrDefault(envFirestoreProject, c.ProjectID)
	c.CredentialsFile = envOrDefault(envFirestoreCreds, c.CredentialsFile)
	c.Watch = boolEnvOrDefault(envFirestoreWatch, c.Watch)
}

func (c *APISportsConfig) applyEnv() {
	c.Enabled = boolEnvOrDefault(envAPISportsEnabled, c.Enabled)
	c.BaseURL = envOrDefault(envAPISportsBaseURL, c.BaseURL)
	c.APIKey = envOrDefault(envAPISportsKey, c.APIKey)
	c.Host = envOrDefault(envAPISportsHost, c.Host)
}

func (c *FootballDataConfig) applyEnv() {
	c.Enabled = boolEnvOrDefault(envFootballDataEnabled, c.Enabled)
	c.BaseURL = envOrDefault(envFootballDataBaseURL, c.BaseURL)
	c.Token = envOrDefault(envFootballDataToken, c.Token)
}

func (c *RedisConfig) applyEnv() {
	c.URL = envOrDefault(envRedisURL, c.URL)
	c.Stream = envOrDefault(envRedisStream, c.Stream)
}
