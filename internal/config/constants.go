package config

import "time"

const (
	envConfigFile    = "CONFIG_FILE"
	envPort          = "PORT"
	envPollInterval  = "POLL_INTERVAL"
	envSourceTimeout = "SOURCE_TIMEOUT"
	envSourceRetries = "SOURCE_RETRIES"
	envTimezone      = "TIMEZONE"
	envCORSOrigins   = "CORS_ALLOWED_ORIGINS"
	envAdminToken    = "ADMIN_TOKEN"
	envLogLevel      = "LOG_LEVEL"
	envLogFormat     = "LOG_FORMAT"

	envCustomStore         = "CUSTOM_STORE"
	envFirestoreProject    = "FIRESTORE_PROJECT_ID"
	envFirestoreCreds      = "FIRESTORE_CREDENTIALS_FILE"
	envFirestoreWatch      = "FIRESTORE_WATCH"
	envAPISportsEnabled    = "APISPORTS_ENABLED"
	envAPISportsBaseURL    = "APISPORTS_BASE_URL"
	envAPISportsKey        = "APISPORTS_API_KEY"
	envAPISportsHost       = "APISPORTS_HOST"
	envFootballDataEnabled = "FOOTBALLDATA_ENABLED"
	envFootballDataBaseURL = "FOOTBALLDATA_BASE_URL"
	envFootballDataToken   = "FOOTBALLDATA_TOKEN"
	envRedisURL            = "REDIS_URL"
	envRedisStream         = "REDIS_STREAM"

	envMetricsPort  = "METRICS_PORT"
	envMetricsOn    = "METRICS_ENABLED"
	envOtelEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService  = "OTEL_SERVICE_NAME"
	envOtelInsecure = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort = "4000"
	// Upstream free tiers allow roughly ten requests a minute; one cycle costs four.
	defaultPollInterval  = Duration(time.Minute)
	defaultSourceTimeout = 10 * Duration(time.Second)
	defaultSourceRetries = 0
	defaultTimezone      = "UTC"
	defaultCORSOrigins   = "*"
	defaultLogLevel      = "info"
	defaultLogFormat     = "json"

	defaultCustomStore         = BackendFixture
	defaultAPISportsBaseURL    = "https://v3.football.api-sports.io"
	defaultAPISportsHost       = "v3.football.api-sports.io"
	defaultFootballDataBaseURL = "https://api.football-data.org/v4"
	defaultRedisStream         = "scoreboard:updates"

	defaultMetricsPort = "9090"
	defaultServiceName = "scoreboard-service"
)

// Custom store backends.
const (
	BackendFixture   = "fixture"
	BackendFirestore = "firestore"
	BackendNone      = "none"
)
