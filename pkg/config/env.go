package config

// EnvPrefix is handed to envconfig; every field below carries its full variable name.
const EnvPrefix = "MARKETPLACE"

const (
	AppEnvDev  = "dev"
	AppEnvTest = "test"
	AppEnvProd = "prod"
)

const (
	StoreBackendMemory = "memory"
	StoreBackendRedis  = "redis"
	StoreBackendSQL    = "sql"
)

const (
	AuthModeDemo        = "demo"
	AuthModeCredentials = "credentials"
)

const (
	EnvAppEnv       = "MARKETPLACE_APP_ENV"
	EnvPort         = "MARKETPLACE_APP_PORT"
	EnvLogLevel     = "MARKETPLACE_LOG_LEVEL"
	EnvLogWarnStack = "MARKETPLACE_LOG_WARN_STACK"
	EnvLogFormat    = "MARKETPLACE_LOG_FORMAT"
	EnvCORSOrigins  = "MARKETPLACE_CORS_ALLOWED_ORIGINS"

	EnvStoreBackend = "MARKETPLACE_STORE_BACKEND"

	EnvDBDSN    = "MARKETPLACE_DB_DSN"
	EnvDBDriver = "MARKETPLACE_DB_DRIVER"

	EnvRedisURL       = "MARKETPLACE_REDIS_URL"
	EnvRedisAddr      = "MARKETPLACE_REDIS_ADDR"
	EnvRedisKeyPrefix = "MARKETPLACE_REDIS_KEY_PREFIX"

	EnvJWTSecret  = "MARKETPLACE_JWT_SECRET"
	EnvJWTIssuer  = "MARKETPLACE_JWT_ISSUER"
	EnvJWTExpMins = "MARKETPLACE_JWT_EXPIRATION_MINUTES"

	EnvAuthMode        = "MARKETPLACE_AUTH_MODE"
	EnvAuthLoginDelay  = "MARKETPLACE_AUTH_LOGIN_DELAY"
	EnvAuthSignupDelay = "MARKETPLACE_AUTH_SIGNUP_DELAY"

	EnvCheckoutPaymentDelay = "MARKETPLACE_CHECKOUT_PAYMENT_DELAY"
	EnvSettingsProfileDelay = "MARKETPLACE_SETTINGS_PROFILE_DELAY"

	EnvWorkspaceIdleTTL       = "MARKETPLACE_WORKSPACE_IDLE_TTL"
	EnvWorkspaceSweepInterval = "MARKETPLACE_WORKSPACE_SWEEP_INTERVAL"
)
