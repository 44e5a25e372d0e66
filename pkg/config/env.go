package config

const EnvPrefix = "SHOPADMIN"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv    = "SHOPADMIN_APP_ENV"
	EnvPort      = "SHOPADMIN_APP_PORT"
	EnvLogLevel  = "SHOPADMIN_LOG_LEVEL"
	EnvLogFormat = "SHOPADMIN_LOG_FORMAT"

	EnvDBDSN    = "SHOPADMIN_DB_DSN"
	EnvDBDriver = "SHOPADMIN_DB_DRIVER"
	EnvDBHost   = "SHOPADMIN_DB_HOST"
	EnvDBUser   = "SHOPADMIN_DB_USER"
	EnvDBName   = "SHOPADMIN_DB_NAME"

	EnvRedisURL = "SHOPADMIN_REDIS_URL"

	EnvAutoMigrate = "SHOPADMIN_AUTO_MIGRATE"

	EnvOrderNumberPrefix   = "SHOPADMIN_ORDER_NUMBER_PREFIX"
	EnvOrderNumberAttempts = "SHOPADMIN_ORDER_NUMBER_ATTEMPTS"

	EnvIdempotencyTTL = "SHOPADMIN_IDEMPOTENCY_TTL"

	EnvCORSOrigins     = "SHOPADMIN_CORS_ORIGINS"
	EnvWriteLimit      = "SHOPADMIN_RATE_LIMIT_WRITES"
	EnvRateLimitWindow = "SHOPADMIN_RATE_LIMIT_WINDOW"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
