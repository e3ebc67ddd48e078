package config

const (
	EnvPrefix = "STOREFRONT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

const (
	EnvAppEnv       = "STOREFRONT_APP_ENV"
	EnvPort         = "STOREFRONT_APP_PORT"
	EnvLogLevel     = "STOREFRONT_LOG_LEVEL"
	EnvLogFormat    = "STOREFRONT_LOG_FORMAT"
	EnvDBDSN        = "STOREFRONT_DB_DSN"
	EnvDBDriver     = "STOREFRONT_DB_DRIVER"
	EnvDBHost       = "STOREFRONT_DB_HOST"
	EnvDBUser       = "STOREFRONT_DB_USER"
	EnvDBPassword   = "STOREFRONT_DB_PASSWORD"
	EnvDBName       = "STOREFRONT_DB_NAME"
	EnvDBPort       = "STOREFRONT_DB_PORT"
	EnvSQLitePath   = "STOREFRONT_SQLITE_PATH"
	EnvRedisURL     = "STOREFRONT_REDIS_URL"
	EnvSessionKey   = "STOREFRONT_SESSION_SECRET"
	EnvSessionTTL   = "STOREFRONT_SESSION_TTL_MINUTES"
	EnvUseSQLite    = "STOREFRONT_USE_SQLITE"
	EnvAutoMigrate  = "STOREFRONT_AUTO_MIGRATE"
	EnvCatalogPage  = "STOREFRONT_CATALOG_PAGE_SIZE"
	EnvCORSOrigins  = "STOREFRONT_CORS_ORIGINS"
	EnvMetricsPath  = "STOREFRONT_METRICS_PATH"
	EnvCheckoutIdem = "STOREFRONT_CHECKOUT_IDEMPOTENCY_TTL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
