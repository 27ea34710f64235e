package config

const (
	EnvPrefix = "STOREFRONT"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"

	EnvAppEnv            = "STOREFRONT_APP_ENV"
	EnvLogLevel          = "STOREFRONT_LOG_LEVEL"
	EnvStorageDriver     = "STOREFRONT_STORAGE_DRIVER"
	EnvStorageSQLitePath = "STOREFRONT_STORAGE_SQLITE_PATH"
	EnvRedisURL          = "STOREFRONT_REDIS_URL"
	EnvRedisAddr         = "STOREFRONT_REDIS_ADDR"
)
