package config

const (
	EnvPrefix = "PIXELPRINT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "PIXELPRINT_DB_DSN"
	EnvDBHost = "PIXELPRINT_DB_HOST"
	EnvDBUser = "PIXELPRINT_DB_USER"
	EnvDBName = "PIXELPRINT_DB_NAME"

	EnvAppEnv     = "PIXELPRINT_APP_ENV"
	EnvPort       = "PIXELPRINT_APP_PORT"
	EnvRedisURL   = "PIXELPRINT_REDIS_URL"
	EnvJWTSecret  = "PIXELPRINT_JWT_SECRET"
	EnvJWTIssuer  = "PIXELPRINT_JWT_ISSUER"
	EnvJWTExpMins = "PIXELPRINT_JWT_EXPIRATION_MINUTES"

	EnvVATRate = "PIXELPRINT_VAT_RATE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
