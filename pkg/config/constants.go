package config

const (
	EnvPrefix = "AIVERSE"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "AIVERSE_APP_ENV"
	EnvPort   = "AIVERSE_APP_PORT"

	EnvDBDSN  = "AIVERSE_DB_DSN"
	EnvDBHost = "AIVERSE_DB_HOST"
	EnvDBUser = "AIVERSE_DB_USER"
	EnvDBName = "AIVERSE_DB_NAME"

	EnvRedisURL  = "AIVERSE_REDIS_URL"
	EnvJWTSecret = "AIVERSE_JWT_SECRET"
	EnvJWTIssuer = "AIVERSE_JWT_ISSUER"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
