package config

const EnvPrefix = "MINISHOP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv    = "MINISHOP_APP_ENV"
	EnvPort      = "MINISHOP_APP_PORT"
	EnvDBDSN     = "MINISHOP_DB_DSN"
	EnvDBHost    = "MINISHOP_DB_HOST"
	EnvDBUser    = "MINISHOP_DB_USER"
	EnvDBName    = "MINISHOP_DB_NAME"
	EnvRedisURL  = "MINISHOP_REDIS_URL"
	EnvJWTSecret = "MINISHOP_JWT_SECRET"
	EnvJWTIssuer = "MINISHOP_JWT_ISSUER"
	EnvOrigins   = "MINISHOP_CORS_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
