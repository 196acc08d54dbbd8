package config

// EnvPrefix is passed to envconfig; individual fields carry explicit
// SOFRA_-prefixed names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "SOFRA_APP_ENV"
	EnvDBDSN  = "SOFRA_DB_DSN"
	EnvDBHost = "SOFRA_DB_HOST"
	EnvDBUser = "SOFRA_DB_USER"
	EnvDBName = "SOFRA_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
