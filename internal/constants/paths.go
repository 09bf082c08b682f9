package constants

// DefaultEnvPath is the default path to the .env file
const DefaultEnvPath = "./.env"

// DefaultConfigPath is the default path to the config.toml file
const DefaultConfigPath = "./config.toml"

// MetricsPath is the HTTP path the Prometheus handler is mounted on.
const MetricsPath = "/metrics"
