package constants

// DefaultVersion is the default version of the application
const DefaultVersion = "0.1.0-dev"

// DefaultBuildTime is the default build time when not provided at build time
const DefaultBuildTime = "unknown"

// DefaultGitCommit is the default git commit hash when not provided at build time
const DefaultGitCommit = "unknown"

// DefaultGoVersion is the default Go version when not provided at build time
const DefaultGoVersion = "unknown"

// DefaultWorkers is the worker count used when the config leaves it unset.
const DefaultWorkers = 4

// DefaultQueueCapacity is the queue capacity used when the config leaves it unset.
const DefaultQueueCapacity = 64

// DefaultShutdownTimeoutSeconds bounds the graceful drain in serve.
const DefaultShutdownTimeoutSeconds = 30

// DefaultMetricsListen is the address of the Prometheus endpoint.
const DefaultMetricsListen = ":9090"

// DefaultMetricsNamespace prefixes every exported metric.
const DefaultMetricsNamespace = "poolkit"
