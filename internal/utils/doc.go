// Package utils exposes reusable helpers consumed by clocscan commands.
//
// It houses the Viper-backed ConfigurationLoader, the godotenv-backed
// EnvironmentFileLoader, and the zap LoggerFactory.
package utils
