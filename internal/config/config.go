package config

import "os"

// Config holds all service configuration, read from the environment
type Config struct {
	Port     string
	RedisURI string
	MongoURI string
	MongoDB  string
	LogJSON  bool
	LogDebug bool
}

// Load reads configuration from environment variables. Redis and Mongo are
// optional; when a URI is empty the service keeps that state in memory.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		RedisURI: os.Getenv("REDIS_URI"),
		MongoURI: os.Getenv("MONGO_URI"),
		MongoDB:  getEnv("MONGO_DB", "apexhire"),
		LogJSON:  getEnvBool("LOG_JSON", false),
		LogDebug: getEnvBool("LOG_DEBUG", false),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return defaultVal
}
