package main

import (
	"log"
	"os"
	"strconv"
)

// Config holds process configuration, loaded from the environment
type Config struct {
	Addr             string
	DatabasePath     string
	PublicURL        string
	AgentTokenSecret string
	MinOpenMatches   int
}

// LoadConfig reads configuration from environment variables with defaults
func LoadConfig() *Config {
	return &Config{
		Addr:             getEnv("ADDR", ":8080"),
		DatabasePath:     getEnv("REPLAY_DB_PATH", "basestrike.db"),
		PublicURL:        getEnv("PUBLIC_URL", "http://localhost:8080"),
		AgentTokenSecret: getEnv("AGENT_TOKEN_SECRET", ""),
		MinOpenMatches:   getEnvInt("MIN_OPEN_MATCHES", 2),
	}
}

// getEnv reads an environment variable and returns its value or a default value
func getEnv(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}
