package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	portEnvVar = "PORT"
	appNameVar = "APP_NAME"
	baseURLVar = "BASE_URL"
	envVar     = "ENV"
)

type EnvVars struct {
	port    string
	appName string
	baseURL string
	env     string
}

var _ EnvConfig = EnvVars{}

func newEnvVars() EnvVars {
	port := GetEnv(portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return EnvVars{
		port:    port,
		appName: GetEnv(appNameVar, "Task Server"),
		baseURL: GetEnv(baseURLVar, "http://localhost:8080"),
		env:     GetEnv(envVar, "DEV"),
	}
}

func (e EnvVars) GetPort() string {
	return e.port
}

func (e EnvVars) GetAppName() string {
	return e.appName
}

// GetBaseURL returns the public base URL of the server (e.g.
// "https://tasks.example.com"). Registration links are built from it.
func (e EnvVars) GetBaseURL() string {
	return e.baseURL
}

func (e EnvVars) GetEnv() string {
	return e.env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDurationEnv(envVar string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(envVar); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getIntEnv(envVar string, defaultValue int) int {
	if value := os.Getenv(envVar); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
