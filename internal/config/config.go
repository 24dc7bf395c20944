package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const (
	defaultMessage    = "Default log message"
	defaultIterations = 10
	defaultLogPath    = "/app/app.log"
	defaultInterval   = 1000 * time.Millisecond

	defaultDataDir       = "."
	defaultServerPort    = "0.0.0.0:3000"
	defaultContainerName = "java-app-persistent"
	defaultImageTag      = "java-dummy-app"
	defaultBuildDir      = "."
	defaultPollInterval  = 5 * time.Second

	stateFileName   = "process_state.json"
	hostLogFileName = "app_host.log"
)

// RunnerConfig is the resolved configuration of a single runner execution.
type RunnerConfig struct {
	Message    string
	Iterations int
	LogPath    string
	Interval   time.Duration
}

// LoadRunner resolves the runner configuration from the environment.
// An unparseable ITERATIONS value is discarded in favor of the default.
func LoadRunner() RunnerConfig {
	return RunnerConfig{
		Message:    getEnvOrDefault("LOG_MESSAGE", defaultMessage),
		Iterations: getEnvIntOrDefault("ITERATIONS", defaultIterations),
		LogPath:    defaultLogPath,
		Interval:   defaultInterval,
	}
}

// Config is the monitor daemon configuration.
type Config struct {
	DataDir       string
	ServerPort    string
	ContainerName string
	ImageTag      string
	BuildDir      string
	PollInterval  time.Duration
}

// Load resolves the monitor configuration from the environment, reading a
// local .env file first when one exists.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DataDir:       getEnvOrDefault("DATA_DIR", defaultDataDir),
		ServerPort:    getEnvOrDefault("SERVER_PORT", defaultServerPort),
		ContainerName: getEnvOrDefault("CONTAINER_NAME", defaultContainerName),
		ImageTag:      getEnvOrDefault("IMAGE_TAG", defaultImageTag),
		BuildDir:      getEnvOrDefault("BUILD_DIR", defaultBuildDir),
		PollInterval:  getEnvDurationOrDefault("POLL_INTERVAL", defaultPollInterval),
	}
}

func (c *Config) StatePath() string {
	return filepath.Join(c.DataDir, stateFileName)
}

func (c *Config) HostLogPath() string {
	return filepath.Join(c.DataDir, hostLogFileName)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.WithFields(log.Fields{
			"key":   key,
			"value": value,
		}).Warn("invalid duration, using default")
		return defaultValue
	}
	return parsed
}
