package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gapminder/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data     DataConfig
	Server   ServerConfig
	LogLevel string
}

// DataConfig locates the three source tables
type DataConfig struct {
	Dir                string
	PopulationFile     string
	LifeExpectancyFile string
	GNIFile            string
	DefaultCountries   []string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// PopulationPath returns the population table path, resolved against Dir
func (d DataConfig) PopulationPath() string { return d.resolve(d.PopulationFile) }

// LifeExpectancyPath returns the life expectancy table path, resolved against Dir
func (d DataConfig) LifeExpectancyPath() string { return d.resolve(d.LifeExpectancyFile) }

// GNIPath returns the GNI per capita table path, resolved against Dir
func (d DataConfig) GNIPath() string { return d.resolve(d.GNIFile) }

func (d DataConfig) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(d.Dir, name)
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Data:     *loadDataConfig(),
		Server:   *loadServerConfig(),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		Dir:                getEnvOrDefault("DATA_DIR", "data"),
		PopulationFile:     getEnvOrDefault("POPULATION_FILE", "population.csv"),
		LifeExpectancyFile: getEnvOrDefault("LIFE_EXPECTANCY_FILE", "life_expectancy.csv"),
		GNIFile:            getEnvOrDefault("GNI_FILE", "gni_per_capita.csv"),
		DefaultCountries:   getEnvListOrDefault("DEFAULT_COUNTRIES", []string{"Germany", "United States"}),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port: getEnvOrDefault("PORT", "8080"),
	}
}

func validateConfig(config *Config) error {
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric, got " + strconv.Quote(config.Server.Port))
	}
	for key, name := range map[string]string{
		"POPULATION_FILE":      config.Data.PopulationFile,
		"LIFE_EXPECTANCY_FILE": config.Data.LifeExpectancyFile,
		"GNI_FILE":             config.Data.GNIFile,
	} {
		if strings.TrimSpace(name) == "" {
			return errors.ConfigInvalid(key + " must not be empty")
		}
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
