package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds the process-wide configuration once bootstrap has loaded it.
var AppConfig *Config

// Config holds the application configuration
type Config struct {
	ProxyAPIKey          string
	EfiClientID          string
	EfiClientSecret      string
	EfiCertificateBase64 string
	EfiAmbiente          string
	EfiChavePix          string
	// Optional: override the gateway hosts (sandbox mocks, local tunnels)
	SubscriptionsBaseURL string
	PixBaseURL           string
	// Optional: Postgres ledger of created plans, subscriptions and charges
	DatabaseURL string
	// Optional: base URL for running remote HTTP integration tests (e.g., https://proxy.example.com)
	IntegrationBaseURL string
	HTTPPort           string
	LogLevel           string
	LogFormat          string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{}

	// Try to load .env file from current directory and parent directories
	currentDir, _ := os.Getwd()
	for currentDir != "/" && currentDir != "." {
		envPath := filepath.Join(currentDir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return nil, fmt.Errorf("failed to load .env file: %w", err)
			}
			break
		}
		currentDir = filepath.Dir(currentDir)
	}

	vars := []struct {
		name     string
		envVar   string
		display  string
		required bool
	}{
		{"ProxyAPIKey", "PROXY_API_KEY", "Proxy API Key", true},
		{"EfiClientID", "EFI_CLIENT_ID", "Efi Client ID", false},
		{"EfiClientSecret", "EFI_CLIENT_SECRET", "Efi Client Secret", false},
		{"EfiCertificateBase64", "EFI_CERTIFICATE_BASE64", "Efi Certificate", false},
		{"EfiAmbiente", "EFI_AMBIENTE", "Efi Environment", false},
		{"EfiChavePix", "EFI_CHAVE_PIX", "Efi PIX Key", false},
		{"SubscriptionsBaseURL", "EFI_SUBSCRIPTIONS_BASE_URL", "Efi Subscriptions Base URL", false},
		{"PixBaseURL", "EFI_PIX_BASE_URL", "Efi PIX Base URL", false},
		{"DatabaseURL", "DATABASE_URL", "Database URL", false},
		{"IntegrationBaseURL", "INTEGRATION_BASE_URL", "Integration Base URL", false},
		{"HTTPPort", "PORT", "HTTP Port", false},
		{"LogLevel", "LOG_LEVEL", "Log Level", false},
		{"LogFormat", "LOG_FORMAT", "Log Format", false},
	}

	for _, v := range vars {
		value := strings.TrimSpace(os.Getenv(v.envVar))
		if v.required && value == "" {
			return nil, fmt.Errorf("missing required environment variable: %s", v.display)
		}
		configField := reflect.ValueOf(config).Elem().FieldByName(v.name)
		configField.SetString(value)
	}

	// Defaults
	if config.HTTPPort == "" {
		config.HTTPPort = "8080"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "json"
	}
	if config.SubscriptionsBaseURL == "" {
		config.SubscriptionsBaseURL = "https://" + SubscriptionsHost(config.Environment())
	}
	if config.PixBaseURL == "" {
		config.PixBaseURL = "https://" + PixHost(config.Environment())
	}
	config.SubscriptionsBaseURL = strings.TrimRight(config.SubscriptionsBaseURL, "/")
	config.PixBaseURL = strings.TrimRight(config.PixBaseURL, "/")

	return config, nil
}

// Environment normalizes EFI_AMBIENTE. Only an explicit production value
// selects the production hosts.
func (c *Config) Environment() string {
	switch strings.ToLower(c.EfiAmbiente) {
	case EnvProduction, "producao", "produção":
		return EnvProduction
	default:
		return EnvSandbox
	}
}

// EnvironmentLabel is the configured environment as reported by the
// health endpoint.
func (c *Config) EnvironmentLabel() string {
	if c.EfiAmbiente == "" {
		return "not-configured"
	}
	return c.EfiAmbiente
}
