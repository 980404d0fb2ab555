package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Server
	ServerURL  string
	ServerPort string

	// BetaSeries
	BetaSeries BetaSeriesConfig

	// Client is the default BetaSeries client (single-tenant mode)
	Client *ClientConfig

	// Clients holds additional BetaSeries clients keyed by Plex account
	// (multi-tenant mode, loaded from clients.yaml)
	Clients map[string]ClientConfig

	// Logging
	LogLevel string
}

// BetaSeriesConfig holds the BetaSeries service endpoints
type BetaSeriesConfig struct {
	URL            string // website URL, used for the OAuth authorize page
	APIURL         string
	APIVersion     string
	TimeoutSeconds int
}

// ClientConfig holds the BetaSeries credentials linked to one Plex account
type ClientConfig struct {
	PlexAccount  string `mapstructure:"plexaccount"`
	ClientID     string `mapstructure:"clientid"`
	ClientSecret string `mapstructure:"clientsecret"`
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Setup viper FIRST to load .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "12000")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("BETASERIES_URL", "https://www.betaseries.com")
	viper.SetDefault("BETASERIES_API_URL", "https://api.betaseries.com")
	viper.SetDefault("BETASERIES_API_VERSION", "3.0")
	viper.SetDefault("BETASERIES_TIMEOUT_SECONDS", 10)

	config := &Config{
		ServerURL:  viper.GetString("SERVER_URL"),
		ServerPort: viper.GetString("SERVER_PORT"),
		BetaSeries: BetaSeriesConfig{
			URL:            viper.GetString("BETASERIES_URL"),
			APIURL:         viper.GetString("BETASERIES_API_URL"),
			APIVersion:     viper.GetString("BETASERIES_API_VERSION"),
			TimeoutSeconds: viper.GetInt("BETASERIES_TIMEOUT_SECONDS"),
		},
		LogLevel: viper.GetString("LOG_LEVEL"),
	}

	if config.ServerURL == "" {
		urlPort := ":" + config.ServerPort
		if config.ServerPort == "80" {
			urlPort = ""
		}
		config.ServerURL = fmt.Sprintf("http://localhost%s/", urlPort)
	}

	// Default client (single-tenant mode)
	if clientID := viper.GetString("BETASERIES_CLIENT_ID"); clientID != "" {
		client := &ClientConfig{
			PlexAccount:  viper.GetString("PLEX_ACCOUNT"),
			ClientID:     clientID,
			ClientSecret: viper.GetString("BETASERIES_CLIENT_SECRET"),
		}
		if client.ClientSecret == "" {
			return nil, fmt.Errorf("BETASERIES_CLIENT_SECRET is required")
		}
		if client.PlexAccount == "" {
			return nil, fmt.Errorf("PLEX_ACCOUNT is required")
		}
		config.Client = client
	}

	// Additional clients (multi-tenant mode)
	clients, err := loadClients(viper.GetString("CONFIG_DIR"))
	if err != nil {
		return nil, err
	}
	config.Clients = clients

	if config.Client == nil && len(config.Clients) == 0 {
		return nil, fmt.Errorf("no BetaSeries client configured: set BETASERIES_CLIENT_ID or provide clients.yaml")
	}

	return config, nil
}

// loadClients loads the optional clients.yaml file from the config directory
func loadClients(configDir string) (map[string]ClientConfig, error) {
	if configDir == "" {
		return nil, nil
	}

	absDir, err := filepath.Abs(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
	}
	if _, err := os.Stat(filepath.Join(absDir, "clients.yaml")); os.IsNotExist(err) {
		return nil, nil
	}

	v := viper.New()
	v.SetConfigName("clients")
	v.SetConfigType("yaml")
	v.AddConfigPath(absDir)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read clients.yaml: %w", err)
	}

	var clients map[string]ClientConfig
	if err := v.Unmarshal(&clients); err != nil {
		return nil, fmt.Errorf("failed to parse clients.yaml: %w", err)
	}

	for account, client := range clients {
		if client.ClientID == "" || client.ClientSecret == "" {
			return nil, fmt.Errorf("incomplete BetaSeries client for %q in clients.yaml", account)
		}
		client.PlexAccount = account
		clients[account] = client
	}

	return clients, nil
}

// ClientFor returns the BetaSeries client linked to the given Plex account.
// An empty account selects the default client (single-tenant mode). Returns
// nil when no client matches.
func (c *Config) ClientFor(plexAccount string) *ClientConfig {
	if plexAccount == "" {
		return c.Client
	}
	if c.Client != nil && strings.EqualFold(c.Client.PlexAccount, plexAccount) {
		return c.Client
	}
	if client, ok := c.Clients[plexAccount]; ok {
		return &client
	}
	return nil
}
