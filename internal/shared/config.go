package shared

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// SupportedFormats lists the audio formats the downloader can produce.
var SupportedFormats = []string{"mp3", "flac", "wav", "m4a"}

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Download    DownloadConfig    `toml:"download"`
	Search      SearchConfig      `toml:"search"`
	Database    DatabaseConfig    `toml:"database"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
	YouTube YouTubeConfig `toml:"youtube"`
}

// SpotifyConfig contains Spotify API client credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// YouTubeConfig points at the YouTube Music proxy used for search.
type YouTubeConfig struct {
	ProxyURL string `toml:"proxy_url"`
}

// DownloadConfig contains defaults for the grab command.
type DownloadConfig struct {
	Format       string `toml:"format"`
	Workers      int    `toml:"workers"`
	OutputDir    string `toml:"output_dir"`
	Log          bool   `toml:"log"`
	Report       bool   `toml:"report"`
	YTDLPPath    string `toml:"ytdlp_path"`
	AudioQuality string `toml:"audio_quality"`
}

// SearchConfig contains catalog search settings.
type SearchConfig struct {
	Limit     int     `toml:"limit"`
	RateLimit float64 `toml:"rate_limit"` // Requests per second, 0 disables throttling
}

// DatabaseConfig contains run history settings. An empty path disables history.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the download and search settings.
func (c *Config) Validate() error {
	if !slices.Contains(SupportedFormats, c.Download.Format) {
		return fmt.Errorf("%w: unsupported format %q (must be one of %v)", ErrInvalidFlag, c.Download.Format, SupportedFormats)
	}
	if c.Download.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidFlag, c.Download.Workers)
	}
	if c.Search.Limit < 1 {
		return fmt.Errorf("%w: search limit must be at least 1, got %d", ErrInvalidConfig, c.Search.Limit)
	}
	return nil
}

// ResolveSpotifyCredentials fills in missing Spotify credentials from the environment.
//
// Values already set (from flags or the config file) win. A .env file in the working
// directory is loaded first when present.
func (c *Config) ResolveSpotifyCredentials() error {
	_ = godotenv.Load()

	creds := &c.Credentials.Spotify
	if creds.ClientID == "" {
		creds.ClientID = os.Getenv("SPOTIFY_CLIENT_ID")
	}
	if creds.ClientSecret == "" {
		creds.ClientSecret = os.Getenv("SPOTIFY_CLIENT_SECRET")
	}

	if creds.ClientID == "" || creds.ClientSecret == "" {
		return fmt.Errorf("%w: set --client-id/--client-secret, [credentials.spotify] or SPOTIFY_CLIENT_ID/SPOTIFY_CLIENT_SECRET", ErrMissingCredentials)
	}
	return nil
}
