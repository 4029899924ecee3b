package properties

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	MaskFormatNPY  = "npy"
	MaskFormatTIFF = "tif"

	DefaultMaskSize = 201

	// ClassSegmentIndex is the position of the class label in a "-" split
	// annotation file name, e.g. "sargassum-2021-05-03.json".
	ClassSegmentIndex = 0
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	RootPath   string `mapstructure:"root_path"`
	RawDir     string `mapstructure:"raw_dir"`
	CachePath  string `mapstructure:"cache_path"`
	Collection string `mapstructure:"collection"`

	ImageWidth  float64 `mapstructure:"image_width"`
	ImageHeight float64 `mapstructure:"image_height"`
	Resolution  float64 `mapstructure:"resolution"`

	MaskSize    int    `mapstructure:"mask_size"`
	MaskFormat  string `mapstructure:"mask_format"`
	MaskPreview bool   `mapstructure:"mask_preview"`
	Workers     int    `mapstructure:"acquisition_workers"`
	Progress    bool   `mapstructure:"progress"`

	ClientIDs     string `mapstructure:"copernicus_client_id"`
	ClientSecrets string `mapstructure:"copernicus_client_secret"`
	TokenURL      string `mapstructure:"copernicus_token_url"`
	ProcessURL    string `mapstructure:"sentinel_process_url"`
	CatalogURL    string `mapstructure:"sentinel_catalog_url"`

	DiscordErrorURL   string `mapstructure:"discord_error_notification_url"`
	DiscordSuccessURL string `mapstructure:"discord_success_notification_url"`

	LogMode string `mapstructure:"log_mode"`
}

var keys = []string{
	"root_path", "raw_dir", "cache_path", "collection",
	"image_width", "image_height", "resolution",
	"mask_size", "mask_format", "mask_preview", "acquisition_workers", "progress",
	"copernicus_client_id", "copernicus_client_secret", "copernicus_token_url",
	"sentinel_process_url", "sentinel_catalog_url",
	"discord_error_notification_url", "discord_success_notification_url",
	"log_mode",
}

// New returns a viper instance with defaults and environment binding.
// Every key can be overridden by its upper-case environment variable.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("root_path", "data")
	v.SetDefault("collection", "sentinel-2-l2a")
	// Full footprint extents in degrees, centred on the polygon centroid.
	v.SetDefault("image_width", 0.018)
	v.SetDefault("image_height", 0.018)
	v.SetDefault("resolution", 10.0)
	v.SetDefault("mask_size", DefaultMaskSize)
	v.SetDefault("mask_format", MaskFormatNPY)
	v.SetDefault("mask_preview", false)
	v.SetDefault("acquisition_workers", 1)
	v.SetDefault("progress", true)
	v.SetDefault("sentinel_process_url", "https://sh.dataspace.copernicus.eu/api/v1/process")
	v.SetDefault("sentinel_catalog_url", "https://sh.dataspace.copernicus.eu/api/v1/catalog/1.0.0")
	v.SetDefault("copernicus_token_url", "https://identity.dataspace.copernicus.eu/auth/realms/CDSE/protocol/openid-connect/token")
	v.SetDefault("log_mode", "debug")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only resolves keys viper already knows about when
	// unmarshalling, so bind the ones without defaults explicitly.
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
	return v
}

// Load reads .env (if any), the optional YAML config file and the
// environment into a Config.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	_ = godotenv.Load()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: failed to read config file %s: %v", ErrInvalidConfig, configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	cfg.applyDerivedDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDerivedDefaults() {
	if c.RawDir == "" {
		c.RawDir = filepath.Join(c.RootPath, "raw")
	}
	if c.CachePath == "" {
		c.CachePath = filepath.Join(c.RootPath, "external", "cache")
	}
}

func (c *Config) Validate() error {
	if c.ImageWidth <= 0 || c.ImageHeight <= 0 {
		return fmt.Errorf("%w: image width and height must be positive, got %v x %v", ErrInvalidConfig, c.ImageWidth, c.ImageHeight)
	}
	if c.MaskSize <= 0 {
		return fmt.Errorf("%w: mask size must be positive, got %d", ErrInvalidConfig, c.MaskSize)
	}
	if c.MaskFormat != MaskFormatNPY && c.MaskFormat != MaskFormatTIFF {
		return fmt.Errorf("%w: unknown mask format %q", ErrInvalidConfig, c.MaskFormat)
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	return nil
}

func (c *Config) MaskDir() string {
	return filepath.Join(c.RootPath, "processed", "segmentation", "mask")
}

func (c *Config) PreviewDir() string {
	return filepath.Join(c.RootPath, "processed", "segmentation", "preview")
}

func (c *Config) ManifestDir() string {
	return filepath.Join(c.RootPath, "processed", "segmentation", "polygon")
}

// Credentials pairs the comma separated client ids and secrets.
func (c *Config) Credentials() ([][2]string, error) {
	if c.ClientIDs == "" || c.ClientSecrets == "" || c.TokenURL == "" {
		return nil, fmt.Errorf("%w: missing required environment variables: COPERNICUS_CLIENT_ID, COPERNICUS_CLIENT_SECRET, or COPERNICUS_TOKEN_URL", ErrInvalidConfig)
	}
	ids := strings.Split(c.ClientIDs, ",")
	secrets := strings.Split(c.ClientSecrets, ",")
	if len(ids) != len(secrets) {
		return nil, fmt.Errorf("%w: mismatched number of client IDs and secrets", ErrInvalidConfig)
	}
	creds := make([][2]string, len(ids))
	for i := range ids {
		creds[i] = [2]string{strings.TrimSpace(ids[i]), strings.TrimSpace(secrets[i])}
	}
	return creds, nil
}
