package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go-timesheet/internal/geolocation"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

const (
	appDir         = "clock"
	configFileName = "config.yml"
	dbFileName     = "clock.db"
	logFileName    = "clock.log"
)

const (
	keyServerURL         = "server_url"
	keyLocationEnabled   = "location.enabled"
	keyLocationLatitude  = "location.latitude"
	keyLocationLongitude = "location.longitude"
	keyLocationAccuracy  = "location.accuracy"
	keyLocationTimeout   = "location.timeout"
	keyLogLevel          = "log.level"
)

type LocationConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Latitude  float64       `mapstructure:"latitude"`
	Longitude float64       `mapstructure:"longitude"`
	Accuracy  float64       `mapstructure:"accuracy"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// Provider returns the configured fixed position, or nil when location
// capture is disabled.
func (l LocationConfig) Provider() geolocation.Provider {
	if !l.Enabled {
		return nil
	}
	return geolocation.Static(&geolocation.Location{
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		Accuracy:  l.Accuracy,
	})
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	ServerURL string         `mapstructure:"server_url"`
	Location  LocationConfig `mapstructure:"location"`
	Log       LogConfig      `mapstructure:"log"`
}

// Paths locates the files the CLI owns.
type Paths struct {
	Config   string
	Database string
	Log      string
}

// DefaultPaths resolves the XDG config and data locations, creating the
// directories if needed.
func DefaultPaths() (Paths, error) {
	configPath, err := xdg.ConfigFile(filepath.Join(appDir, configFileName))
	if err != nil {
		return Paths{}, err
	}
	dbPath, err := xdg.DataFile(filepath.Join(appDir, dbFileName))
	if err != nil {
		return Paths{}, err
	}
	return Paths{
		Config:   configPath,
		Database: dbPath,
		Log:      filepath.Join(filepath.Dir(dbPath), logFileName),
	}, nil
}

// PathsIn places the database and log under dataDir.
func PathsIn(configPath, dataDir string) Paths {
	return Paths{
		Config:   configPath,
		Database: filepath.Join(dataDir, dbFileName),
		Log:      filepath.Join(dataDir, logFileName),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyServerURL, "http://localhost:3000")
	v.SetDefault(keyLocationEnabled, false)
	v.SetDefault(keyLocationLatitude, 0.0)
	v.SetDefault(keyLocationLongitude, 0.0)
	v.SetDefault(keyLocationAccuracy, 0.0)
	v.SetDefault(keyLocationTimeout, geolocation.DefaultTimeout.String())
	v.SetDefault(keyLogLevel, "info")
}

// LoadConfig reads the YAML config at path. A missing file is created with
// the defaults.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v)

	err := v.ReadInConfig()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("reading config file failed: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return Config{}, err
		}
		if err := v.WriteConfigAs(path); err != nil {
			return Config{}, fmt.Errorf("writing default config failed: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config failed: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("%s must be set", keyServerURL)
	}
	if c.Location.Enabled {
		loc := geolocation.Location{Latitude: c.Location.Latitude, Longitude: c.Location.Longitude, Accuracy: c.Location.Accuracy}
		if err := loc.Validate(); err != nil {
			return fmt.Errorf("location: %w", err)
		}
	}
	return nil
}
