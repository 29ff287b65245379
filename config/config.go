package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	FormatText = "text"
	FormatJSON = "json"

	configFileName = "fast-tx.yaml"
)

var (
	Datadir   = "DATADIR"
	LogLevel  = "LOG_LEVEL"
	Port      = "PORT"
	Workers   = "WORKERS"
	Format    = "FORMAT"
	Archive   = "ARCHIVE"
	IndexPath = "INDEX_PATH"

	DefaultPort     = 8080
	defaultLogLevel = "info"
	defaultWorkers  = 8
	defaultFormat   = FormatText
	defaultDatadir  = defaultAppDir()
)

type Config struct {
	Datadir   string
	LogLevel  string
	Port      int
	Workers   int
	Format    string
	Archive   bool   // store decoded transactions in ArchiveDir
	IndexPath string // genji path, ":memory:" keeps the index in RAM
}

func (c *Config) String() string {
	json, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Sprintf("error while marshalling config JSON: %s", err)
	}
	return string(json)
}

// ArchiveDir is where the raw transaction archive lives.
func (c *Config) ArchiveDir() string {
	return filepath.Join(c.Datadir, "archive")
}

func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrapf(err, "invalid %s", LogLevel)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.Newf("invalid %s %d", Port, c.Port)
	}
	if c.Workers < 1 {
		return errors.Newf("%s must be at least 1, got %d", Workers, c.Workers)
	}
	if c.Format != FormatText && c.Format != FormatJSON {
		return errors.Newf("unknown %s %q, use %s or %s", Format, c.Format, FormatText, FormatJSON)
	}
	return nil
}

// LoadConfig reads FASTTX_* environment variables on top of the optional
// fast-tx.yaml in the datadir.
func LoadConfig() (*Config, error) {
	viper.SetEnvPrefix("FASTTX")
	viper.AutomaticEnv()

	viper.SetDefault(Datadir, defaultDatadir)
	viper.SetDefault(LogLevel, defaultLogLevel)
	viper.SetDefault(Port, DefaultPort)
	viper.SetDefault(Workers, defaultWorkers)
	viper.SetDefault(Format, defaultFormat)
	viper.SetDefault(Archive, false)
	viper.SetDefault(IndexPath, "")

	if err := initDatadir(); err != nil {
		return nil, errors.Wrap(err, "failed to create datadir")
	}

	configFile := filepath.Join(viper.GetString(Datadir), configFileName)
	if _, err := os.Stat(configFile); err == nil {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading %s", configFile)
		}
	}

	indexPath := viper.GetString(IndexPath)
	if indexPath == "" {
		indexPath = filepath.Join(viper.GetString(Datadir), "index")
	}

	cfg := &Config{
		Datadir:   viper.GetString(Datadir),
		LogLevel:  viper.GetString(LogLevel),
		Port:      viper.GetInt(Port),
		Workers:   viper.GetInt(Workers),
		Format:    viper.GetString(Format),
		Archive:   viper.GetBool(Archive),
		IndexPath: indexPath,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func initDatadir() error {
	datadir := viper.GetString(Datadir)
	return makeDirectoryIfNotExists(datadir)
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}

func defaultAppDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fast-tx"
	}
	return filepath.Join(home, ".fast-tx")
}
