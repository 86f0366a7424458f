package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"github.com/kelseyhightower/envconfig"
	"github.com/weberc2/mono/dedup/pkg/dedup"
	"github.com/weberc2/mono/dedup/pkg/logger"
	"gopkg.in/yaml.v2"
)

const (
	envVarPrefix = "DEDUP"
	appName      = "dedup"
)

type Config struct {
	ReportFile  string `envconfig:"DEDUP_REPORT_FILE" yaml:"reportFile"`
	Hash        string `envconfig:"DEDUP_HASH"        yaml:"hash"`
	Verbose     bool   `envconfig:"DEDUP_VERBOSE"     yaml:"verbose"`
	Interactive bool   `envconfig:"DEDUP_INTERACTIVE" yaml:"interactive"`
	LogFormat   string `envconfig:"DEDUP_LOG_FORMAT"  yaml:"logFormat"`
}

func DefaultConfig() Config {
	return Config{
		ReportFile: defaultReportFile(),
		Hash:       string(dedup.SHA1),
		LogFormat:  string(logger.FormatText),
	}
}

// defaultReportFile puts the report next to the running binary.
func defaultReportFile() string {
	exe, err := os.Executable()
	if err != nil {
		return appName + ".csv"
	}
	name := strings.TrimSuffix(filepath.Base(exe), filepath.Ext(exe))
	return filepath.Join(filepath.Dir(exe), slug.Make(name)+".csv")
}

func configFile() string {
	if configFile := os.Getenv(envVarPrefix + "_CONFIG_FILE"); configFile != "" {
		return configFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName+".yaml")
}

// LoadConfig layers the config file and then the environment over the
// defaults. Command line flags are applied by the caller.
func LoadConfig() (*Config, error) {
	c := DefaultConfig()

	if path := configFile(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := yaml.UnmarshalStrict(data, &c); err != nil {
			return nil, fmt.Errorf("unmarshaling config file: %w", err)
		}
	}

	if err := envconfig.Process(envVarPrefix, &c); err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}

	return &c, nil
}

func (c *Config) Validate() error {
	if c.ReportFile == "" {
		return fmt.Errorf(
			"missing required configuration: reportFile / %s_REPORT_FILE",
			envVarPrefix,
		)
	}
	if _, err := dedup.ParseAlgorithm(c.Hash); err != nil {
		return fmt.Errorf("invalid configuration: hash: %w", err)
	}
	if _, err := logger.ParseFormat(c.LogFormat); err != nil {
		return fmt.Errorf("invalid configuration: logFormat: %w", err)
	}
	return nil
}
