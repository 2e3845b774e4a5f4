package app

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all the configuration settings for our Application. We
// read these from an optional YAML file and from command-line flags when
// the Application starts; flags win. The values are fixed for the
// lifetime of the process.
type Config struct {
	Port int    `yaml:"port"`
	Env  string `yaml:"env"`

	TfLURL    string `yaml:"tflUrl"`
	TfLAppID  string `yaml:"tflAppId"`
	TfLAppKey string `yaml:"tflAppKey"`
	AlertsURL string `yaml:"alertsUrl"`

	StreamURL    string `yaml:"streamUrl"`
	ControlToken string `yaml:"controlToken"`

	RefreshInterval time.Duration `yaml:"-"`
}

// configFile mirrors Config for YAML decoding. Durations arrive as
// strings like "30s" and need parsing by hand.
type configFile struct {
	Port int    `yaml:"port"`
	Env  string `yaml:"env"`

	TfLURL    string `yaml:"tflUrl"`
	TfLAppID  string `yaml:"tflAppId"`
	TfLAppKey string `yaml:"tflAppKey"`
	AlertsURL string `yaml:"alertsUrl"`

	StreamURL    string `yaml:"streamUrl"`
	ControlToken string `yaml:"controlToken"`

	RefreshInterval string `yaml:"refreshInterval"`
}

// LoadConfigFile reads a YAML config file over the given defaults. Keys
// absent from the file keep their default values.
func LoadConfigFile(path string, cfg Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	file := configFile{
		Port:         cfg.Port,
		Env:          cfg.Env,
		TfLURL:       cfg.TfLURL,
		TfLAppID:     cfg.TfLAppID,
		TfLAppKey:    cfg.TfLAppKey,
		AlertsURL:    cfg.AlertsURL,
		StreamURL:    cfg.StreamURL,
		ControlToken: cfg.ControlToken,
	}
	if cfg.RefreshInterval > 0 {
		file.RefreshInterval = cfg.RefreshInterval.String()
	}

	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	out := Config{
		Port:         file.Port,
		Env:          file.Env,
		TfLURL:       file.TfLURL,
		TfLAppID:     file.TfLAppID,
		TfLAppKey:    file.TfLAppKey,
		AlertsURL:    file.AlertsURL,
		StreamURL:    file.StreamURL,
		ControlToken: file.ControlToken,
	}
	if file.RefreshInterval != "" {
		interval, err := time.ParseDuration(file.RefreshInterval)
		if err != nil {
			return cfg, fmt.Errorf("parsing refreshInterval: %w", err)
		}
		out.RefreshInterval = interval
	}
	return out, nil
}
