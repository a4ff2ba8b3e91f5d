package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"ddctimer/internal/platform"
	"ddctimer/internal/ui/preferences"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DDC_TIMER_"

// ErrInvalidEnv reports an environment override that cannot be parsed.
var ErrInvalidEnv = errors.New("invalid environment override")

type yamlSettings struct {
	RoundMinutes   int    `yaml:"round_minutes"`
	CeilingMinutes int    `yaml:"ceiling_minutes"`
	Label          string `yaml:"label"`
	AppName        string `yaml:"app_name"`
	SoundEnabled   *bool  `yaml:"sound_enabled"`
	Fullscreen     bool   `yaml:"fullscreen"`
	LogLevel       string `yaml:"log_level"`
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()
	configPath, err := ResolveConfigPath(appName)
	if err != nil {
		return settings, err
	}
	return loadSettingsFile(configPath, settings)
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := ResolveConfigPath(appName)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	sound := settings.SoundEnabled
	fileData := yamlSettings{
		RoundMinutes:   settings.RoundMinutes,
		CeilingMinutes: settings.CeilingMinutes,
		Label:          settings.Label,
		AppName:        settings.AppName,
		SoundEnabled:   &sound,
		Fullscreen:     settings.Fullscreen,
		LogLevel:       settings.LogLevel,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// ResolveConfigPath returns the settings file location for appName.
func ResolveConfigPath(appName string) (string, error) {
	configDir, err := platform.ConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, directoryName(appName), settingsFileName), nil
}

// ApplyEnv overlays DDC_TIMER_* variables on settings. Unparseable values are
// skipped and reported together.
func ApplyEnv(settings preferences.Settings) (preferences.Settings, error) {
	var errs []error

	if value, ok := lookupEnv("ROUND_MINUTES"); ok {
		if minutes, err := strconv.Atoi(value); err == nil && minutes > 0 {
			settings.RoundMinutes = minutes
		} else {
			errs = append(errs, fmt.Errorf("%w: %sROUND_MINUTES=%q", ErrInvalidEnv, EnvPrefix, value))
		}
	}
	if value, ok := lookupEnv("CEILING_MINUTES"); ok {
		if minutes, err := strconv.Atoi(value); err == nil && minutes > 0 && minutes <= preferences.MaxCeilingMinutes {
			settings.CeilingMinutes = minutes
		} else {
			errs = append(errs, fmt.Errorf("%w: %sCEILING_MINUTES=%q", ErrInvalidEnv, EnvPrefix, value))
		}
	}
	if value, ok := lookupEnv("LABEL"); ok {
		settings.Label = value
	}
	if value, ok := lookupEnv("APP_NAME"); ok && value != "" {
		settings.AppName = value
	}
	if value, ok := lookupEnv("SOUND"); ok {
		if enabled, err := strconv.ParseBool(value); err == nil {
			settings.SoundEnabled = enabled
		} else {
			errs = append(errs, fmt.Errorf("%w: %sSOUND=%q", ErrInvalidEnv, EnvPrefix, value))
		}
	}
	if value, ok := lookupEnv("FULLSCREEN"); ok {
		if enabled, err := strconv.ParseBool(value); err == nil {
			settings.Fullscreen = enabled
		} else {
			errs = append(errs, fmt.Errorf("%w: %sFULLSCREEN=%q", ErrInvalidEnv, EnvPrefix, value))
		}
	}
	if value, ok := lookupEnv("LOG_LEVEL"); ok && value != "" {
		settings.LogLevel = value
	}

	return settings, errors.Join(errs...)
}

func loadSettingsFile(configPath string, settings preferences.Settings) (preferences.Settings, error) {
	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.RoundMinutes > 0 {
		settings.RoundMinutes = fileData.RoundMinutes
	}
	if fileData.CeilingMinutes > 0 {
		settings.CeilingMinutes = min(fileData.CeilingMinutes, preferences.MaxCeilingMinutes)
	}
	if fileData.AppName != "" {
		settings.AppName = fileData.AppName
	}
	if fileData.LogLevel != "" {
		settings.LogLevel = fileData.LogLevel
	}
	if fileData.SoundEnabled != nil {
		settings.SoundEnabled = *fileData.SoundEnabled
	}

	settings.Label = fileData.Label
	settings.Fullscreen = fileData.Fullscreen
}

func lookupEnv(name string) (string, bool) {
	value, ok := os.LookupEnv(EnvPrefix + name)
	return strings.TrimSpace(value), ok
}

func directoryName(appName string) string {
	name := strings.TrimSpace(appName)
	if name == "" {
		return "ddc-timer"
	}
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}
