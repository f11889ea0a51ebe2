package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/pretenst/internal/logging"
	"github.com/mesh-intelligence/pretenst/internal/runner"
	"github.com/mesh-intelligence/pretenst/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyLogLevel  = "log_level"
	cfgKeyLogFormat = "log_format"
	cfgKeyDataDir   = "data_dir"
	cfgKeyWorld     = "world"
	cfgKeyScript    = "script"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# pretenst configuration

# Logging: trace, debug, info, warn, error; format text or json.
log_level: info
log_format: text

# Run store directory (optional; overridable by --data-dir).
# data_dir:

# Physical constants. Countdowns are in substeps.
world:
  iterations_per_frame: 40
  realizing_countdown: 4000
  interval_countdown: 1000
  shaping_pretenst_factor: 1.1
  gravity: 0.1
  drag: 0.02
  time_step: 0.02
  stiffness_factor: 50
  surface: true

# Lifecycle script for "pretenst run".
script:
  grow_frames: 10
  shape_frames: 20
  adopt: true
  pretension: true
  max_frames: 2000
  snapshot_every: 10
`

// settings is the resolved configuration.
type settings struct {
	LogLevel  string
	LogFormat string
	DataDir   string
	World     types.World
	Script    runner.Script
}

// loadSettings reads config.yaml from configDir with Viper, creating the
// directory and a default file on first run. Missing keys fall back to
// the built-in defaults; PRETENST_* environment variables override the
// top-level keys.
func loadSettings(configDir string) (*settings, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyLogLevel, "info")
	v.SetDefault(cfgKeyLogFormat, logging.FormatText)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix("PRETENST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	s := &settings{
		LogLevel:  v.GetString(cfgKeyLogLevel),
		LogFormat: v.GetString(cfgKeyLogFormat),
		DataDir:   v.GetString(cfgKeyDataDir),
		World:     types.DefaultWorld(),
		Script:    runner.DefaultScript(),
	}
	if err := v.UnmarshalKey(cfgKeyWorld, &s.World); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrInvalidWorld, err)
	}
	if err := s.World.Validate(); err != nil {
		return nil, err
	}
	if err := v.UnmarshalKey(cfgKeyScript, &s.Script); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	return s, nil
}

func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile writes the default config.yaml unless one exists.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
