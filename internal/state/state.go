package state

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/Paintersrp/marks/internal/config"
	"github.com/Paintersrp/marks/internal/constants"
)

// State carries what every command needs: the loaded config file, the viper
// instance flags are bound to, and the logger.
type State struct {
	File   *config.Config
	Viper  *viper.Viper
	Logger zerolog.Logger
	Home   string
}

func NewState(logger zerolog.Logger) (*State, error) {
	home, err := GetHomeDir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return &State{Viper: v, Logger: logger, Home: home}, nil
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory. err: %s", err)
	}

	return home, nil
}

// LoadConfig reads the config file at path, or the default one under the
// home directory when path is empty, creating it if needed.
func (s *State) LoadConfig(path string) error {
	if path == "" {
		path = config.GetConfigPath(s.Home)
		if err := config.EnsureConfigExists(path); err != nil {
			return err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}

	cfg.Bind(s.Viper)
	s.File = cfg

	s.Logger.Debug().Str("path", cfg.Path()).Msg("config loaded")
	return nil
}

// Settings returns the effective configuration after flag and environment
// overrides.
func (s *State) Settings() (*config.Config, error) {
	if s.File == nil {
		config.Default().Bind(s.Viper)
	}
	return config.Resolve(s.Viper)
}
