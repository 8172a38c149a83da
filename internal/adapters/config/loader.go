// Package config provides the configuration loader for hgresolve.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.trai.ch/hgresolve/internal/core/domain"
	"go.trai.ch/hgresolve/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the configuration file found from cwd and applies it over the defaults.
func (l *Loader) Load(cwd string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	configPath, err := l.findConfiguration(cwd)
	if err != nil {
		return domain.Config{}, err
	}
	if configPath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath) //nolint:gosec // path comes from discovery or the user
	if err != nil {
		return domain.Config{}, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", configPath)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return domain.Config{}, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", configPath)
	}
	l.warnUnknownKeys(data, configPath)

	if err := apply(&cfg, &file, filepath.Dir(configPath)); err != nil {
		return domain.Config{}, zerr.With(err, "path", configPath)
	}
	return cfg, nil
}

// findConfiguration returns the explicit config path when HGRESOLVE_CONFIG is
// set, otherwise the nearest hgresolve.yaml at or above cwd, or "".
func (l *Loader) findConfiguration(cwd string) (string, error) {
	if explicit := os.Getenv(domain.ConfigEnvVar); explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", explicit)
		}
		return explicit, nil
	}

	currentDir, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", candidate)
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			return "", nil
		}
		currentDir = parentDir
	}
}

func (l *Loader) warnUnknownKeys(data []byte, configPath string) {
	if l.Logger == nil {
		return
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		if _, ok := knownKeys[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		l.Logger.Warn(fmt.Sprintf("unknown key '%s' in %s is ignored", k, configPath))
	}
}

//nolint:cyclop // flat field mapping
func apply(cfg *domain.Config, file *File, baseDir string) error {
	if hg := file.HG; hg != nil {
		if hg.Executable != "" {
			cfg.HG.Executable = hg.Executable
		}
		if hg.DefaultBranch != "" {
			cfg.HG.DefaultBranch = hg.DefaultBranch
		}
		if err := setDuration(&cfg.HG.CommandTimeout, hg.CommandTimeout, "hg.commandTimeout", true); err != nil {
			return err
		}
	}

	if c := file.Cache; c != nil {
		if c.MaxEntries != nil {
			if *c.MaxEntries <= 0 {
				return zerr.With(zerr.With(domain.ErrInvalidConfig, "key", "cache.maxEntries"), "value", *c.MaxEntries)
			}
			cfg.Cache.MaxEntries = *c.MaxEntries
		}
		if err := setDuration(&cfg.Cache.TTL, c.TTL, "cache.ttl", false); err != nil {
			return err
		}
	}

	if c := file.Clone; c != nil {
		if err := setDuration(&cfg.Clone.ProgressDelay, c.ProgressDelay, "clone.progressDelay", true); err != nil {
			return err
		}
		if err := setDuration(&cfg.Clone.ProgressInterval, c.ProgressInterval, "clone.progressInterval", false); err != nil {
			return err
		}
		if c.Shallow != nil {
			cfg.Clone.Shallow = *c.Shallow
		}
	}

	if w := file.Workspace; w != nil && w.TempDir != "" {
		dir := w.TempDir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(baseDir, dir)
		}
		cfg.Workspace.TempDir = filepath.Clean(dir)
	}

	return nil
}

func setDuration(dst *time.Duration, raw, key string, allowZero bool) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrInvalidConfig.Error()), "key", key)
	}
	if d < 0 || (d == 0 && !allowZero) {
		return zerr.With(zerr.With(domain.ErrInvalidConfig, "key", key), "value", raw)
	}
	*dst = d
	return nil
}
