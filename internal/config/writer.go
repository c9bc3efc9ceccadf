package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/knowledgelib/internal/foundation/errors"
	"git.home.luguber.info/inful/knowledgelib/internal/fsutil"
)

const header = "# knowledgelib configuration. ${VAR} references are expanded from the environment.\n"

// Write stores cfg as YAML at path. An existing file is only replaced with force.
func Write(path string, cfg *Config, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).Build()
	} else if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return errors.WrapError(err, errors.CategoryFileSystem, "stat configuration").WithContext("path", path).Build()
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := fsutil.WriteFileAtomic(path, append([]byte(header), data...)); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "write configuration").WithContext("path", path).Build()
	}
	return nil
}
