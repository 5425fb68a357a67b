// Package writercfg loads and validates the tunables a Writer needs:
// block/page sizing, dictionary behavior, compression, and validation
// strictness. Values map directly onto SPEC §6's configuration options.
package writercfg

import (
	"os"
	"regexp"

	"github.com/dataflowlabs/parquetcore/pkg/compression"
	"github.com/dataflowlabs/parquetcore/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config controls one Writer's block/page sizing and encoding policy.
type Config struct {
	BlockSize          int64                 `yaml:"blockSize"`
	PageSize           int64                 `yaml:"pageSize"`
	DictionaryPageSize int64                 `yaml:"dictionaryPageSize"`
	EnableDictionary   bool                  `yaml:"enableDictionary"`
	Compression        compression.Algorithm `yaml:"compression"`
	CompressionLevel   compression.Level     `yaml:"compressionLevel"`
	Validating         bool                  `yaml:"validating"`
}

const (
	defaultBlockSize = 128 << 20 // 128 MiB
	defaultPageSize  = 1 << 20   // 1 MiB
)

// Default returns the configuration named in §6: a 128 MiB block size, a
// 1 MiB page size, dictionary encoding on with its budget equal to the
// page size, snappy compression, and validation off.
func Default() *Config {
	return &Config{
		BlockSize:          defaultBlockSize,
		PageSize:           defaultPageSize,
		DictionaryPageSize: defaultPageSize,
		EnableDictionary:   true,
		Compression:        compression.Snappy,
		CompressionLevel:   compression.Default,
		Validating:         false,
	}
}

// Validate rejects a configuration that cannot be reconciled with the
// writer's operating assumptions.
func (c *Config) Validate() error {
	if c.BlockSize <= 0 {
		return errors.New(errors.ErrorTypeConfigurationError, "blockSize must be positive")
	}
	if c.PageSize <= 0 {
		return errors.New(errors.ErrorTypeConfigurationError, "pageSize must be positive")
	}
	if c.DictionaryPageSize <= 0 {
		return errors.New(errors.ErrorTypeConfigurationError, "dictionaryPageSize must be positive")
	}
	return nil
}

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv substitutes ${VAR} references against the process environment,
// leaving unset variables as an empty string, matching the substitution
// behavior of a shell-style config template.
func expandEnv(raw []byte) []byte {
	return envVarPattern.ReplaceAllFunc(raw, func(m []byte) []byte {
		name := envVarPattern.FindSubmatch(m)[1]
		return []byte(os.Getenv(string(name)))
	})
}

// Load reads a YAML configuration file, expanding ${VAR} environment
// references before parsing, and layers it over Default().
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // path is caller-controlled, matching os.ReadFile's own contract
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfigurationError, "read config file")
	}

	cfg := Default()
	if err := yaml.Unmarshal(expandEnv(raw), cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfigurationError, "parse config file")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
