package corrozy

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const DefaultConfigFile = "corrozy.toml"

type NamespaceMode string

const (
	NamespaceAuto   NamespaceMode = "auto"
	NamespaceManual NamespaceMode = "manual"
	NamespaceNone   NamespaceMode = "none"
)

func (m *NamespaceMode) UnmarshalText(text []byte) error {
	switch mode := NamespaceMode(strings.ToLower(string(text))); mode {
	case NamespaceAuto, NamespaceManual, NamespaceNone:
		*m = mode
		return nil
	default:
		return fmt.Errorf("unknown namespace mode %q", string(text))
	}
}

type Config struct {
	Transpiler TranspilerConfig `toml:"transpiler"`
	Namespace  NamespaceConfig  `toml:"namespace"`
}

type TranspilerConfig struct {
	SrcDir          string `toml:"src_dir"`
	OutputDir       string `toml:"output_dir"`
	StrictTypes     bool   `toml:"strict_types"`
	IncludeComments bool   `toml:"include_comments"`
}

type NamespaceConfig struct {
	Mode          NamespaceMode `toml:"mode"`
	BaseNamespace string        `toml:"base_namespace"`
	Separator     string        `toml:"separator"`
}

func DefaultConfig() *Config {
	return &Config{
		Transpiler: TranspilerConfig{
			SrcDir:          "src",
			OutputDir:       "out",
			StrictTypes:     true,
			IncludeComments: false,
		},
		Namespace: NamespaceConfig{
			Mode:          NamespaceAuto,
			BaseNamespace: "MyApp",
			Separator:     "\\",
		},
	}
}

// LoadConfig reads a TOML file on top of the defaults. Keys the file sets
// but the configuration doesn't know about are an error.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	meta, err := toml.DecodeFile(path, config)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %s", path)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}

		return nil, errors.Errorf("unknown keys in config %s: %s", path, strings.Join(keys, ", "))
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}

	return config, nil
}

func (c *Config) Validate() error {
	switch c.Namespace.Mode {
	case NamespaceAuto, NamespaceManual, NamespaceNone:
	default:
		return errors.Errorf("unknown namespace mode %q", c.Namespace.Mode)
	}

	if c.Transpiler.OutputDir == "" {
		return errors.New("output_dir can't be empty")
	}

	if c.Namespace.Separator == "" {
		c.Namespace.Separator = "\\"
	}

	return nil
}
