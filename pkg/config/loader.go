package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/fahim-ahmed05/dotmngr/pkg/errors"
	"github.com/fahim-ahmed05/dotmngr/pkg/types"
)

// builtinDefaults seed the koanf tree underneath the user's file.
func builtinDefaults() map[string]interface{} {
	return map[string]interface{}{
		"defaults.trash_enabled": true,
	}
}

// parserFor selects the wire parser from the file extension.
func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	}
	return nil, errors.Newf(errors.ErrConfig,
		"unsupported configuration format %q (use .toml, .yaml, .yml, or .json)", filepath.Ext(path))
}

// Load reads, parses, and validates the configuration at path. The file is
// read through fsys so tests can inject a memory filesystem.
func Load(fsys types.FS, path string) (*Config, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfig, "cannot read configuration file %s", path)
	}

	parser, err := parserFor(path)
	if err != nil {
		return nil, err
	}

	// Parse the file on its own first: the required-section check must see
	// exactly what the user wrote, not the seeded defaults.
	fileK := koanf.New(".")
	if err := fileK.Load(rawbytes.Provider(data), parser); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfig, "cannot parse configuration file %s", path)
	}
	raw := fileK.Raw()
	for _, section := range []string{"defaults", "groups"} {
		if _, ok := raw[section]; !ok {
			return nil, errors.Newf(errors.ErrConfig,
				"configuration file %s is missing the required [%s] section", path, section)
		}
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(builtinDefaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to seed configuration defaults")
	}
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfig, "cannot parse configuration file %s", path)
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfig, "invalid configuration in %s", path)
	}
	cfg.Path = path

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate enforces the structural rules that must hold before any
// filesystem work starts. Mode strings are deliberately not parsed here;
// resolution happens per item during reconciliation.
func validate(cfg *Config) error {
	for _, name := range cfg.GroupNames() {
		group := cfg.Groups[name]
		for i, item := range group.Items {
			where := fmt.Sprintf("groups.%s.items[%d]", name, i)
			if item.Source == "" {
				return errors.Newf(errors.ErrConfig, "%s: source is required", where)
			}
			if item.Destination == "" {
				return errors.Newf(errors.ErrConfig, "%s: destination is required", where)
			}
			if item.Shortcut != nil && item.Shortcut.WindowStyle != "" {
				if _, err := types.ParseWindowStyle(item.Shortcut.WindowStyle); err != nil {
					return errors.Wrapf(err, errors.ErrConfig, "%s: invalid shortcut options", where)
				}
			}
		}
	}
	return nil
}
