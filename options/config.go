package options

import (
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/imdario/mergo"
	"gopkg.in/yaml.v3"
)

var ErrUnknownType = errors.New("type is not registered")

// Config is the file form of Settings.
//
//	members: exported            # or "all"
//	reference_handling: structural
//	immutable: [store.Money]
//	ignore_types: [store.Audit]
//	ignore_fields:
//	  store.Order: [UpdatedAt]
type Config struct {
	Members           string              `yaml:"members"`
	ReferenceHandling string              `yaml:"reference_handling"`
	Immutable         []string            `yaml:"immutable,omitempty"`
	IgnoreTypes       []string            `yaml:"ignore_types,omitempty"`
	IgnoreFields      map[string][]string `yaml:"ignore_fields,omitempty"`
}

func defaultConfig() Config {
	return Config{
		Members:           "exported",
		ReferenceHandling: "structural",
	}
}

// LoadConfig loads and parses a YAML settings file from the given path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	return ParseConfig(data)
}

// ParseConfig parses YAML data into a Config, unset keys take their defaults.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config

	err := yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse settings YAML: %w", err)
	}

	if err := mergo.Merge(&cfg, defaultConfig()); err != nil {
		return nil, fmt.Errorf("failed to apply settings defaults: %w", err)
	}

	return &cfg, nil
}

// MarshalConfig serializes a Config to YAML.
func MarshalConfig(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// Settings builds Settings from the config, resolving type names with reg.
// Extra options are applied after the configured ones.
func (c *Config) Settings(reg *TypeRegistry, opts ...Option) (*Settings, error) {
	filter, err := ParseMemberFilter(c.Members)
	if err != nil {
		return nil, err
	}

	handling, err := ParseReferenceHandling(c.ReferenceHandling)
	if err != nil {
		return nil, err
	}

	var configured []Option

	for _, name := range c.Immutable {
		t, ok := reg.Resolve(name)
		if !ok {
			return nil, fmt.Errorf("%w: immutable %q", ErrUnknownType, name)
		}

		configured = append(configured, withType(t, func(s *Settings, t reflect.Type) { s.immutable[t] = struct{}{} }))
	}

	for _, name := range c.IgnoreTypes {
		t, ok := reg.Resolve(name)
		if !ok {
			return nil, fmt.Errorf("%w: ignored type %q", ErrUnknownType, name)
		}

		configured = append(configured, withType(t, func(s *Settings, t reflect.Type) { s.ignoredTypes[t] = struct{}{} }))
	}

	for name, fields := range c.IgnoreFields {
		t, ok := reg.Resolve(name)
		if !ok {
			return nil, fmt.Errorf("%w: ignored fields owner %q", ErrUnknownType, name)
		}

		owner := Indirect(t)
		for _, field := range fields {
			if _, ok := owner.FieldByName(field); !ok {
				return nil, fmt.Errorf("type %s has no field %q", owner, field)
			}
		}

		configured = append(configured, withType(owner, func(s *Settings, t reflect.Type) { s.ignoreMembers(t, fields...) }))
	}

	return Build(filter, handling, append(configured, opts...)...)
}
