// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse decodes data on top of base
	Parse(ctx context.Context, data []byte, base *Config) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

const (
	minDefaultConcurrency = 4
	maxDefaultConcurrency = 64
)

// 📚 Config represents the complete configuration of a sort run
type Config struct {
	Source              string   `json:"source" yaml:"source" toml:"source"`
	Destination         string   `json:"destination" yaml:"destination" toml:"destination"`
	MaxConcurrentCopies int      `json:"max_concurrent_copies,omitempty" yaml:"max_concurrent_copies,omitempty" toml:"max_concurrent_copies,omitempty"`
	Exclude             []string `json:"exclude,omitempty" yaml:"exclude,omitempty" toml:"exclude,omitempty"`
	SerializeCollisions bool     `json:"serialize_collisions" yaml:"serialize_collisions" toml:"serialize_collisions"`
	Atomic              bool     `json:"atomic" yaml:"atomic" toml:"atomic"`
	LogFile             string   `json:"log_file,omitempty" yaml:"log_file,omitempty" toml:"log_file,omitempty"`
}

// 🏭 Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		SerializeCollisions: true,
		Atomic:              true,
	}
}

// DefaultConcurrency is twice the CPU count, clamped to [4, 64]. Copies are I/O
// bound, so the pool is wider than the CPU count but never unbounded.
func DefaultConcurrency() int {
	n := runtime.NumCPU() * 2
	if n < minDefaultConcurrency {
		return minDefaultConcurrency
	}
	if n > maxDefaultConcurrency {
		return maxDefaultConcurrency
	}
	return n
}

// 🎯 Load reads path and decodes it on top of Default(). Source and destination
// may still be empty; call Validate once every override is applied.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data, Default())
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	// Relative roots in a config file are relative to the file itself
	base := filepath.Dir(path)
	cfg.Source = relativeTo(base, cfg.Source)
	cfg.Destination = relativeTo(base, cfg.Destination)
	cfg.LogFile = relativeTo(base, cfg.LogFile)

	return cfg, nil
}

func relativeTo(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// 🔍 Validate checks if the configuration is valid and fills in defaults
func (cfg *Config) Validate() error {
	// Check required fields
	if cfg.Source == "" {
		return errors.Errorf("source is required")
	}
	if cfg.Destination == "" {
		return errors.Errorf("destination is required")
	}
	if cfg.MaxConcurrentCopies < 0 {
		return errors.Errorf("max_concurrent_copies must not be negative, got %d", cfg.MaxConcurrentCopies)
	}
	for _, pattern := range cfg.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	// Clean up paths
	src, err := filepath.Abs(cfg.Source)
	if err != nil {
		return errors.Errorf("resolving source: %w", err)
	}
	dst, err := filepath.Abs(cfg.Destination)
	if err != nil {
		return errors.Errorf("resolving destination: %w", err)
	}
	cfg.Source = src
	cfg.Destination = dst

	// Set defaults
	if cfg.MaxConcurrentCopies == 0 {
		cfg.MaxConcurrentCopies = DefaultConcurrency()
	}

	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s -> %s (workers=%d)", cfg.Source, cfg.Destination, cfg.MaxConcurrentCopies)
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

func init() {
	Register(&YAMLParser{})
}

func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

func (p *YAMLParser) Parse(ctx context.Context, data []byte, base *Config) (*Config, error) {
	cfg := *base
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &cfg, nil
}
