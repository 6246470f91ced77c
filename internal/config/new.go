package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/atlanticdynamic/jscompiler/internal/config/errz"
	"github.com/atlanticdynamic/jscompiler/internal/interpolation"
)

// NewConfig loads a TOML configuration file. The result is not validated.
func NewConfig(path string) (*Config, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".toml" {
		return nil, fmt.Errorf("%w: %q", errz.ErrUnsupportedExtension, ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errz.ErrFailedToLoadConfig, err)
	}
	return NewConfigFromBytes(data)
}

// NewConfigFromBytes loads configuration from TOML bytes.
func NewConfigFromBytes(data []byte) (*Config, error) {
	return NewConfigFromReader(bytes.NewReader(data))
}

// NewConfigFromReader decodes TOML from r over the defaults, then expands environment
// references. Unknown keys are rejected.
func NewConfigFromReader(r io.Reader) (*Config, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil reader", errz.ErrFailedToLoadConfig)
	}

	cfg := NewDefault()
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", errz.ErrFailedToLoadConfig, err)
	}

	if err := interpolation.InterpolateStruct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", errz.ErrFailedToLoadConfig, err)
	}
	return cfg, nil
}
