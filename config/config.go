// Package config handles jscore.toml runtime configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/chazu/jscore/vm"
	"github.com/chazu/jscore/vm/blob"
	"github.com/tliron/commonlog"
)

// FileName is the configuration file looked up by Load and FindAndLoad.
const FileName = "jscore.toml"

// Config represents a jscore.toml file.
type Config struct {
	Runtime Runtime `toml:"runtime"`
	Blob    Blob    `toml:"blob"`
	Logging Logging `toml:"logging"`

	// Dir is the directory containing the jscore.toml file (set at load time).
	Dir string `toml:"-"`
}

// Runtime configures each vm.State.
type Runtime struct {
	Strict            bool `toml:"strict"`
	SparseArrayFactor int  `toml:"sparse-array-factor"`
}

// Blob configures function blob encoding and the blob cache.
type Blob struct {
	StripDebug bool   `toml:"strip-debug"`
	Cache      string `toml:"cache"`
}

// Logging configures commonlog.
type Logging struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Runtime.SparseArrayFactor < 1 {
		c.Runtime.SparseArrayFactor = vm.DefaultSparseArrayFactor
	}
	if c.Blob.Cache == "" {
		c.Blob.Cache = filepath.Join(".jscore", "blobs.db")
	}
}

// Parse decodes a jscore.toml document.
func Parse(data []byte) (*Config, error) {
	var c Config
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %s", undecoded[0])
	}
	if c.Runtime.SparseArrayFactor < 0 {
		return nil, fmt.Errorf("runtime.sparse-array-factor must be positive, got %d", c.Runtime.SparseArrayFactor)
	}
	c.applyDefaults()
	return &c, nil
}

// Load parses the jscore.toml file in dir.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	return c, nil
}

// FindAndLoad walks up from startDir to find a jscore.toml file and loads
// it. Returns nil if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return Load(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// StateOptions converts the runtime section to vm options.
func (c *Config) StateOptions() []vm.Option {
	return []vm.Option{
		vm.WithStrict(c.Runtime.Strict),
		vm.WithSparseArrayFactor(c.Runtime.SparseArrayFactor),
	}
}

// BlobFlags returns the encoding flags selected by the blob section.
func (c *Config) BlobFlags() blob.Flags {
	var flags blob.Flags
	if c.Blob.StripDebug {
		flags |= blob.StripDebug
	}
	return flags
}

// CachePath returns the blob cache database path. A relative path is
// resolved against the directory holding the configuration file.
func (c *Config) CachePath() string {
	if filepath.IsAbs(c.Blob.Cache) || c.Dir == "" {
		return c.Blob.Cache
	}
	return filepath.Join(c.Dir, c.Blob.Cache)
}

// ConfigureLogging applies the logging section. An empty file logs to
// stderr.
func (c *Config) ConfigureLogging() {
	var path *string
	if c.Logging.File != "" {
		path = &c.Logging.File
	}
	commonlog.Configure(c.Logging.Verbosity, path)
}
