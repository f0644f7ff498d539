package config

import (
	"bytes"
	"io"
	"os"

	"gopkg.in/yaml.v3"
	"tlog.app/go/errors"

	"github.com/slowlang/cmm/compiler/front"
)

type (
	Config struct {
		// Input is the source file used when none is given on the command line.
		Input string `yaml:"input"`

		// Diagnostics reports translation and runtime errors to stderr.
		Diagnostics bool `yaml:"diagnostics"`

		// Verbose enables translator and interpreter trace topics.
		Verbose bool `yaml:"verbose"`

		PrintNewline bool   `yaml:"print_newline"`
		Prompt       string `yaml:"prompt"`

		MaxSteps int `yaml:"max_steps"`
		MaxDepth int `yaml:"max_depth"`

		// Dump prints the variable store after execution.
		Dump bool `yaml:"dump"`
	}
)

const DefaultInput = "program.cmm"

var ErrInvalid = errors.New("invalid config")

func Default() Config {
	return Config{
		Input:       DefaultInput,
		Diagnostics: true,
		Prompt:      "Input: ",
		MaxDepth:    front.DefaultMaxDepth,
	}
}

// Load reads a YAML settings file over the defaults.
// Empty path returns the defaults.
func Load(path string) (c Config, err error) {
	c = Default()

	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrap(err, "read config")
	}

	err = Parse(data, &c)
	if err != nil {
		return c, errors.Wrap(err, "config %v", path)
	}

	return c, nil
}

// Parse decodes YAML into c. Fields not present keep their values.
func Parse(data []byte, c *Config) error {
	d := yaml.NewDecoder(bytes.NewReader(data))
	d.KnownFields(true)

	err := d.Decode(c)
	if err != nil && !errors.Is(err, io.EOF) {
		return errors.Wrap(err, "decode")
	}

	return c.Validate()
}

func (c Config) Validate() error {
	if c.Input == "" {
		return errors.Wrap(ErrInvalid, "empty input")
	}

	if c.MaxSteps < 0 {
		return errors.Wrap(ErrInvalid, "negative max_steps: %d", c.MaxSteps)
	}

	if c.MaxDepth < 0 {
		return errors.Wrap(ErrInvalid, "negative max_depth: %d", c.MaxDepth)
	}

	return nil
}
