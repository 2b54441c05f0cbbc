package main

import (
	"os"

	"github.com/pelletier/go-toml"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
)

type config struct {
	Verbose  string `toml:"verbose"`
	NoVerify bool   `toml:"no-verify"`
}

// loadConfig reads the toml file at name. Empty name means defaults.
func loadConfig(name string) (cfg config, err error) {
	if name == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return cfg, errors.Wrap(err, "read")
	}

	err = toml.Unmarshal(data, &cfg)
	if err != nil {
		return cfg, errors.Wrap(err, "decode %v", name)
	}

	return cfg, nil
}

// override applies the flags set on the command line.
func (cfg *config) override(c *cli.Command) {
	if v := c.String("verbose"); v != "" {
		cfg.Verbose = v
	}

	if c.Bool("no-verify") {
		cfg.NoVerify = true
	}
}
