package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Display     string `yaml:"display"`
	Debug       bool   `yaml:"debug"`
	DebugMotion bool   `yaml:"debugmotion"`
	Strict      bool   `yaml:"strict"`
	Title       string `yaml:"title"`
	Width       uint16 `yaml:"width"`
	Height      uint16 `yaml:"height"`
}

func defaultConfig() *Config {
	return &Config{Title: "xconndemo", Width: 400, Height: 300}
}

func loadConfigFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("config %v: %w", path, err)
	}
	return nil
}

// parseConfig reads the flags, then the config file if given. Flags set in
// args override the file.
func parseConfig(args []string) (*Config, error) {
	fs := flag.NewFlagSet("xconndemo", flag.ContinueOnError)
	fl := defaultConfig()
	fs.StringVar(&fl.Display, "display", fl.Display, "x display, defaults to $DISPLAY")
	fs.BoolVar(&fl.Debug, "debug", fl.Debug, "log events")
	fs.BoolVar(&fl.DebugMotion, "debugmotion", fl.DebugMotion, "also log motion events")
	fs.BoolVar(&fl.Strict, "strict", fl.Strict, "fail on destroy notify for windows not destroyed by us")
	configFile := fs.String("config", "", "yaml config file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	if *configFile != "" {
		if err := loadConfigFile(cfg, *configFile); err != nil {
			return nil, err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "display":
			cfg.Display = fl.Display
		case "debug":
			cfg.Debug = fl.Debug
		case "debugmotion":
			cfg.DebugMotion = fl.DebugMotion
		case "strict":
			cfg.Strict = fl.Strict
		}
	})
	return cfg, nil
}

// printConfigError prints err unless it is the help request, which the flag
// set already answered with the usage.
func printConfigError(w io.Writer, err error) {
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	fmt.Fprintln(w, err)
}
