package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"heic2jpg/contracts"
)

var errUsage = errors.New("expected exactly one path (file or directory) to scan")

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"workers":    "workers",
	"decoder":    "decoder",
	"log-level":  "log_level",
	"log-format": "log_format",
	"progress":   "progress",
}

// loadFlags resolves configuration from flags, HEIC2JPG_* environment
// variables and an optional YAML file, in that order of precedence.
func loadFlags(args []string) (contracts.InputFlags, error) {
	fs := pflag.NewFlagSet("heic2jpg", pflag.ContinueOnError)
	fs.Int("workers", contracts.DefaultWorkers, "number of files converted concurrently")
	fs.String("decoder", contracts.DecoderVips, "HEIC decoder backend: vips or imagick")
	fs.String("log-level", "info", "log level: debug, info, warn, error")
	fs.String("log-format", "console", "log format: console or json")
	fs.Bool("progress", true, "show a progress bar on stderr")
	configPath := fs.String("config", "", "optional YAML config file")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: heic2jpg [flags] <file-or-directory>\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return contracts.InputFlags{}, err
	}

	v := viper.New()
	v.SetEnvPrefix("HEIC2JPG")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return contracts.InputFlags{}, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	if *configPath != "" {
		v.SetConfigFile(*configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return contracts.InputFlags{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var flags contracts.InputFlags
	if err := v.Unmarshal(&flags); err != nil {
		return contracts.InputFlags{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if fs.NArg() != 1 {
		return contracts.InputFlags{}, errUsage
	}
	flags.InputRoot = fs.Arg(0)

	if err := validateFlags(flags); err != nil {
		return contracts.InputFlags{}, err
	}
	return flags, nil
}

func validateFlags(flags contracts.InputFlags) error {
	if flags.InputRoot == "" {
		return errUsage
	}
	if flags.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", flags.Workers)
	}
	switch flags.Decoder {
	case contracts.DecoderVips, contracts.DecoderImagick:
	default:
		return fmt.Errorf("unknown decoder %q", flags.Decoder)
	}
	switch flags.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", flags.LogFormat)
	}
	return nil
}
