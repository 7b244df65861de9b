// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ManuGH/streamgate/internal/config"
	"github.com/ManuGH/streamgate/internal/version"
)

func runConfigCLI(args []string) int {
	return configCLI(args, os.Stdout, os.Stderr)
}

func configCLI(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printConfigUsage(stderr)
		return 0
	}

	switch args[0] {
	case "validate":
		return runConfigValidate(args[1:], stdout, stderr)
	case "dump":
		return runConfigDump(args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Unknown subcommand: %s\n\n", args[0])
		printConfigUsage(stderr)
		return 2
	}
}

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  streamgate config validate [--file|-f config.yaml]")
	fmt.Fprintln(w, "  streamgate config dump [--file|-f config.yaml] <path|->")
}

func loadForCLI(name string, args []string, stderr io.Writer) (config.AppConfig, []string, int) {
	fs := flag.NewFlagSet("streamgate config "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	var file string
	fs.StringVar(&file, "file", "", "path to YAML configuration file")
	fs.StringVar(&file, "f", "", "path to YAML configuration file (shorthand)")
	if err := fs.Parse(args); err != nil {
		return config.AppConfig{}, nil, 2
	}

	configPath := resolveConfigPath(file)
	cfg, err := config.NewLoader(configPath, version.Version).Load()
	if err != nil {
		source := configPath
		if source == "" {
			source = "environment"
		}
		fmt.Fprintf(stderr, "Configuration error in %s:\n  %v\n", source, err)
		return cfg, nil, 1
	}
	return cfg, fs.Args(), 0
}

func runConfigValidate(args []string, stdout, stderr io.Writer) int {
	_, _, code := loadForCLI("validate", args, stderr)
	if code != 0 {
		return code
	}
	fmt.Fprintln(stdout, "configuration is valid")
	return 0
}

// runConfigDump writes the effective configuration (defaults + file + ENV)
// with secrets redacted. "-" writes to stdout.
func runConfigDump(args []string, stdout, stderr io.Writer) int {
	cfg, rest, code := loadForCLI("dump", args, stderr)
	if code != 0 {
		return code
	}
	if len(rest) != 1 || strings.TrimSpace(rest[0]) == "" {
		fmt.Fprintln(stderr, "Error: exactly one output path is required")
		printConfigUsage(stderr)
		return 2
	}

	if rest[0] == "-" {
		data, err := config.Marshal(cfg)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		_, _ = stdout.Write(data)
		return 0
	}
	if err := config.WriteFile(rest[0], cfg); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "wrote effective configuration to %s\n", rest[0])
	return 0
}
