// Package cli implements the command line interface of chashd.
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// EnvConfig defines the environment variable
// providing the configuration file path.
const EnvConfig = "CHASHD_CONFIG"

// DefaultConfigPath defines the default configuration file path.
const DefaultConfigPath = "/etc/chashd/config.yaml"

// Command can be any of:
//
//	CommandServe
//	CommandCheck
type Command any

type CommandServe struct {
	ConfigPath string
	Debug      bool
}

type CommandCheck struct {
	ConfigPath string
}

func Parse(w io.Writer, args []string) (cmd Command) {
	fm := fmt.Sprintf

	executableName := "chashd"
	if len(args) > 0 {
		executableName = filepath.Base(args[0])
	}

	flags := flag.NewFlagSet("chashd", flag.ContinueOnError)
	flags.SetOutput(w)
	flags.Usage = func() {
		writeLines(w,
			fm("usage: %s <command> [flags]", executableName),
			"",
			"commands available:",
			" serve - starts the server and begins listening",
			" check - validates the configuration and exits",
			" help - prints this help text",
		)
	}

	parseFlags := func() (ok bool) {
		err := flags.Parse(args[2:])
		// flags will automatically call .Usage()
		return err == nil
	}

	if len(args) < 2 {
		flags.Usage()
		return nil
	}

	var configPath string
	resolveConfigPath := func() string {
		if configPath != "" {
			return configPath
		}
		if p := os.Getenv(EnvConfig); p != "" {
			return p
		}
		return DefaultConfigPath
	}

	switch args[1] {
	case "serve":
		flags.Usage = func() {
			writeLines(w,
				"",
				fm("usage: %s serve [-config <path>] [-debug]", executableName),
				"",
				"flags:",
				"-config <path>: defines the configuration file path "+
					fm("(default: %s)", DefaultConfigPath),
				"-debug: enables debug level logging",
				"",
				"environment variables:",
				fm("%s: configuration file path "+
					"(overridden by -config)", EnvConfig),
			)
		}
		var debug bool
		flags.StringVar(&configPath, "config", "", "")
		flags.BoolVar(&debug, "debug", false, "")
		if !parseFlags() {
			return nil
		}
		cmd = CommandServe{ConfigPath: resolveConfigPath(), Debug: debug}

	case "check":
		flags.Usage = func() {
			writeLines(w,
				"",
				fm("usage: %s check [-config <path>]", executableName),
				"",
				"flags:",
				"-config <path>: defines the configuration file path "+
					fm("(default: %s)", DefaultConfigPath),
				"",
				"environment variables:",
				fm("%s: configuration file path "+
					"(overridden by -config)", EnvConfig),
			)
		}
		flags.StringVar(&configPath, "config", "", "")
		if !parseFlags() {
			return nil
		}
		cmd = CommandCheck{ConfigPath: resolveConfigPath()}

	case "help":
		PrintHelp(w)
		return

	default:
		flags.Usage()
		return nil
	}
	return cmd
}

func writeLines(w io.Writer, lines ...string) {
	for i := range lines {
		_, _ = w.Write([]byte(lines[i]))
		_, _ = w.Write([]byte("\n"))
	}
}

// PrintHelp writes the command overview to w.
func PrintHelp(w io.Writer) {
	writeLines(w,
		"chashd - namespaced in-memory key-value store",
		"",
		"usage: chashd <command> [flags]",
		"",
		"commands available:",
		" serve - starts the server and begins listening",
		" check - validates the configuration and exits",
		" help - prints this help text",
	)
}
