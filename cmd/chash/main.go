package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	// EnvHost defines the name of the environment variable
	// overriding the default server host address.
	EnvHost = "CHASH_HOST"

	// DefaultHost defines the default server host address.
	DefaultHost = "localhost:8080"
)

func main() {
	run(os.Stdout, os.Args)
}

func run(w io.Writer, args []string) {
	fm := fmt.Sprintf

	executableName := "chash"
	if len(args) > 0 {
		executableName = filepath.Base(args[0])
	}

	cmdUsage := func() {
		writeLines(
			w,
			fm("usage: %s <command> [flags]", executableName),
			"",
			"commands available:",
			" get - reads the value of a key in a namespace",
			" put - sets the value of a key in a namespace",
			" flush - removes all entries from a namespace",
			" stats - prints server runtime statistics",
			" help - prints this help text",
		)
	}

	if len(args) < 2 {
		cmdUsage()
		return
	}

	var host string
	var verbose bool

	parseFlags := func(
		f *flag.FlagSet, command, argsUsage string,
	) (positional []string, ok bool) {
		f.SetOutput(w)
		f.Usage = func() {
			writeLines(
				w,
				"",
				fm("usage: %s %s [flags]%s", executableName, command, argsUsage),
				"",
				"flags:",
				fm("-host <address>: address of the server "+
					"(default: %s, or environment variable %s)",
					DefaultHost, EnvHost),
				"-verbose: enables debug logging",
			)
		}
		f.StringVar(&host, "host", "", "")
		f.BoolVar(&verbose, "verbose", false, "")
		// Ignoring errors, because flags will automatically call .Usage()
		if err := f.Parse(args[2:]); err != nil {
			return nil, false
		}
		if host == "" {
			host = os.Getenv(EnvHost)
		}
		if host == "" {
			host = DefaultHost
		}
		return f.Args(), true
	}

	switch args[1] {
	case "get":
		f := flag.NewFlagSet("get", flag.ContinueOnError)
		p, ok := parseFlags(f, "get", " <namespace> <key>")
		if !ok {
			return
		}
		if len(p) != 2 {
			f.Usage()
			return
		}
		newClient(host, verbose).get(w, p[0], p[1])

	case "put":
		f := flag.NewFlagSet("put", flag.ContinueOnError)
		p, ok := parseFlags(f, "put", " <namespace> <key> <value>")
		if !ok {
			return
		}
		if len(p) != 3 {
			f.Usage()
			return
		}
		newClient(host, verbose).put(w, p[0], p[1], p[2])

	case "flush":
		f := flag.NewFlagSet("flush", flag.ContinueOnError)
		p, ok := parseFlags(f, "flush", " <namespace>")
		if !ok {
			return
		}
		if len(p) != 1 {
			f.Usage()
			return
		}
		newClient(host, verbose).flush(w, p[0])

	case "stats":
		f := flag.NewFlagSet("stats", flag.ContinueOnError)
		p, ok := parseFlags(f, "stats", "")
		if !ok {
			return
		}
		if len(p) != 0 {
			f.Usage()
			return
		}
		newClient(host, verbose).stats(w)

	case "help":
		cmdUsage()

	default:
		fmt.Fprintf(w, "unknown command: %q\n", args[1])
		cmdUsage()
	}
}

func writeLines(w io.Writer, lines ...string) {
	for i := range lines {
		_, _ = w.Write([]byte(lines[i]))
		_, _ = w.Write([]byte("\n"))
	}
}
