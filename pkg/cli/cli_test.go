package cli_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/SashaG-T/chash/pkg/cli"

	"github.com/stretchr/testify/require"
)

func helpOutput(execName string) string {
	return lines(
		fmt.Sprintf("usage: %s <command> [flags]", execName),
		"",
		"commands available:",
		" serve - starts the server and begins listening",
		" check - validates the configuration and exits",
		" help - prints this help text",
	)
}

func serveFlagsOutput(execName string) string {
	return lines(
		"",
		fmt.Sprintf("usage: %s serve [-config <path>] [-debug]", execName),
		"",
		"flags:",
		"-config <path>: defines the configuration file path "+
			fmt.Sprintf("(default: %s)", cli.DefaultConfigPath),
		"-debug: enables debug level logging",
		"",
		"environment variables:",
		fmt.Sprintf("%s: configuration file path "+
			"(overridden by -config)", cli.EnvConfig),
	)
}

func checkFlagsOutput(execName string) string {
	return lines(
		"",
		fmt.Sprintf("usage: %s check [-config <path>]", execName),
		"",
		"flags:",
		"-config <path>: defines the configuration file path "+
			fmt.Sprintf("(default: %s)", cli.DefaultConfigPath),
		"",
		"environment variables:",
		fmt.Sprintf("%s: configuration file path "+
			"(overridden by -config)", cli.EnvConfig),
	)
}

func TestNoArgs(t *testing.T) {
	out := new(bytes.Buffer)
	c := cli.Parse(out, nil)
	require.Nil(t, c)
	require.Equal(t, helpOutput("chashd"), out.String())
}

func TestNoCommand(t *testing.T) {
	out := new(bytes.Buffer)
	c := cli.Parse(out, []string{"execname"})
	require.Nil(t, c)
	require.Equal(t, helpOutput("execname"), out.String())
}

func TestUnknownCommand(t *testing.T) {
	out := new(bytes.Buffer)
	c := cli.Parse(out, []string{"execname", "unknown-command"})
	require.Nil(t, c)
	require.Equal(t, helpOutput("execname"), out.String())
}

func TestCommandServe(t *testing.T) {
	t.Run("default_config_path", func(t *testing.T) {
		t.Setenv(cli.EnvConfig, "")
		out := new(bytes.Buffer)
		c := cli.Parse(out, []string{"chashd", "serve"})
		require.Equal(t, cli.CommandServe{
			ConfigPath: cli.DefaultConfigPath,
		}, c)
		require.Equal(t, "", out.String())
	})

	t.Run("env_config_path", func(t *testing.T) {
		t.Setenv(cli.EnvConfig, "/env/config.yaml")
		out := new(bytes.Buffer)
		c := cli.Parse(out, []string{"chashd", "serve"})
		require.Equal(t, cli.CommandServe{
			ConfigPath: "/env/config.yaml",
		}, c)
		require.Equal(t, "", out.String())
	})

	t.Run("custom_config_path", func(t *testing.T) {
		t.Setenv(cli.EnvConfig, "/env/config.yaml")
		out := new(bytes.Buffer)
		c := cli.Parse(out, []string{
			"chashd", "serve",
			"-config", "./custom_config.yaml",
		})
		require.Equal(t, cli.CommandServe{
			ConfigPath: "./custom_config.yaml",
		}, c)
		require.Equal(t, "", out.String())
	})

	t.Run("debug", func(t *testing.T) {
		t.Setenv(cli.EnvConfig, "")
		out := new(bytes.Buffer)
		c := cli.Parse(out, []string{"chashd", "serve", "-debug"})
		require.Equal(t, cli.CommandServe{
			ConfigPath: cli.DefaultConfigPath,
			Debug:      true,
		}, c)
		require.Equal(t, "", out.String())
	})

	t.Run("unknown_flags", func(t *testing.T) {
		out := new(bytes.Buffer)
		c := cli.Parse(out, []string{
			"chashd", "serve",
			"-unknown", "foobar",
		})
		require.Nil(t, c)
		require.Equal(t,
			"flag provided but not defined: -unknown\n"+
				serveFlagsOutput("chashd"),
			out.String(),
		)
	})
}

func TestCommandCheck(t *testing.T) {
	t.Run("default_config_path", func(t *testing.T) {
		t.Setenv(cli.EnvConfig, "")
		out := new(bytes.Buffer)
		c := cli.Parse(out, []string{"chashd", "check"})
		require.Equal(t, cli.CommandCheck{
			ConfigPath: cli.DefaultConfigPath,
		}, c)
		require.Equal(t, "", out.String())
	})

	t.Run("custom_config_path", func(t *testing.T) {
		out := new(bytes.Buffer)
		c := cli.Parse(out, []string{
			"chashd", "check",
			"-config", "./custom_config.yaml",
		})
		require.Equal(t, cli.CommandCheck{
			ConfigPath: "./custom_config.yaml",
		}, c)
		require.Equal(t, "", out.String())
	})

	t.Run("unknown_flags", func(t *testing.T) {
		out := new(bytes.Buffer)
		c := cli.Parse(out, []string{
			"chashd", "check",
			"-unknown", "foobar",
		})
		require.Nil(t, c)
		require.Equal(t,
			"flag provided but not defined: -unknown\n"+
				checkFlagsOutput("chashd"),
			out.String(),
		)
	})
}

func TestCommandHelp(t *testing.T) {
	out := new(bytes.Buffer)
	c := cli.Parse(out, []string{"execname", "help"})
	require.Nil(t, c)

	e := new(bytes.Buffer)
	cli.PrintHelp(e)
	require.Equal(t, e.String(), out.String())
}

func lines(lines ...string) string {
	var b strings.Builder
	for i := range lines {
		b.WriteString(lines[i])
		b.WriteByte('\n')
	}
	return b.String()
}
