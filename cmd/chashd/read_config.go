package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/SashaG-T/chash/pkg/config"
)

// ReadConfig reads and validates the configuration file at configPath.
// Prints the reason to w and returns nil if the configuration is invalid.
func ReadConfig(
	w io.Writer,
	configPath string,
) *config.Config {
	basePath, fileName := filepath.Split(configPath)
	if basePath == "" {
		basePath = "."
	}
	conf, err := config.Read(os.DirFS(basePath), basePath, fileName)
	if err != nil {
		fmt.Fprintf(w, "reading config: %s\n", err)
		return nil
	}
	return conf
}
