package main

import (
	"fmt"
	"io"

	"github.com/SashaG-T/chash/pkg/cli"
)

// check validates the configuration file and
// prints a short summary of what it declares.
func check(w io.Writer, c cli.CommandCheck) {
	conf := ReadConfig(w, c.ConfigPath)
	if conf == nil {
		return
	}
	fmt.Fprintf(
		w, "configuration OK: host %s, %d namespace(s)\n",
		conf.Host, len(conf.Namespaces),
	)
	for _, n := range conf.Namespaces {
		fmt.Fprintf(
			w, "  %s: %d buckets, hasher %s",
			n.ID, n.Buckets, n.Hasher,
		)
		if n.Warmup != nil {
			fmt.Fprintf(w, ", %d warmup entries", n.Warmup.Len())
		}
		fmt.Fprintln(w)
	}
}
