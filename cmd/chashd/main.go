package main

import (
	"fmt"
	"os"

	"github.com/SashaG-T/chash/pkg/cli"
)

func main() {
	w := os.Stdout
	switch c := cli.Parse(w, os.Args).(type) {
	case cli.CommandServe:
		serve(w, c)
	case cli.CommandCheck:
		check(w, c)
	default:
		if c != nil {
			panic(fmt.Errorf("unexpected command: %#v", c))
		}
	}
}
