// Package main provides the CLI entrypoint for object-mapper.
//
// object-mapper applies declarative mapping specifications to JSON documents:
//   - map: reshape a JSON document with a named mapping
//   - check: validate a mapping document and report diagnostics
//   - inspect: print the compiled form of a named mapping
package main

import (
	"fmt"
	"os"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "object-mapper:", err)
		os.Exit(1)
	}

	if err := newApp(cfg).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "object-mapper:", err)
		os.Exit(1)
	}
}
