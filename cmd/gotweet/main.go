// Package main is the entry point for the gotweet news publisher.
package main

import (
	"fmt"
	"os"
)

// version can be set at build time via -ldflags
var version = "dev"

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
