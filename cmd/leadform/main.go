// Leadform serves the solar insurance lead form, runs it in the terminal
// and lists the collected leads.
//
// Usage:
//
//	leadform serve [flags]
//	leadform estimate [flags]
//	leadform leads [flags]
//	leadform version
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
