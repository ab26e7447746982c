// Package main is the entry point for the taskbridge CLI.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("✗"), formatError(err))
		os.Exit(1)
	}
}
