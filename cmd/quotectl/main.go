// Package main is the entry point for quotectl.
package main

import (
	"os"

	"github.com/jsamuelsen/quote-service/internal/cli"
)

// Version is injected at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(cli.Execute(Version))
}
