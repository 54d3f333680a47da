// Command grimoire is a local semantic search tool for notes.
package main

import (
	"fmt"
	"os"

	"github.com/grimoire-notes/grimoire/internal/adapters/driving/cli"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := cli.Execute(version, bootstrap); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
