// Package main is the entry point for bazaar-watcher.
package main

import (
	"os"

	"github.com/donaldgifford/bazaar-watcher/cmd/bazaar-watcher/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
