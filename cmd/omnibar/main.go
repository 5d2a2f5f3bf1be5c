// Package main is the entry point for the omnibar CLI.
package main

import (
	"os"

	"github.com/runger/omnibar/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
