// Package main runs pet-split, the API to track shared group expenses and settle them up.
package main

import (
	"fmt"
	"os"

	"github.com/go-petr/pet-split/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
