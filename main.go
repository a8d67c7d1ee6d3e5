package main

import (
	"os"

	"github.com/arbor-cli/arbor/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
