package main

import (
	"os"

	"github.com/testcontainers/talks-explorer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
