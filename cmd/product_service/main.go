package main

import (
	"os"

	"github.com/fernando061/software-architecture-styles/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
