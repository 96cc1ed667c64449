package main

import (
	"os"

	"github.com/limitscan/limitscan/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
