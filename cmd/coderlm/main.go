package main

import (
	"os"

	"github.com/coderlm/coderlm/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
