package main

import (
	"os"

	"github.com/promptguard/promptguard/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
