package main

import (
	"os"

	"bookalchemy/internal/config"
)

func main() {
	config.LoadEnvFiles()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
