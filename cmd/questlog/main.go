// Package main is the single-binary entrypoint for questlog.
package main

import (
	"github.com/joho/godotenv"

	"github.com/questlog/questlog/internal/cli"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	// Optional .env for QUESTLOG_HOME / QUESTLOG_USER overrides.
	_ = godotenv.Load()

	cli.Execute(version)
}
