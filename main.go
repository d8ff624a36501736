package main

import (
	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/cmd"
)

// version will be set by goreleaser during build
var version = "dev"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
