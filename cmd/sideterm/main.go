package main

import (
	"github.com/sideterm/sideterm/internal/cli"
	"github.com/sideterm/sideterm/internal/logging"
)

func main() {
	logging.ConfigureRuntime()
	cli.Execute()
}
