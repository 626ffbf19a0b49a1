package main

import (
	"os"

	"github.com/rsenna/gitopolis/cmd/cli"
)

// main executes the gitopolis command-line application.
func main() {
	os.Exit(cli.Run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}
