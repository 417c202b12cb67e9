package main

import (
	"os"

	"github.com/retailcat/catalogadmin/cli"
)

func main() {
	if err := cli.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
