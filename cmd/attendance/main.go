package main

import (
	"os"

	"github.com/hronline/attendance-store/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
