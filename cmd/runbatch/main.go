package main

import (
	"os"

	"github.com/batchtools/runbatch/cmd/runbatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
