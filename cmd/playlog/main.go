package main

import (
	"os"

	"github.com/dugout/playlog/cmd/playlog/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
