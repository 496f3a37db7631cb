package main

import (
	"os"

	"github.com/eduquest/eduquest/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
