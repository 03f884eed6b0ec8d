package main

import (
	"os"

	"github.com/vaxcare/vaxhub/cmd/vaxhub/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
