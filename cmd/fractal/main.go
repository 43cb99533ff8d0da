package main

import (
	"os"

	"github.com/rustyeddy/fractal/cmd/fractal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
