package main

import (
	"os"

	"github.com/spigell/vagas/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
