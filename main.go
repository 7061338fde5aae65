package main

import (
	"os"

	"github.com/fieldops/dispatchsim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
