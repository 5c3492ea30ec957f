package main

import (
	"os"

	gavelcmder "github.com/papercomputeco/gavel/cmd/gavel"
)

func main() {
	cmd := gavelcmder.NewGavelCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
