package main

import (
	"os"

	"github.com/publist/publist/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
