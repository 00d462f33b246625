package main

import (
	"os"

	"github.com/example/eduprofile/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
