package main

import (
	"os"

	"github.com/AnyUserName/da3d-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
