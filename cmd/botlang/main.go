package main

import (
	"os"

	"github.com/msto63/botlang/cmd/botlang/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
