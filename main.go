package main

import (
	"os"

	"github.com/strokerisk/strokerisk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
