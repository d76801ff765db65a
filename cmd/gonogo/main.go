package main

import (
	"fmt"
	"os"

	"advisory-events/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gonogo:", err)
		os.Exit(1)
	}
}
