package main

import (
	"fmt"
	"os"

	"github.com/testology/psyengine/internal/adapters/inbound/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "psyengine:", err)
		os.Exit(1)
	}
}
