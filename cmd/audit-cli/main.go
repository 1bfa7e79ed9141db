// cmd/audit-cli/main.go
package main

import (
	"fmt"
	"os"

	"lifecycle-audit-workers/internal/cli"
)

func main() {
	if err := cli.New(cli.Options{}).Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
