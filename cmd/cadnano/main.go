// Command cadnano edits and checks DNA origami base connectivity.
package main

import (
	"fmt"
	"os"

	"github.com/REC17/cadnano2/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
