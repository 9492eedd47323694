// Command artisha is the storefront's command-line front end.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/roach88/artisha/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "artisha:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
