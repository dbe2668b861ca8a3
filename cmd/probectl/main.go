package main

import (
	"fmt"
	"os"

	"github.com/aryankumar/probectl/internal/cli"
	"github.com/aryankumar/probectl/internal/util"
)

func main() {
	// first SIGINT/SIGTERM cancels the run, a second one exits immediately
	ctx := util.SetupSignalHandler()

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", util.FriendlyError(err))
		os.Exit(cli.ExitCode(err))
	}
}
