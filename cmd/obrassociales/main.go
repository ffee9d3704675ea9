package main

import (
	"context"
	"fmt"
	"os"

	"tfi/obras-sociales-api/internal/adapters/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = ""

func main() {
	root := cli.NewRootCommand(cli.Options{Version: version})

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "obrassociales: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}
