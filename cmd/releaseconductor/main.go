package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/grokify/releaseconductor/cmd/releaseconductor/cmd"
)

// version is set via ldflags at build time
var version = "dev"

func main() {
	ctx := context.Background()

	rootCmd := cmd.Root()
	rootCmd.Version = version
	if err := fang.Execute(ctx, rootCmd); err != nil {
		os.Exit(1)
	}
}
