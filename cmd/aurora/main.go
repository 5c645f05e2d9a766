package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/doeshing/aurora-go/internal/infrastructure/cli"
)

func main() {
	ctx := context.Background()
	opts := cli.Options{Verbose: isVerbose()}

	root := cli.NewRootCmd(opts)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func isVerbose() bool {
	return strings.EqualFold(os.Getenv("AURORA_DEBUG"), "1") || strings.EqualFold(os.Getenv("AURORA_DEBUG"), "true")
}
