package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/bbmc/internal/cli"
	"github.com/vk/bbmc/internal/config"
	"github.com/vk/bbmc/internal/hcl"
	"github.com/vk/bbmc/internal/yamlconf"
)

// main is the entrypoint for the bbmc application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdin, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			if exitErr.Message != "" {
				fmt.Fprintln(os.Stderr, exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(inR io.Reader, outW, errW io.Writer, args []string) (err error) {
	// A panic anywhere below is reported as an ordinary failure.
	defer func() {
		if r := recover(); r != nil {
			err = &cli.ExitError{Code: 1, Message: fmt.Sprintf("bbmc panicked: %v", r)}
		}
	}()

	// Concrete project loaders, keyed by file extension.
	loaders := map[string]config.Loader{
		".hcl":  hcl.NewLoader(),
		".yaml": yamlconf.NewLoader(),
		".yml":  yamlconf.NewLoader(),
	}
	return cli.Execute(context.Background(), args, cli.Streams{In: inR, Out: outW, Err: errW}, loaders)
}
