package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/vk/bbmc/internal/app"
)

const outputBanner = "\n========= Output ===========\n\n"

// prompt asks for the source when none was given, then for what to do with it.
func (r *runtime) prompt(ctx context.Context, args []string) error {
	in := bufio.NewReader(r.streams.In)
	out := r.streams.Out

	var path string
	if len(args) > 0 {
		path = args[0]
	} else {
		answer, err := ask(in, out, "enter filepath: ")
		if err != nil {
			return err
		}
		path = answer
	}
	if _, err := os.Stat(path); err != nil {
		return &ExitError{Code: 1, Message: "file not found: " + path}
	}

	a, err := r.newApp(0)
	if err != nil {
		return err
	}

	work, err := ask(in, out, "[R]un, [B]uild or [P]rint: ")
	if err != nil {
		return err
	}
	switch strings.ToLower(work) {
	case "r":
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
		return a.Run(ctx, path, app.RunOptions{
			InstallDeps: true,
			Stdin:       in,
			Stdout:      out,
			Stderr:      r.streams.Err,
		})

	case "b":
		dir, err := ask(in, out, "enter output path: ")
		if err != nil {
			return err
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return &ExitError{Code: 1, Message: "output path must be a directory: " + dir}
		}
		name, err := ask(in, out, "enter name: ")
		if err != nil {
			return err
		}
		dest, err := a.Build(ctx, path, dir, name)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, dest)
		return nil

	case "p":
		if _, err := io.WriteString(out, outputBanner); err != nil {
			return err
		}
		return a.Print(ctx, path, out, false)
	}
	return &ExitError{Code: 1, Message: fmt.Sprintf("invalid input %q", work)}
}

// ask writes question and reads one trimmed line of answer.
func ask(in *bufio.Reader, out io.Writer, question string) (string, error) {
	fmt.Fprint(out, question)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}
