package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/vk/bbmc/internal/app"
	"github.com/vk/bbmc/internal/template"
)

func newPrintCommand(r *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "print <file>",
		Short: "Compile a source and print the program",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := r.newApp(0)
			if err != nil {
				return err
			}
			return a.Print(cmd.Context(), args[0], r.streams.Out, isTerminal(r.streams.Out))
		},
	}
}

func newBuildCommand(r *runtime) *cobra.Command {
	var (
		outDir  string
		name    string
		workers int
	)
	cmd := &cobra.Command{
		Use:   "build <file|dir>",
		Short: "Compile sources and write the programs",
		Long: `Compiles a source into <name>.py. Given a directory, every source under it is
compiled concurrently into the same layout under the output directory. Sources
starting with #exclude are libraries and are skipped.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := os.Stat(args[0])
			if err != nil {
				return err
			}
			if info.IsDir() && name != "" {
				return usageError(errors.New("--name cannot be used when building a directory"))
			}
			a, err := r.newApp(workers)
			if err != nil {
				return err
			}

			if info.IsDir() {
				written, err := a.BuildDir(cmd.Context(), args[0], outDir)
				if err != nil {
					return err
				}
				for _, p := range written {
					fmt.Fprintln(r.streams.Out, p)
				}
				return nil
			}
			dest, err := a.Build(cmd.Context(), args[0], outDir, name)
			if err != nil {
				return err
			}
			fmt.Fprintln(r.streams.Out, dest)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "Output directory. Defaults to the project output or the source's directory.")
	cmd.Flags().StringVar(&name, "name", "", "Program name without extension. Defaults to the source's name.")
	cmd.Flags().IntVar(&workers, "workers", 0, "Number of sources compiled concurrently. Defaults to the project setting.")
	return cmd
}

func newRunCommand(r *runtime) *cobra.Command {
	var installDeps bool
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Compile a source and execute the program",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := r.newApp(0)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return a.Run(ctx, args[0], app.RunOptions{
				InstallDeps: installDeps,
				Stdin:       r.streams.In,
				Stdout:      r.streams.Out,
				Stderr:      r.streams.Err,
			})
		},
	}
	cmd.Flags().BoolVar(&installDeps, "install-deps", false, "Install the project requirements with pip before running.")
	return cmd
}

func newWatchCommand(r *runtime) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "watch <file|dir>",
		Short: "Rebuild whenever a source changes",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := r.newApp(0)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return a.Watch(ctx, args[0], outDir)
		},
	}
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "Output directory. Defaults to the project output or the source's directory.")
	return cmd
}

func newTemplateCommand(r *runtime) *cobra.Command {
	var blocks bool
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Print the effective template",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := r.newApp(0)
			if err != nil {
				return err
			}
			if !blocks {
				_, err := io.WriteString(r.streams.Out, a.Template())
				return err
			}
			for _, name := range template.Blocks(a.Template()) {
				fmt.Fprintln(r.streams.Out, name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&blocks, "blocks", false, "List the template's block names instead.")
	return cmd
}

func newVersionCommand(r *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the bbmc version",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(r.streams.Out, "bbmc", Version)
			return err
		},
	}
}
