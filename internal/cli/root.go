package cli

import (
	"github.com/spf13/cobra"
	"github.com/vk/bbmc/internal/app"
	"github.com/vk/bbmc/internal/config"
)

type globalFlags struct {
	config    string
	template  string
	include   []string
	encoding  string
	logLevel  string
	logFormat string
}

// runtime is the state shared by the commands of one invocation.
type runtime struct {
	streams Streams
	loaders map[string]config.Loader
	flags   globalFlags
}

// newApp builds the application from the global flags. workers overrides the
// project's build concurrency when positive.
func (r *runtime) newApp(workers int) (*app.App, error) {
	cfg, err := app.NewConfig(app.Config{
		ProjectPath:  r.flags.config,
		Template:     r.flags.template,
		IncludePaths: r.flags.include,
		Encoding:     r.flags.encoding,
		Workers:      workers,
		LogFormat:    r.flags.logFormat,
		LogLevel:     r.flags.logLevel,
	})
	if err != nil {
		return nil, usageError(err)
	}
	return app.NewApp(r.streams.Err, cfg, r.loaders)
}

// usageArgs reports argument validation failures as usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

func newRootCommand(r *runtime) *cobra.Command {
	root := &cobra.Command{
		Use:   "bbmc [file]",
		Short: "Compile Bale bot directive sources into Python programs",
		Long: `bbmc compiles .bbm directive sources into Python programs by weaving the
generated code into the marked blocks of a bot template.

Given only a file, bbmc asks whether to run, build or print it.`,
		Args:          usageArgs(cobra.MaximumNArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.prompt(cmd.Context(), args)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&r.flags.config, "config", "", "Project file. Defaults to bbmc.hcl, bbmc.yaml or bbmc.yml in the working directory.")
	pf.StringVar(&r.flags.template, "template", "", "Template file. Defaults to the built-in Bale bot template.")
	pf.StringArrayVarP(&r.flags.include, "include", "I", nil, "Directory searched for #include targets. Repeatable.")
	pf.StringVar(&r.flags.encoding, "encoding", "", "Source encoding label. Detected per file when empty.")
	pf.StringVar(&r.flags.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&r.flags.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")

	root.AddCommand(
		newPrintCommand(r),
		newBuildCommand(r),
		newRunCommand(r),
		newWatchCommand(r),
		newTemplateCommand(r),
		newVersionCommand(r),
	)
	return root
}
