package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/santiagomed/krito/config"
	"github.com/santiagomed/krito/core"
	"github.com/santiagomed/krito/fs"
	"github.com/santiagomed/krito/installer"
	"github.com/santiagomed/krito/logger"
	"github.com/santiagomed/krito/templates"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	dir     string
	config  string
	verbose bool
}

// app carries the process-level dependencies the commands share.
type app struct {
	stdout io.Writer
	stderr io.Writer
	fs     *fs.FileSystem
	runner installer.Runner
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout: stdout,
		stderr: stderr,
		fs:     fs.NewOsFileSystem(),
		runner: installer.NewExecRunner(),
	}
}

func newRootCmd(a *app) *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "krito <projectName>",
		Short: "krito scaffolds a React + Express + MongoDB project",
		Long: `krito creates <projectName>/frontend (Vite, React, Tailwind CSS) and
<projectName>/backend (Express, Mongoose) and installs their dependencies.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return a.scaffold(cmd.Context(), name, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.dir, "dir", "d", "", "Directory to create the project in (default is the current directory)")
	cmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "Path to custom configuration file")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Write debug output to the log file")

	cmd.AddCommand(newDoctorCmd(a, flags))
	return cmd
}

func (a *app) scaffold(ctx context.Context, name string, flags *rootFlags) error {
	cfg, err := config.LoadConfig(flags.config)
	if err != nil {
		return err
	}

	reporter := NewTerminalReporter(a.stdout, a.stderr, nil)
	for _, w := range cfg.Warnings {
		reporter.Report(core.LevelWarning, w)
	}

	req := core.NewRequest(name, flags.dir)
	var l logger.Logger = logger.NewNullLogger()
	// Rejected requests must not touch the disk, the log file included.
	if req.Validate() == nil {
		var closeLog func()
		l, closeLog = a.openLogger(cfg, flags.verbose, reporter)
		defer closeLog()
		reporter.SetLogger(l)
	}

	l.Info(fmt.Sprintf("Scaffolding %q with %s", req.ProjectName, cfg.PackageManager))
	pm := installer.NewPackageManager(cfg.PackageManager, a.runner, l)
	engine := core.NewEngine(cfg, a.fs, pm, templates.NewEmbedded(), reporter, l)
	if err := engine.Run(ctx, req); err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Project %s is ready.\n", nameStyle.Render(req.ProjectName))
	return nil
}

// openLogger opens the log file, falling back to a NullLogger with a warning.
func (a *app) openLogger(cfg *config.Config, verbose bool, reporter core.Reporter) (logger.Logger, func()) {
	l, closer, err := logger.NewFileLogger(cfg.LogDir, verbose)
	if err != nil {
		reporter.Report(core.LevelWarning, fmt.Sprintf("Logging disabled: %v", err))
		return logger.NewNullLogger(), func() {}
	}
	return l, func() { closer.Close() }
}

func run(args []string, stdout, stderr io.Writer, a *app) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		var scaffoldErr *core.ScaffoldError
		if !errors.As(err, &scaffoldErr) {
			// Scaffold errors were already reported step by step.
			fmt.Fprintln(stderr, errorStyle.Render("Error: "+err.Error()))
		} else if scaffoldErr.Kind == core.KindInvalidInput {
			fmt.Fprintln(stderr, "Usage: "+cmd.UseLine())
		}
		return 1
	}
	return 0
}

// Execute runs the krito command line and returns the process exit code.
func Execute() int {
	return run(os.Args[1:], os.Stdout, os.Stderr, newApp(os.Stdout, os.Stderr))
}
