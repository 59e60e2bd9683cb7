package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/de-tools/garage-docs/pkg/models/domain"
	"github.com/de-tools/garage-docs/pkg/runtime/terminal/commands"
	"github.com/de-tools/garage-docs/pkg/runtime/terminal/export"
	"github.com/de-tools/garage-docs/pkg/services/config"
	"github.com/de-tools/garage-docs/pkg/services/convert"
	"github.com/de-tools/garage-docs/pkg/services/document"
	"github.com/de-tools/garage-docs/pkg/services/kinds"
	"github.com/de-tools/garage-docs/pkg/services/render"
)

// CLI represents the command-line interface
type CLI struct {
	opts    Options
	flags   globalFlags
	env     *commands.Env
	rootCmd *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output    io.Writer
	ErrOutput io.Writer
	Stdin     io.Reader
	// Runner executes the external conversion tool. Defaults to os/exec.
	Runner convert.Runner
}

type globalFlags struct {
	configPath    string
	templatesDir  string
	outputDir     string
	profilesPath  string
	logLevel      string
	garageProfile string
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.ErrOutput == nil {
		opts.ErrOutput = os.Stderr
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}

	cli := &CLI{opts: opts, env: &commands.Env{}}
	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// Run executes the command line, reports any error on the error stream and
// returns the process exit code.
func (cli *CLI) Run(ctx context.Context) int {
	err := cli.Execute(ctx)
	if err == nil {
		return 0
	}

	fmt.Fprintf(cli.opts.ErrOutput, "Error: %v\n", err)
	var usage *commands.UsageError
	if errors.As(err, &usage) {
		fmt.Fprintf(cli.opts.ErrOutput, "Usage: %s\n", usage.Usage)
	}
	return ExitCode(err)
}

// ExitCode maps an error to the process exit status: 1 for usage errors and
// missing merge engines, 2 for everything else.
func ExitCode(err error) int {
	var usage *commands.UsageError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &usage), errors.Is(err, render.ErrMissingDependency):
		return 1
	default:
		return 2
	}
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "garage-docs",
		Short:             "Garage invoice and quotation generator",
		Args:              commands.UsageArgs(cobra.NoArgs),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: cli.setup,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return &commands.UsageError{Usage: cmd.UseLine() + " <command>", Err: errors.New("a command is required")}
		},
	}
	cmd.SetOut(cli.opts.Output)
	cmd.SetErr(cli.opts.ErrOutput)
	cmd.SetIn(cli.opts.Stdin)
	cmd.SetFlagErrorFunc(commands.UsageFlags)

	pf := cmd.PersistentFlags()
	pf.StringVarP(&cli.flags.configPath, "config", "c", "", "Path to a YAML settings file")
	pf.StringVar(&cli.flags.templatesDir, "templates", "", "Directory holding the document templates")
	pf.StringVar(&cli.flags.outputDir, "output", "", "Directory generated documents are written to")
	pf.StringVar(&cli.flags.profilesPath, "profiles", "", "Path to the garage profiles INI file")
	pf.StringVar(&cli.flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&cli.flags.garageProfile, "garage-profile", "", "Garage profile used to fill the garage record")

	for _, kind := range []domain.Kind{kinds.Invoice(), kinds.Quote()} {
		cmd.AddCommand(commands.NewGenerateCmd(kind, cli.env))
	}
	cmd.AddCommand(commands.NewKindsCmd(cli.env))
	cmd.AddCommand(commands.NewDoctorCmd(cli.env))

	return cmd
}

// setup loads settings, applies flag overrides and wires the services the
// selected command runs against.
func (cli *CLI) setup(cmd *cobra.Command, _ []string) error {
	settings, err := config.LoadSettings(cli.flags.configPath)
	if err != nil {
		return err
	}
	cli.applyFlags(settings)

	level, err := zerolog.ParseLevel(settings.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", settings.LogLevel, err)
	}
	logger := zerolog.New(cli.opts.ErrOutput).With().Timestamp().Logger().Level(level)
	cmd.SetContext(logger.WithContext(cmd.Context()))

	defs, err := kinds.Defaults(settings.Templates, settings.Policy)
	if err != nil {
		return err
	}
	registry, err := kinds.NewRegistry(defs...)
	if err != nil {
		return err
	}

	command, err := convert.NewCommand(
		settings.Converter.Command.Tool,
		settings.Converter.Command.Path,
		settings.Converter.Command.Enabled,
		cli.opts.Runner,
	)
	if err != nil {
		return err
	}
	converters := []convert.Converter{
		convert.NewChrome(settings.Converter.Chrome.Path, settings.Converter.Chrome.Enabled),
		command,
	}

	var garages config.Registry
	if settings.ProfilesPath != "" {
		garages, err = config.NewRegistry(settings.ProfilesPath)
		if err != nil {
			return fmt.Errorf("failed to load garage profiles: %w", err)
		}
	}

	renderer := render.NewRenderer(render.Options{
		TemplatesDir: settings.TemplatesDir,
		OutputDir:    settings.OutputDir,
		Locale:       settings.Render.Locale,
	})

	cli.env.Kinds = registry
	cli.env.Renderer = renderer
	cli.env.Converters = converters
	cli.env.Reporter = export.NewReporter(cli.opts.Output, cli.opts.ErrOutput)
	cli.env.Garages = garages
	cli.env.GarageProfile = cli.flags.garageProfile
	cli.env.Generator = document.NewGenerator(document.Dependencies{
		Kinds:    registry,
		Renderer: renderer,
		Converter: convert.NewChain(convert.ChainOptions{
			Converters: converters,
			Inspector:  convert.PDFInspector{},
			Timeout:    settings.Converter.Timeout,
		}),
		Garages: garages,
		Stdin:   cli.opts.Stdin,
	})

	logger.Debug().
		Str("templates", settings.TemplatesDir).
		Str("output", settings.OutputDir).
		Msg("settings loaded")
	return nil
}

func (cli *CLI) applyFlags(settings *config.Settings) {
	if cli.flags.templatesDir != "" {
		settings.TemplatesDir = cli.flags.templatesDir
	}
	if cli.flags.outputDir != "" {
		settings.OutputDir = cli.flags.outputDir
	}
	if cli.flags.profilesPath != "" {
		settings.ProfilesPath = cli.flags.profilesPath
	}
	if cli.flags.logLevel != "" {
		settings.LogLevel = cli.flags.logLevel
	}
}
