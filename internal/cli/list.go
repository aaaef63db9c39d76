package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/klauern/modlist/internal/config"
	"github.com/klauern/modlist/internal/logging"
	"github.com/klauern/modlist/internal/modules"
	"github.com/klauern/modlist/internal/progress"
	"github.com/klauern/modlist/internal/ui/tui"
)

// discoveryFlags are shared by the commands that scan a tree.
func discoveryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "exclude-name",
			Aliases: []string{"x"},
			Usage:   "Leave out modules with this name (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:    "exclude-file",
			Aliases: []string{"X"},
			Usage:   "Never read manifests matching this glob (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "Glob selecting candidate manifests (repeatable, default " + modules.DefaultFilter + ")",
		},
		&cli.BoolFlag{
			Name:    "panic-on-error",
			Aliases: []string{"p"},
			Usage:   "Fail on the first manifest without a usable name",
		},
		&cli.BoolFlag{
			Name:  "abort-on-excluded",
			Usage: "With --panic-on-error, also fail on excluded names",
		},
		&cli.BoolFlag{
			Name:  "dot",
			Usage: "Let wildcards match hidden directories",
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List modules installed under node_modules",
		UsageText: "modlist list [options] [path]",
		Description: `Scan a directory for package.json manifests and print the module names
   in discovery order. Manifests that cannot be read, are not valid JSON or
   carry no string "name" are skipped unless --panic-on-error is set.

   Examples:
     modlist list
     modlist list --exclude-name fsevents ~/code/app
     modlist list -X 'node_modules/.cache/**' --format json
     modlist list --filter 'packages/*/package.json' --with-path`,
		Flags: append(discoveryFlags(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"o"},
				Usage:   "Output format: table, plain, json, yaml, toml",
			},
			&cli.BoolFlag{
				Name:  "with-path",
				Usage: "Include each module's manifest path",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := configFrom(ctx)

			format := cfg.Output.Format
			if cmd.IsSet("format") {
				format = cmd.String("format")
			}
			if !isOutputFormat(format) {
				return fmt.Errorf("unsupported format %q (want table, plain, json, yaml or toml)", format)
			}

			opts, err := discoveryOptions(cmd, cfg.List)
			if err != nil {
				return err
			}

			mods, err := runDiscovery(ctx, cmd.Name, opts)
			if err != nil {
				return err
			}

			return writeModules(os.Stdout, format, mods, cmd.Bool("with-path"))
		},
	}
}

func browseCommand() *cli.Command {
	return &cli.Command{
		Name:      "browse",
		Usage:     "Browse installed modules interactively",
		UsageText: "modlist browse [options] [path]",
		Description: `Open an interactive table of the discovered modules. Type / to filter by
   name or manifest path, enter to view details and p to print the selected
   manifest's absolute path on exit.`,
		Flags: discoveryFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := configFrom(ctx)

			opts, err := discoveryOptions(cmd, cfg.List)
			if err != nil {
				return err
			}

			mods, err := runDiscovery(ctx, cmd.Name, opts)
			if err != nil {
				return err
			}
			if len(mods) == 0 {
				fmt.Println("No modules found.")
				return nil
			}

			result, err := tui.RunModuleList(opts.Path, mods)
			if err != nil {
				return fmt.Errorf("browser failed: %w", err)
			}
			if result.Action == tui.ModuleActionPrintPath {
				fmt.Println(result.Manifest)
			}
			return nil
		},
	}
}

// discoveryOptions merges command-line flags over the configured list
// settings and resolves the search root against the working directory.
func discoveryOptions(cmd *cli.Command, lc config.ListConfig) (modules.Options, error) {
	if cmd.Args().Len() > 1 {
		return modules.Options{}, fmt.Errorf("%s accepts at most one path argument", cmd.Name)
	}
	if cmd.Args().Len() == 1 {
		lc.Path = cmd.Args().First()
	}
	if cmd.IsSet("exclude-name") {
		lc.ExcludeNames = cmd.StringSlice("exclude-name")
	}
	if cmd.IsSet("exclude-file") {
		lc.ExcludeFiles = cmd.StringSlice("exclude-file")
	}
	if cmd.IsSet("filter") {
		lc.Filters = cmd.StringSlice("filter")
	}
	if cmd.IsSet("panic-on-error") {
		lc.PanicOnError = cmd.Bool("panic-on-error")
	}
	if cmd.IsSet("abort-on-excluded") {
		lc.AbortOnExcluded = cmd.Bool("abort-on-excluded")
	}
	if cmd.IsSet("dot") {
		lc.Dot = cmd.Bool("dot")
	}

	workDir, err := os.Getwd()
	if err != nil {
		return modules.Options{}, fmt.Errorf("failed to get working directory: %w", err)
	}

	opts := lc.Options(workDir)
	if opts.Path == "" {
		opts.Path = workDir
	}
	return opts, nil
}

// runDiscovery scans with a progress bar on stderr, logging through the
// logger the root command attached to ctx.
func runDiscovery(ctx context.Context, op string, opts modules.Options) ([]modules.Module, error) {
	logger := logging.WithContext(ctx).With(logging.Operation(op), logging.Root(opts.Path))

	bar := progress.New(progress.Options{Description: "Reading manifests"})
	opts.Progress = bar.Track

	logger.Info("discovering modules",
		slog.Any("filters", opts.Filters),
		slog.Any("exclude_files", opts.ExcludeFiles),
	)

	mods, err := modules.Discover(opts)
	if err != nil {
		_ = bar.Clear()
		logger.Debug("discovery failed", logging.Err(err))
		return nil, err
	}
	if err := bar.Finish(); err != nil {
		logger.Debug("failed to finish progress bar", logging.Err(err))
	}

	logger.Info("discovery complete", logging.Count(len(mods)))
	return mods, nil
}
