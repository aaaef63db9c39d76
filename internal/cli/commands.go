package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/klauern/modlist/internal/config"
	"github.com/klauern/modlist/internal/ui"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Display the effective configuration",
		Description: `Print the configuration after merging the config file and MODLIST_*
   environment overrides over the defaults.

   Examples:
     modlist config
     modlist config --format toml > ~/.modlist/config.toml`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format: summary, yaml, toml",
				Value: "summary",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := configFrom(ctx)

			switch format := cmd.String("format"); format {
			case "summary":
				printConfigSummary(cmd, cfg)
				return nil
			case config.FormatYAML, config.FormatTOML:
				data, err := cfg.Marshal(format)
				if err != nil {
					return err
				}
				_, err = os.Stdout.Write(data)
				return err
			default:
				return fmt.Errorf("unsupported format %q (want summary, yaml or toml)", format)
			}
		},
	}
}

func printConfigSummary(cmd *cli.Command, cfg *config.Config) {
	source := cmd.Root().String("config")
	if source == "" {
		source = config.FilePath()
	}
	if _, err := os.Stat(source); err != nil {
		source += " (not found, using defaults)"
	}

	title := cases.Title(language.English)
	list := func(values []string) string {
		if len(values) == 0 {
			return ui.Dim("(none)")
		}
		return strings.Join(values, ", ")
	}
	path := cfg.List.Path
	if path == "" {
		path = ui.Dim("(working directory)")
	}

	fmt.Printf("%s %s\n\n", ui.Bold("Config file:"), source)

	fmt.Println(ui.Header(title.String("list")))
	fmt.Printf("  Path:              %s\n", path)
	fmt.Printf("  Filters:           %s\n", list(cfg.List.Filters))
	fmt.Printf("  Exclude names:     %s\n", list(cfg.List.ExcludeNames))
	fmt.Printf("  Exclude files:     %s\n", list(cfg.List.ExcludeFiles))
	fmt.Printf("  Panic on error:    %t\n", cfg.List.PanicOnError)
	fmt.Printf("  Abort on excluded: %t\n", cfg.List.AbortOnExcluded)
	fmt.Printf("  Dot:               %t\n", cfg.List.Dot)
	fmt.Println()

	fmt.Println(ui.Header(title.String("output")))
	fmt.Printf("  Format: %s\n", title.String(cfg.Output.Format))
	fmt.Printf("  Color:  %s\n", title.String(cfg.Output.Color))
}
