package cli

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/urfave/cli/v3"
)

type buildInfo struct {
	version string
	commit  string
	date    string
}

// currentBuild reports the linker-stamped build variables. Any left at
// their defaults are taken from the module build info, which go install
// records.
func currentBuild() buildInfo {
	b := buildInfo{version: Version, commit: Commit, date: BuildDate}
	if info, ok := debug.ReadBuildInfo(); ok {
		b = b.fill(info)
	}
	return b
}

func (b buildInfo) fill(info *debug.BuildInfo) buildInfo {
	if b.version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		b.version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if b.commit == "unknown" {
				b.commit = s.Value
			}
		case "vcs.time":
			if b.date == "unknown" {
				b.date = s.Value
			}
		}
	}
	return b
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Display version and build information",
		Action: func(_ context.Context, _ *cli.Command) error {
			b := currentBuild()
			fmt.Printf("modlist version %s\n", b.version)
			fmt.Printf("  commit: %s\n", b.commit)
			fmt.Printf("  built: %s\n", b.date)
			fmt.Printf("  go: %s\n", runtime.Version())
			return nil
		},
	}
}
