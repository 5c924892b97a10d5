// Command cleyegen derives cleye command descriptors from Go function
// signatures. It parses a source file, maps each exported function (or the
// functions named with --func) to a cleye.Spec, and writes a generated
// companion file in the same package.
//
// Typical use, from a go:generate directive:
//
//	//go:generate cleyegen --out commands_cleye.go commands.go
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/deathbeds/cleye/internal/generate"
)

func main() {
	cmd := &cli.Command{
		Name:      "cleyegen",
		Usage:     "generate cleye command descriptors from Go function signatures",
		ArgsUsage: "SOURCE.go",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "out",
				Usage: "Output file (defaults to SOURCE_cleye.go, - for stdout)",
			},
			&cli.StringFlag{
				Name:  "package",
				Usage: "Package name for the generated file (defaults to the source file's package)",
			},
			&cli.StringSliceFlag{
				Name:  "func",
				Usage: "Generate only the named functions (repeatable; default is every exported function)",
			},
		},
		Arguments: []cli.Argument{
			&cli.StringArgs{Name: "source", Min: 0, Max: 1, UsageText: "SOURCE.go"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(_ context.Context, cmd *cli.Command) error {
	sources := cmd.StringArgs("source")
	if len(sources) == 0 {
		return cli.ShowSubcommandHelp(cmd)
	}
	source := sources[0]

	commands, err := generate.ExtractFile(source, nil, cmd.StringSlice("func"))
	if err != nil {
		return err
	}
	if len(commands) == 0 {
		return fmt.Errorf("no exported functions in %s", source)
	}

	pkgName := cmd.String("package")
	if pkgName == "" {
		pkgName, err = generate.PackageOf(source)
		if err != nil {
			return err
		}
	}

	src, err := generate.Source(pkgName, commands)
	if err != nil {
		return err
	}

	out := cmd.String("out")
	if out == "" {
		out = strings.TrimSuffix(source, ".go") + "_cleye.go"
	}
	if out == "-" {
		_, err = os.Stdout.Write(src)
		return err
	}
	return os.WriteFile(out, src, 0o644)
}
