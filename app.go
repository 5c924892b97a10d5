package cleye

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/deathbeds/cleye/clilog"
)

// App assembles a command-line application from a variable number of items.
// Each item is one of:
//
//   - a *cli.Command, added to the group unchanged;
//   - a Spec or *Spec, translated through the parameter bindings;
//   - an Option, applied to the whole assembly.
//
// When exactly one command was supplied the built command itself is
// returned; otherwise the populated group is. The group is mutated only
// here, at construction time.
func App(items ...any) (*cli.Command, error) {
	var opts []Option
	var sources []any
	for _, item := range items {
		switch v := item.(type) {
		case Option:
			opts = append(opts, v)
		case nil:
			return nil, fmt.Errorf("%w: nil item", ErrUnsupportedCommandSource)
		default:
			sources = append(sources, item)
		}
	}
	o := applyOptions(opts...)

	group := o.group
	if group == nil {
		name := o.name
		if name == "" {
			name = "app"
		}
		group = &cli.Command{Name: name, Usage: o.usage}
	}
	if o.verbosity {
		installVerbosityFlag(group)
	}

	var commands []*cli.Command
	for _, source := range sources {
		var (
			cmd *cli.Command
			err error
		)
		switch v := source.(type) {
		case *cli.Command:
			cmd = v
		case Spec:
			cmd, err = Build(v, opts...)
		case *Spec:
			cmd, err = Build(*v, opts...)
		default:
			err = fmt.Errorf("%w: %T", ErrUnsupportedCommandSource, source)
		}
		if err != nil {
			return nil, err
		}
		group.Commands = append(group.Commands, cmd)
		commands = append(commands, cmd)
	}

	if len(commands) == 1 {
		// A lone command is returned directly, so it carries the shared
		// flag itself.
		if o.verbosity {
			installVerbosityFlag(commands[0])
		}
		return commands[0], nil
	}
	if group.Action == nil {
		group.Action = func(_ context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		}
	}
	return group, nil
}

// installVerbosityFlag adds the shared --verbosity flag to the group root
// unless one is already present.
func installVerbosityFlag(group *cli.Command) {
	for _, f := range group.Flags {
		for _, name := range f.Names() {
			if name == "verbosity" {
				return
			}
		}
	}
	group.Flags = append(group.Flags, &cli.StringFlag{
		Name:  "verbosity",
		Usage: "Log level [debug|info|warn|error]",
		Value: "info",
	})
}

// configureLogging installs the human-friendly handler at the requested
// level when the invocation set --verbosity.
func configureLogging(cmd *cli.Command) {
	root := cmd.Root()
	if !root.IsSet("verbosity") {
		return
	}
	level := clilog.ParseLevel(root.String("verbosity"))
	handler := clilog.HumanFriendlySlogHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
