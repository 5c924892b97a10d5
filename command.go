package cleye

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
)

// Spec is the declarative description of one command: an ordered parameter
// table plus the handler the parsed values are delivered to. Run may be nil
// for a bodyless, declaration-only command; invoking one reports
// ErrNoHandler.
type Spec struct {
	Name        string
	Usage       string // one-line help; first line of Description if empty
	Description string
	Params      []Param
	Run         any
}

// Build translates a Spec into a runnable urfave/cli command. Bindings are
// applied in declaration order, and a command that produced at least one
// binding shows its help text when invoked with no input at all.
func Build(spec Spec, opts ...Option) (*cli.Command, error) {
	o := applyOptions(opts...)

	if o.loader != nil {
		if err := o.loader.ApplySpecDefaults(&spec); err != nil {
			return nil, fmt.Errorf("command %q: %w", spec.Name, err)
		}
	}

	bindings, wantsCtx, err := synthesizeBindings(spec.Params)
	if err != nil {
		return nil, fmt.Errorf("command %q: %w", spec.Name, err)
	}

	h, err := newHandler(spec.Run, bindings, wantsCtx)
	if err != nil {
		return nil, fmt.Errorf("command %q: %w", spec.Name, err)
	}

	var flags []cli.Flag
	var args []cli.Argument
	for i := range bindings {
		b := &bindings[i]
		switch b.kind {
		case bindFlag, bindOption:
			f, err := b.flag()
			if err != nil {
				return nil, fmt.Errorf("command %q, parameter %q: %w", spec.Name, b.param.Name, err)
			}
			flags = append(flags, f)
		default:
			args = append(args, b.argument())
		}
	}

	usage := spec.Usage
	if usage == "" {
		usage = firstLine(spec.Description)
	}

	helpOnEmpty := len(bindings) > 0
	cmd := &cli.Command{
		Name:        toKebabCase(spec.Name),
		Usage:       usage,
		Description: spec.Description,
		Flags:       flags,
		Arguments:   args,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if helpOnEmpty && !anyInputGiven(cmd, bindings) {
				return cli.ShowSubcommandHelp(cmd)
			}
			configureLogging(cmd)
			if o.before != nil {
				if err := o.before(ctx, cmd); err != nil {
					return err
				}
			}
			if h == nil {
				return fmt.Errorf("%w: %s", ErrNoHandler, cmd.Name)
			}
			if err := h.invoke(ctx, cmd, bindings); err != nil {
				return err
			}
			if o.after != nil {
				return o.after(ctx, cmd)
			}
			return nil
		},
	}
	return cmd, nil
}

// anyInputGiven reports whether the invocation supplied a value for any
// binding. A bare invocation of a command with bindings shows help rather
// than a missing-argument error, so positional presence is checked here
// and not through the framework's minimum-count enforcement.
func anyInputGiven(cmd *cli.Command, bindings []binding) bool {
	for i := range bindings {
		b := &bindings[i]
		switch b.kind {
		case bindFlag, bindOption:
			if cmd.IsSet(b.cliName) {
				return true
			}
		default:
			if len(cmd.StringArgs(b.cliName)) > 0 {
				return true
			}
		}
	}
	return false
}

// firstLine returns the first line of a multiline string.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}
