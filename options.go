package cleye

import (
	"context"

	"github.com/urfave/cli/v3"
)

// Option configures App and Build.
type Option func(*options)

type options struct {
	name      string
	usage     string
	group     *cli.Command
	loader    *ConfigLoader
	before    func(context.Context, *cli.Command) error
	after     func(context.Context, *cli.Command) error
	verbosity bool
}

func applyOptions(opts ...Option) *options {
	o := &options{verbosity: true}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithName sets the group command's name. Ignored when WithGroup supplies a
// pre-built group.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithUsage sets the group command's one-line help text.
func WithUsage(usage string) Option {
	return func(o *options) { o.usage = usage }
}

// WithGroup adds the built commands to an existing group instead of a
// freshly constructed one.
func WithGroup(group *cli.Command) Option {
	return func(o *options) { o.group = group }
}

// WithConfigLoader layers option defaults from config files and environment
// variables before each command is built.
func WithConfigLoader(loader *ConfigLoader) Option {
	return func(o *options) { o.loader = loader }
}

// WithBefore registers a hook that runs before each command's handler.
func WithBefore(fn func(context.Context, *cli.Command) error) Option {
	return func(o *options) { o.before = fn }
}

// WithAfter registers a hook that runs after each command's handler.
func WithAfter(fn func(context.Context, *cli.Command) error) Option {
	return func(o *options) { o.after = fn }
}

// WithoutVerbosityFlag disables the --verbosity flag App installs on the
// group root.
func WithoutVerbosityFlag() Option {
	return func(o *options) { o.verbosity = false }
}
