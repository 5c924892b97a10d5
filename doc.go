// Package cleye turns declarative parameter tables into urfave/cli
// command-line interfaces.
//
// A command is described by a Spec: an ordered list of parameters plus the
// function their parsed values are delivered to. How each parameter surfaces
// on the command line follows from its declaration alone: a parameter with a
// default becomes an option (a boolean default becomes a switch), a
// parameter without one becomes a required positional, and a list or
// variadic parameter collects the remaining positionals.
//
//	spec := cleye.Spec{
//	    Name: "greet",
//	    Params: []cleye.Param{
//	        {Name: cleye.ContextParam},
//	        {Name: "name"},
//	        cleye.Param{Name: "count", Type: cleye.Integer()}.WithDefault(1),
//	        cleye.Param{Name: "shout", Type: cleye.Boolean()}.WithDefault(false),
//	    },
//	    Run: greet,
//	}
//	app, err := cleye.App(spec)
//
// Specs can be written by hand, loaded from YAML documents with LoadSpec,
// or generated from Go function signatures by the cleyegen tool (see
// cmd/cleyegen). Commands built from a Spec show their help text when
// invoked with no input at all.
//
// # Types
//
// Parameter types form a closed set (see Kind): text, bool, int, float,
// duration, timestamp, uuid, path, choice, bounded ranges, tuples and
// lists. Anything outside the set is rejected when the command is built,
// not at parse time.
//
// # Configuration
//
// A ConfigLoader layers the declared option defaults from YAML files and
// environment variables. Precedence is flags > environment > files;
// positional parameters are never touched.
//
// # Logging
//
// App installs a --verbosity flag on the root command. When set, the
// clilog human-friendly slog handler is installed at that level before the
// handler runs.
package cleye
