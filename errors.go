package cleye

import "errors"

var (
	// ErrUnsupportedKind reports a validation kind outside the closed
	// dispatch set.
	ErrUnsupportedKind = errors.New("unsupported validation kind")

	// ErrDuplicateParam reports two parameters declared with the same name.
	ErrDuplicateParam = errors.New("duplicate parameter name")

	// ErrBadParam reports a parameter declaration that cannot be turned
	// into a CLI binding.
	ErrBadParam = errors.New("invalid parameter declaration")

	// ErrHandlerSignature reports a handler whose signature does not match
	// the declared parameters.
	ErrHandlerSignature = errors.New("handler signature does not match declared parameters")

	// ErrNoHandler is returned when a declarative command built without a
	// handler is invoked.
	ErrNoHandler = errors.New("no handler attached to this command")

	// ErrUnsupportedCommandSource reports an App item that is neither a
	// Spec, a *Spec, nor a *cli.Command.
	ErrUnsupportedCommandSource = errors.New("unsupported command source")
)
