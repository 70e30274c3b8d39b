package core

import (
	"errors"
	"strings"
)

// ErrInvalidSchema wraps every error found while reflecting a command struct
// into its option, positional and subcommand tables. These are programmer
// mistakes, not user input problems: MustParse and FromEnv panic on them
// instead of printing a usage hint.
var ErrInvalidSchema = errors.New("invalid command schema")

// Dispatch errors for parsing a subcommand group directly, outside a parent
// command.
var (
	errNoCommandName    = errors.New("no subcommand name")
	errNoCommandMatched = errors.New("no subcommand matched")
)

// newlineIndent separates the entries of a requirements report.
const newlineIndent = "\n    "

// UnknownArgumentError reports a token that looked like an option but matched
// no table at any level, or a bare token arriving after all positionals were
// consumed.
type UnknownArgumentError struct {
	// Arg is the offending token as the user typed it.
	Arg string
}

func (e *UnknownArgumentError) Error() string {
	return "Unrecognized argument: " + e.Arg
}

// MissingValueError reports a value-taking option that sat at the end of the
// argument list with nothing left to consume.
type MissingValueError struct {
	// Option is the spelling that was typed, e.g. "--msg" or "-m".
	Option string
}

func (e *MissingValueError) Error() string {
	return "No value provided for option '" + e.Option + "'."
}

// DuplicateOptionError reports a second value for an option that holds at
// most one.
type DuplicateOptionError struct {
	// Option is the spelling that was typed on the duplicate occurrence.
	Option string
}

func (e *DuplicateOptionError) Error() string {
	return "duplicate values provided"
}

// ParseValueError reports a value that reached its destination field but
// could not be converted.
type ParseValueError struct {
	// Arg is the option as typed, or the bare positional name.
	Arg string
	// Value is the raw text that failed to convert.
	Value string
	// Msg is the converter's reason.
	Msg string
}

func (e *ParseValueError) Error() string {
	return "Error parsing argument '" + e.Arg + "' with value '" + e.Value + "': " + e.Msg
}

// OptionsAfterHelpError reports option tokens trailing a `help` keyword,
// where they can belong to no command.
type OptionsAfterHelpError struct{}

func (e *OptionsAfterHelpError) Error() string {
	return "Trailing options are not allowed after `help`."
}

// MissingRequirementsError aggregates everything a finished parse still
// lacked, so the user sees the whole list at once instead of one item per
// run.
type MissingRequirementsError struct {
	// Positionals holds the names of unfilled required positionals, in
	// declaration order.
	Positionals []string
	// Options holds the long spellings of unfilled required options, in
	// declaration order.
	Options []string
	// Subcommands holds the candidate command names when a required
	// subcommand was never given. It is nil when no subcommand was required;
	// an empty non-nil slice still reports the requirement.
	Subcommands []string
}

func (e *MissingRequirementsError) Error() string {
	var b strings.Builder

	if len(e.Positionals) > 0 {
		b.WriteString("Required positional arguments not provided:")

		for _, name := range e.Positionals {
			b.WriteString(newlineIndent)
			b.WriteString(name)
		}
	}

	if len(e.Options) > 0 {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}

		b.WriteString("Required options not provided:")

		for _, name := range e.Options {
			b.WriteString(newlineIndent)
			b.WriteString(name)
		}
	}

	if e.Subcommands != nil {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}

		b.WriteString("One of the following subcommands must be present:")
		b.WriteString(newlineIndent)
		b.WriteString("help")

		for _, name := range e.Subcommands {
			b.WriteString(newlineIndent)
			b.WriteString(name)
		}
	}

	b.WriteByte('\n')

	return b.String()
}

func (e *MissingRequirementsError) empty() bool {
	return len(e.Positionals) == 0 && len(e.Options) == 0 && e.Subcommands == nil
}
