// Package argp builds command-line interfaces from tagged structs: options,
// positionals and nested subcommands are declared as fields, parsed by
// reflection and documented by generated help pages with stable layout.
//
// A command is a struct with a Description() string method. Fields opt in
// with an argp tag naming their kind, followed by attributes; a separate
// help tag carries the field's description:
//
//	type tool struct {
//		Force   bool     `argp:"switch,short=f" help:"keep going on minor errors"`
//		Out     *string  `argp:"option,arg=path" help:"write the result here"`
//		Input   string   `argp:"positional"`
//		Command toolCmds `argp:"subcommand"`
//	}
//
// Switches are bool, *bool or integer (counting) fields. Options and
// positionals hold any convertible type: plain fields are required,
// pointers are optional, slices repeat, and default=V supplies a literal
// used when the field was never set. Names derive from the field name in
// kebab-case unless long=, arg= or name= override them; short=C adds a
// one-letter spelling, global makes an option resolvable from descendant
// subcommands, greedy lets a final slice positional swallow everything
// behind it, and hidden keeps a field out of the help page.
//
// Parse, MustParse and FromEnv are the entry points.
package argp

import (
	"github.com/jirutka/argp/internal/core"
	"github.com/jirutka/argp/internal/help"
)

// --- Re-exported types from the internal packages ---

// FromArgValue is implemented by field types that parse themselves from a
// raw command-line value. It wins over encoding.TextUnmarshaler.
type FromArgValue = core.FromArgValue

// CommandInfo names one subcommand for dispatch matching and help listing.
type CommandInfo = core.CommandInfo

// DynamicCommands extends a subcommand group with names resolved at parse
// time, such as installed plugins.
type DynamicCommands = core.DynamicCommands

// Help is the early exit of a parse that saw --help, -h or the help keyword.
// It is returned through the error channel; render it with Generate.
type Help = core.Help

// Env abstracts the process surface FromEnvWith touches, so output and exit
// behavior can be captured in tests.
type Env = core.Env

// ExecuteEnv is an Env that captures output and the exit code for testing.
type ExecuteEnv = core.ExecuteEnv

// Style controls help page geometry and decoration without changing content.
type Style = help.Style

// Colors holds the lipgloss styles applied to help page chrome.
type Colors = help.Colors

// UnknownArgumentError reports a token that matched no option table, or a
// bare token arriving after all positionals were consumed.
type UnknownArgumentError = core.UnknownArgumentError

// MissingValueError reports a value option left without a value at the end
// of the arguments.
type MissingValueError = core.MissingValueError

// DuplicateOptionError reports a second value for an option holding at most
// one.
type DuplicateOptionError = core.DuplicateOptionError

// ParseValueError reports a value that could not be converted into its
// destination field.
type ParseValueError = core.ParseValueError

// OptionsAfterHelpError reports option tokens trailing a help keyword.
type OptionsAfterHelpError = core.OptionsAfterHelpError

// MissingRequirementsError aggregates every requirement a finished parse
// left unmet.
type MissingRequirementsError = core.MissingRequirementsError

// ErrInvalidSchema wraps every command struct declaration mistake. Parse
// returns it; MustParse and the FromEnv entry points panic on it.
var ErrInvalidSchema = core.ErrInvalidSchema

// --- Public API ---

// Parse parses args into a new T. path is the command name chain used in
// help and error output, e.g. []string{"tool"}. A help request comes back as
// a *Help through the error return.
func Parse[T any](path []string, args []string) (*T, error) {
	dest := new(T)

	if err := core.Parse(dest, path, args); err != nil {
		return nil, err
	}

	return dest, nil
}

// MustParse is Parse for arguments known to be well-formed: any outcome
// other than a filled T panics, help requests included.
func MustParse[T any](path []string, args []string) *T {
	dest, err := Parse[T](path, args)
	if err != nil {
		panic(err)
	}

	return dest
}

// FromEnv parses os.Args into a new T. A help request prints the page to
// stdout and exits 0; a parse error prints the message and a usage hint to
// stderr and exits 1. It only returns with a filled T.
func FromEnv[T any]() *T {
	return FromEnvWith[T](core.OSEnv{})
}

// FromEnvWith is FromEnv against an arbitrary Env. With a capturing Env it
// returns nil after a recorded exit instead of terminating.
func FromEnvWith[T any](env Env) *T {
	dest := new(T)

	if !core.ParseEnv(dest, env) {
		return nil
	}

	return dest
}

// NewExecuteEnv returns a capturing Env serving the given argument vector,
// program name first.
func NewExecuteEnv(args []string) *ExecuteEnv {
	return core.NewExecuteEnv(args)
}

// DefaultStyle is the terminal-aware help style used by FromEnv: wrap width
// follows the terminal within 80 to 120 columns.
func DefaultStyle() *Style {
	return help.Default()
}

// FixedStyle is a deterministic plain 80-column help style, the one to
// compare golden output against.
func FixedStyle() *Style {
	return help.Fixed()
}

// DefaultColors returns the standard help decoration: bold headings and a
// bold usage label.
func DefaultColors() *Colors {
	return help.DefaultColors()
}
