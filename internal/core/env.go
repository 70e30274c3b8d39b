package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jirutka/argp/internal/help"
)

// Env abstracts the process surface ParseEnv touches, so output and exit
// behavior can be captured in tests.
type Env interface {
	Args() []string
	Stdout() io.Writer
	Stderr() io.Writer
	Exit(code int)
}

// OSEnv is the production Env: real arguments, real streams, real exit.
type OSEnv struct{}

func (OSEnv) Args() []string { return os.Args }

func (OSEnv) Stdout() io.Writer { return os.Stdout }

func (OSEnv) Stderr() io.Writer { return os.Stderr }

func (OSEnv) Exit(code int) { os.Exit(code) }

// ExecuteEnv is an Env that captures output and the exit code for testing.
type ExecuteEnv struct {
	args   []string
	stdout bytes.Buffer
	stderr bytes.Buffer
	code   int
	exited bool
}

// NewExecuteEnv returns an Env serving the given argument vector, program
// name included.
func NewExecuteEnv(args []string) *ExecuteEnv {
	return &ExecuteEnv{args: args}
}

// Args returns the captured argument vector.
func (e *ExecuteEnv) Args() []string { return e.args }

// Stdout returns the captured stdout buffer.
func (e *ExecuteEnv) Stdout() io.Writer { return &e.stdout }

// Stderr returns the captured stderr buffer.
func (e *ExecuteEnv) Stderr() io.Writer { return &e.stderr }

// Exit records the first exit code instead of terminating.
func (e *ExecuteEnv) Exit(code int) {
	if !e.exited {
		e.code = code
		e.exited = true
	}
}

// Output returns everything written to stdout.
func (e *ExecuteEnv) Output() string { return e.stdout.String() }

// ErrOutput returns everything written to stderr.
func (e *ExecuteEnv) ErrOutput() string { return e.stderr.String() }

// ExitCode returns the recorded code and whether Exit was called.
func (e *ExecuteEnv) ExitCode() (int, bool) { return e.code, e.exited }

// ParseEnv parses env's arguments into dest and handles the outcome the way
// a command-line tool should: a help page goes to stdout and exits zero, a
// parse error goes to stderr with a usage hint and exits one. It reports
// whether dest was filled. Schema mistakes panic.
func ParseEnv(dest any, env Env) bool {
	argv := env.Args()

	if len(argv) == 0 {
		fmt.Fprintln(env.Stderr(), "No program name, argv is empty")
		env.Exit(1)

		return false
	}

	cmd := filepath.Base(argv[0])

	err := Parse(dest, []string{cmd}, argv[1:])
	if err == nil {
		return true
	}

	var helpErr *Help
	if errors.As(err, &helpErr) {
		fmt.Fprintln(env.Stdout(), helpErr.Generate(help.Default()))
		env.Exit(0)

		return false
	}

	if errors.Is(err, ErrInvalidSchema) {
		panic(err)
	}

	fmt.Fprintf(env.Stderr(), "%v\nRun %s --help for more information.\n", err, cmd)
	env.Exit(1)

	return false
}
