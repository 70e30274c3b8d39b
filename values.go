package argp

import (
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Glob is a file pattern with fish-style globs (including ** and {a,b}),
// validated when parsed so a malformed pattern fails at the command line
// instead of deep inside the program.
type Glob string

// FromArgValue validates and stores the raw pattern.
func (g *Glob) FromArgValue(value string) error {
	if !doublestar.ValidatePattern(value) {
		return fmt.Errorf("invalid glob pattern %q", value)
	}

	*g = Glob(value)

	return nil
}

// Match reports whether name matches the pattern.
func (g Glob) Match(name string) bool {
	ok, err := doublestar.Match(string(g), name)

	return err == nil && ok
}

// Expand returns the sorted names under fsys matching the pattern. A nil
// fsys expands against the current directory.
func (g Glob) Expand(fsys fs.FS) ([]string, error) {
	if fsys == nil {
		fsys = os.DirFS(".")
	}

	matches, err := doublestar.Glob(fsys, string(g))
	if err != nil {
		return nil, err
	}

	sort.Strings(matches)

	return matches, nil
}

func (g Glob) String() string {
	return string(g)
}
