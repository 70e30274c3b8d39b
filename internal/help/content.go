// Package help content structures.
// This file defines the data the renderer consumes for one help page.

package help

// Row is one argument or option line. Usage is the fragment shown on the
// usage line, Names the left column of the table row. A row with an empty
// Usage stays off the usage line; one with empty Names stays out of its
// table. Hidden entries leave both empty.
type Row struct {
	Usage       string
	Names       string
	Description string
}

// CommandRow is one subcommand line in the Commands table.
type CommandRow struct {
	Name        string
	Description string
}

// Command is everything Render needs for one help page. Options already
// carry inherited global rows ahead of the local ones; Render appends the
// --help row itself.
type Command struct {
	// Path is the command name chain, e.g. {"tool", "fetch"}.
	Path []string

	// Description is the page body below the usage line. The token
	// {command_name} is replaced by the joined path.
	Description string

	// Footer is optional trailing text, substituted like Description.
	Footer string

	Positionals []Row
	Options     []Row
	Commands    []CommandRow

	// CommandsUsage is the usage fragment standing in for the subcommand
	// group, empty when the command has none.
	CommandsUsage string
}
