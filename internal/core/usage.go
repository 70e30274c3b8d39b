package core

import "github.com/jirutka/argp/internal/help"

// usageToken is the option's fragment on the usage line: the preferred
// spelling plus a value placeholder, bracketed unless the option is required.
func (o *optionSpec) usageToken() string {
	name := "--" + o.long
	if o.short != "" {
		name = "-" + o.short
	}

	if o.takesValue {
		label := o.label
		if o.repeating {
			label += "..."
		}

		name += " <" + label + ">"
	}

	if o.required {
		return name
	}

	return "[" + name + "]"
}

// namesColumn is the option's left table column. Options without a short
// spelling are padded so the long spellings line up.
func (o *optionSpec) namesColumn() string {
	names := "    "
	if o.short != "" {
		names = "-" + o.short + ", "
	}

	names += "--" + o.long

	if o.takesValue {
		names += " <" + o.label + ">"
	}

	return names
}

func (o *optionSpec) helpRow() help.Row {
	if o.hidden {
		return help.Row{}
	}

	return help.Row{
		Usage:       o.usageToken(),
		Names:       o.namesColumn(),
		Description: o.help,
	}
}

func (p *positionalSpec) usageToken() string {
	switch {
	case p.greedy:
		return "[" + p.name + "...]"
	case p.repeating:
		return "[<" + p.name + "...>]"
	case p.required:
		return "<" + p.name + ">"
	default:
		return "[<" + p.name + ">]"
	}
}

// helpRow builds the positional's table row. Greedy positionals swallow
// arbitrary trailing tokens, so they appear on the usage line but not in the
// Arguments table.
func (p *positionalSpec) helpRow() help.Row {
	if p.hidden {
		return help.Row{}
	}

	row := help.Row{Usage: p.usageToken()}
	if !p.greedy {
		row.Names = p.name
		row.Description = p.help
	}

	return row
}

// helpModel assembles the full help page input for this command, with
// inherited global rows ahead of the local options.
func (c *command) helpModel(path []string, globals []help.Row) help.Command {
	model := help.Command{
		Path:        path,
		Description: c.description,
		Footer:      c.footer,
		Options:     globals,
	}

	for _, o := range c.options {
		model.Options = append(model.Options, o.helpRow())
	}

	for _, p := range c.positionals {
		model.Positionals = append(model.Positionals, p.helpRow())
	}

	if c.group != nil {
		model.CommandsUsage = "<command> [<args>]"
		if !c.group.required {
			model.CommandsUsage = "[<command>] [<args>]"
		}

		for _, v := range c.group.variants {
			model.Commands = append(model.Commands, help.CommandRow{Name: v.name, Description: v.help})
		}

		for _, ci := range c.group.dynamic {
			model.Commands = append(model.Commands, help.CommandRow{Name: ci.Name, Description: ci.Description})
		}
	}

	return model
}

// globalRows collects the visible global option rows of this command.
func (c *command) globalRows() []help.Row {
	var rows []help.Row

	for _, o := range c.options {
		if o.global && !o.hidden {
			rows = append(rows, o.helpRow())
		}
	}

	return rows
}
