package core

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/jirutka/argp/internal/help"
)

// Parse fills dest, a non-nil pointer to a command struct, from args. path is
// the command name chain used in help and error output, e.g. {"tool"} or
// {"tool", "fetch"}.
func Parse(dest any, path []string, args []string) error {
	v, err := destValue(dest)
	if err != nil {
		return err
	}

	return parseCommand(v, path, args, nil)
}

// ParseGroup fills dest, a non-nil pointer to a subcommand group struct,
// dispatching on the last element of path.
func ParseGroup(dest any, path []string, args []string) error {
	v, err := destValue(dest)
	if err != nil {
		return err
	}

	group, err := newGroupSpec(v, v.Type(), true)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidSchema, v.Type(), err)
	}

	if len(path) == 0 {
		return errNoCommandName
	}

	return group.parseVariant(path, args, nil)
}

func destValue(dest any) (reflect.Value, error) {
	v := reflect.ValueOf(dest)

	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: destination must be a non-nil struct pointer, got %T", ErrInvalidSchema, dest)
	}

	return v.Elem(), nil
}

// Help is the early exit of a parse that saw --help, -h or the help keyword.
// It travels through the error return, but it reports success semantics:
// FromEnv prints it to stdout and exits zero.
type Help struct {
	model help.Command
}

// Generate renders the help page with the given style.
func (h *Help) Generate(style *help.Style) string {
	return help.Render(h.model, style)
}

// Error renders the page with the default style, so an unhandled help still
// surfaces legibly.
func (h *Help) Error() string {
	return h.Generate(help.Default())
}

// globalResolver is one level of the ancestor chain that global options
// resolve through and inherited help rows collect from.
type globalResolver interface {
	tryParseGlobal(arg string, rest *[]string) (bool, error)
	globalHelpRows() []help.Row
}

// parseContext is the mutable state of one command level during a parse.
type parseContext struct {
	cmd    *command
	path   []string
	table  map[string]*optionSpec
	parent globalResolver

	helpRequested bool
	helpCmd       bool
	optionsEnded  bool
	posIndex      int
}

func parseCommand(dest reflect.Value, path []string, args []string, parent globalResolver) error {
	cmd, err := buildCommand(dest)
	if err != nil {
		return err
	}

	ctx := &parseContext{
		cmd:    cmd,
		path:   path,
		table:  cmd.argTable(),
		parent: parent,
	}

	return ctx.run(args)
}

// run walks the tokens. Option-looking tokens resolve against this level and
// then the ancestor chain; bare tokens try the subcommand table before the
// positional cursor. A matched subcommand consumes the whole remainder.
func (p *parseContext) run(args []string) error {
	rest := args

	for len(rest) > 0 {
		tok := rest[0]
		rest = rest[1:]

		if !p.optionsEnded && (tok == "--help" || tok == "-h" || tok == "help") {
			p.helpRequested = true
			p.helpCmd = tok == "help"

			continue
		}

		if !p.optionsEnded && strings.HasPrefix(tok, "-") {
			if tok == "--" {
				p.optionsEnded = true
				continue
			}

			if p.helpCmd {
				return &OptionsAfterHelpError{}
			}

			if err := p.parseOptionToken(tok, &rest); err != nil {
				return err
			}

			continue
		}

		if p.cmd.group != nil {
			matched, err := p.dispatch(tok, rest)
			if err != nil {
				return err
			}

			if matched {
				p.helpRequested = false
				break
			}
		}

		if err := p.fillPositional(tok); err != nil {
			return err
		}
	}

	if p.helpRequested {
		return p.helpExit()
	}

	return p.finish()
}

// parseOptionToken handles one option-looking token. A bundle like -ab is
// parsed as -a -b, and -an 5 as -a -n 5; only the final short of a bundle can
// consume a value.
func (p *parseContext) parseOptionToken(tok string, rest *[]string) error {
	if len(tok) > 2 && tok[1] != '-' {
		runes := []rune(tok[1:])

		for i, r := range runes {
			if i < len(runes)-1 {
				var none []string
				if err := p.resolveOption("-"+string(r), &none); err != nil {
					return err
				}

				continue
			}

			if err := p.resolveOption("-"+string(r), rest); err != nil {
				return err
			}
		}

		return nil
	}

	return p.resolveOption(tok, rest)
}

// resolveOption looks arg up in this level's table first; misses walk the
// ancestor chain, where only options marked global may answer.
func (p *parseContext) resolveOption(arg string, rest *[]string) error {
	if spec, ok := p.table[arg]; ok {
		return p.fillOption(spec, arg, rest)
	}

	if p.parent != nil {
		if handled, err := p.parent.tryParseGlobal(arg, rest); handled {
			return err
		}
	}

	return &UnknownArgumentError{Arg: arg}
}

func (p *parseContext) tryParseGlobal(arg string, rest *[]string) (bool, error) {
	if spec, ok := p.table[arg]; ok && spec.global {
		return true, p.fillOption(spec, arg, rest)
	}

	if p.parent != nil {
		return p.parent.tryParseGlobal(arg, rest)
	}

	return false, nil
}

func (p *parseContext) fillOption(spec *optionSpec, arg string, rest *[]string) error {
	if !spec.takesValue {
		spec.slot.setSwitch()
		return nil
	}

	if len(*rest) == 0 {
		return &MissingValueError{Option: arg}
	}

	value := (*rest)[0]
	*rest = (*rest)[1:]

	return spec.slot.fill(arg, value)
}

// fillPositional feeds one bare token to the positional cursor. The cursor
// parks on a trailing repeated positional; a greedy one additionally turns
// off option recognition for the rest of the line.
func (p *parseContext) fillPositional(tok string) error {
	positionals := p.cmd.positionals

	if p.posIndex >= len(positionals) {
		return &UnknownArgumentError{Arg: tok}
	}

	spec := positionals[p.posIndex]

	if err := spec.slot.fill(spec.name, tok); err != nil {
		return err
	}

	if spec.repeating {
		p.optionsEnded = p.optionsEnded || spec.greedy
		return nil
	}

	p.posIndex++

	return nil
}

// dispatch hands the remainder to the named subcommand, passing itself as the
// head of the child's ancestor chain. A pending help request travels along as
// a leading help keyword.
func (p *parseContext) dispatch(name string, rest []string) (bool, error) {
	group := p.cmd.group

	if !group.matches(name) {
		return false, nil
	}

	childPath := append(slices.Clone(p.path), name)

	childArgs := rest
	if p.helpRequested {
		childArgs = append([]string{"help"}, rest...)
	}

	if err := group.parseVariant(childPath, childArgs, p); err != nil {
		return true, err
	}

	group.chosen = true

	return true, nil
}

// parseVariant fills the group variant named by the last path element,
// statically declared variants first, then dynamic ones.
func (g *groupSpec) parseVariant(path []string, args []string, parent globalResolver) error {
	name := path[len(path)-1]

	for _, v := range g.variants {
		if v.name != name {
			continue
		}

		group := g.ensure()
		field := group.Field(v.field)
		field.Set(reflect.New(field.Type().Elem()))

		return parseCommand(field.Elem(), path, args, parent)
	}

	for _, ci := range g.dynamic {
		if ci.Name == name {
			return g.ensure().Addr().Interface().(DynamicCommands).ParseDynamic(path, args)
		}
	}

	return errNoCommandMatched
}

// globalHelpRows collects inherited option rows for a help page, outermost
// level first.
func (p *parseContext) globalHelpRows() []help.Row {
	var rows []help.Row

	if p.parent != nil {
		rows = p.parent.globalHelpRows()
	}

	return append(rows, p.cmd.globalRows()...)
}

func (p *parseContext) helpExit() error {
	var globals []help.Row
	if p.parent != nil {
		globals = p.parent.globalHelpRows()
	}

	return &Help{model: p.cmd.helpModel(p.path, globals)}
}

// finish applies declared defaults and then reports every unmet requirement
// at once: positionals first, then options, then a required subcommand.
func (p *parseContext) finish() error {
	for _, o := range p.cmd.options {
		if o.defaulted {
			if err := o.slot.applyDefault("--"+o.long, o.defValue); err != nil {
				return err
			}
		}
	}

	for _, pos := range p.cmd.positionals {
		if pos.defaulted {
			if err := pos.slot.applyDefault(pos.name, pos.defValue); err != nil {
				return err
			}
		}
	}

	missing := &MissingRequirementsError{}

	for _, pos := range p.cmd.positionals {
		if pos.required && !pos.slot.filled {
			missing.Positionals = append(missing.Positionals, pos.name)
		}
	}

	for _, o := range p.cmd.options {
		if o.required && !o.slot.filled {
			missing.Options = append(missing.Options, "--"+o.long)
		}
	}

	if g := p.cmd.group; g != nil && g.required && !g.chosen {
		missing.Subcommands = g.commandNames()
	}

	if missing.empty() {
		return nil
	}

	return missing
}
