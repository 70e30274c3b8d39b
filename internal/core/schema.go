package core

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
)

// CommandInfo names one subcommand for dispatch matching and help listing.
type CommandInfo struct {
	Name        string
	Description string
}

// DynamicCommands extends a subcommand group with names that are only known
// at parse time, such as installed plugins. Static variants are matched
// first. ParseDynamic receives the full command path, ending with the matched
// name, plus the remaining arguments, and fills the receiver; a help request
// ahead of the name arrives as a leading "help" argument.
type DynamicCommands interface {
	DynamicCommands() []*CommandInfo
	ParseDynamic(path []string, args []string) error
}

// optionSpec describes one switch or value option declared on a command.
type optionSpec struct {
	long       string
	short      string
	label      string
	help       string
	takesValue bool
	repeating  bool
	required   bool
	global     bool
	hidden     bool
	defValue   string
	defaulted  bool
	slot       *slot
}

// positionalSpec describes one positional argument declared on a command.
type positionalSpec struct {
	name      string
	help      string
	repeating bool
	required  bool
	greedy    bool
	hidden    bool
	defValue  string
	defaulted bool
	slot      *slot
}

// variantSpec is one statically declared subcommand of a group.
type variantSpec struct {
	name  string
	help  string
	field int
}

// groupSpec describes the subcommand group declared on a command, at most one
// per level.
type groupSpec struct {
	field    reflect.Value
	typ      reflect.Type
	required bool
	variants []variantSpec
	dynamic  []*CommandInfo
	chosen   bool
}

// command binds a user struct to the tables the parse driver walks.
type command struct {
	value       reflect.Value
	description string
	footer      string
	options     []*optionSpec
	positionals []*positionalSpec
	group       *groupSpec
}

// buildCommand reflects the addressable struct value v into a command. Every
// schema mistake it finds wraps ErrInvalidSchema.
func buildCommand(v reflect.Value) (*command, error) {
	t := v.Type()

	desc, ok := stringMethod(v, "Description")
	if !ok {
		return nil, fmt.Errorf("%w: %s must provide a Description() string method", ErrInvalidSchema, t)
	}

	cmd := &command{value: v, description: desc}
	cmd.footer, _ = stringMethod(v, "Footer")

	names := map[string]struct{}{}

	for i := range t.NumField() {
		field := t.Field(i)

		tag, ok := field.Tag.Lookup("argp")
		if !ok || tag == "-" {
			continue
		}

		if !field.IsExported() {
			return nil, fmt.Errorf("%w: %s.%s is unexported but tagged", ErrInvalidSchema, t, field.Name)
		}

		opts, err := parseTag(tag, true)
		if err != nil {
			return nil, fmt.Errorf("%w: %s.%s: %v", ErrInvalidSchema, t, field.Name, err)
		}

		fieldErr := func(err error) error {
			return fmt.Errorf("%w: %s.%s: %v", ErrInvalidSchema, t, field.Name, err)
		}

		switch opts.kind {
		case "switch", "option":
			spec, err := buildOption(v.Field(i), field, opts)
			if err != nil {
				return nil, fieldErr(err)
			}

			if err := claimOptionNames(names, spec); err != nil {
				return nil, fieldErr(err)
			}

			cmd.options = append(cmd.options, spec)
		case "positional":
			spec, err := buildPositional(v.Field(i), field, opts)
			if err != nil {
				return nil, fieldErr(err)
			}

			cmd.positionals = append(cmd.positionals, spec)
		case "subcommand":
			if cmd.group != nil {
				return nil, fieldErr(fmt.Errorf("second subcommand field, only one group is allowed"))
			}

			group, err := buildGroup(v.Field(i), field, opts)
			if err != nil {
				return nil, fieldErr(err)
			}

			cmd.group = group
		default:
			return nil, fieldErr(fmt.Errorf("unknown field kind %q", opts.kind))
		}
	}

	if err := checkPositionalOrder(cmd.positionals); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSchema, t, err)
	}

	return cmd, nil
}

// tagOptions is the parsed form of one argp struct tag.
type tagOptions struct {
	kind      string
	long      string
	short     string
	label     string
	name      string
	defValue  string
	defaulted bool
	global    bool
	greedy    bool
	hidden    bool
}

// parseTag splits an argp tag into its kind and attributes. Group variant
// fields carry attribute-only tags, signalled by withKind being false.
func parseTag(tag string, withKind bool) (tagOptions, error) {
	var opts tagOptions

	parts := strings.Split(tag, ",")
	if withKind {
		opts.kind = parts[0]
		parts = parts[1:]
	}

	for _, part := range parts {
		if part == "" {
			continue
		}

		key, value, hasValue := strings.Cut(part, "=")

		switch key {
		case "long", "short", "arg", "name", "default":
			if !hasValue {
				return opts, fmt.Errorf("attribute %q needs a value", key)
			}
		case "global", "greedy", "hidden":
			if hasValue {
				return opts, fmt.Errorf("attribute %q takes no value", key)
			}
		default:
			return opts, fmt.Errorf("unknown attribute %q", part)
		}

		switch key {
		case "long":
			opts.long = value
		case "short":
			opts.short = value
		case "arg":
			opts.label = value
		case "name":
			opts.name = value
		case "default":
			opts.defValue = value
			opts.defaulted = true
		case "global":
			opts.global = true
		case "greedy":
			opts.greedy = true
		case "hidden":
			opts.hidden = true
		}
	}

	return opts, nil
}

func buildOption(value reflect.Value, field reflect.StructField, opts tagOptions) (*optionSpec, error) {
	if opts.name != "" {
		return nil, fmt.Errorf("attribute \"name\" is only for subcommand variants")
	}

	if opts.greedy {
		return nil, fmt.Errorf("attribute \"greedy\" is only for positionals")
	}

	spec := &optionSpec{
		long:     opts.long,
		short:    opts.short,
		label:    opts.label,
		help:     field.Tag.Get("help"),
		global:   opts.global,
		hidden:   opts.hidden,
		defValue: opts.defValue,

		defaulted: opts.defaulted,
		slot:      &slot{value: value},
	}

	if spec.long == "" {
		spec.long = kebabCase(field.Name)
	}

	if err := checkLongName(spec.long); err != nil {
		return nil, err
	}

	if err := checkShortName(spec.short); err != nil {
		return nil, err
	}

	t := field.Type

	if opts.kind == "switch" {
		if !switchType(t) {
			return nil, fmt.Errorf("switch needs a bool, *bool or integer field, got %s", t)
		}

		if spec.defaulted {
			return nil, fmt.Errorf("switches cannot take a default")
		}

		if spec.label != "" {
			return nil, fmt.Errorf("attribute \"arg\" is only for value options and positionals")
		}

		return spec, nil
	}

	spec.takesValue = true
	if spec.label == "" {
		spec.label = spec.long
	}

	repeating, required, err := checkValueField(t, spec.defaulted)
	if err != nil {
		return nil, err
	}

	spec.repeating = repeating
	spec.required = required

	if spec.defaulted {
		if err := checkDefault(t, spec.defValue); err != nil {
			return nil, err
		}
	}

	return spec, nil
}

func buildPositional(value reflect.Value, field reflect.StructField, opts tagOptions) (*positionalSpec, error) {
	if opts.name != "" {
		return nil, fmt.Errorf("attribute \"name\" is only for subcommand variants")
	}

	if opts.long != "" || opts.short != "" {
		return nil, fmt.Errorf("positionals take no option names")
	}

	if opts.global {
		return nil, fmt.Errorf("attribute \"global\" is only for options and switches")
	}

	spec := &positionalSpec{
		name:     opts.label,
		help:     field.Tag.Get("help"),
		greedy:   opts.greedy,
		hidden:   opts.hidden,
		defValue: opts.defValue,

		defaulted: opts.defaulted,
		slot:      &slot{value: value},
	}

	if spec.name == "" {
		spec.name = kebabCase(field.Name)
	}

	t := field.Type

	repeating, required, err := checkValueField(t, spec.defaulted)
	if err != nil {
		return nil, err
	}

	spec.repeating = repeating
	spec.required = required

	if spec.greedy && !spec.repeating {
		return nil, fmt.Errorf("greedy needs a slice field, got %s", t)
	}

	if spec.defaulted {
		if err := checkDefault(t, spec.defValue); err != nil {
			return nil, err
		}
	}

	return spec, nil
}

func buildGroup(value reflect.Value, field reflect.StructField, opts tagOptions) (*groupSpec, error) {
	if opts != (tagOptions{kind: opts.kind}) {
		return nil, fmt.Errorf("subcommand fields take no attributes")
	}

	t := field.Type
	typ, required := t, true

	if t.Kind() == reflect.Pointer {
		typ, required = t.Elem(), false
	}

	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("subcommand field needs a struct or *struct type, got %s", t)
	}

	return newGroupSpec(value, typ, required)
}

// newGroupSpec walks the group struct's exported fields as subcommand
// variants.
func newGroupSpec(field reflect.Value, typ reflect.Type, required bool) (*groupSpec, error) {
	group := &groupSpec{field: field, typ: typ, required: required}

	seen := map[string]struct{}{}

	for i := range group.typ.NumField() {
		vf := group.typ.Field(i)

		vtag, tagged := vf.Tag.Lookup("argp")
		if vtag == "-" {
			continue
		}

		if !vf.IsExported() {
			if tagged {
				return nil, fmt.Errorf("%s.%s is unexported but tagged", group.typ, vf.Name)
			}

			continue
		}

		var vopts tagOptions

		if tagged {
			var err error

			vopts, err = parseTag(vtag, false)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %v", group.typ, vf.Name, err)
			}
		}

		variant, err := buildVariant(vf, vopts, i)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %v", group.typ, vf.Name, err)
		}

		if _, dup := seen[variant.name]; dup {
			return nil, fmt.Errorf("duplicate subcommand name %q", variant.name)
		}

		seen[variant.name] = struct{}{}
		group.variants = append(group.variants, variant)
	}

	if probe, ok := reflect.New(group.typ).Interface().(DynamicCommands); ok {
		group.dynamic = probe.DynamicCommands()
	}

	return group, nil
}

func buildVariant(field reflect.StructField, opts tagOptions, index int) (variantSpec, error) {
	var zero variantSpec

	if opts != (tagOptions{name: opts.name}) {
		return zero, fmt.Errorf("subcommand variants only take a \"name\" attribute")
	}

	t := field.Type
	if t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		return zero, fmt.Errorf("subcommand variant needs a *struct type, got %s", t)
	}

	name := opts.name
	if name == "" {
		name = kebabCase(field.Name)
	}

	if name == "" || name == "help" || strings.HasPrefix(name, "-") {
		return zero, fmt.Errorf("invalid subcommand name %q", name)
	}

	help, ok := stringMethod(reflect.New(t.Elem()).Elem(), "Description")
	if !ok {
		return zero, fmt.Errorf("%s must provide a Description() string method", t.Elem())
	}

	return variantSpec{name: name, help: help, field: index}, nil
}

// checkValueField classifies a value-holding field type. Plain convertible
// types are required, pointers are optional and slices repeat.
func checkValueField(t reflect.Type, defaulted bool) (repeating, required bool, err error) {
	switch {
	case t.Kind() == reflect.Slice && convertible(t.Elem()):
		if defaulted {
			return false, false, fmt.Errorf("repeating fields cannot take a default")
		}

		return true, false, nil
	case t.Kind() == reflect.Pointer && convertible(t.Elem()):
		if defaulted {
			return false, false, fmt.Errorf("optional fields cannot take a default, use a plain type")
		}

		return false, false, nil
	case convertible(t):
		return false, !defaulted, nil
	default:
		return false, false, fmt.Errorf("unsupported field type %s", t)
	}
}

// checkDefault proves the declared literal converts into the field type, so
// applying it later cannot fail.
func checkDefault(t reflect.Type, literal string) error {
	probe := reflect.New(t).Elem()
	if err := convertValue(probe, literal); err != nil {
		return fmt.Errorf("default %q does not parse: %v", literal, err)
	}

	return nil
}

func checkLongName(name string) error {
	if name == "" {
		return fmt.Errorf("empty long name")
	}

	if name == "help" {
		return fmt.Errorf("a custom --help option is not supported")
	}

	for _, r := range name {
		if r != '-' && !unicode.IsLower(r) && !unicode.IsDigit(r) || r > unicode.MaxASCII {
			return fmt.Errorf("long name %q must be lowercase ASCII", name)
		}
	}

	return nil
}

func checkShortName(name string) error {
	if name == "" {
		return nil
	}

	if name == "h" {
		return fmt.Errorf("a custom -h option is not supported")
	}

	if len(name) != 1 || !isShortRune(rune(name[0])) {
		return fmt.Errorf("short name %q must be a single ASCII letter or digit", name)
	}

	return nil
}

func isShortRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}

func claimOptionNames(names map[string]struct{}, spec *optionSpec) error {
	long := "--" + spec.long
	if _, dup := names[long]; dup {
		return fmt.Errorf("duplicate option name %s", long)
	}

	names[long] = struct{}{}

	if spec.short == "" {
		return nil
	}

	short := "-" + spec.short
	if _, dup := names[short]; dup {
		return fmt.Errorf("duplicate option name %s", short)
	}

	names[short] = struct{}{}

	return nil
}

// checkPositionalOrder enforces that only the last positional may be
// optional, defaulted or repeating, and that only the last repeating one may
// be greedy. Anything else would make filling by position ambiguous.
func checkPositionalOrder(positionals []*positionalSpec) error {
	for i, p := range positionals {
		last := i == len(positionals)-1

		if !last && !p.required {
			return fmt.Errorf("positional %q must be last to be optional, defaulted or repeating", p.name)
		}

		if p.greedy && !last {
			return fmt.Errorf("greedy positional %q must be last", p.name)
		}
	}

	return nil
}

// argTable maps option spellings as typed, "-s" and "--long", to their
// specs.
func (c *command) argTable() map[string]*optionSpec {
	table := make(map[string]*optionSpec, 2*len(c.options))

	for _, spec := range c.options {
		table["--"+spec.long] = spec
		if spec.short != "" {
			table["-"+spec.short] = spec
		}
	}

	return table
}

// ensure returns the addressable group struct, allocating the field first
// when the group is optional and still nil.
func (g *groupSpec) ensure() reflect.Value {
	v := g.field
	if v.Kind() != reflect.Pointer {
		return v
	}

	if v.IsNil() {
		v.Set(reflect.New(v.Type().Elem()))
	}

	return v.Elem()
}

// matches reports whether name belongs to this group, checking static
// variants before dynamic ones.
func (g *groupSpec) matches(name string) bool {
	for _, v := range g.variants {
		if v.name == name {
			return true
		}
	}

	for _, ci := range g.dynamic {
		if ci.Name == name {
			return true
		}
	}

	return false
}

// commandNames lists the group's matchable names, static first.
func (g *groupSpec) commandNames() []string {
	names := make([]string, 0, len(g.variants)+len(g.dynamic))

	for _, v := range g.variants {
		names = append(names, v.name)
	}

	for _, ci := range g.dynamic {
		names = append(names, ci.Name)
	}

	return names
}

// stringMethod calls the niladic string method of the given name on v's
// pointer, covering value and pointer receivers alike.
func stringMethod(v reflect.Value, name string) (string, bool) {
	m := v.Addr().MethodByName(name)
	if !m.IsValid() {
		return "", false
	}

	mt := m.Type()
	if mt.NumIn() != 0 || mt.NumOut() != 1 || mt.Out(0).Kind() != reflect.String {
		return "", false
	}

	return m.Call(nil)[0].String(), true
}

// kebabCase converts a Go field name to its command-line spelling:
// APIServer becomes api-server, Ac97 becomes ac97.
func kebabCase(s string) string {
	runes := []rune(s)
	out := make([]rune, 0, len(runes)+2)

	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || i+1 < len(runes) && unicode.IsLower(runes[i+1])) {
				out = append(out, '-')
			}

			out = append(out, unicode.ToLower(r))
		} else {
			out = append(out, r)
		}
	}

	return string(out)
}
