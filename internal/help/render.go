// Package help rendering functions.
// This file lays out one help page: usage, description, aligned tables and
// footer, deterministically for a given width.

package help

import (
	"slices"
	"strings"
	"unicode/utf8"
)

const (
	indent        = "  "
	descMinIndent = 8
	descMaxIndent = 30
)

// helpRow is appended to every Options table.
var helpRow = Row{
	Names:       "-h, --help",
	Description: "Show this help message and exit.",
}

// Render produces the complete help page for cmd. Alignment and wrapping
// count runes, not bytes, and the result ends with exactly one newline.
func Render(cmd Command, style *Style) string {
	width := style.wrapWidth()
	name := strings.Join(cmd.Path, " ")

	var b strings.Builder

	writeUsage(&b, style, name, usageWords(cmd), width)

	b.WriteString("\n\n")
	b.WriteString(wrapText(substituteName(cmd.Description, name), width))

	options := append(slices.Clone(cmd.Options), helpRow)
	col := descColumn(cmd.Positionals, options, cmd.Commands)

	writeRowSection(&b, style, "Arguments:", cmd.Positionals, col, width)
	writeRowSection(&b, style, "Options:", options, col, width)
	writeCommandSection(&b, style, cmd.Commands, col, width)

	if cmd.Footer != "" {
		b.WriteString("\n\n")
		b.WriteString(wrapText(substituteName(cmd.Footer, name), width))
	}

	b.WriteByte('\n')

	return b.String()
}

func substituteName(text, name string) string {
	return strings.ReplaceAll(text, "{command_name}", name)
}

// usageWords flattens the usage fragments into wrappable words: options
// first, then positionals, then the subcommand group.
func usageWords(cmd Command) []string {
	var words []string

	add := func(fragment string) {
		if fragment != "" {
			words = append(words, strings.Split(fragment, " ")...)
		}
	}

	for _, row := range cmd.Options {
		add(row.Usage)
	}

	for _, row := range cmd.Positionals {
		add(row.Usage)
	}

	add(cmd.CommandsUsage)

	return words
}

// writeUsage emits the usage line, wrapping overflow words onto continuation
// lines aligned one column past the command path.
func writeUsage(b *strings.Builder, style *Style, name string, words []string, width int) {
	head := "Usage: " + name
	hang := utf8.RuneCountInString(head) + 1

	b.WriteString(style.usageLabel("Usage:"))
	b.WriteString(" " + name)

	lineLen := utf8.RuneCountInString(head)

	for _, word := range words {
		wordLen := utf8.RuneCountInString(word)

		if lineLen+wordLen+1 > width {
			b.WriteByte('\n')
			b.WriteString(strings.Repeat(" ", hang))
			b.WriteString(word)

			lineLen = hang + wordLen

			continue
		}

		b.WriteString(" " + word)

		lineLen += wordLen + 1
	}
}

// wrapText wraps each input line at width, preserving existing newlines.
// Lines that already fit pass through verbatim, leading whitespace included.
func wrapText(text string, width int) string {
	lines := strings.Split(text, "\n")

	var out []string

	for _, line := range lines {
		if utf8.RuneCountInString(line) <= width {
			out = append(out, line)
			continue
		}

		out = append(out, wrapWords(line, width)...)
	}

	return strings.Join(out, "\n")
}

// wrapWords greedily packs space-separated words into lines of at most width
// runes; a single word longer than width stays unbroken.
func wrapWords(line string, width int) []string {
	words := strings.Split(line, " ")

	var out []string

	cur := words[0]
	curLen := utf8.RuneCountInString(cur)

	for _, word := range words[1:] {
		wordLen := utf8.RuneCountInString(word)

		if curLen+wordLen+1 > width {
			out = append(out, cur)
			cur, curLen = word, wordLen

			continue
		}

		cur += " " + word
		curLen += wordLen + 1
	}

	return append(out, cur)
}

// descColumn aligns every table row on one description column: two leading
// spaces, the widest participating name, two trailing spaces. Names wider
// than the cap stay out of the vote and spill their description instead.
func descColumn(positionals, options []Row, commands []CommandRow) int {
	col := descMinIndent

	vote := func(name string) {
		w := 2 + utf8.RuneCountInString(name) + 2
		if w <= descMaxIndent && w > col {
			col = w
		}
	}

	for _, row := range positionals {
		vote(row.Names)
	}

	for _, row := range options {
		vote(row.Names)
	}

	for _, row := range commands {
		vote(row.Name)
	}

	return col
}

func writeRowSection(b *strings.Builder, style *Style, title string, rows []Row, col, width int) {
	first := true

	for _, row := range rows {
		if row.Names == "" {
			continue
		}

		if first {
			b.WriteString("\n\n")
			b.WriteString(style.heading(title))

			first = false
		}

		writeRow(b, row.Names, row.Description, col, width)
	}
}

func writeCommandSection(b *strings.Builder, style *Style, commands []CommandRow, col, width int) {
	if len(commands) == 0 {
		return
	}

	b.WriteString("\n\n")
	b.WriteString(style.heading("Commands:"))

	for _, c := range commands {
		writeRow(b, c.Name, c.Description, col, width)
	}
}

// writeRow emits one table row. A description that fits starts in the shared
// column; names reaching into that column push it onto the next line. Every
// continuation line restarts at the column.
func writeRow(b *strings.Builder, names, desc string, col, width int) {
	line := indent + names

	if desc == "" {
		b.WriteByte('\n')
		b.WriteString(line)

		return
	}

	if utf8.RuneCountInString(line) >= col {
		b.WriteByte('\n')
		b.WriteString(line)

		line = ""
	}

	words := strings.Split(desc, " ")

	w := 0
	for w < len(words) {
		if n := utf8.RuneCountInString(line); n < col {
			line += strings.Repeat(" ", col-n)
		}

		line += words[w]
		w++

		for w < len(words) {
			if utf8.RuneCountInString(line)+utf8.RuneCountInString(words[w])+1 > width {
				b.WriteByte('\n')
				b.WriteString(line)

				line = ""

				break
			}

			line += " " + words[w]
			w++
		}
	}

	b.WriteByte('\n')
	b.WriteString(line)
}
