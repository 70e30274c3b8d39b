package core_test

import (
	"errors"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/jirutka/argp/internal/core"
)

// --- Option parsing ---

type sendCmd struct {
	Msg *string `argp:"option,short=m" help:"message to send"`
}

func (*sendCmd) Description() string { return "Send a message." }

type renamedCmd struct {
	Msg *string `argp:"option,long=my-msg" help:"message to send"`
}

func (*renamedCmd) Description() string { return "Send a message." }

type pairCmd struct {
	From *string `argp:"option" help:"sender"`
	To   *string `argp:"option" help:"recipient"`
}

func (*pairCmd) Description() string { return "Route a message." }

type tagCmd struct {
	Tag []string `argp:"option,short=t" help:"tag to attach"`
}

func (*tagCmd) Description() string { return "Attach tags." }

type countCmd struct {
	N *int `argp:"option,short=n" help:"how many"`
}

func (*countCmd) Description() string { return "Count things." }

func TestOptions(t *testing.T) {
	t.Parallel()

	t.Run("LongForm", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		var cmd sendCmd

		g.Expect(core.Parse(&cmd, []string{"test"}, []string{"--msg", "hello"})).To(Succeed())
		g.Expect(cmd.Msg).To(HaveValue(Equal("hello")))
	})

	t.Run("ShortForm", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		var cmd sendCmd

		g.Expect(core.Parse(&cmd, []string{"test"}, []string{"-m", "hello"})).To(Succeed())
		g.Expect(cmd.Msg).To(HaveValue(Equal("hello")))
	})

	t.Run("CustomLongName", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		var cmd renamedCmd

		g.Expect(core.Parse(&cmd, []string{"test"}, []string{"--my-msg", "hello"})).To(Succeed())
		g.Expect(cmd.Msg).To(HaveValue(Equal("hello")))

		var other renamedCmd

		err := core.Parse(&other, []string{"test"}, []string{"--msg", "hello"})
		g.Expect(err).To(MatchError("Unrecognized argument: --msg"))
	})

	t.Run("TwoOptions", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		var cmd pairCmd

		g.Expect(core.Parse(&cmd, []string{"test"}, []string{"--from", "a", "--to", "b"})).To(Succeed())
		g.Expect(cmd.From).To(HaveValue(Equal("a")))
		g.Expect(cmd.To).To(HaveValue(Equal("b")))
	})

	t.Run("RepeatingPreservesOrder", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		var cmd tagCmd

		g.Expect(core.Parse(&cmd, []string{"test"}, []string{"-t", "a", "--tag", "b", "-t", "c"})).To(Succeed())
		g.Expect(cmd.Tag).To(Equal([]string{"a", "b", "c"}))
	})

	t.Run("DuplicateScalar", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		var cmd sendCmd

		err := core.Parse(&cmd, []string{"test"}, []string{"--msg", "a", "-m", "b"})
		g.Expect(err).To(MatchError("duplicate values provided"))

		var dup *core.DuplicateOptionError

		g.Expect(errors.As(err, &dup)).To(BeTrue())
		g.Expect(dup.Option).To(Equal("-m"))
	})

	t.Run("MissingValue", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		var cmd sendCmd

		err := core.Parse(&cmd, []string{"test"}, []string{"--msg"})
		g.Expect(err).To(MatchError("No value provided for option '--msg'."))
	})

	t.Run("ValueConsumesAnyToken", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		var cmd sendCmd

		g.Expect(core.Parse(&cmd, []string{"test"}, []string{"--msg", "--rm"})).To(Succeed())
		g.Expect(cmd.Msg).To(HaveValue(Equal("--rm")))
	})

	t.Run("NegativeNumberValue", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		var cmd countCmd

		g.Expect(core.Parse(&cmd, []string{"test"}, []string{"-n", "-5"})).To(Succeed())
		g.Expect(cmd.N).To(HaveValue(Equal(-5)))
	})

	t.Run("UnknownOption", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		var cmd sendCmd

		err := core.Parse(&cmd, []string{"test"}, []string{"--nope"})
		g.Expect(err).To(MatchError("Unrecognized argument: --nope"))
	})

	t.Run("BareDash", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		var cmd sendCmd

		err := core.Parse(&cmd, []string{"test"}, []string{"-"})
		g.Expect(err).To(MatchError("Unrecognized argument: -"))
	})

	t.Run("ValueParseError", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		var cmd countCmd

		err := core.Parse(&cmd, []string{"test"}, []string{"-n", "x"})
		g.Expect(err).To(MatchError("Error parsing argument '-n' with value 'x': invalid syntax"))

		var parseErr *core.ParseValueError

		g.Expect(errors.As(err, &parseErr)).To(BeTrue())
		g.Expect(parseErr.Arg).To(Equal("-n"))
		g.Expect(parseErr.Value).To(Equal("x"))
	})

	t.Run("TokensAfterDoubleDashAreNotOptions", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		var cmd sendCmd

		err := core.Parse(&cmd, []string{"test"}, []string{"--", "--msg"})
		g.Expect(err).To(MatchError("Unrecognized argument: --msg"))
	})
}

// --- Switch parsing ---

type toolSwitches struct {
	Verbose bool  `argp:"switch,short=v" help:"say more"`
	Force   *bool `argp:"switch,short=f" help:"ignore minor errors"`
	Level   int   `argp:"switch,short=l" help:"raise the level"`
}

func (*toolSwitches) Description() string { return "Run the tool." }

type tinyCounter struct {
	C int8 `argp:"switch,short=c" help:"count"`
}

func (*tinyCounter) Description() string { return "Count." }

type bundleCmd struct {
	Verbose bool    `argp:"switch,short=v" help:"say more"`
	Msg     *string `argp:"option,short=m" help:"message"`
}

func (*bundleCmd) Description() string { return "Send with flags." }

func TestSwitches(t *testing.T) {
	t.Parallel()

	t.Run("BoolLatches", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		var cmd toolSwitches

		g.Expect(core.Parse(&cmd, []string{"test"}, []string{"-v"})).To(Succeed())
		g.Expect(cmd.Verbose).To(BeTrue())
		g.Expect(cmd.Force).To(BeNil())
	})

	t.Run("OptionalBoolLatches", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		var cmd toolSwitches

		g.Expect(core.Parse(&cmd, []string{"test"}, []string{"--force"})).To(Succeed())
		g.Expect(cmd.Force).To(HaveValue(BeTrue()))
	})

	t.Run("IntegerCounts", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		var cmd toolSwitches

		g.Expect(core.Parse(&cmd, []string{"test"}, []string{"-l", "--level", "-l"})).To(Succeed())
		g.Expect(cmd.Level).To(Equal(3))
	})

	t.Run("CountingSaturates", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		var cmd tinyCounter

		args := make([]string, 130)
		for i := range args {
			args[i] = "-c"
		}

		g.Expect(core.Parse(&cmd, []string{"test"}, args)).To(Succeed())
		g.Expect(cmd.C).To(Equal(int8(127)))
	})

	t.Run("RepeatedBoolStaysTrue", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		var cmd toolSwitches

		g.Expect(core.Parse(&cmd, []string{"test"}, []string{"-v", "-v"})).To(Succeed())
		g.Expect(cmd.Verbose).To(BeTrue())
	})

	t.Run("Bundled", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		var cmd toolSwitches

		g.Expect(core.Parse(&cmd, []string{"test"}, []string{"-vf"})).To(Succeed())
		g.Expect(cmd.Verbose).To(BeTrue())
		g.Expect(cmd.Force).To(HaveValue(BeTrue()))
	})

	t.Run("BundledFinalTakesValue", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		var cmd bundleCmd

		g.Expect(core.Parse(&cmd, []string{"test"}, []string{"-vm", "hello"})).To(Succeed())
		g.Expect(cmd.Verbose).To(BeTrue())
		g.Expect(cmd.Msg).To(HaveValue(Equal("hello")))
	})

	t.Run("BundledValueOptionMustBeLast", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		var cmd bundleCmd

		err := core.Parse(&cmd, []string{"test"}, []string{"-mv", "hello"})
		g.Expect(err).To(MatchError("No value provided for option '-m'."))
	})

	t.Run("BundledUnknownShort", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		var cmd toolSwitches

		err := core.Parse(&cmd, []string{"test"}, []string{"-vx"})
		g.Expect(err).To(MatchError("Unrecognized argument: -x"))
	})
}

// --- Destination validation ---

func TestParse_RejectsBadDestinations(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	err := core.Parse(42, []string{"test"}, nil)
	g.Expect(err).To(MatchError(core.ErrInvalidSchema))

	var cmd sendCmd

	err = core.Parse(cmd, []string{"test"}, nil)
	g.Expect(err).To(MatchError(core.ErrInvalidSchema))
	g.Expect(err.Error()).To(ContainSubstring("struct pointer"))
}
