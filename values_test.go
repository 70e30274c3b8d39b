package argp_test

import (
	"testing"
	"testing/fstest"

	. "github.com/onsi/gomega"

	"github.com/jirutka/argp"
)

type pickTool struct {
	Only *argp.Glob `argp:"option"`
}

func (pickTool) Description() string { return "Picks files." }

func TestGlob(t *testing.T) {
	t.Parallel()

	t.Run("MatchesWithinOneSegment", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		pattern := argp.Glob("*.go")
		g.Expect(pattern.Match("main.go")).To(BeTrue())
		g.Expect(pattern.Match("pkg/main.go")).To(BeFalse())
		g.Expect(pattern.String()).To(Equal("*.go"))
	})

	t.Run("DoubleStarCrossesSegments", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		pattern := argp.Glob("**/*.go")
		g.Expect(pattern.Match("a.go")).To(BeTrue())
		g.Expect(pattern.Match("pkg/inner/d.go")).To(BeTrue())
		g.Expect(pattern.Match("pkg/inner/d.txt")).To(BeFalse())
	})

	t.Run("AlternativesMatchAnyBranch", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		pattern := argp.Glob("{cmd,pkg}/*.go")
		g.Expect(pattern.Match("cmd/x.go")).To(BeTrue())
		g.Expect(pattern.Match("pkg/x.go")).To(BeTrue())
		g.Expect(pattern.Match("docs/x.go")).To(BeFalse())
	})

	t.Run("RejectsMalformedPatterns", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		var pattern argp.Glob

		err := pattern.FromArgValue("[")
		g.Expect(err).To(MatchError(`invalid glob pattern "["`))
	})

	t.Run("ExpandsSorted", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		fsys := fstest.MapFS{
			"pkg/b.go":  &fstest.MapFile{},
			"a.go":      &fstest.MapFile{},
			"pkg/a.go":  &fstest.MapFile{},
			"pkg/c.txt": &fstest.MapFile{},
		}

		names, err := argp.Glob("**/*.go").Expand(fsys)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(names).To(Equal([]string{"a.go", "pkg/a.go", "pkg/b.go"}))
	})

	t.Run("ParsesAsAnOptionValue", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		got, err := argp.Parse[pickTool]([]string{"pick"}, []string{"--only", "*.txt"})
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(got.Only).NotTo(BeNil())
		g.Expect(*got.Only).To(Equal(argp.Glob("*.txt")))
	})

	t.Run("ReportsBadPatternsAsParseErrors", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		_, err := argp.Parse[pickTool]([]string{"pick"}, []string{"--only", "["})
		g.Expect(err).To(MatchError(`Error parsing argument '--only' with value '[': invalid glob pattern "["`))
	})
}
