package formatter

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "whitespace only", in: " \n\t\n ", want: ""},
		{name: "plain", in: "hello", want: "hello"},
		{name: "bold and blank lines", in: "**hi** there\n\n\n\nfriend", want: "hi there\n\nfriend"},
		{name: "bullets", in: "* one\n- two\n+ three\n• four", want: "one\ntwo\nthree\nfour"},
		{name: "italic underscore", in: "this is _very_ nice", want: "this is very nice"},
		{name: "emphasis at end", in: "say __goodbye__", want: "say goodbye"},
		{name: "emphasis inside word kept", in: "snake_case_name stays", want: "snake_case_name stays"},
		{name: "unclosed emphasis kept", in: "a **b c", want: "a **b c"},
		{name: "triple markers kept", in: "x ***y*** z", want: "x ***y*** z"},
		{name: "paragraph trimming", in: "  first  \n\n   second\n\n\n\n\n  third ", want: "first\n\nsecond\n\nthird"},
		{name: "marker eats following blank lines", in: "-\n\n- item", want: "item"},
		{name: "stacked bullets", in: "- - * + x\n- - y", want: "x\ny"},
		{name: "single newline kept", in: "line one\nline two", want: "line one\nline two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.in))
		})
	}
}

func TestFormat_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"**hi** there\n\n\n\nfriend",
		"\n_-a_ b",
		"* *x*",
		"_*_ _",
		"- **bold** item\n\n\n* _it_\n\n  \n\ntext",
		"**a**b *c* __d__",
	}

	alphabet := []rune("*_-+• \n\tab")
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		n := rng.Intn(24)
		rs := make([]rune, n)
		for j := range rs {
			rs[j] = alphabet[rng.Intn(len(alphabet))]
		}
		inputs = append(inputs, string(rs))
	}

	for _, in := range inputs {
		once := Format(in)
		assert.Equal(t, once, Format(once), "input %q", in)
	}
}

func TestFormat_InvalidUTF8(t *testing.T) {
	assert.NotPanics(t, func() {
		Format("\xff\xfe **x** \xff")
	})
}

func TestFormat_LargeInputIsLinear(t *testing.T) {
	inputs := map[string]string{
		"stacked bullets":   strings.Repeat("- ", 32<<10) + "x",
		"bullet lines":      strings.Repeat("-\n", 32<<10) + "x",
		"emphasis pairs":    strings.Repeat("_ ", 32<<10) + "x",
		"emphasized bullet": strings.Repeat("_-a_ b ", 8<<10),
	}

	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			start := time.Now()
			out := Format(in)
			assert.Less(t, time.Since(start), 2*time.Second)
			assert.Equal(t, out, Format(out))
		})
	}

	assert.Equal(t, "x", Format(inputs["stacked bullets"]))
}
