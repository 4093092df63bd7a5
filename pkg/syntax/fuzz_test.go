package syntax_test

import (
	"testing"

	"github.com/rcarmo/gosh/pkg/syntax"
	"github.com/rcarmo/gosh/pkg/testutil"
)

func FuzzReadWord(f *testing.F) {
	f.Add(`echo "hello $name" 'lit' \$x`)
	f.Add(`[[ -f /tmp/x && ( a == b || ! -z "$y" ) ]]`)
	f.Add("a=$(cmd) ${var} $1 $? $@")
	f.Add("'unterminated")
	f.Add(`"unterminated $x`)
	f.Add("")
	if testing.Short() {
		f.Skip("fuzzing skipped in short mode")
	}
	f.Fuzz(func(t *testing.T, input string) {
		input = testutil.ClampString(input, testutil.MaxFuzzBytes)
		lx := syntax.NewLexer(input)
		for i := 0; i < testutil.MaxFuzzBytes+1; i++ {
			w, err := lx.ReadWord(syntax.ModeDefault)
			if err != nil {
				return
			}
			id := syntax.BoolId(w)
			if id == syntax.IdEOF {
				return
			}
			sp := w.Span()
			if id != syntax.IdNewline && (sp.Begin < 0 || sp.End > len(input) || sp.Begin > sp.End) {
				t.Fatalf("word span [%d,%d) outside input of length %d", sp.Begin, sp.End, len(input))
			}
		}
		t.Fatal("lexer did not reach EOF")
	})
}

func FuzzParseBracket(f *testing.F) {
	f.Add("-f x ]]")
	f.Add(`a == b && c != d ]]`)
	f.Add("( -z x ) || ! -n y ]]")
	f.Add("]]")
	f.Add("a =~ ^[0-9]+$ ]]")
	if testing.Short() {
		f.Skip("fuzzing skipped in short mode")
	}
	f.Fuzz(func(t *testing.T, input string) {
		input = testutil.ClampString(input, testutil.MaxFuzzBytes)
		lx := syntax.NewLexer(input)
		p := syntax.NewBoolParser(lx)
		// Any outcome is fine as long as the parser terminates and
		// reports malformed input as *ParseError, never a panic.
		if _, err := p.ParseBracket(); err != nil {
			if _, ok := err.(*syntax.ParseError); !ok {
				t.Fatalf("unexpected error type %T: %v", err, err)
			}
		}
	})
}
