package syntax_test

import (
	"testing"

	"github.com/rcarmo/gosh/pkg/syntax"
)

func readWords(t *testing.T, src string, mode syntax.LexMode) []syntax.Word {
	t.Helper()
	lex := syntax.NewLexer(src)
	var words []syntax.Word
	for {
		w, err := lex.ReadWord(mode)
		if err != nil {
			t.Fatalf("ReadWord(%q): %v", src, err)
		}
		if syntax.BoolId(w) == syntax.IdEOF {
			return words
		}
		words = append(words, w)
	}
}

func TestLexerDBracketOperators(t *testing.T) {
	words := readWords(t, "a == b && -z c ]]", syntax.ModeDBracket)
	wantIds := []syntax.Id{
		syntax.IdWord,
		syntax.IdBoolBinaryDEqual,
		syntax.IdWord,
		syntax.IdDAmp,
		syntax.IdBoolUnaryZ,
		syntax.IdWord,
		syntax.IdDRightBracket,
	}
	if len(words) != len(wantIds) {
		t.Fatalf("got %d words, want %d", len(words), len(wantIds))
	}
	for i, want := range wantIds {
		if got := syntax.BoolId(words[i]); got != want {
			t.Errorf("word %d: BoolId = %v, want %v", i, got, want)
		}
	}
}

func TestLexerModeSuppliedPerCall(t *testing.T) {
	// The same engine lexes the operator in one mode and the regex in
	// another; the caller switches modes between calls.
	lex := syntax.NewLexer("=~ a+(b|c) ]]")
	op, err := lex.ReadWord(syntax.ModeDBracket)
	if err != nil {
		t.Fatal(err)
	}
	if syntax.BoolId(op) != syntax.IdBoolBinaryEqualTilde {
		t.Fatalf("operator id = %v", syntax.BoolId(op))
	}
	rhs, err := lex.ReadWord(syntax.ModeBashRegex)
	if err != nil {
		t.Fatal(err)
	}
	if ok, s := syntax.StaticEval(rhs); !ok || s != "a+(b|c)" {
		t.Errorf("regex word = %q (static=%v), want a+(b|c)", s, ok)
	}
	end, err := lex.ReadWord(syntax.ModeDBracket)
	if err != nil {
		t.Fatal(err)
	}
	if syntax.BoolId(end) != syntax.IdDRightBracket {
		t.Errorf("sentinel id = %v", syntax.BoolId(end))
	}
}

func TestLexerQuoting(t *testing.T) {
	words := readWords(t, `'single' "double $x" plain\ escaped`, syntax.ModeDefault)
	if len(words) != 3 {
		t.Fatalf("got %d words, want 3", len(words))
	}
	if ok, s := syntax.StaticEval(words[0]); !ok || s != "single" {
		t.Errorf("single-quoted = %q, static=%v", s, ok)
	}
	if ok, _ := syntax.StaticEval(words[1]); ok {
		t.Error("word with substitution should not evaluate statically")
	}
	if ok, s := syntax.StaticEval(words[2]); !ok || s != "plain escaped" {
		t.Errorf("escaped word = %q, static=%v", s, ok)
	}
}

func TestLexerQuotedOperatorIsOperand(t *testing.T) {
	// In [[ mode a quoted -z is an operand, never an operator.
	words := readWords(t, `"-z" ]]`, syntax.ModeDBracket)
	if got := syntax.BoolId(words[0]); got != syntax.IdWord {
		t.Errorf(`BoolId("-z" quoted) = %v, want IdWord`, got)
	}
	// Unquoted it classifies as the unary operator.
	words = readWords(t, `-z ]]`, syntax.ModeDBracket)
	if got := syntax.BoolId(words[0]); got != syntax.IdBoolUnaryZ {
		t.Errorf("BoolId(-z) = %v, want IdBoolUnaryZ", got)
	}
}

func TestLexerSubstLexing(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "simple_var", src: "$foo"},
		{name: "braced", src: "${foo:-bar}"},
		{name: "command_sub", src: "$(ls -l)"},
		{name: "special_param", src: "$?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			words := readWords(t, tt.src, syntax.ModeDefault)
			if len(words) != 1 {
				t.Fatalf("got %d words, want 1", len(words))
			}
			if ok, _ := syntax.StaticEval(words[0]); ok {
				t.Errorf("substitution %q should not be static", tt.src)
			}
		})
	}
}

func TestLexerNewlinesAndComments(t *testing.T) {
	words := readWords(t, "a # trailing comment\nb", syntax.ModeDefault)
	var ids []syntax.Id
	for _, w := range words {
		ids = append(ids, syntax.BoolId(w))
	}
	want := []syntax.Id{syntax.IdWord, syntax.IdNewline, syntax.IdWord}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}
}

func TestLexerUnterminatedQuote(t *testing.T) {
	lex := syntax.NewLexer("'oops")
	if _, err := lex.ReadWord(syntax.ModeDefault); err == nil {
		t.Error("expected error for unterminated quote")
	}
}
