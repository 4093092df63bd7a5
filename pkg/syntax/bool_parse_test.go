package syntax_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/rcarmo/gosh/pkg/syntax"
)

// fmtExpr renders an AST as a compact s-expression for structural checks.
func fmtExpr(e syntax.BoolExpr) string {
	switch e := e.(type) {
	case syntax.BoolNot:
		return fmt.Sprintf("(not %s)", fmtExpr(e.X))
	case syntax.BoolAnd:
		return fmt.Sprintf("(and %s %s)", fmtExpr(e.L), fmtExpr(e.R))
	case syntax.BoolOr:
		return fmt.Sprintf("(or %s %s)", fmtExpr(e.L), fmtExpr(e.R))
	case syntax.BoolUnary:
		return fmt.Sprintf("(unary %s)", fmtWord(e.X))
	case syntax.BoolBinary:
		return fmt.Sprintf("(binary %s %s)", fmtWord(e.L), fmtWord(e.R))
	case syntax.BoolWordTest:
		return fmt.Sprintf("(word %s)", fmtWord(e.W))
	default:
		return "?"
	}
}

func fmtWord(w syntax.Word) string {
	if ok, s := syntax.StaticEval(w); ok {
		return s
	}
	return "<dynamic>"
}

func parseBracket(t *testing.T, src string) (syntax.BoolExpr, error) {
	t.Helper()
	p := syntax.NewBoolParser(syntax.NewLexer(src))
	return p.ParseBracket()
}

func parseTest(t *testing.T, args ...string) (syntax.BoolExpr, error) {
	t.Helper()
	p := syntax.NewBoolParser(syntax.NewArgvReader(args))
	return p.ParseTest()
}

func TestBracketPrecedence(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "and_binds_tighter", src: "a && b || c ]]", want: "(or (and (word a) (word b)) (word c))"},
		{name: "not_binds_factor", src: "! a && b ]]", want: "(and (not (word a)) (word b))"},
		{name: "or_right_assoc", src: "a || b || c ]]", want: "(or (word a) (or (word b) (word c)))"},
		{name: "and_right_assoc", src: "a && b && c ]]", want: "(and (word a) (and (word b) (word c)))"},
		{name: "unary", src: "-z a ]]", want: "(unary a)"},
		{name: "binary_equal", src: "a == b ]]", want: "(binary a b)"},
		{name: "binary_numeric", src: "1 -lt 2 ]]", want: "(binary 1 2)"},
		{name: "redir_pun_less", src: "a < b ]]", want: "(binary a b)"},
		{name: "bare_word", src: "a ]]", want: "(word a)"},
		{name: "parens", src: "( a || b ) && c ]]", want: "(and (or (word a) (word b)) (word c))"},
		{name: "leading_newlines", src: "\n\n a ]]", want: "(word a)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := parseBracket(t, tt.src)
			if err != nil {
				t.Fatalf("parse %q: %v", tt.src, err)
			}
			if got := fmtExpr(node); got != tt.want {
				t.Errorf("parse %q = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestParenRoundTrip(t *testing.T) {
	// Parsing (expr) yields a tree structurally identical to parsing expr.
	plain, err := parseBracket(t, "a == b && c ]]")
	if err != nil {
		t.Fatal(err)
	}
	wrapped, err := parseBracket(t, "( a == b && c ) ]]")
	if err != nil {
		t.Fatal(err)
	}
	if fmtExpr(plain) != fmtExpr(wrapped) {
		t.Errorf("wrapped = %s, plain = %s", fmtExpr(wrapped), fmtExpr(plain))
	}
}

func TestBracketErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantSub string
	}{
		{name: "missing_sentinel", src: "a == b", wantSub: "expected ]]"},
		{name: "trailing_word", src: "a == b c ]]", wantSub: "expected ]]"},
		{name: "unclosed_paren", src: "( a ]]", wantSub: "expected )"},
		{name: "dangling_op", src: "&& a ]]", wantSub: "unexpected token"},
		{name: "dangling_rhs", src: "a == ]]", wantSub: "expected operand after binary operator"},
		{name: "dangling_rhs_at_eof", src: "a ==", wantSub: "expected operand after binary operator"},
		{name: "bad_regex_literal", src: "x =~ *bad ]]", wantSub: "error parsing regex"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseBracket(t, tt.src)
			if err == nil {
				t.Fatalf("parse %q: expected error", tt.src)
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("parse %q error = %q, want substring %q", tt.src, err, tt.wantSub)
			}
			var pe *syntax.ParseError
			if !errorsAs(err, &pe) {
				t.Errorf("parse %q error is %T, want *ParseError", tt.src, err)
			}
		})
	}
}

func errorsAs(err error, target **syntax.ParseError) bool {
	pe, ok := err.(*syntax.ParseError)
	if ok {
		*target = pe
	}
	return ok
}

func TestRegexValidation(t *testing.T) {
	// A statically known pattern is validated at parse time.
	if _, err := parseBracket(t, "x =~ ^ab[0-9]+$ ]]"); err != nil {
		t.Errorf("valid regex rejected: %v", err)
	}
	// A dynamic pattern defers validation to evaluation.
	if _, err := parseBracket(t, "x =~ $pat ]]"); err != nil {
		t.Errorf("dynamic regex should not be validated at parse time: %v", err)
	}
	// Regex mode admits characters that are operators elsewhere.
	node, err := parseBracket(t, "x =~ (a|b)+ ]]")
	if err != nil {
		t.Fatalf("regex with group: %v", err)
	}
	bin, ok := node.(syntax.BoolBinary)
	if !ok {
		t.Fatalf("node = %T, want BoolBinary", node)
	}
	if _, pat := syntax.StaticEval(bin.R); pat != "(a|b)+" {
		t.Errorf("pattern = %q, want %q", pat, "(a|b)+")
	}
}

func TestParseTestBuiltinMode(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "dash_a_is_and", args: []string{"a", "-a", "b"}, want: "(and (word a) (word b))"},
		{name: "dash_o_is_or", args: []string{"a", "-o", "b"}, want: "(or (word a) (word b))"},
		{name: "mixed_precedence", args: []string{"a", "-a", "b", "-o", "c"}, want: "(or (and (word a) (word b)) (word c))"},
		{name: "unary_z", args: []string{"-z", ""}, want: "(unary )"},
		{name: "binary_eq", args: []string{"1", "-eq", "1"}, want: "(binary 1 1)"},
		{name: "negation", args: []string{"!", "x"}, want: "(not (word x))"},
		{name: "parens", args: []string{"(", "a", "-o", "b", ")"}, want: "(or (word a) (word b))"},
		{name: "quoted_operator_is_operator", args: []string{"-z", "x"}, want: "(unary x)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := parseTest(t, tt.args...)
			if err != nil {
				t.Fatalf("parse %v: %v", tt.args, err)
			}
			if got := fmtExpr(node); got != tt.want {
				t.Errorf("parse %v = %s, want %s", tt.args, got, tt.want)
			}
		})
	}
}

func TestParseTestTrailing(t *testing.T) {
	_, err := parseTest(t, "a", "==", "b", "junk")
	if err == nil {
		t.Fatal("expected trailing-word error")
	}
	if !strings.Contains(err.Error(), "junk") {
		t.Errorf("error should name the offending word, got %q", err)
	}
}
