package syntax

import "strings"

// WordPart is one lexical piece of a word: a literal run, an escape
// sequence, a quoted region, or a substitution placeholder.
type WordPart interface {
	Span() Span
	partNode()
}

// LiteralPart is an unquoted literal run.
type LiteralPart struct {
	Tok Token
}

// EscapedPart is a backslash escape; Tok.Text includes the backslash.
type EscapedPart struct {
	Tok Token
}

// SingleQuotedPart is a '...' region; Tok.Text excludes the quotes.
type SingleQuotedPart struct {
	Tok Token
}

// DoubleQuotedPart is a "..." region containing literal, escaped and
// substitution sub-parts.
type DoubleQuotedPart struct {
	Parts []WordPart
	Rng   Span
}

// SubstPart is an unexpanded $name, ${...} or $(...) placeholder.
// Expansion is performed elsewhere; the front end only records it.
type SubstPart struct {
	Tok Token
}

func (p LiteralPart) Span() Span      { return p.Tok.Span }
func (p EscapedPart) Span() Span      { return p.Tok.Span }
func (p SingleQuotedPart) Span() Span { return p.Tok.Span }
func (p DoubleQuotedPart) Span() Span { return p.Rng }
func (p SubstPart) Span() Span        { return p.Tok.Span }

func (LiteralPart) partNode()      {}
func (EscapedPart) partNode()      {}
func (SingleQuotedPart) partNode() {}
func (DoubleQuotedPart) partNode() {}
func (SubstPart) partNode()        {}

// Word is an ordered sequence of parts forming one shell word.
// Words are created during parsing and never mutated afterwards.
type Word struct {
	Parts []WordPart
}

// LiteralWord wraps a plain string as a single-part word. Used by the argv
// word reader that feeds the test/[ builtin.
func LiteralWord(s string, span Span) Word {
	return Word{Parts: []WordPart{LiteralPart{Tok: Token{Id: IdWord, Text: s, Span: span}}}}
}

func eofWord(pos int) Word {
	return Word{Parts: []WordPart{LiteralPart{Tok: Token{Id: IdEOF, Span: Span{Begin: pos, End: pos}}}}}
}

// Span returns the source range covered by the word.
func (w Word) Span() Span {
	if len(w.Parts) == 0 {
		return Span{}
	}
	first := w.Parts[0].Span()
	last := w.Parts[len(w.Parts)-1].Span()
	return Span{Begin: first.Begin, End: last.End}
}

// BoolId classifies a word's role in a boolean expression. The identity is
// derived on demand from the word's first/only part, never stored.
//
// A word that is a single unquoted literal may be an operator; anything
// quoted or multi-part is always an operand.
func BoolId(w Word) Id {
	if len(w.Parts) != 1 {
		return IdWord
	}
	lit, ok := w.Parts[0].(LiteralPart)
	if !ok {
		return IdWord
	}
	if lit.Tok.Id != IdWord && lit.Tok.Id != IdLit {
		// The lexer already classified it (operator or EOF).
		return lit.Tok.Id
	}
	if id, ok := boolOps[lit.Tok.Text]; ok {
		return id
	}
	return IdWord
}

// StaticEval evaluates a word that contains no substitutions. It reports
// ok=false when the word's value cannot be known before expansion.
func StaticEval(w Word) (ok bool, s string) {
	var b strings.Builder
	if !staticEvalParts(w.Parts, &b) {
		return false, ""
	}
	return true, b.String()
}

func staticEvalParts(parts []WordPart, b *strings.Builder) bool {
	for _, p := range parts {
		switch p := p.(type) {
		case LiteralPart:
			b.WriteString(p.Tok.Text)
		case EscapedPart:
			b.WriteString(strings.TrimPrefix(p.Tok.Text, `\`))
		case SingleQuotedPart:
			b.WriteString(p.Tok.Text)
		case DoubleQuotedPart:
			if !staticEvalParts(p.Parts, b) {
				return false
			}
		case SubstPart:
			return false
		}
	}
	return true
}
