package syntax

import (
	"fmt"
	"regexp"
)

// WordReader supplies words to the boolean parser. The lexer implements it
// for [[ ... ]] at parse time; an argv-backed reader implements it for the
// test/[ builtin at run time.
type WordReader interface {
	ReadWord(mode LexMode) (Word, error)
}

// ParseError is a malformed construct, reported with the offending source
// range. Parsing of the current construct aborts; there is no recovery.
type ParseError struct {
	Msg  string
	Span Span
}

func (e *ParseError) Error() string { return e.Msg }

func parseErrf(w Word, format string, args ...any) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, args...), Span: w.Span()}
}

// BoolParser is a recursive-descent parser with two words of lookahead
// producing a BoolExpr from a stream of words.
//
// Grammar (right recursion keeps && and || right-associative):
//
//	Expr    : Term (OR Term)*
//	Term    : Negated (AND Negated)*
//	Negated : '!'? Factor
//	Factor  : UNARY_OP WORD
//	        | WORD BINARY_OP WORD
//	        | WORD
//	        | '(' Expr ')'
//
// OR is || in [[ mode and -o in test mode; AND is && and -a. The grammar is
// mode-agnostic; only token classification differs.
type BoolParser struct {
	r WordReader

	// One or two buffered words of lookahead. Never re-read from the
	// stream once buffered.
	words []Word

	cur  Word
	opId Id
	kind Kind
}

// NewBoolParser creates a parser reading from r.
func NewBoolParser(r WordReader) *BoolParser {
	return &BoolParser{r: r}
}

func (p *BoolParser) nextOne(mode LexMode) error {
	switch len(p.words) {
	case 2:
		p.words[0] = p.words[1]
		p.words = p.words[:1]
		p.cur = p.words[0]
	case 0, 1:
		w, err := p.r.ReadWord(mode)
		if err != nil {
			return err
		}
		if len(p.words) == 0 {
			p.words = append(p.words, w)
		} else {
			p.words[0] = w
		}
		p.cur = w
	}
	p.opId = BoolId(p.cur)
	p.kind = LookupKind(p.opId)
	return nil
}

// next advances to the next word, skipping newlines. Newlines are swallowed
// here rather than in the lexer so the newline after ]] stays visible to
// the surrounding command parser.
func (p *BoolParser) next(mode LexMode) error {
	for {
		if err := p.nextOne(mode); err != nil {
			return err
		}
		if p.opId != IdNewline {
			return nil
		}
	}
}

// lookAhead peeks one word past the current one, buffering it for the
// following next call.
func (p *BoolParser) lookAhead() (Word, error) {
	if len(p.words) != 1 {
		return Word{}, fmt.Errorf("bool parser: bad lookahead state (%d words)", len(p.words))
	}
	w, err := p.r.ReadWord(ModeDBracket)
	if err != nil {
		return Word{}, err
	}
	p.words = append(p.words, w)
	return w, nil
}

// ParseBracket parses a [[ ... ]] expression at compile time. The closing
// ]] sentinel is required; anything after a complete expression is an
// error.
func (p *BoolParser) ParseBracket() (BoolExpr, error) {
	if err := p.next(ModeDBracket); err != nil {
		return nil, err
	}
	node, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.opId != IdDRightBracket {
		return nil, parseErrf(p.cur, "expected ]], got %q", p.curText())
	}
	return node, nil
}

// ParseTest parses a test/[ expression at run time; the word stream must be
// exhausted by a complete expression.
func (p *BoolParser) ParseTest() (BoolExpr, error) {
	if err := p.next(ModeDBracket); err != nil {
		return nil, err
	}
	node, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.opId != IdEOF {
		return nil, parseErrf(p.cur, "unexpected trailing word %q in test expression", p.curText())
	}
	return node, nil
}

func (p *BoolParser) curText() string {
	ok, s := StaticEval(p.cur)
	if !ok {
		span := p.cur.Span()
		return fmt.Sprintf("<word at %d-%d>", span.Begin, span.End)
	}
	return s
}

// parseExpr handles Expr : Term (OR Expr)? by right recursion.
func (p *BoolParser) parseExpr() (BoolExpr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	// [[ uses || but [ uses -o.
	if p.opId == IdDPipe || p.opId == IdBoolUnaryO {
		if err := p.next(ModeDBracket); err != nil {
			return nil, err
		}
		right, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return BoolOr{L: left, R: right}, nil
	}
	return left, nil
}

// parseTerm handles Term : Negated (AND Term)? by right recursion.
func (p *BoolParser) parseTerm() (BoolExpr, error) {
	left, err := p.parseNegatedFactor()
	if err != nil {
		return nil, err
	}
	// [[ uses && but [ uses -a.
	if p.opId == IdDAmp || p.opId == IdBoolUnaryA {
		if err := p.next(ModeDBracket); err != nil {
			return nil, err
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		return BoolAnd{L: left, R: right}, nil
	}
	return left, nil
}

func (p *BoolParser) parseNegatedFactor() (BoolExpr, error) {
	if p.opId == IdBang {
		if err := p.next(ModeDBracket); err != nil {
			return nil, err
		}
		child, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return BoolNot{X: child}, nil
	}
	return p.parseFactor()
}

func (p *BoolParser) parseFactor() (BoolExpr, error) {
	if p.kind == KindBoolUnary {
		op := p.opId
		if err := p.next(ModeDBracket); err != nil {
			return nil, err
		}
		if p.kind != KindWord {
			return nil, parseErrf(p.cur, "expected operand after unary operator, got %q", p.curText())
		}
		w := p.cur
		if err := p.next(ModeDBracket); err != nil {
			return nil, err
		}
		return BoolUnary{Op: op, X: w}, nil
	}

	if p.kind == KindWord {
		// Disambiguation needs one word of lookahead past the current
		// word: a following binary or redirection-punned operator commits
		// to the binary form, anything else makes this a bare word test.
		t2, err := p.lookAhead()
		if err != nil {
			return nil, err
		}
		t2Kind := LookupKind(BoolId(t2))
		if t2Kind == KindBoolBinary || t2Kind == KindRedir {
			left := p.cur
			if err := p.next(ModeDBracket); err != nil {
				return nil, err
			}
			op := p.opId

			isRegex := op == IdBoolBinaryEqualTilde
			rhsMode := ModeDBracket
			if isRegex {
				rhsMode = ModeBashRegex
			}
			if err := p.next(rhsMode); err != nil {
				return nil, err
			}
			if p.kind != KindWord {
				return nil, parseErrf(p.cur, "expected operand after binary operator, got %q", p.curText())
			}
			right := p.cur
			if isRegex {
				// A statically known pattern is validated now; a pattern
				// with pending substitutions is checked at evaluation.
				if ok, pat := StaticEval(right); ok {
					if _, rerr := regexp.CompilePOSIX(pat); rerr != nil {
						return nil, parseErrf(right, "error parsing regex %q: %v", pat, rerr)
					}
				}
			}
			if err := p.next(ModeDBracket); err != nil {
				return nil, err
			}
			return BoolBinary{Op: op, L: left, R: right}, nil
		}
		w := p.cur
		if err := p.next(ModeDBracket); err != nil {
			return nil, err
		}
		return BoolWordTest{W: w}, nil
	}

	if p.opId == IdLParen {
		if err := p.next(ModeDBracket); err != nil {
			return nil, err
		}
		node, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.opId != IdRParen {
			return nil, parseErrf(p.cur, "expected ), got %q", p.curText())
		}
		if err := p.next(ModeDBracket); err != nil {
			return nil, err
		}
		return node, nil
	}

	return nil, parseErrf(p.cur, "unexpected token %q in boolean expression", p.curText())
}

// argvReader feeds a fixed argument list to the boolean parser, one word
// per argument. The lex mode is ignored: runtime words have no structure
// left to re-lex.
type argvReader struct {
	args []string
	i    int
}

// NewArgvReader returns a WordReader over a builtin's arguments.
func NewArgvReader(args []string) WordReader {
	return &argvReader{args: args}
}

func (r *argvReader) ReadWord(LexMode) (Word, error) {
	if r.i >= len(r.args) {
		return eofWord(r.i), nil
	}
	w := LiteralWord(r.args[r.i], Span{Begin: r.i, End: r.i + 1})
	r.i++
	return w, nil
}
