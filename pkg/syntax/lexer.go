package syntax

import (
	"strings"
)

// Lexer converts a character stream into classified tokens and words. Every
// read takes an explicit LexMode; the same engine serves ordinary command
// lexing, [[ ... ]] lexing, bash-regex right-hand sides and backslash-escape
// decoding.
type Lexer struct {
	input string
	pos   int
}

// NewLexer creates a Lexer over the given source text.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Pos returns the current byte offset.
func (l *Lexer) Pos() int { return l.pos }

func (l *Lexer) eof() bool { return l.pos >= len(l.input) }

func (l *Lexer) skipBlanks() {
	for !l.eof() {
		c := l.input[l.pos]
		if c == ' ' || c == '\t' {
			l.pos++
			continue
		}
		// Comments run to end of line.
		if c == '#' {
			for !l.eof() && l.input[l.pos] != '\n' {
				l.pos++
			}
			continue
		}
		break
	}
}

// isWordEnd reports whether c terminates an unquoted word in the given mode.
func isWordEnd(mode LexMode, c byte) bool {
	if c == ' ' || c == '\t' || c == '\n' {
		return true
	}
	if mode == ModeBashRegex {
		// Characters that are operators elsewhere are regex text here.
		return false
	}
	switch c {
	case '(', ')', '&', '|', ';', '<', '>':
		return true
	}
	return false
}

// NextToken returns the next token under the given mode. Operator tokens
// come back classified; word text comes back as a single IdWord token with
// the raw text (use ReadWord for the part-structured form).
func (l *Lexer) NextToken(mode LexMode) Token {
	if mode == ModeBackslashEscape {
		return l.nextEscapeToken()
	}
	w, err := l.ReadWord(mode)
	if err != nil {
		return Token{Id: IdIllegal, Span: Span{Begin: l.pos, End: l.pos}}
	}
	id := BoolId(w)
	span := w.Span()
	if id == IdWord {
		return Token{Id: IdWord, Text: l.input[span.Begin:span.End], Span: span}
	}
	return Token{Id: id, Text: l.input[span.Begin:span.End], Span: span}
}

// ReadWord reads one word (or operator, wrapped as a single-part word) under
// the given mode. At end of input it returns a word classifying as IdEOF.
func (l *Lexer) ReadWord(mode LexMode) (Word, error) {
	l.skipBlanks()
	if l.eof() {
		return eofWord(l.pos), nil
	}
	start := l.pos
	c := l.input[l.pos]

	if c == '\n' {
		l.pos++
		return l.opWord(IdNewline, start, l.pos), nil
	}

	if mode != ModeBashRegex {
		if w, ok := l.readOperator(mode, start); ok {
			return w, nil
		}
	}

	parts, err := l.scanWordParts(mode)
	if err != nil {
		return Word{}, err
	}
	w := Word{Parts: parts}
	if mode == ModeDBracket {
		// A single unquoted literal may spell an operator (=~, -z, ]] ...).
		if len(parts) == 1 {
			if lit, ok := parts[0].(LiteralPart); ok {
				if id, found := boolOps[lit.Tok.Text]; found {
					return l.opWordText(id, lit.Tok.Text, lit.Tok.Span), nil
				}
			}
		}
	}
	return w, nil
}

func (l *Lexer) opWord(id Id, begin, end int) Word {
	return l.opWordText(id, l.input[begin:end], Span{Begin: begin, End: end})
}

func (l *Lexer) opWordText(id Id, text string, span Span) Word {
	return Word{Parts: []WordPart{LiteralPart{Tok: Token{Id: id, Text: text, Span: span}}}}
}

// readOperator recognizes punctuation operators at the current position.
func (l *Lexer) readOperator(mode LexMode, start int) (Word, bool) {
	rest := l.input[l.pos:]
	switch {
	case strings.HasPrefix(rest, "&&"):
		l.pos += 2
		return l.opWord(IdDAmp, start, l.pos), true
	case strings.HasPrefix(rest, "||"):
		l.pos += 2
		return l.opWord(IdDPipe, start, l.pos), true
	case strings.HasPrefix(rest, "[[") && mode == ModeDefault && l.standaloneAt(start+2):
		l.pos += 2
		return l.opWord(IdDLeftBracket, start, l.pos), true
	case strings.HasPrefix(rest, "]]") && mode == ModeDBracket && l.standaloneAt(start+2):
		l.pos += 2
		return l.opWord(IdDRightBracket, start, l.pos), true
	}
	switch rest[0] {
	case '(':
		l.pos++
		return l.opWord(IdLParen, start, l.pos), true
	case ')':
		l.pos++
		return l.opWord(IdRParen, start, l.pos), true
	case '<':
		l.pos++
		return l.opWord(IdLess, start, l.pos), true
	case '>':
		l.pos++
		return l.opWord(IdGreat, start, l.pos), true
	case '&', '|', ';':
		// Single & or |, and ;, are not valid inside a boolean expression.
		l.pos++
		return l.opWord(IdIllegal, start, l.pos), true
	case '!':
		// Standalone only: != must stay part of a word.
		if l.standaloneAt(start + 1) {
			l.pos++
			return l.opWord(IdBang, start, l.pos), true
		}
	}
	return Word{}, false
}

// standaloneAt reports whether position i starts a word boundary.
func (l *Lexer) standaloneAt(i int) bool {
	if i >= len(l.input) {
		return true
	}
	c := l.input[i]
	return c == ' ' || c == '\t' || c == '\n' || c == '(' || c == ')'
}

// scanWordParts consumes one word as a part sequence.
func (l *Lexer) scanWordParts(mode LexMode) ([]WordPart, error) {
	var parts []WordPart
	litStart := -1

	flushLit := func() {
		if litStart >= 0 {
			parts = append(parts, LiteralPart{Tok: Token{
				Id:   IdLit,
				Text: l.input[litStart:l.pos],
				Span: Span{Begin: litStart, End: l.pos},
			}})
			litStart = -1
		}
	}

	for !l.eof() {
		c := l.input[l.pos]
		if isWordEnd(mode, c) {
			break
		}
		switch c {
		case '\'':
			flushLit()
			p, err := l.scanSingleQuoted()
			if err != nil {
				return nil, err
			}
			parts = append(parts, p)
		case '"':
			flushLit()
			p, err := l.scanDoubleQuoted()
			if err != nil {
				return nil, err
			}
			parts = append(parts, p)
		case '\\':
			flushLit()
			parts = append(parts, l.scanEscaped())
		case '$':
			flushLit()
			p, ok := l.scanSubst()
			if ok {
				parts = append(parts, p)
			} else {
				// Lone dollar: literal.
				litStart = l.pos - 1
			}
		default:
			if litStart < 0 {
				litStart = l.pos
			}
			l.pos++
		}
	}
	flushLit()
	if len(parts) == 0 {
		return nil, &ParseError{Msg: "empty word", Span: Span{Begin: l.pos, End: l.pos}}
	}
	return parts, nil
}

func (l *Lexer) scanSingleQuoted() (WordPart, error) {
	start := l.pos
	l.pos++ // opening quote
	inner := l.pos
	for !l.eof() && l.input[l.pos] != '\'' {
		l.pos++
	}
	if l.eof() {
		return nil, &ParseError{Msg: "unterminated single-quoted string", Span: Span{Begin: start, End: l.pos}}
	}
	text := l.input[inner:l.pos]
	l.pos++ // closing quote
	return SingleQuotedPart{Tok: Token{Id: IdSingleQuoted, Text: text, Span: Span{Begin: start, End: l.pos}}}, nil
}

func (l *Lexer) scanDoubleQuoted() (WordPart, error) {
	start := l.pos
	l.pos++ // opening quote
	var inner []WordPart
	litStart := -1
	flushLit := func() {
		if litStart >= 0 {
			inner = append(inner, LiteralPart{Tok: Token{
				Id:   IdLit,
				Text: l.input[litStart:l.pos],
				Span: Span{Begin: litStart, End: l.pos},
			}})
			litStart = -1
		}
	}
	for !l.eof() {
		c := l.input[l.pos]
		switch c {
		case '"':
			flushLit()
			l.pos++
			return DoubleQuotedPart{Parts: inner, Rng: Span{Begin: start, End: l.pos}}, nil
		case '\\':
			flushLit()
			inner = append(inner, l.scanEscaped())
		case '$':
			flushLit()
			p, ok := l.scanSubst()
			if ok {
				inner = append(inner, p)
			} else if litStart < 0 {
				litStart = l.pos - 1
			}
		default:
			if litStart < 0 {
				litStart = l.pos
			}
			l.pos++
		}
	}
	return nil, &ParseError{Msg: "unterminated double-quoted string", Span: Span{Begin: start, End: l.pos}}
}

func (l *Lexer) scanEscaped() WordPart {
	start := l.pos
	l.pos++ // backslash
	if !l.eof() {
		l.pos++
	}
	return EscapedPart{Tok: Token{
		Id:   IdEscaped,
		Text: l.input[start:l.pos],
		Span: Span{Begin: start, End: l.pos},
	}}
}

// scanSubst consumes $name, ${...}, $(...) or a special parameter. It
// returns ok=false (without consuming) for a dollar that is plain text.
func (l *Lexer) scanSubst() (WordPart, bool) {
	start := l.pos
	l.pos++ // dollar
	if l.eof() {
		return nil, false
	}
	c := l.input[l.pos]
	switch {
	case c == '{':
		depth := 1
		l.pos++
		for !l.eof() && depth > 0 {
			switch l.input[l.pos] {
			case '{':
				depth++
			case '}':
				depth--
			}
			l.pos++
		}
	case c == '(':
		depth := 1
		l.pos++
		for !l.eof() && depth > 0 {
			switch l.input[l.pos] {
			case '(':
				depth++
			case ')':
				depth--
			}
			l.pos++
		}
	case isNameByte(c, true):
		for !l.eof() && isNameByte(l.input[l.pos], l.pos == start+1) {
			l.pos++
		}
	case c >= '0' && c <= '9' || c == '?' || c == '#' || c == '@' || c == '*' || c == '$' || c == '!':
		l.pos++
	default:
		l.pos = start + 1
		return nil, false
	}
	return SubstPart{Tok: Token{
		Id:   IdSubst,
		Text: l.input[start:l.pos],
		Span: Span{Begin: start, End: l.pos},
	}}, true
}

func isNameByte(c byte, first bool) bool {
	if c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
		return true
	}
	return !first && c >= '0' && c <= '9'
}
