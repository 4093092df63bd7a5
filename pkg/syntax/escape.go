package syntax

import (
	"fmt"
	"strconv"
	"strings"
)

// oneChar maps single-letter escapes to their control character.
var oneChar = map[byte]byte{
	'0':  0,
	'a':  '\a',
	'b':  '\b',
	'e':  0x1b,
	'E':  0x1b,
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
	'\\': '\\',
}

// nextEscapeToken scans one token under ModeBackslashEscape: a classified
// escape sequence, a literal run, or EOF. Anything that does not match a
// known escape classifies as IdCharLiterals, including a trailing lone
// backslash; it is the caller's decision whether that is acceptable.
func (l *Lexer) nextEscapeToken() Token {
	if l.eof() {
		return Token{Id: IdEOF, Span: Span{Begin: l.pos, End: l.pos}}
	}
	start := l.pos
	if l.input[l.pos] != '\\' {
		for !l.eof() && l.input[l.pos] != '\\' {
			l.pos++
		}
		return l.escTok(IdCharLiterals, start)
	}

	// Trailing lone backslash.
	if l.pos+1 >= len(l.input) {
		l.pos++
		return l.escTok(IdCharLiterals, start)
	}

	c := l.input[l.pos+1]
	switch {
	case c == 'c':
		l.pos += 2
		return l.escTok(IdCharStop, start)
	case c == '0' && l.pos+2 < len(l.input) && isOctal(l.input[l.pos+2]):
		l.pos += 2
		for n := 0; n < 3 && !l.eof() && isOctal(l.input[l.pos]); n++ {
			l.pos++
		}
		return l.escTok(IdCharOctal, start)
	case c == 'x' && l.pos+2 < len(l.input) && isHex(l.input[l.pos+2]):
		l.pos += 2
		for n := 0; n < 2 && !l.eof() && isHex(l.input[l.pos]); n++ {
			l.pos++
		}
		return l.escTok(IdCharHex, start)
	case c == 'u' && l.pos+2 < len(l.input) && isHex(l.input[l.pos+2]):
		l.pos += 2
		for n := 0; n < 4 && !l.eof() && isHex(l.input[l.pos]); n++ {
			l.pos++
		}
		return l.escTok(IdCharUnicode4, start)
	case c == 'U' && l.pos+2 < len(l.input) && isHex(l.input[l.pos+2]):
		l.pos += 2
		for n := 0; n < 8 && !l.eof() && isHex(l.input[l.pos]); n++ {
			l.pos++
		}
		return l.escTok(IdCharUnicode8, start)
	default:
		if _, ok := oneChar[c]; ok {
			l.pos += 2
			return l.escTok(IdCharOneChar, start)
		}
		// Unknown escape: both characters are literal text.
		l.pos += 2
		return l.escTok(IdCharLiterals, start)
	}
}

func (l *Lexer) escTok(id Id, start int) Token {
	return Token{Id: id, Text: l.input[start:l.pos], Span: Span{Begin: start, End: l.pos}}
}

func isOctal(c byte) bool { return c >= '0' && c <= '7' }

func isHex(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

// EvalEscapeToken turns one escape token into its decoded text. stop is
// true for \c, which truncates output and halts processing of remaining
// arguments. In strict mode an out-of-range octal value is an error rather
// than being reduced mod 256.
func EvalEscapeToken(tok Token, strict bool) (text string, stop bool, err error) {
	switch tok.Id {
	case IdCharOneChar:
		return string(oneChar[tok.Text[1]]), false, nil
	case IdCharStop:
		return "", true, nil
	case IdCharOctal:
		n, perr := strconv.ParseUint(tok.Text[2:], 8, 32)
		if perr != nil {
			return "", false, fmt.Errorf("invalid octal escape %q", tok.Text)
		}
		if n > 0xff {
			if strict {
				return "", false, fmt.Errorf("octal escape %q out of range", tok.Text)
			}
			n %= 256
		}
		return string([]byte{byte(n)}), false, nil
	case IdCharHex:
		n, perr := strconv.ParseUint(tok.Text[2:], 16, 32)
		if perr != nil {
			return "", false, fmt.Errorf("invalid hex escape %q", tok.Text)
		}
		return string([]byte{byte(n)}), false, nil
	case IdCharUnicode4, IdCharUnicode8:
		n, perr := strconv.ParseUint(tok.Text[2:], 16, 32)
		if perr != nil || n > 0x10ffff {
			if strict {
				return "", false, fmt.Errorf("invalid unicode escape %q", tok.Text)
			}
			return tok.Text, false, nil
		}
		return string(rune(n)), false, nil
	case IdCharLiterals:
		return tok.Text, false, nil
	default:
		return "", false, fmt.Errorf("unexpected escape token %q", tok.Text)
	}
}

// DecodeEscapes decodes backslash escapes per the echo -e / $'...' table.
// It returns the decoded prefix and stop=true when a \c was hit.
func DecodeEscapes(s string, strict bool) (decoded string, stop bool, err error) {
	lex := NewLexer(s)
	var b strings.Builder
	for {
		tok := lex.NextToken(ModeBackslashEscape)
		if tok.Id == IdEOF {
			return b.String(), false, nil
		}
		text, stop, err := EvalEscapeToken(tok, strict)
		if err != nil {
			return b.String(), false, err
		}
		if stop {
			return b.String(), true, nil
		}
		b.WriteString(text)
	}
}
