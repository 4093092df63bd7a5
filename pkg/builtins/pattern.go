package builtins

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rcarmo/gosh/pkg/syntax"
)

// patternMatch reports whether s matches the glob pattern: * matches any
// run of characters, ? a single character, [...] a class, and a
// backslash makes the next character literal. Unlike filepath.Match,
// * crosses / since the subject is an arbitrary string, not a path.
func patternMatch(pat, s string) (bool, error) {
	re, err := regexp.Compile(patternRegexp(pat))
	if err != nil {
		return false, fmt.Errorf("invalid pattern %q: %v", pat, err)
	}
	return re.MatchString(s), nil
}

func patternRegexp(pat string) string {
	var b strings.Builder
	b.WriteString(`(?s)^`)
	for i := 0; i < len(pat); i++ {
		c := pat[i]
		switch c {
		case '*':
			b.WriteString(`.*`)
		case '?':
			b.WriteString(`.`)
		case '\\':
			if i+1 < len(pat) {
				i++
				b.WriteString(regexp.QuoteMeta(string(pat[i])))
			} else {
				b.WriteString(`\\`)
			}
		case '[':
			j := i + 1
			if j < len(pat) && (pat[j] == '!' || pat[j] == '^') {
				j++
			}
			// A ] right after the (possibly negated) opening is a class
			// member, not the terminator.
			if j < len(pat) && pat[j] == ']' {
				j++
			}
			for j < len(pat) && pat[j] != ']' {
				j++
			}
			if j == len(pat) {
				b.WriteString(`\[`)
				break
			}
			class := pat[i+1 : j]
			if strings.HasPrefix(class, "!") {
				class = "^" + class[1:]
			}
			b.WriteString("[" + class + "]")
			i = j
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteByte('$')
	return b.String()
}

// patternEscape backslash-escapes glob metacharacters so quoted text
// matches literally.
func patternEscape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// wordPattern renders a word as a glob pattern. Unquoted text keeps its
// pattern metacharacters active; quoted and escaped text matches
// literally, as do substitutions expanded inside double quotes.
func (sh *Shell) wordPattern(w syntax.Word) (string, error) {
	var b strings.Builder
	if err := sh.patternParts(w.Parts, &b, false); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (sh *Shell) patternParts(parts []syntax.WordPart, b *strings.Builder, quoted bool) error {
	for _, p := range parts {
		switch p := p.(type) {
		case syntax.LiteralPart:
			if quoted {
				b.WriteString(patternEscape(p.Tok.Text))
			} else {
				b.WriteString(p.Tok.Text)
			}
		case syntax.EscapedPart:
			b.WriteString(patternEscape(strings.TrimPrefix(p.Tok.Text, `\`)))
		case syntax.SingleQuotedPart:
			b.WriteString(patternEscape(p.Tok.Text))
		case syntax.DoubleQuotedPart:
			if err := sh.patternParts(p.Parts, b, true); err != nil {
				return err
			}
		case syntax.SubstPart:
			s, err := sh.wordStr(syntax.Word{Parts: []syntax.WordPart{p}})
			if err != nil {
				return err
			}
			if quoted {
				s = patternEscape(s)
			}
			b.WriteString(s)
		}
	}
	return nil
}
