package interp

import "strings"

// SpanKind classifies a sub-range of a line during field splitting.
type SpanKind int

// Span kinds.
const (
	// SpanBlack is field content.
	SpanBlack SpanKind = iota
	// SpanDelim is a separator-consumed range.
	SpanDelim
	// SpanBackslash is an escape or continuation marker.
	SpanBackslash
)

// SplitSpan is a classified range ending at End; its start is the previous
// span's end (or 0). Concatenating all ranges reconstructs the line
// exactly.
type SplitSpan struct {
	Kind SpanKind
	End  int
}

// DefaultIFS is the separator set used when IFS is unset.
const DefaultIFS = " \t\n"

// Splitter splits lines into fields using an IFS-style separator set.
// Used by the read builtin.
type Splitter struct {
	ifs string
}

// NewSplitter creates a splitter over the given separator set.
func NewSplitter(ifs string) *Splitter {
	return &Splitter{ifs: ifs}
}

// NewSplitterFromMem creates a splitter from the current $IFS binding,
// falling back to the default set when IFS is unset.
func NewSplitterFromMem(m *Mem) *Splitter {
	v := m.GetVar("IFS")
	switch v.Kind {
	case ValStr:
		return NewSplitter(v.Str)
	case ValUndef:
		return NewSplitter(DefaultIFS)
	default:
		panic(Fatalf("IFS should be a string, got kind %d", v.Kind))
	}
}

// SplitForRead classifies line into Black/Delim/Backslash spans. When
// decodeBackslash is true a backslash removes the special meaning of the
// next character, and a backslash immediately before end-of-line marks a
// continuation (the final span is then SpanBackslash).
func (sp *Splitter) SplitForRead(line string, decodeBackslash bool) []SplitSpan {
	var spans []SplitSpan
	runStart := 0
	runKind := SpanKind(-1)

	flush := func(end int) {
		if runKind >= 0 && end > runStart {
			spans = append(spans, SplitSpan{Kind: runKind, End: end})
		}
		runStart = end
		runKind = -1
	}

	i := 0
	for i < len(line) {
		c := line[i]
		if decodeBackslash && c == '\\' {
			flush(i)
			spans = append(spans, SplitSpan{Kind: SpanBackslash, End: i + 1})
			i++
			runStart = i
			if i < len(line) {
				// The escaped character is field content regardless of
				// its class; it opens (or continues) a black run.
				runKind = SpanBlack
				i++
			}
			continue
		}
		kind := SpanBlack
		if strings.IndexByte(sp.ifs, c) >= 0 {
			kind = SpanDelim
		}
		if kind != runKind {
			flush(i)
			runKind = kind
		}
		i++
	}
	flush(len(line))
	return spans
}

// AppendParts walks spans left-to-right, appending Black content to the
// current field or starting a new one:
//
//   - joinNext forces concatenation onto the previous field instead of
//     starting a new one (escaped separators, and overflow);
//   - once len(parts) reaches maxParts all further content, delimiters
//     included, is force-joined onto the last field, so leftover words are
//     assigned to the last name;
//   - done is false exactly when the final span is a Backslash: a
//     continuation is pending and the caller must read one more line and
//     re-invoke with the returned joinNext.
func AppendParts(line string, spans []SplitSpan, maxParts int, joinNext bool, parts *[]string) (done bool, nextJoin bool) {
	start := 0
	lastWasBlack := false

	for _, span := range spans {
		switch span.Kind {
		case SpanBlack:
			if joinNext && len(*parts) > 0 {
				(*parts)[len(*parts)-1] += line[start:span.End]
				joinNext = false
			} else {
				*parts = append(*parts, line[start:span.End])
			}
			lastWasBlack = true

		case SpanDelim:
			if joinNext && len(*parts) > 0 {
				(*parts)[len(*parts)-1] += line[start:span.End]
				joinNext = false
			}
			lastWasBlack = false

		case SpanBackslash:
			if lastWasBlack {
				joinNext = true
			}
			lastWasBlack = false
		}

		if len(*parts) >= maxParts {
			joinNext = true
		}
		start = span.End
	}

	done = true
	if len(spans) > 0 && spans[len(spans)-1].Kind == SpanBackslash {
		done = false
	}
	return done, joinNext
}
