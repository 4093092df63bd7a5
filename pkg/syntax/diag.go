package syntax

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// RenderParseError writes a diagnostic for e against the source line it
// came from, with a caret marking the offending span. Color is applied only
// when the destination is a terminal (the color package handles detection).
func RenderParseError(w io.Writer, src string, e *ParseError) {
	fmt.Fprintf(w, "gosh: %s\n", color.RedString("%s", e.Msg))

	begin, end := e.Span.Begin, e.Span.End
	if begin < 0 || begin > len(src) {
		return
	}
	lineStart := strings.LastIndexByte(src[:begin], '\n') + 1
	lineEnd := strings.IndexByte(src[begin:], '\n')
	if lineEnd < 0 {
		lineEnd = len(src)
	} else {
		lineEnd += begin
	}
	line := src[lineStart:lineEnd]
	if line == "" {
		return
	}

	fmt.Fprintf(w, "  %s\n", line)
	width := end - begin
	if begin+width > lineEnd {
		width = lineEnd - begin
	}
	if width < 1 {
		width = 1
	}
	caret := strings.Repeat(" ", begin-lineStart) + strings.Repeat("^", width)
	fmt.Fprintf(w, "  %s\n", color.YellowString("%s", caret))
}
