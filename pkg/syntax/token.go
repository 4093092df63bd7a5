// Package syntax provides lexical analysis and parsing for the gosh shell
// front end: a mode-driven lexer, the word model, and the boolean/test
// expression parser shared by [[ ... ]] and the test/[ builtins.
package syntax

// Id identifies a token or the boolean classification of a word.
type Id int

// Token identities.
const (
	IdIllegal Id = iota
	IdEOF
	IdNewline
	IdWord // ordinary word text
	IdLit  // literal run inside a word
	IdSubst
	IdEscaped
	IdSingleQuoted
	IdDoubleQuoted

	// Operators shared by [[ and test/[ grammars.
	IdBang          // !
	IdLParen        // (
	IdRParen        // )
	IdDAmp          // &&
	IdDPipe         // ||
	IdDLeftBracket  // [[
	IdDRightBracket // ]]

	// Redirection-punned string comparison inside [[ and test.
	IdLess  // <
	IdGreat // >

	// Unary test operators.
	IdBoolUnaryA // -a (file exists; AND pun in test mode)
	IdBoolUnaryB
	IdBoolUnaryC
	IdBoolUnaryD
	IdBoolUnaryE
	IdBoolUnaryF
	IdBoolUnaryG
	IdBoolUnaryH
	IdBoolUnaryK
	IdBoolUnaryN
	IdBoolUnaryO // -o (option set; OR pun in test mode)
	IdBoolUnaryP
	IdBoolUnaryR
	IdBoolUnaryS
	IdBoolUnaryT
	IdBoolUnaryU
	IdBoolUnaryV
	IdBoolUnaryW
	IdBoolUnaryX
	IdBoolUnaryZ
	IdBoolUnaryCapG
	IdBoolUnaryCapL
	IdBoolUnaryCapN
	IdBoolUnaryCapO
	IdBoolUnaryCapS

	// Binary test operators.
	IdBoolBinaryEqual       // =
	IdBoolBinaryDEqual      // ==
	IdBoolBinaryNEqual      // !=
	IdBoolBinaryEqualTilde  // =~
	IdBoolBinaryEq          // -eq
	IdBoolBinaryNe          // -ne
	IdBoolBinaryLt          // -lt
	IdBoolBinaryLe          // -le
	IdBoolBinaryGt          // -gt
	IdBoolBinaryGe          // -ge
	IdBoolBinaryNt          // -nt
	IdBoolBinaryOt          // -ot
	IdBoolBinaryEf          // -ef

	// Backslash-escape sub-lexer classifications (echo -e, $'...').
	IdCharOneChar  // \n, \t, ...
	IdCharStop     // \c
	IdCharOctal    // \0NNN
	IdCharHex      // \xHH
	IdCharUnicode4 // \uHHHH
	IdCharUnicode8 // \UHHHHHHHH
	IdCharLiterals // everything else, including a trailing lone backslash
)

// Kind is the coarse class of an Id, used by the boolean parser to commit
// to a grammar production.
type Kind int

// Token kinds.
const (
	KindUndefined Kind = iota
	KindWord
	KindBoolUnary
	KindBoolBinary
	KindRedir
	KindOp
	KindKeyword
	KindLit
	KindEof
	KindChar
)

// LookupKind maps a token identity to its kind. The mapping is total: any
// Id not listed classifies as KindUndefined.
func LookupKind(id Id) Kind {
	switch {
	case id == IdEOF:
		return KindEof
	case id == IdWord || id == IdLit:
		return KindWord
	case id >= IdBoolUnaryA && id <= IdBoolUnaryCapS:
		return KindBoolUnary
	case id >= IdBoolBinaryEqual && id <= IdBoolBinaryEf:
		return KindBoolBinary
	case id == IdLess || id == IdGreat:
		return KindRedir
	case id == IdBang:
		return KindKeyword
	case id == IdDRightBracket || id == IdDLeftBracket:
		return KindLit
	case id == IdLParen || id == IdRParen || id == IdDAmp || id == IdDPipe || id == IdNewline:
		return KindOp
	case id >= IdCharOneChar && id <= IdCharLiterals:
		return KindChar
	default:
		return KindUndefined
	}
}

// boolOps maps operator spellings to identities. Built once; shared by the
// lexer (for [[ mode) and by word classification (for test/[ argv words).
var boolOps = map[string]Id{
	"!":  IdBang,
	"(":  IdLParen,
	")":  IdRParen,
	"&&": IdDAmp,
	"||": IdDPipe,
	"[[": IdDLeftBracket,
	"]]": IdDRightBracket,
	"<":  IdLess,
	">":  IdGreat,

	"-a": IdBoolUnaryA,
	"-b": IdBoolUnaryB,
	"-c": IdBoolUnaryC,
	"-d": IdBoolUnaryD,
	"-e": IdBoolUnaryE,
	"-f": IdBoolUnaryF,
	"-g": IdBoolUnaryG,
	"-h": IdBoolUnaryH,
	"-k": IdBoolUnaryK,
	"-L": IdBoolUnaryCapL,
	"-n": IdBoolUnaryN,
	"-o": IdBoolUnaryO,
	"-p": IdBoolUnaryP,
	"-r": IdBoolUnaryR,
	"-s": IdBoolUnaryS,
	"-t": IdBoolUnaryT,
	"-u": IdBoolUnaryU,
	"-v": IdBoolUnaryV,
	"-w": IdBoolUnaryW,
	"-x": IdBoolUnaryX,
	"-z": IdBoolUnaryZ,
	"-G": IdBoolUnaryCapG,
	"-N": IdBoolUnaryCapN,
	"-O": IdBoolUnaryCapO,
	"-S": IdBoolUnaryCapS,

	"=":   IdBoolBinaryEqual,
	"==":  IdBoolBinaryDEqual,
	"!=":  IdBoolBinaryNEqual,
	"=~":  IdBoolBinaryEqualTilde,
	"-eq": IdBoolBinaryEq,
	"-ne": IdBoolBinaryNe,
	"-lt": IdBoolBinaryLt,
	"-le": IdBoolBinaryLe,
	"-gt": IdBoolBinaryGt,
	"-ge": IdBoolBinaryGe,
	"-nt": IdBoolBinaryNt,
	"-ot": IdBoolBinaryOt,
	"-ef": IdBoolBinaryEf,
}

// LexMode selects the token-classification rules the lexer applies for the
// next token. The mode is supplied explicitly by the caller on every call;
// the lexer holds no notion of a current mode.
type LexMode int

// Lex modes.
const (
	ModeDefault LexMode = iota
	ModeDBracket
	ModeBashRegex
	ModeBackslashEscape
)

// Span is a half-open byte range [Begin, End) within the source line.
type Span struct {
	Begin int
	End   int
}

// Token is an immutable classified piece of input.
type Token struct {
	Id   Id
	Text string
	Span Span
}

func (t Token) String() string { return t.Text }
