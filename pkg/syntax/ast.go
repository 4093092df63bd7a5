package syntax

// BoolExpr is a node in a boolean/test expression tree. The variant set is
// closed; consumers switch exhaustively.
type BoolExpr interface {
	boolExprNode()
}

// BoolNot negates its child.
type BoolNot struct {
	X BoolExpr
}

// BoolAnd is the && / -a conjunction. Right-associative.
type BoolAnd struct {
	L, R BoolExpr
}

// BoolOr is the || / -o disjunction. Right-associative.
type BoolOr struct {
	L, R BoolExpr
}

// BoolUnary applies a unary test operator (-z, -f, ...) to a word.
type BoolUnary struct {
	Op Id
	X  Word
}

// BoolBinary applies a binary test operator (==, -eq, =~, <, ...) to two
// words.
type BoolBinary struct {
	Op   Id
	L, R Word
}

// BoolWordTest is a bare word: true iff the word is non-empty.
type BoolWordTest struct {
	W Word
}

func (BoolNot) boolExprNode()      {}
func (BoolAnd) boolExprNode()      {}
func (BoolOr) boolExprNode()       {}
func (BoolUnary) boolExprNode()    {}
func (BoolBinary) boolExprNode()   {}
func (BoolWordTest) boolExprNode() {}
