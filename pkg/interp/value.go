// Package interp provides the gosh runtime primitives the parser's
// consumers depend on: the scoped variable store, the IFS field splitter,
// the job table and waiter, shell options and the directory stack.
package interp

// ValueKind tags a Value. The variant set is closed; use exhaustive
// switches at every consumer.
type ValueKind int

// Value kinds.
const (
	ValUndef ValueKind = iota
	ValStr
	ValStrArray
)

// Value is a shell value: undefined, a scalar string, or a string array.
type Value struct {
	Kind ValueKind
	Str  string
	Strs []string
}

// Undef returns the undefined value.
func Undef() Value { return Value{Kind: ValUndef} }

// Str wraps a scalar string.
func Str(s string) Value { return Value{Kind: ValStr, Str: s} }

// StrArray wraps a string array.
func StrArray(ss []string) Value { return Value{Kind: ValStrArray, Strs: ss} }

// VarFlags is the flag set attached to a variable binding.
type VarFlags uint8

// Variable binding flags.
const (
	FlagExported VarFlags = 1 << iota
	FlagReadOnly
)

// binding pairs a value with its flags; it belongs to exactly one scope
// frame.
type binding struct {
	val   Value
	flags VarFlags
}
