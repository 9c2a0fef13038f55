package cdbgexpr

// Associativity is LeftAssoc or RightAssoc.
type Associativity int

const (
	LeftAssoc Associativity = iota
	RightAssoc
)

// Arity distinguishes binary infix operators from unary prefix operators
// and the two postfix forms (call is not part of this grammar; subscript
// and member access are handled structurally by the parser, not through
// this table).
type Arity int

const (
	ArityBinary Arity = iota
	ArityUnaryPrefix
)

// opInfo is one row of the operator-precedence table (spec.md §4.4). Higher
// Precedence binds tighter, matching the teacher's bytecode table's
// "smaller enum value sorts first" idiom inverted into an explicit integer
// so the parser's comparisons read naturally.
type opInfo struct {
	Precedence int
	Assoc      Associativity
	Arity      Arity
}

// operatorTable is built once via init(), mirroring vm/bytecode.go's
// strToInstrMap/instrToStrMap twin-map construction style.
var operatorTable map[string]opInfo

func init() {
	operatorTable = map[string]opInfo{
		// Level 18 (tightest, excluding postfix/primary): unary.
		"u+": {18, RightAssoc, ArityUnaryPrefix},
		"u-": {18, RightAssoc, ArityUnaryPrefix},
		"u*": {18, RightAssoc, ArityUnaryPrefix},
		"u&": {18, RightAssoc, ArityUnaryPrefix},
		"!":  {18, RightAssoc, ArityUnaryPrefix},
		"~":  {18, RightAssoc, ArityUnaryPrefix},

		// Level 15: multiplicative.
		"*": {15, LeftAssoc, ArityBinary},
		"/": {15, LeftAssoc, ArityBinary},
		"%": {15, LeftAssoc, ArityBinary},

		// Level 14: additive.
		"+": {14, LeftAssoc, ArityBinary},
		"-": {14, LeftAssoc, ArityBinary},

		// Level 13: shift.
		"<<": {13, LeftAssoc, ArityBinary},
		">>": {13, LeftAssoc, ArityBinary},

		// Level 12: relational.
		"<":  {12, LeftAssoc, ArityBinary},
		">":  {12, LeftAssoc, ArityBinary},
		"<=": {12, LeftAssoc, ArityBinary},
		">=": {12, LeftAssoc, ArityBinary},

		// Level 11: equality.
		"==": {11, LeftAssoc, ArityBinary},
		"!=": {11, LeftAssoc, ArityBinary},

		// Level 10/9/8: bitwise and/xor/or.
		"&": {10, LeftAssoc, ArityBinary},
		"^": {9, LeftAssoc, ArityBinary},
		"|": {8, LeftAssoc, ArityBinary},

		// Level 5/4: logical and/or (non-short-circuiting; see OQ-3).
		"&&": {5, LeftAssoc, ArityBinary},
		"||": {4, LeftAssoc, ArityBinary},

		// Level 3: assignment (right-assoc, lowest of the binary operators).
		"=":   {3, RightAssoc, ArityBinary},
		"+=":  {3, RightAssoc, ArityBinary},
		"-=":  {3, RightAssoc, ArityBinary},
		"*=":  {3, RightAssoc, ArityBinary},
		"/=":  {3, RightAssoc, ArityBinary},
		"%=":  {3, RightAssoc, ArityBinary},
		"&=":  {3, RightAssoc, ArityBinary},
		"|=":  {3, RightAssoc, ArityBinary},
		"^=":  {3, RightAssoc, ArityBinary},
		"<<=": {3, RightAssoc, ArityBinary},
		">>=": {3, RightAssoc, ArityBinary},
	}
}

// isCompoundAssign reports whether op is a compound assignment spelling
// such as `+=`, used by the parser/AST to desugar into `a = a <op> b`.
func isCompoundAssign(op string) (base string, ok bool) {
	switch op {
	case "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=", ">>=":
		return op[:len(op)-1], true
	default:
		return "", false
	}
}

// lookupBinary returns the precedence table row for a binary-position
// operator spelling, or false if op is not a valid binary operator.
func lookupBinary(op string) (opInfo, bool) {
	info, ok := operatorTable[op]
	if !ok || info.Arity != ArityBinary {
		return opInfo{}, false
	}
	return info, true
}

// lookupUnary returns the precedence row for a unary-position operator
// spelling. The four overloaded spellings (+, -, *, &) are looked up under
// their "u"-prefixed key; !, ~ have only a unary form.
func lookupUnary(op string) (opInfo, bool) {
	switch op {
	case "+", "-", "*", "&":
		info, ok := operatorTable["u"+op]
		return info, ok
	case "!", "~":
		info, ok := operatorTable[op]
		return info, ok
	default:
		return opInfo{}, false
	}
}
