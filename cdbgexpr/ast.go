package cdbgexpr

// NodeKind tags the variant held by a Node (spec.md §9 Design Notes:
// "prefer a tagged union dispatched by switch over a class hierarchy",
// matching the teacher's own opcode-switch dispatch idiom in vm/run.go
// rather than introducing a Node interface with one implementation per
// kind).
type NodeKind int

const (
	NodeLiteral NodeKind = iota
	NodeIdentifier
	NodeUnary
	NodeBinary
	NodeMember
	NodeIndex
)

// Node is one AST node. Exactly the fields relevant to Kind are populated;
// the others are zero.
type Node struct {
	Kind  NodeKind
	Token Token

	// NodeLiteral
	Literal *SymbolDescriptor

	// NodeIdentifier
	Name string

	// NodeUnary
	Op      string
	Operand *Node

	// NodeBinary
	Left, Right *Node

	// NodeMember
	Object *Node
	Member string
	Arrow  bool

	// NodeIndex
	Array *Node
	Idx   *Node
}

// Eval walks n against access, post-order, per spec.md §5. It is the sole
// entry point the parser's output is driven through; every sub-expression
// is fully resolved into a *SymbolDescriptor before its parent operator
// runs, which is also what makes `&&`/`||` non-short-circuiting here (both
// children are always evaluated, per OQ-3).
//
// allowAssignment gates every `=`/compound-assignment node reached during
// the walk (spec.md §4.6, §7 AssignmentDenied), including ones nested
// inside a right-associative chain like `a = b = 1` — the flag is the same
// for the whole call, per spec.md §5's "per-evaluation context" model.
func Eval(n *Node, access DebugAccess, allowAssignment bool) (*SymbolDescriptor, error) {
	switch n.Kind {
	case NodeLiteral:
		return n.Literal, nil

	case NodeIdentifier:
		sym, err := access.LookupSymbol(n.Name)
		if err != nil {
			return nil, newErrAt(ErrUndefinedSymbol, n.Name, n.Token.Pos, "undefined symbol")
		}
		return sym, nil

	case NodeUnary:
		operand, err := Eval(n.Operand, access, allowAssignment)
		if err != nil {
			return nil, err
		}
		return evalUnary(n, operand, access)

	case NodeBinary:
		if base, ok := isCompoundAssign(n.Op); ok {
			if !allowAssignment {
				return nil, newErrAt(ErrAssignmentDenied, n.Op, n.Token.Pos, "assignment not permitted in this evaluation")
			}
			return evalCompoundAssign(n, base, access, allowAssignment)
		}
		if n.Op == "=" {
			if !allowAssignment {
				return nil, newErrAt(ErrAssignmentDenied, n.Op, n.Token.Pos, "assignment not permitted in this evaluation")
			}
			return evalAssign(n, access, allowAssignment)
		}
		left, err := Eval(n.Left, access, allowAssignment)
		if err != nil {
			return nil, err
		}
		right, err := Eval(n.Right, access, allowAssignment)
		if err != nil {
			return nil, err
		}
		return evalBinary(n, left, right, access)

	case NodeMember:
		obj, err := Eval(n.Object, access, allowAssignment)
		if err != nil {
			return nil, err
		}
		return obj.Member(access, n.Member, n.Arrow)

	case NodeIndex:
		arr, err := Eval(n.Array, access, allowAssignment)
		if err != nil {
			return nil, err
		}
		idx, err := Eval(n.Idx, access, allowAssignment)
		if err != nil {
			return nil, err
		}
		return arr.Index(access, idx)

	default:
		return nil, newErrAt(ErrParse, n.Token.Text, n.Token.Pos, "unhandled node kind")
	}
}

func evalUnary(n *Node, operand *SymbolDescriptor, access DebugAccess) (*SymbolDescriptor, error) {
	switch n.Op {
	case "+":
		return operand.UnaryPlus(access)
	case "-":
		return operand.UnaryMinus(access)
	case "!":
		return operand.Not(access)
	case "~":
		return operand.BitNot(access)
	case "*":
		return operand.Dereference(access)
	case "&":
		return operand.AddressOf(access)
	default:
		return nil, newErrAt(ErrParse, n.Op, n.Token.Pos, "unknown unary operator")
	}
}

func evalBinary(n *Node, left, right *SymbolDescriptor, access DebugAccess) (*SymbolDescriptor, error) {
	switch n.Op {
	case "+":
		return left.Add(access, right)
	case "-":
		return left.Sub(access, right)
	case "*":
		return left.Mul(access, right)
	case "/":
		return left.Div(access, right)
	case "%":
		return left.Mod(access, right)
	case "<<":
		return left.Shl(access, right)
	case ">>":
		return left.Shr(access, right)
	case "<":
		return left.Lt(access, right)
	case ">":
		return left.Gt(access, right)
	case "<=":
		return left.Le(access, right)
	case ">=":
		return left.Ge(access, right)
	case "==":
		return left.Eq(access, right)
	case "!=":
		return left.Ne(access, right)
	case "&":
		return left.BitAnd(access, right)
	case "|":
		return left.BitOr(access, right)
	case "^":
		return left.BitXor(access, right)
	case "&&":
		return left.LogAnd(access, right)
	case "||":
		return left.LogOr(access, right)
	default:
		return nil, newErrAt(ErrParse, n.Op, n.Token.Pos, "unknown binary operator")
	}
}

func evalAssign(n *Node, access DebugAccess, allowAssignment bool) (*SymbolDescriptor, error) {
	target, err := Eval(n.Left, access, allowAssignment)
	if err != nil {
		return nil, err
	}
	rhs, err := Eval(n.Right, access, allowAssignment)
	if err != nil {
		return nil, err
	}
	return target.Assign(access, rhs)
}

// evalCompoundAssign desugars `a op= b` into `a = a op b`, re-evaluating
// the left-hand side's storage (not its cached value) exactly once for the
// read and once for the write, matching how the bare identifiers/lvalue
// expressions in this grammar have no side effects of their own to
// duplicate.
func evalCompoundAssign(n *Node, baseOp string, access DebugAccess, allowAssignment bool) (*SymbolDescriptor, error) {
	target, err := Eval(n.Left, access, allowAssignment)
	if err != nil {
		return nil, err
	}
	rhs, err := Eval(n.Right, access, allowAssignment)
	if err != nil {
		return nil, err
	}
	combined, err := evalBinary(&Node{Op: baseOp, Token: n.Token}, target, rhs, access)
	if err != nil {
		return nil, err
	}
	return target.Assign(access, combined)
}
