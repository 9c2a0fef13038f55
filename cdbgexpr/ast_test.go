package cdbgexpr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// countingAccess wraps testAccess and counts LookupSymbol calls, resolving
// a fixed set of int symbols rather than always erroring, so a test can
// observe whether both operands of a binary node were actually resolved
// rather than inferring it from the result value alone.
type countingAccess struct {
	*testAccess
	lookups int
	symbols map[string]uint64
}

func (a *countingAccess) LookupSymbol(name string) (*SymbolDescriptor, error) {
	a.lookups++
	v, ok := a.symbols[name]
	if !ok {
		return nil, newErr(ErrUndefinedSymbol, name, "not declared in test harness")
	}
	return imm(KindInt, false, v), nil
}

func TestLogicalAndIsNotShortCircuitingOQ3(t *testing.T) {
	// spec.md's OQ-3 resolves `&&` as always evaluating both operands,
	// unlike C, where a falsy left operand skips the right entirely. Eval's
	// post-order walk (ast.go's NodeBinary case) evaluates Left and Right
	// before dispatching to LogAnd, so the lookup on "b" must still happen
	// even though "a" is falsy.
	access := &countingAccess{testAccess: newTestAccess(), symbols: map[string]uint64{"a": 0, "b": 1}}

	tokens, err := Lex("a && b")
	require.NoError(t, err)
	node, err := Parse(tokens)
	require.NoError(t, err)

	result, err := Eval(node, access, false)
	require.NoError(t, err)
	require.Equal(t, 2, access.lookups)
	v, err := result.ToUnsigned(access)
	require.NoError(t, err)
	require.Equal(t, uint64(0), v)
}

func TestLogicalOrIsNotShortCircuitingOQ3(t *testing.T) {
	// Mirror case: a truthy left operand short-circuits `||` in C, but here
	// "b" is still looked up.
	access := &countingAccess{testAccess: newTestAccess(), symbols: map[string]uint64{"a": 1, "b": 0}}

	tokens, err := Lex("a || b")
	require.NoError(t, err)
	node, err := Parse(tokens)
	require.NoError(t, err)

	result, err := Eval(node, access, false)
	require.NoError(t, err)
	require.Equal(t, 2, access.lookups)
	v, err := result.ToUnsigned(access)
	require.NoError(t, err)
	require.Equal(t, uint64(1), v)
}
