package cdbgexpr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *Node {
	t.Helper()
	tokens, err := Lex(src)
	require.NoError(t, err, src)
	node, err := Parse(tokens)
	require.NoError(t, err, src)
	return node
}

func TestParsePrecedence(t *testing.T) {
	// 1 + 2 * 3 should parse as 1 + (2 * 3): the Binary '+' node's Right
	// child is a Binary '*' node, not the other way around.
	node := mustParse(t, "1 + 2 * 3")
	require.Equal(t, NodeBinary, node.Kind)
	require.Equal(t, "+", node.Op)
	require.Equal(t, NodeLiteral, node.Left.Kind)
	require.Equal(t, NodeBinary, node.Right.Kind)
	require.Equal(t, "*", node.Right.Op)
}

func TestParseLeftAssociativity(t *testing.T) {
	// 1 - 2 - 3 should parse as (1 - 2) - 3.
	node := mustParse(t, "1 - 2 - 3")
	require.Equal(t, "-", node.Op)
	require.Equal(t, NodeBinary, node.Left.Kind)
	require.Equal(t, NodeLiteral, node.Right.Kind)
}

func TestParseAssignmentRightAssociative(t *testing.T) {
	// a = b = 1 should parse as a = (b = 1).
	node := mustParse(t, "a = b = 1")
	require.Equal(t, "=", node.Op)
	require.Equal(t, NodeIdentifier, node.Left.Kind)
	require.Equal(t, NodeBinary, node.Right.Kind)
	require.Equal(t, "=", node.Right.Op)
}

func TestParseParentheses(t *testing.T) {
	node := mustParse(t, "(1 + 2) * 3")
	require.Equal(t, "*", node.Op)
	require.Equal(t, NodeBinary, node.Left.Kind)
	require.Equal(t, "+", node.Left.Op)
}

func TestParseMemberAndIndex(t *testing.T) {
	node := mustParse(t, "a.b[0]->c")
	require.Equal(t, NodeMember, node.Kind)
	require.Equal(t, "c", node.Member)
	require.True(t, node.Arrow)
	require.Equal(t, NodeIndex, node.Object.Kind)
	require.Equal(t, NodeMember, node.Object.Array.Kind)
	require.Equal(t, "b", node.Object.Array.Member)
	require.False(t, node.Object.Array.Arrow)
}

func TestParseUnaryChain(t *testing.T) {
	node := mustParse(t, "*&x")
	require.Equal(t, NodeUnary, node.Kind)
	require.Equal(t, "*", node.Op)
	require.Equal(t, NodeUnary, node.Operand.Kind)
	require.Equal(t, "&", node.Operand.Op)
	require.Equal(t, NodeIdentifier, node.Operand.Operand.Kind)
}

func TestParseTrailingTokenErrors(t *testing.T) {
	tokens, err := Lex("1 + 2)")
	require.NoError(t, err)
	_, err = Parse(tokens)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrParse)
}

func TestParseUnclosedParenErrors(t *testing.T) {
	tokens, err := Lex("(1 + 2")
	require.NoError(t, err)
	_, err = Parse(tokens)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrParse)
}
