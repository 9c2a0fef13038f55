package cdbgexpr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLexNumbers(t *testing.T) {
	cases := []struct {
		src        string
		wantUint   uint64
		wantFloat  float64
		wantIsFlt  bool
		wantUnsign bool
	}{
		{"42", 42, 0, false, false},
		{"0x2A", 42, 0, false, false},
		{"0b101010", 42, 0, false, false},
		{"42u", 42, 0, false, true},
		{"3.5", 0, 3.5, true, false},
		{"1e3", 0, 1000, true, false},
		{"2.0f", 0, 2.0, true, false},
	}
	for _, tc := range cases {
		tokens, err := Lex(tc.src)
		require.NoError(t, err, tc.src)
		require.Len(t, tokens, 1, tc.src)
		tok := tokens[0]
		require.Equal(t, TokenNumber, tok.Kind, tc.src)
		if tc.wantIsFlt {
			require.True(t, tok.IsFloatLit, tc.src)
			require.InDelta(t, tc.wantFloat, tok.FloatValue, 1e-9, tc.src)
		} else {
			require.False(t, tok.IsFloatLit, tc.src)
			require.Equal(t, tc.wantUint, tok.NumValue, tc.src)
			require.Equal(t, tc.wantUnsign, tok.IsUnsigned, tc.src)
		}
	}
}

func TestLexUnaryVsBinaryDisambiguation(t *testing.T) {
	tokens, err := Lex("-x + -1")
	require.NoError(t, err)
	require.Equal(t, TokenUnaryOperator, tokens[0].Kind)
	require.Equal(t, TokenSymbol, tokens[1].Kind)
	require.Equal(t, TokenOperator, tokens[2].Kind)
	require.Equal(t, TokenUnaryOperator, tokens[3].Kind)
}

func TestLexStringEscapes(t *testing.T) {
	tokens, err := Lex(`"a\nb"`)
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	require.Equal(t, "a\nb", tokens[0].Text)
}

func TestLexMemberAccessOperators(t *testing.T) {
	tokens, err := Lex("a.b->c")
	require.NoError(t, err)
	require.Equal(t, TokenSymbol, tokens[0].Kind)
	require.Equal(t, TokenMemberAccess, tokens[1].Kind)
	require.Equal(t, ".", tokens[1].Text)
	require.Equal(t, TokenSymbol, tokens[2].Kind)
	require.Equal(t, TokenMemberAccess, tokens[3].Kind)
	require.Equal(t, "->", tokens[3].Text)
	require.Equal(t, TokenSymbol, tokens[4].Kind)
}

func TestLexUnterminatedStringErrors(t *testing.T) {
	_, err := Lex(`"abc`)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrLex)
}

func TestLexUnexpectedCharacter(t *testing.T) {
	_, err := Lex("a $ b")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrLex)
}
