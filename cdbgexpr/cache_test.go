package cdbgexpr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestASTCacheReturnsSameNodeOnHit(t *testing.T) {
	c := newASTCache()
	first, err := c.getOrParse("1 + 2")
	require.NoError(t, err)
	second, err := c.getOrParse("1 + 2")
	require.NoError(t, err)
	require.Same(t, first, second)
}

func TestASTCacheDistinguishesDifferentSource(t *testing.T) {
	c := newASTCache()
	a, err := c.getOrParse("1 + 2")
	require.NoError(t, err)
	b, err := c.getOrParse("1 + 3")
	require.NoError(t, err)
	require.NotSame(t, a, b)
}

func TestASTCachePropagatesParseErrors(t *testing.T) {
	c := newASTCache()
	_, err := c.getOrParse("1 +")
	require.Error(t, err)
}
