package cdbgexpr

import (
	"sync"

	"github.com/dchest/siphash"
)

// astCache memoizes Lex+Parse by source text, keyed with SipHash-2-4 rather
// than the source string itself, so the cache's memory footprint does not
// grow with expression length the way a map[string]*Node would. Re-parsing
// the same watch expression on every stopped-breakpoint redraw is wasted
// work in an interactive debugger host; spec.md §5 only requires Eval to
// run fresh each time (storage may have changed), so only the parse result
// is cached, never the evaluated value.
type astCache struct {
	mu    sync.Mutex
	key0  uint64
	key1  uint64
	byKey map[uint64]*Node
}

// newASTCache seeds the SipHash keys once; they only need to be stable for
// the lifetime of a single cache instance, not cryptographically secret.
func newASTCache() *astCache {
	return &astCache{
		key0:  0x636462676578706c,
		key1:  0x7220636163686520,
		byKey: make(map[uint64]*Node),
	}
}

func (c *astCache) hashKey(src string) uint64 {
	return siphash.Hash(c.key0, c.key1, []byte(src))
}

// getOrParse returns a cached AST for src, or lexes/parses and caches it.
func (c *astCache) getOrParse(src string) (*Node, error) {
	key := c.hashKey(src)

	c.mu.Lock()
	if node, ok := c.byKey[key]; ok {
		c.mu.Unlock()
		return node, nil
	}
	c.mu.Unlock()

	tokens, err := Lex(src)
	if err != nil {
		return nil, err
	}
	node, err := Parse(tokens)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.byKey[key] = node
	c.mu.Unlock()
	return node, nil
}
