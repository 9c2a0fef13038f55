/*
Package cdbgexpr evaluates C-like expressions against a paused debuggee.

	source text
	     |
	     v
	   lexer.go    -- Lex: characters -> []Token
	     |
	     v
	  parser.go    -- Parse: []Token -> *Node (precedence climbing,
	     |                    driven by operators.go's table)
	     v
	   ast.go      -- Eval: *Node -> *SymbolDescriptor, post-order,
	     |                    dispatching into symbol.go/arithmetic.go
	     v
	  format.go    -- Format/TypeString: *SymbolDescriptor -> string

A SymbolDescriptor (symbol.go) is a typed value bound to at most one
storage location: register file, stack-relative offset, absolute address,
or a pure immediate. Exactly one of those applies, in that priority order.
Every operator in arithmetic.go and every structural operation in
symbol.go (Dereference, AddressOf, Member, Index, Assign) takes the
current descriptor(s) and a DebugAccess (access.go) and returns a brand
new descriptor; nothing is mutated in place, so the same sub-expression
result can be reused or reported in an error without fear of it having
changed underneath the caller.

DebugAccess is the only way the core touches the outside world: byte
reads/writes, register reads/writes, the live stack pointer, primitive
type sizes, struct member layout, and identifier lookup all go through
it. The core holds no static/global debuggee state; a host passes its
DebugAccess explicitly into every Expression it creates (expression.go),
so multiple debuggees (or multiple stopped threads of one debuggee) can
be evaluated against concurrently without interfering with each other.

cache.go and trace.go are host-convenience layers on top of this core:
neither is required for correct evaluation, and neither is visible to
Eval's result.
*/
package cdbgexpr
