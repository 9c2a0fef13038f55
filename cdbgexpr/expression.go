package cdbgexpr

import (
	"github.com/google/uuid"
)

// Expression is the package's external façade (spec.md §4.9): a host binds
// one Expression to one DebugAccess and repeatedly calls Eval as the
// debuggee stops at breakpoints, reusing the parsed AST across stops via
// the internal cache.
type Expression struct {
	access DebugAccess
	cache  *astCache
	trace  *Trace

	// id correlates every recorded trace line back to this Expression
	// instance across a long session with many watch expressions live at
	// once.
	id string
}

// New builds an Expression bound to access. Call EnableTrace afterward if
// a journal of every evaluation is wanted.
func New(access DebugAccess) *Expression {
	return &Expression{
		access: access,
		cache:  newASTCache(),
		id:     uuid.NewString(),
	}
}

// EnableTrace turns on the compressed evaluation journal (see trace.go).
// It is a no-op if already enabled.
func (e *Expression) EnableTrace() error {
	if e.trace != nil {
		return nil
	}
	t, err := NewTrace()
	if err != nil {
		return err
	}
	e.trace = t
	return nil
}

// TraceBytes returns the flate-compressed journal accumulated so far, or
// nil if tracing was never enabled.
func (e *Expression) TraceBytes() ([]byte, error) {
	if e.trace == nil {
		return nil, nil
	}
	return e.trace.Bytes()
}

// Eval lexes (from cache where possible), parses, and evaluates src
// against the bound DebugAccess, returning the resulting typed value.
// Re-parsing is skipped on a cache hit, but evaluation always re-reads
// storage: spec.md §5 guarantees only that a *single* Eval call observes a
// consistent snapshot, not that two calls with the same source text see
// the same value.
//
// allowAssignment gates `=`/compound-assignment anywhere in src (spec.md
// §4.8, §6.1's `eval(source, allowAssignment)` entry point); it is the
// per-evaluation-call context spec.md §5 describes, never persisted
// between calls.
func (e *Expression) Eval(src string, allowAssignment bool) (*SymbolDescriptor, error) {
	node, err := e.cache.getOrParse(src)
	if err != nil {
		return nil, err
	}
	result, err := Eval(node, e.access, allowAssignment)
	if e.trace != nil {
		e.trace.record(e.id, node, result, e.access, err)
	}
	return result, err
}

// EvalAndFormat evaluates src and renders the result via Format, the
// common case for a watch-window host.
func (e *Expression) EvalAndFormat(src string, allowAssignment bool) (string, error) {
	result, err := e.Eval(src, allowAssignment)
	if err != nil {
		return "", err
	}
	return Format(result, e.access)
}

// TypeOf evaluates src purely to report its static type, per spec.md
// §4.9's "type of an expression without committing to a read" need (a
// watch window often wants to show a type column without the value having
// changed the displayed row's storage assumptions). Assignment is never
// permitted here: a type query must not be able to mutate the debuggee.
func (e *Expression) TypeOf(src string) (string, error) {
	result, err := e.Eval(src, false)
	if err != nil {
		return "", err
	}
	return TypeString(result.Types, result.IsUnsigned), nil
}
