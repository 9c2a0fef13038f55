package cdbgexpr

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// Trace accumulates a journal of an Expression's evaluations, one line per
// Eval call, flate-compressed as it grows. A host embedding this core in a long-lived
// debug session can keep one Trace per watch expression across thousands
// of stop events without the journal dominating memory, at the cost of
// decompressing to inspect it.
type Trace struct {
	buf    bytes.Buffer
	w      *flate.Writer
	closed bool
}

// NewTrace starts a trace journal at flate's default compression level.
func NewTrace() (*Trace, error) {
	t := &Trace{}
	w, err := flate.NewWriter(&t.buf, flate.DefaultCompression)
	if err != nil {
		return nil, fmt.Errorf("cdbgexpr: starting trace writer: %w", err)
	}
	t.w = w
	return t, nil
}

// record appends one journal line: the correlation ID, the node kind
// evaluated, and the resulting value's formatted text (or an error).
func (t *Trace) record(id string, n *Node, result *SymbolDescriptor, access DebugAccess, evalErr error) {
	if t == nil {
		return
	}
	if evalErr != nil {
		fmt.Fprintf(t.w, "%s node=%d err=%v\n", id, n.Kind, evalErr)
		return
	}
	text, err := Format(result, access)
	if err != nil {
		text = "<unformattable>"
	}
	fmt.Fprintf(t.w, "%s node=%d value=%s\n", id, n.Kind, text)
}

// Bytes flushes and returns the compressed journal accumulated so far. The
// Trace remains usable afterward; subsequent records start a new flate
// block. After Close it returns the finalized journal without flushing.
func (t *Trace) Bytes() ([]byte, error) {
	if !t.closed {
		if err := t.w.Flush(); err != nil {
			return nil, fmt.Errorf("cdbgexpr: flushing trace: %w", err)
		}
	}
	out := make([]byte, t.buf.Len())
	copy(out, t.buf.Bytes())
	return out, nil
}

// Close finalizes the journal; no further records should be made.
func (t *Trace) Close() error {
	t.closed = true
	return t.w.Close()
}

// ReadTrace decompresses a journal produced by Trace.Bytes/Close for
// offline inspection.
func ReadTrace(compressed []byte) (string, error) {
	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("cdbgexpr: reading trace: %w", err)
	}
	return string(data), nil
}
