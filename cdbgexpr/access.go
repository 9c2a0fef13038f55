package cdbgexpr

// DebugAccess is the port the core requires of its host (spec.md §4.1,
// §6.2). The core never constructs addresses on its own; every byte,
// register, and stack-pointer read or write is mediated here, and every
// identifier lookup routes through LookupSymbol.
//
// Implementations are expected to represent a *paused* debuggee: reads taken
// during a single Eval call should observe a consistent snapshot (spec.md
// §5). The core does not retry or roll back a failed write.
type DebugAccess interface {
	// LookupSymbol resolves a bare identifier to a descriptor already bound
	// to storage (global address, stack-relative offset, register list, or
	// immediate enum/literal value). It fails with ErrUndefinedSymbol.
	LookupSymbol(name string) (*SymbolDescriptor, error)

	// ReadByte/WriteByte give byte-granular access to the debuggee's memory.
	ReadByte(addr uint64) (uint8, error)
	WriteByte(addr uint64, v uint8) error

	// ReadRegister/WriteRegister give byte-granular access to the debuggee's
	// register file. A multi-byte register-resident value is modeled as an
	// ordered list of register IDs, one byte per ID (SymbolDescriptor.Regs).
	ReadRegister(regID uint8) (uint8, error)
	WriteRegister(regID uint8, v uint8) error

	// StackPointer returns the live stack pointer, used to resolve
	// stack-relative (frame-local) storage.
	StackPointer() (uint64, error)

	// TypeSize returns the byte width of a primitive type layer. It is
	// host-controlled so the same core can serve 16-, 32-, or 64-bit
	// targets.
	TypeSize(t CType) uint8

	// MemberInfo resolves a struct/union field by name against the host's
	// symbol table, returning the field's own type layer, whether that
	// field is declared unsigned, and its byte offset from the start of
	// owner. It fails with ErrMemberNotFound.
	MemberInfo(owner CType, member string) (CType, bool, uint64, error)

	// MemberNames returns owner's field names in declaration order, used
	// only by Format to print a struct/union value as `Tag{ m1 = ..., }`
	// (spec.md §4.7). It fails with ErrMemberNotFound if owner is not a
	// known struct/union tag.
	MemberNames(owner CType) ([]string, error)

	// InvalidAddress is the sentinel address produced by & applied to a
	// non-lvalue.
	InvalidAddress() uint64
}

// ScopeKind classifies where a looked-up name came from. It is purely
// informative: the core's evaluation semantics never branch on it. Restored
// from original_source/include/SymbolDescriptor.h's `Scope` struct, which
// spec.md's distillation dropped; a host formatting a watch window benefits
// from knowing whether a name is a global, a frame-local, or a struct field.
type ScopeKind int

const (
	ScopeUnknown ScopeKind = iota
	ScopeGlobal
	ScopeFunction
	ScopeFile
	ScopeStruct
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeFunction:
		return "function"
	case ScopeFile:
		return "file"
	case ScopeStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// Scope is the informative scope tag a DebugAccess implementation may attach
// to a looked-up SymbolDescriptor.
type Scope struct {
	Kind ScopeKind
	Name string
}
