// Package fixture provides an in-memory cdbgexpr.DebugAccess
// implementation, configured from a small YAML image, for tests and for
// the demo CLI in cmd/cdbgexpr. It plays the role vm/devices.go's
// HardwareDevice implementations play for the teacher's VM: a reference
// backing store a host embeds to exercise the core without a real
// debuggee attached.
package fixture

import (
	"fmt"
	"sort"

	"golang.org/x/crypto/blake2b"
	"sigs.k8s.io/yaml"

	"github.com/Rbel12b/CdbgExpr/cdbgexpr"
)

// Image is the YAML-described initial state of an Access: memory bytes,
// register file, stack pointer, and the symbol/struct tables a debuggee's
// compiler would otherwise have emitted as DWARF.
type Image struct {
	StackPointer uint64            `json:"stackPointer"`
	PointerSize  uint8             `json:"pointerSize"`
	TypeSizes    map[string]uint8  `json:"typeSizes"`
	Registers    map[uint8]uint8   `json:"registers"`
	Memory       []MemoryRegion    `json:"memory"`
	Symbols      []SymbolSpec      `json:"symbols"`
	Structs      []StructSpec      `json:"structs"`
}

// MemoryRegion seeds a contiguous run of bytes starting at Address.
type MemoryRegion struct {
	Address uint64 `json:"address"`
	Bytes   []byte `json:"bytes"`
}

// SymbolSpec describes one top-level identifier's type and storage.
type SymbolSpec struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Unsigned    bool     `json:"unsigned"`
	Scope       string   `json:"scope"`
	Storage     string   `json:"storage"` // "register" | "stack" | "address" | "immediate"
	Registers   []uint8  `json:"registers,omitempty"`
	StackOffset int64    `json:"stackOffset,omitempty"`
	Address     uint64   `json:"address,omitempty"`
	Immediate   uint64   `json:"immediate,omitempty"`
}

// StructSpec describes one struct/union tag's member layout, the piece
// original_source's compiler-driven debug info would supply and this
// fixture supplies by hand instead.
type StructSpec struct {
	Name    string        `json:"name"`
	Members []MemberSpec  `json:"members"`
}

// MemberSpec is one field of a StructSpec.
type MemberSpec struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Unsigned bool   `json:"unsigned"`
	Offset   uint64 `json:"offset"`
}

// LoadImage parses a YAML image document. sigs.k8s.io/yaml round-trips
// through encoding/json so Image's `json` struct tags double as its YAML
// schema, the same convention the retrieval pack's SnellerInc-sneller
// config loader relies on.
func LoadImage(doc []byte) (*Image, error) {
	var img Image
	if err := yaml.Unmarshal(doc, &img); err != nil {
		return nil, fmt.Errorf("fixture: parsing image: %w", err)
	}
	return &img, nil
}

// Access implements cdbgexpr.DebugAccess over an Image's state, held
// entirely in process memory.
type Access struct {
	stackPointer uint64
	pointerSize  uint8
	typeSizes    map[string]uint8
	registers    map[uint8]uint8
	memory       map[uint64]uint8
	symbols      map[string]SymbolSpec
	structs      map[string]StructSpec
}

// New builds an Access from img, copying its seed state so repeated runs
// against the same Image value don't observe each other's writes.
func New(img *Image) *Access {
	a := &Access{
		stackPointer: img.StackPointer,
		pointerSize:  img.PointerSize,
		typeSizes:    make(map[string]uint8, len(img.TypeSizes)),
		registers:    make(map[uint8]uint8, len(img.Registers)),
		memory:       make(map[uint64]uint8),
		symbols:      make(map[string]SymbolSpec, len(img.Symbols)),
		structs:      make(map[string]StructSpec, len(img.Structs)),
	}
	if a.pointerSize == 0 {
		a.pointerSize = 8
	}
	for k, v := range img.TypeSizes {
		a.typeSizes[k] = v
	}
	for k, v := range img.Registers {
		a.registers[k] = v
	}
	for _, region := range img.Memory {
		for i, b := range region.Bytes {
			a.memory[region.Address+uint64(i)] = b
		}
	}
	for _, sym := range img.Symbols {
		a.symbols[sym.Name] = sym
	}
	for _, st := range img.Structs {
		a.structs[st.Name] = st
	}
	return a
}

var defaultSizes = map[string]uint8{
	"void": 0, "bool": 1, "char": 1, "short": 2, "int": 4,
	"long": 8, "long long": 8, "float": 4, "double": 8,
}

// TypeSize implements cdbgexpr.DebugAccess. Struct/union/bitfield sizes
// come from the image's typeSizes overrides (a real host would derive
// these from struct member layout; this fixture keeps it declarative);
// everything else falls back to defaultSizes, then to the image's pointer
// size for POINTER.
func (a *Access) TypeSize(t cdbgexpr.CType) uint8 {
	if t.Kind == 0 { // KindVoid
		return 0
	}
	name := t.Kind.String()
	if sz, ok := a.typeSizes[name]; ok {
		return sz
	}
	if name == "pointer" {
		return a.pointerSize
	}
	if sz, ok := defaultSizes[name]; ok {
		return sz
	}
	return 0
}

// ReadByte/WriteByte implement cdbgexpr.DebugAccess over the in-memory
// sparse byte map; an unmapped address reads as zero rather than erroring,
// matching a freshly-zeroed debuggee segment.
func (a *Access) ReadByte(addr uint64) (uint8, error) {
	return a.memory[addr], nil
}

func (a *Access) WriteByte(addr uint64, v uint8) error {
	a.memory[addr] = v
	return nil
}

// ReadRegister/WriteRegister implement cdbgexpr.DebugAccess over a small
// register file; reading an undeclared register ID is a host configuration
// error, not silently zero, since register IDs are a closed set the image
// must declare.
func (a *Access) ReadRegister(regID uint8) (uint8, error) {
	v, ok := a.registers[regID]
	if !ok {
		return 0, fmt.Errorf("fixture: register %d not present in image", regID)
	}
	return v, nil
}

func (a *Access) WriteRegister(regID uint8, v uint8) error {
	if _, ok := a.registers[regID]; !ok {
		return fmt.Errorf("fixture: register %d not present in image", regID)
	}
	a.registers[regID] = v
	return nil
}

func (a *Access) StackPointer() (uint64, error) {
	return a.stackPointer, nil
}

// SetStackPointer lets a test move the simulated frame between Eval calls.
func (a *Access) SetStackPointer(sp uint64) {
	a.stackPointer = sp
}

func (a *Access) InvalidAddress() uint64 {
	return ^uint64(0)
}

// LookupSymbol implements cdbgexpr.DebugAccess, building a fresh
// *cdbgexpr.SymbolDescriptor from the matching SymbolSpec on every call —
// matching spec.md §5's "re-resolved per Eval" model rather than caching a
// descriptor across calls.
func (a *Access) LookupSymbol(name string) (*cdbgexpr.SymbolDescriptor, error) {
	spec, ok := a.symbols[name]
	if !ok {
		return nil, fmt.Errorf("fixture: symbol %q not declared in image: %w", name, cdbgexpr.ErrUndefinedSymbol)
	}
	return symbolFromSpec(spec)
}

func symbolFromSpec(spec SymbolSpec) (*cdbgexpr.SymbolDescriptor, error) {
	types, parsedUnsigned, err := cdbgexpr.ParseTypeString(spec.Type)
	if err != nil {
		return nil, err
	}
	isUnsigned := spec.Unsigned || parsedUnsigned

	sym := &cdbgexpr.SymbolDescriptor{
		Types:      types,
		IsUnsigned: isUnsigned,
		Name:       spec.Name,
		Scope:      scopeFromString(spec.Scope, spec.Name),
	}

	switch spec.Storage {
	case "register":
		sym.Regs = append([]uint8(nil), spec.Registers...)
	case "stack":
		sym.HasStack = true
		sym.StackOffset = spec.StackOffset
	case "address":
		sym.HasAddress = true
		sym.Address = spec.Address
	case "immediate", "":
		sym.Immediate = spec.Immediate
	default:
		return nil, fmt.Errorf("fixture: symbol %q has unknown storage kind %q", spec.Name, spec.Storage)
	}
	return sym, nil
}

func scopeFromString(s, name string) cdbgexpr.Scope {
	kind := cdbgexpr.ScopeUnknown
	switch s {
	case "global":
		kind = cdbgexpr.ScopeGlobal
	case "function":
		kind = cdbgexpr.ScopeFunction
	case "file":
		kind = cdbgexpr.ScopeFile
	case "struct":
		kind = cdbgexpr.ScopeStruct
	}
	return cdbgexpr.Scope{Kind: kind, Name: name}
}

// MemberInfo implements cdbgexpr.DebugAccess by looking up owner's struct
// tag in the image's struct table.
func (a *Access) MemberInfo(owner cdbgexpr.CType, member string) (cdbgexpr.CType, bool, uint64, error) {
	st, ok := a.structs[owner.Name]
	if !ok {
		return cdbgexpr.CType{}, false, 0, fmt.Errorf("struct %q not declared in image: %w", owner.Name, cdbgexpr.ErrMemberNotFound)
	}
	for _, m := range st.Members {
		if m.Name == member {
			types, isUnsigned, err := cdbgexpr.ParseTypeString(m.Type)
			if err != nil {
				return cdbgexpr.CType{}, false, 0, err
			}
			return types.Head(), m.Unsigned || isUnsigned, m.Offset, nil
		}
	}
	return cdbgexpr.CType{}, false, 0, fmt.Errorf("struct %q has no member %q: %w", owner.Name, member, cdbgexpr.ErrMemberNotFound)
}

// MemberNames implements cdbgexpr.DebugAccess, returning owner's fields in
// the declaration order the image listed them in.
func (a *Access) MemberNames(owner cdbgexpr.CType) ([]string, error) {
	st, ok := a.structs[owner.Name]
	if !ok {
		return nil, fmt.Errorf("struct %q not declared in image: %w", owner.Name, cdbgexpr.ErrMemberNotFound)
	}
	names := make([]string, 0, len(st.Members))
	for _, m := range st.Members {
		names = append(names, m.Name)
	}
	return names, nil
}

// Checksum hashes every currently-mapped memory byte with BLAKE2b-256,
// sorted by address so the result is deterministic regardless of Go's map
// iteration order. Tests use this to assert "no write occurred": compute
// Checksum before and after an Eval that is expected to be read-only and
// compare.
func (a *Access) Checksum() ([32]byte, error) {
	addrs := make([]uint64, 0, len(a.memory))
	for addr := range a.memory {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	h, err := blake2b.New256(nil)
	if err != nil {
		return [32]byte{}, fmt.Errorf("fixture: creating checksum hasher: %w", err)
	}
	for _, addr := range addrs {
		fmt.Fprintf(h, "%d:%d;", addr, a.memory[addr])
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out, nil
}

// RegisterSnapshot returns a copy of the register file, for the same
// before/after comparison Checksum gives memory.
func (a *Access) RegisterSnapshot() map[uint8]uint8 {
	out := make(map[uint8]uint8, len(a.registers))
	for k, v := range a.registers {
		out[k] = v
	}
	return out
}
